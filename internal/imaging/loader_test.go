package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// writePNG encodes img into dir/name and returns the path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, t.TempDir(), "frame.png", createInMemoryImage(100, 80, color.White))

	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := first.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Errorf("bounds = %v, want 100x80", b)
	}

	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if first != second {
		t.Error("second Load should hit the cache")
	}

	// Unclean spellings of the same path share the entry
	if _, err := cache.Load(filepath.Join(filepath.Dir(path), ".", "frame.png")); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestImageCache_ReloadsChangedFile(t *testing.T) {
	cache := NewImageCache()
	dir := t.TempDir()
	path := writePNG(t, dir, "latest.png", createInMemoryImage(10, 10, color.Black))

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// The camera overwrites the frame
	writePNG(t, dir, "latest.png", createInMemoryImage(20, 10, color.White))
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("width = %d, want the rewritten frame's 20", img.Bounds().Dx())
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	cache := NewImageCache()
	dir := t.TempDir()

	if _, err := cache.Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Load should fail for a missing file")
	}

	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(bad); err == nil {
		t.Error("Load should fail for invalid image data")
	}
	if cache.Len() != 0 {
		t.Errorf("failed loads should not be cached, Len = %d", cache.Len())
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	cache := NewImageCache()
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", createInMemoryImage(5, 5, color.Black))
	b := writePNG(t, dir, "b.png", createInMemoryImage(5, 5, color.White))

	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	cache.Evict(a)
	cache.Evict(filepath.Join(dir, "never-loaded.png"))
	if cache.Len() != 1 {
		t.Errorf("Len after Evict = %d, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, t.TempDir(), "frame.png", createInMemoryImage(50, 50, color.Gray{Y: 128}))

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writePNG(t, t.TempDir(), "pattern.png", createPatternImage(60, 40))

	img, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if img.Bounds().Dx() != 60 || img.Bounds().Dy() != 40 {
		t.Errorf("dimensions: got %dx%d, want 60x40", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// Top-left quadrant is red
	r, g, _, _ := img.At(5, 5).RGBA()
	if r>>8 != 255 || g>>8 != 0 {
		t.Errorf("pixel (5,5) = %v, want red", img.At(5, 5))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadFile should fail for a missing file")
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createPatternImage(8, 8)); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}

	img, format, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("width = %d, want 8", img.Bounds().Dx())
	}

	if _, _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("Decode should fail for invalid data")
	}
}
