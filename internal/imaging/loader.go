package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Decode decodes an image in any registered format and reports the format
// name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// LoadFile decodes the image at path without caching it.
func LoadFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := Decode(f)
	return img, err
}

// ImageCache keeps decoded frames keyed by path. A cached frame is reused
// only while the file's size and modification time are unchanged, so a
// camera that overwrites the same file is always read fresh.
//
// ImageCache is safe for concurrent use.
type ImageCache struct {
	mu     sync.RWMutex
	frames map[string]cachedFrame
}

type cachedFrame struct {
	img     image.Image
	size    int64
	modTime time.Time
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{frames: make(map[string]cachedFrame)}
}

// Load returns the decoded image at path, from the cache when the file has
// not changed since it was last decoded.
func (c *ImageCache) Load(path string) (image.Image, error) {
	key := filepath.Clean(path)
	info, err := os.Stat(key)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.RLock()
	f, ok := c.frames[key]
	c.mu.RUnlock()
	if ok && f.size == info.Size() && f.modTime.Equal(info.ModTime()) {
		return f.img, nil
	}

	img, err := LoadFile(key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.frames[key] = cachedFrame{img: img, size: info.Size(), modTime: info.ModTime()}
	c.mu.Unlock()

	return img, nil
}

// Len reports the number of cached frames.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.frames)
}

// Clear drops every cached frame.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.frames = make(map[string]cachedFrame)
	c.mu.Unlock()
}

// Evict drops the frame cached for path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.frames, filepath.Clean(path))
	c.mu.Unlock()
}
