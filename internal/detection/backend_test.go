package detection

import "testing"

func TestLookup(t *testing.T) {
	b, err := Lookup("native")
	if err != nil {
		t.Fatalf("Lookup(native) failed: %v", err)
	}
	if b.Name() != "native" {
		t.Errorf("Name: got %s, want native", b.Name())
	}

	if _, err := Lookup("NATIVE"); err != nil {
		t.Errorf("lookup should be case-insensitive: %v", err)
	}

	def, err := Lookup("")
	if err != nil || def == nil {
		t.Fatalf("empty name should return the default backend, got %v, %v", def, err)
	}

	if _, err := Lookup("nope"); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestNative_Canny(t *testing.T) {
	img := createRingImage(80, 80, 40, 40, 20, 1.5)

	edges, err := Native{}.Canny(img, 50, 100)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	if countNonZero(edges) == 0 {
		t.Error("expected edges")
	}
}

func TestAvailable_IncludesNative(t *testing.T) {
	found := false
	for _, name := range Available() {
		if name == "native" {
			found = true
		}
	}
	if !found {
		t.Errorf("native missing from %v", Available())
	}
}
