package detection

import (
	"math"
	"testing"
)

func testLineParams() LineParams {
	return LineParams{
		Rho:           1,
		Theta:         math.Pi / 180,
		Threshold:     40,
		MinLineLength: 50,
		MaxLineGap:    5,
		Seed:          1,
	}
}

func TestHoughLinesP_Horizontal(t *testing.T) {
	edges := createBinaryLine(200, 100, 20, 50, 180, 50)

	lines := HoughLinesP(edges, testLineParams())
	if len(lines) != 1 {
		t.Fatalf("expected 1 segment, got %d: %+v", len(lines), lines)
	}

	s := lines[0]
	if s.Start.Y != 50 || s.End.Y != 50 {
		t.Errorf("segment should be horizontal at y=50, got %+v", s)
	}
	if s.Length() < 150 {
		t.Errorf("segment length: got %.1f, want ~160", s.Length())
	}
}

func TestHoughLinesP_Vertical(t *testing.T) {
	edges := createBinaryLine(100, 200, 40, 10, 40, 190)

	lines := HoughLinesP(edges, testLineParams())
	if len(lines) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(lines))
	}
	if lines[0].Start.X != 40 || lines[0].End.X != 40 {
		t.Errorf("segment should be vertical at x=40, got %+v", lines[0])
	}
}

func TestHoughLinesP_Diagonal(t *testing.T) {
	edges := createBinaryLine(200, 200, 20, 20, 170, 170)

	lines := HoughLinesP(edges, testLineParams())
	if len(lines) == 0 {
		t.Fatal("expected a diagonal segment")
	}

	s := lines[0]
	angle := math.Atan2(float64(s.End.Y-s.Start.Y), float64(s.End.X-s.Start.X)) * 180 / math.Pi
	if math.Abs(math.Abs(angle)-45) > 2 && math.Abs(math.Abs(angle)-135) > 2 {
		t.Errorf("diagonal angle: got %.1f, want ±45 or ±135", angle)
	}
}

func TestHoughLinesP_MinLength(t *testing.T) {
	edges := createBinaryLine(200, 100, 80, 50, 110, 50)

	p := testLineParams()
	p.Threshold = 10
	lines := HoughLinesP(edges, p)
	if len(lines) != 0 {
		t.Errorf("30px line should be rejected with MinLineLength=50, got %+v", lines)
	}
}

func TestHoughLinesP_GapBridging(t *testing.T) {
	edges := createBinaryLine(200, 100, 20, 50, 180, 50)
	for x := 95; x < 99; x++ {
		edges.Pix[50*edges.Stride+x] = 0
	}

	lines := HoughLinesP(edges, testLineParams())
	if len(lines) != 1 {
		t.Fatalf("a 4px gap should be bridged into one segment, got %d", len(lines))
	}
	if lines[0].Length() < 150 {
		t.Errorf("bridged segment too short: %.1f", lines[0].Length())
	}
}

func TestHoughLinesP_EmptyImage(t *testing.T) {
	edges := createTestImage(100, 100, 0)

	lines := HoughLinesP(edges, DefaultLineParams())
	if lines == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(lines) != 0 {
		t.Errorf("expected 0 lines, got %d", len(lines))
	}
}

func TestHoughLinesP_SeedReproducible(t *testing.T) {
	edges := createBinaryLine(200, 200, 10, 30, 190, 150)
	more := createBinaryLine(200, 200, 30, 180, 180, 20)
	for i, v := range more.Pix {
		if v != 0 {
			edges.Pix[i] = v
		}
	}

	a := HoughLinesP(edges, testLineParams())
	b := HoughLinesP(edges, testLineParams())
	if len(a) != len(b) {
		t.Fatalf("repeated runs differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("segment %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
