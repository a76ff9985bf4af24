package gauge

import (
	"errors"
	"testing"

	"github.com/ironsheep/gauge-reader/internal/detection"
	"github.com/ironsheep/gauge-reader/internal/geometry"
)

func seg(x1, y1, x2, y2 int) detection.Segment {
	return detection.Segment{Start: geometry.Point{X: x1, Y: y1}, End: geometry.Point{X: x2, Y: y2}}
}

func TestParseTieBreak(t *testing.T) {
	tests := []struct {
		in   string
		want TieBreak
	}{
		{"", TieBreakLongest},
		{"longest", TieBreakLongest},
		{"Nearest-Center", TieBreakNearestCenter},
		{"first", TieBreakFirst},
	}
	for _, tt := range tests {
		got, err := ParseTieBreak(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseTieBreak(%q) = (%q, %v), want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseTieBreak("random"); err == nil {
		t.Error("ParseTieBreak should reject unknown policies")
	}
}

func TestSelectSegment(t *testing.T) {
	center := geometry.Point{X: 100, Y: 100}
	segments := []detection.Segment{
		seg(0, 0, 50, 0),      // short, far from center
		seg(0, 200, 300, 200), // longest, line passes 100px from center
		seg(100, 90, 100, 10), // points at the hub
	}

	tests := []struct {
		policy TieBreak
		want   int
	}{
		{TieBreakLongest, 1},
		{TieBreakNearestCenter, 2},
		{TieBreakFirst, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			got, ok := SelectSegment(segments, center, tt.policy)
			if !ok {
				t.Fatal("SelectSegment reported no segment")
			}
			if got != segments[tt.want] {
				t.Errorf("SelectSegment = %+v, want %+v", got, segments[tt.want])
			}
		})
	}

	if _, ok := SelectSegment(nil, center, TieBreakLongest); ok {
		t.Error("SelectSegment should report false for no segments")
	}
}

func TestSelectSegment_LongestTieKeepsFirst(t *testing.T) {
	segments := []detection.Segment{seg(0, 0, 100, 0), seg(0, 10, 0, 110)}
	got, _ := SelectSegment(segments, geometry.Point{}, TieBreakLongest)
	if got != segments[0] {
		t.Errorf("equal lengths should keep detector order, got %+v", got)
	}
}

func TestFarthestEndpoint(t *testing.T) {
	center := geometry.Point{X: 50, Y: 50}
	if got := farthestEndpoint(seg(52, 48, 150, 50), center); got != (geometry.Point{X: 150, Y: 50}) {
		t.Errorf("farthestEndpoint = %+v, want End", got)
	}
	if got := farthestEndpoint(seg(0, 50, 49, 50), center); got != (geometry.Point{X: 0, Y: 50}) {
		t.Errorf("farthestEndpoint = %+v, want Start", got)
	}
}

func TestLocateNeedle(t *testing.T) {
	img := createBlankImage(400, 400)
	drawSegment(img, geometry.Vec{X: 200, Y: 200}, geometry.Vec{X: 200, Y: 20}, 2)

	center := geometry.Point{X: 200, Y: 200}
	ray, segments, err := LocateNeedle(img, center, DefaultNeedleParams(), detection.Native{})
	if err != nil {
		t.Fatalf("LocateNeedle failed: %v", err)
	}
	if len(segments) == 0 {
		t.Fatal("expected at least one segment")
	}
	if abs(ray.Tip.X-200) > 4 || ray.Tip.Y > 30 {
		t.Errorf("tip = %+v, want near (200, 20)", ray.Tip)
	}
}

func TestLocateNeedle_NoLines(t *testing.T) {
	img := createBlankImage(200, 200)
	_, _, err := LocateNeedle(img, geometry.Point{X: 100, Y: 100}, DefaultNeedleParams(), detection.Native{})
	if !errors.Is(err, ErrNoNeedle) {
		t.Errorf("err = %v, want ErrNoNeedle", err)
	}
}
