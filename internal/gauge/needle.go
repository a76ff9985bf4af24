package gauge

import (
	"fmt"
	"image"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/ironsheep/gauge-reader/internal/detection"
	"github.com/ironsheep/gauge-reader/internal/geometry"
)

// TieBreak selects one needle segment when line detection returns several.
type TieBreak string

const (
	// TieBreakLongest picks the longest segment. Earlier segments win ties.
	TieBreakLongest TieBreak = "longest"

	// TieBreakNearestCenter picks the segment whose supporting line passes
	// closest to the hub.
	TieBreakNearestCenter TieBreak = "nearest-center"

	// TieBreakFirst keeps the detector's first segment.
	TieBreakFirst TieBreak = "first"
)

// ParseTieBreak resolves a policy name. The empty string is
// TieBreakLongest.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(strings.ToLower(strings.TrimSpace(s))) {
	case "", TieBreakLongest:
		return TieBreakLongest, nil
	case TieBreakNearestCenter, "nearest":
		return TieBreakNearestCenter, nil
	case TieBreakFirst:
		return TieBreakFirst, nil
	}
	return "", fmt.Errorf("unknown tie-break policy %q (want longest, nearest-center or first)", s)
}

// NeedleParams tunes needle detection.
type NeedleParams struct {
	// Threshold and MaxValue binarise the image: pixels brighter than
	// Threshold become MaxValue, the rest black.
	Threshold uint8 `json:"threshold"`
	MaxValue  uint8 `json:"max_value"`

	CannyLow  float64 `json:"canny_low"`
	CannyHigh float64 `json:"canny_high"`

	Lines    detection.LineParams `json:"lines"`
	TieBreak TieBreak             `json:"tie_break"`
}

// DefaultNeedleParams returns threshold 80/190, Canny 75/100 and the
// default line parameters, breaking ties by length.
func DefaultNeedleParams() NeedleParams {
	return NeedleParams{
		Threshold: 80,
		MaxValue:  190,
		CannyLow:  75,
		CannyHigh: 100,
		Lines:     detection.DefaultLineParams(),
		TieBreak:  TieBreakLongest,
	}
}

// LocateNeedle finds the needle in img relative to center, which must be
// in img's coordinate space. All detected segments are returned for
// tracing.
func LocateNeedle(img image.Image, center geometry.Point, p NeedleParams, backend detection.Backend) (NeedleRay, []detection.Segment, error) {
	gray := detection.Grayscale(img)
	binary := detection.Threshold(gray, p.Threshold, p.MaxValue)

	edges, err := backend.Canny(binary, p.CannyLow, p.CannyHigh)
	if err != nil {
		return NeedleRay{}, nil, pkgerrors.Wrapf(err, "%s edge detection", backend.Name())
	}
	segments, err := backend.HoughLinesP(edges, p.Lines)
	if err != nil {
		return NeedleRay{}, nil, pkgerrors.Wrapf(err, "%s line detection", backend.Name())
	}

	seg, ok := SelectSegment(segments, center, p.TieBreak)
	if !ok {
		return NeedleRay{}, segments, ErrNoNeedle
	}
	return NeedleRay{Tip: farthestEndpoint(seg, center), Segment: seg}, segments, nil
}

// SelectSegment applies a tie-break policy. It reports false when segments
// is empty.
func SelectSegment(segments []detection.Segment, center geometry.Point, policy TieBreak) (detection.Segment, bool) {
	if len(segments) == 0 {
		return detection.Segment{}, false
	}

	best := 0
	switch policy {
	case TieBreakFirst:
	case TieBreakNearestCenter:
		bestDist := geometry.LineDistance(center, segments[0].Start, segments[0].End)
		for i, s := range segments[1:] {
			if d := geometry.LineDistance(center, s.Start, s.End); d < bestDist {
				best, bestDist = i+1, d
			}
		}
	default:
		bestLen := segments[0].Length()
		for i, s := range segments[1:] {
			if l := s.Length(); l > bestLen {
				best, bestLen = i+1, l
			}
		}
	}
	return segments[best], true
}

// farthestEndpoint returns whichever end of s lies farther from center.
// The hub end of a needle is the one near the center.
func farthestEndpoint(s detection.Segment, center geometry.Point) geometry.Point {
	if geometry.PointDistance(s.End, center) > geometry.PointDistance(s.Start, center) {
		return s.End
	}
	return s.Start
}
