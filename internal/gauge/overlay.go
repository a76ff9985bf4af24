package gauge

import (
	"fmt"
	"image"

	"github.com/ironsheep/gauge-reader/internal/geometry"
	"github.com/ironsheep/gauge-reader/internal/imaging"
)

// Annotation converts the completed stages of a trace into an overlay
// description in full-frame coordinates. Stages that did not run are
// left out.
func (t *Trace) Annotation() imaging.Annotation {
	var a imaging.Annotation
	if t == nil {
		return a
	}

	if t.Coarse != nil {
		a.Center = t.Coarse.Circle.Center()
		a.Radius = t.Coarse.Circle.Radius
	}

	if t.Refined != nil {
		f := t.Refined.Frame
		a.Offset = t.Refined.Offset
		a.Center = f.Geometry.Center()
		a.Radius = f.Geometry.Radius
		a.Ticks = make([]imaging.TickMark, len(f.Ticks))
		for i, tick := range f.Ticks {
			a.Ticks[i] = imaging.TickMark{
				Inner:   tick.Inner,
				Outer:   tick.Outer,
				OnSweep: i >= f.SweepStart && i < f.SweepEnd,
			}
		}
		zero := f.ZeroPoint
		a.Zero = &zero
	}

	if t.Needle != nil {
		seg := t.Needle.Needle.Segment
		tip := t.Needle.Needle.Tip
		a.Needle = &[2]geometry.Point{seg.Start, seg.End}
		a.Tip = &tip
		a.Label = fmt.Sprintf("%.2f %s", t.Needle.Reading.Value, t.Needle.Reading.Units)
	}
	return a
}

// RenderOverlay draws the trace over img, the full frame it was read from.
func RenderOverlay(img image.Image, t *Trace, style imaging.OverlayStyle) *image.NRGBA {
	return imaging.Annotate(img, t.Annotation(), style)
}
