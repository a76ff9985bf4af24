package gauge

import (
	"github.com/ironsheep/gauge-reader/internal/geometry"
)

// tickInnerRatio places the inner end of each tick mark at 90% of the
// radius.
const tickInnerRatio = 0.9

// Calibrate builds the angular reference frame for a located face.
//
// Ticks are laid out every SeparationDeg degrees starting at +x and
// turning clockwise on screen (image y grows downward). The zero point is
// the inner end of the start tick, truncated to integer pixels. Calibrate
// is pure: the same inputs always give an identical frame.
func Calibrate(g CircleGeometry, cfg CalibrationConfig) (ReferenceFrame, error) {
	if g.Radius <= 0 {
		return ReferenceFrame{}, &GeometryError{Msg: "circle radius must be positive"}
	}
	sweep, err := cfg.Sweep()
	if err != nil {
		return ReferenceFrame{}, err
	}

	center := g.Center().Vec()
	r := float64(g.Radius)
	ticks := make([]Tick, sweep.Interval)
	for i := range ticks {
		theta := float64(i) * cfg.SeparationDeg
		ticks[i] = Tick{
			Index:    i,
			AngleDeg: theta,
			Inner:    geometry.PolarPoint(center, tickInnerRatio*r, theta),
			Outer:    geometry.PolarPoint(center, r, theta),
		}
	}

	return ReferenceFrame{
		Geometry:    g,
		ZeroPoint:   ticks[sweep.Start].Inner.Trunc(),
		MinAngleDeg: cfg.MinAngleDeg,
		MaxAngleDeg: cfg.MaxAngleDeg,
		MinValue:    cfg.MinValue,
		MaxValue:    cfg.MaxValue,
		Units:       cfg.Units,
		Ticks:       ticks,
		SweepStart:  sweep.Start,
		SweepEnd:    sweep.End,
	}, nil
}
