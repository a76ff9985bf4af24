package gauge

import (
	"image"
	"math"

	pkgerrors "github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/gauge-reader/internal/detection"
)

// AverageCircles collapses Hough candidates into one face estimate: each
// of x, y and radius is the rounded arithmetic mean over all candidates.
// The result does not depend on candidate order.
func AverageCircles(candidates []detection.Circle) (CircleGeometry, error) {
	if len(candidates) == 0 {
		return CircleGeometry{}, ErrNoCircle
	}

	xs := make([]float64, len(candidates))
	ys := make([]float64, len(candidates))
	rs := make([]float64, len(candidates))
	for i, c := range candidates {
		xs[i], ys[i], rs[i] = c.X, c.Y, c.Radius
	}

	g := CircleGeometry{
		CenterX: int(math.Round(stat.Mean(xs, nil))),
		CenterY: int(math.Round(stat.Mean(ys, nil))),
		Radius:  int(math.Round(stat.Mean(rs, nil))),
	}
	if g.Radius <= 0 {
		return CircleGeometry{}, &GeometryError{Msg: "averaged circle radius is not positive"}
	}
	return g, nil
}

// LocateCircle runs circle detection on an already blurred grayscale image
// and averages the candidates. The candidates are returned alongside the
// estimate for tracing.
func LocateCircle(gray *image.Gray, backend detection.Backend, p detection.CircleParams) (CircleGeometry, []detection.Circle, error) {
	candidates, err := backend.HoughCircles(gray, p)
	if err != nil {
		return CircleGeometry{}, nil, pkgerrors.Wrapf(err, "%s circle detection", backend.Name())
	}
	g, err := AverageCircles(candidates)
	if err != nil {
		return CircleGeometry{}, candidates, err
	}
	return g, candidates, nil
}
