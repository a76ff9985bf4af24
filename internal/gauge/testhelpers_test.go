package gauge

import (
	"image"
	"math"

	"github.com/ironsheep/gauge-reader/internal/detection"
	"github.com/ironsheep/gauge-reader/internal/geometry"
)

// barGauge is the calibration of the reference bar gauge.
func barGauge() CalibrationConfig {
	return CalibrationConfig{
		SeparationDeg:      3,
		MinAngleDeg:        105,
		MaxAngleDeg:        270,
		MinValue:           111,
		MaxValue:           264,
		Units:              "bar",
		UnitWeight:         2,
		ZeroDeviationTicks: 16,
		MaxDeviationTicks:  8,
	}
}

func createBlankImage(w, h int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, w, h))
}

// drawRing paints every pixel within halfWidth of the circle (cx, cy, r).
func drawRing(img *image.Gray, cx, cy, r, halfWidth float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			if math.Abs(d-r) <= halfWidth {
				img.Pix[img.PixOffset(x, y)] = 255
			}
		}
	}
}

// drawSegment paints every pixel within halfWidth of the segment a-b.
func drawSegment(img *image.Gray, a, b geometry.Vec, halfWidth float64) {
	bounds := img.Bounds()
	dx, dy := b.X-a.X, b.Y-a.Y
	len2 := dx*dx + dy*dy
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			t := ((float64(x)-a.X)*dx + (float64(y)-a.Y)*dy) / len2
			t = math.Max(0, math.Min(1, t))
			px, py := a.X+t*dx, a.Y+t*dy
			if math.Hypot(float64(x)-px, float64(y)-py) <= halfWidth {
				img.Pix[img.PixOffset(x, y)] = 255
			}
		}
	}
}

// createGaugeImage draws a bright rim and a needle pointing needleDeg
// degrees (image convention) from the center.
func createGaugeImage(size int, cx, cy, r, needleDeg, needleLen float64) *image.Gray {
	img := createBlankImage(size, size)
	drawRing(img, cx, cy, r, 2)
	center := geometry.Vec{X: cx, Y: cy}
	drawSegment(img, center, geometry.PolarPoint(center, needleLen, needleDeg), 1.5)
	return img
}

// smallGaugeNeedleParams suits needles of about 130px.
func smallGaugeNeedleParams() NeedleParams {
	p := DefaultNeedleParams()
	p.Lines = detection.LineParams{
		Rho:           2,
		Theta:         math.Pi / 180,
		Threshold:     80,
		MinLineLength: 80,
		MaxLineGap:    10,
		Seed:          1,
	}
	return p
}
