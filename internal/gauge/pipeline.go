package gauge

import (
	"fmt"
	"image"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/gauge-reader/internal/detection"
	"github.com/ironsheep/gauge-reader/internal/geometry"
	"github.com/ironsheep/gauge-reader/internal/imaging"
)

// Pipeline reads one gauge model. It holds no per-image state and is safe
// for concurrent use.
type Pipeline struct {
	cfg  CalibrationConfig
	opts Options
	log  logrus.FieldLogger
}

// CoarseResult is the output of the coarse pass.
type CoarseResult struct {
	// Circle is in full-frame coordinates.
	Circle     CircleGeometry     `json:"circle"`
	Candidates []detection.Circle `json:"candidates"`

	// Region is the part of the frame that was searched.
	Region image.Rectangle `json:"region"`

	// Crop is the rectangle handed to the refine pass.
	Crop image.Rectangle `json:"crop"`
}

// Refined is the output of the refine pass. All coordinates are relative
// to Image, whose origin is Offset in the full frame.
type Refined struct {
	Image      image.Image        `json:"-"`
	Offset     geometry.Point     `json:"offset"`
	Circle     CircleGeometry     `json:"circle"`
	Candidates []detection.Circle `json:"candidates"`
	Frame      ReferenceFrame     `json:"frame"`
}

// NeedleResult is the output of the needle stage.
type NeedleResult struct {
	Needle   NeedleRay           `json:"needle"`
	Segments []detection.Segment `json:"segments"`
	AngleDeg float64             `json:"angle_deg"`
	Reading  Reading             `json:"reading"`
}

// Trace carries every intermediate artifact of one read.
type Trace struct {
	Coarse  *CoarseResult `json:"coarse"`
	Refined *Refined      `json:"refined"`
	Needle  *NeedleResult `json:"needle"`
}

// NewPipeline validates cfg and applies opts over the defaults.
func NewPipeline(cfg CalibrationConfig, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MinRadius <= 0 || o.MaxRadius < o.MinRadius {
		return nil, &ConfigError{Field: "radius_range", Msg: fmt.Sprintf("invalid range [%d, %d]", o.MinRadius, o.MaxRadius)}
	}
	if o.Backend == nil {
		o.Backend = detection.DefaultBackend()
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}

	return &Pipeline{cfg: cfg, opts: o, log: o.Logger}, nil
}

// Config returns the calibration the pipeline was built with.
func (p *Pipeline) Config() CalibrationConfig { return p.cfg }

// Options returns the resolved options.
func (p *Pipeline) Options() Options { return p.opts }

// Coarse locates the gauge face on the full frame (or the configured
// region) and decides the crop for the refine pass.
func (p *Pipeline) Coarse(img image.Image) (*CoarseResult, error) {
	bounds := img.Bounds()
	region := bounds
	if !p.opts.Region.Empty() {
		region = p.opts.Region.Intersect(bounds)
		if region.Empty() {
			return nil, &GeometryError{Msg: "region of interest does not overlap the image"}
		}
	}

	src := img
	if region != bounds {
		cropped, err := imaging.Crop(img, region)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "coarse")
		}
		src = cropped
	}

	local, candidates, err := p.locate(src)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "coarse")
	}

	// Crops start at (0,0); shift back into frame coordinates
	circle := local.Translate(geometry.Point{X: region.Min.X - src.Bounds().Min.X, Y: region.Min.Y - src.Bounds().Min.Y})
	crop := imaging.SquareAround(circle.CenterX, circle.CenterY, circle.Radius, p.opts.CropMargin, bounds)
	if crop.Empty() {
		return nil, &GeometryError{Msg: "gauge crop is empty"}
	}

	p.log.WithFields(logrus.Fields{
		"cx":         circle.CenterX,
		"cy":         circle.CenterY,
		"r":          circle.Radius,
		"candidates": len(candidates),
		"crop":       crop.String(),
	}).Debug("Coarse circle located")

	return &CoarseResult{Circle: circle, Candidates: candidates, Region: region, Crop: crop}, nil
}

// Refine crops to the coarse circle, locates the face again and
// calibrates it.
func (p *Pipeline) Refine(img image.Image, coarse *CoarseResult) (*Refined, error) {
	if coarse == nil {
		return nil, pkgerrors.New("refine: missing coarse result")
	}
	cropped, err := imaging.Crop(img, coarse.Crop)
	if err != nil {
		return nil, pkgerrors.Wrap(&GeometryError{Msg: err.Error()}, "refine")
	}

	circle, candidates, err := p.locate(cropped)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "refine")
	}
	frame, err := Calibrate(circle, p.cfg)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "refine: calibrate")
	}

	p.log.WithFields(logrus.Fields{
		"cx":         circle.CenterX,
		"cy":         circle.CenterY,
		"r":          circle.Radius,
		"candidates": len(candidates),
		"zero_x":     frame.ZeroPoint.X,
		"zero_y":     frame.ZeroPoint.Y,
	}).Debug("Refined circle calibrated")

	return &Refined{
		Image:      cropped,
		Offset:     geometry.Point{X: coarse.Crop.Min.X, Y: coarse.Crop.Min.Y},
		Circle:     circle,
		Candidates: candidates,
		Frame:      frame,
	}, nil
}

// ReadNeedle detects the needle on the refined crop and maps it to a
// value.
func (p *Pipeline) ReadNeedle(refined *Refined) (*NeedleResult, error) {
	if refined == nil {
		return nil, pkgerrors.New("needle: missing refined result")
	}
	center := refined.Circle.Center()

	ray, segments, err := LocateNeedle(refined.Image, center, p.opts.Needle, p.opts.Backend)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "needle")
	}
	angle, err := NeedleAngle(center, refined.Frame.ZeroPoint, ray.Tip)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "map angle")
	}
	value, err := MapAngle(center, refined.Frame.ZeroPoint, ray.Tip, p.cfg)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "map angle")
	}

	p.log.WithFields(logrus.Fields{
		"segments": len(segments),
		"tip_x":    ray.Tip.X,
		"tip_y":    ray.Tip.Y,
		"angle":    angle,
		"value":    value,
	}).Debug("Needle read")

	return &NeedleResult{
		Needle:   ray,
		Segments: segments,
		AngleDeg: angle,
		Reading:  Reading{Value: value, Units: p.cfg.Units},
	}, nil
}

// Read runs all stages and returns the reading.
func (p *Pipeline) Read(img image.Image) (Reading, error) {
	r, _, err := p.ReadWithTrace(img)
	return r, err
}

// ReadWithTrace runs all stages and also returns the artifacts of every
// stage that completed. The trace is non-nil even on error.
func (p *Pipeline) ReadWithTrace(img image.Image) (Reading, *Trace, error) {
	trace := &Trace{}

	coarse, err := p.Coarse(img)
	if err != nil {
		return Reading{}, trace, err
	}
	trace.Coarse = coarse

	refined, err := p.Refine(img, coarse)
	if err != nil {
		return Reading{}, trace, err
	}
	trace.Refined = refined

	needle, err := p.ReadNeedle(refined)
	if err != nil {
		return Reading{}, trace, err
	}
	trace.Needle = needle

	return needle.Reading, trace, nil
}

// locate runs grayscale, median blur and circle detection on img.
func (p *Pipeline) locate(img image.Image) (CircleGeometry, []detection.Circle, error) {
	gray := detection.MedianBlur(detection.Grayscale(img), p.opts.BlurRadius)
	return LocateCircle(gray, p.opts.Backend, p.opts.circleParams())
}
