package gauge

import (
	"image"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/gauge-reader/internal/detection"
)

// Options tunes the pipeline. Zero values are replaced by defaults in
// NewPipeline.
type Options struct {
	// MinRadius and MaxRadius bound the gauge face radius in pixels.
	MinRadius int
	MaxRadius int

	// Region restricts the coarse pass to part of the frame. The empty
	// rectangle means the whole frame.
	Region image.Rectangle

	// CropMargin pads the crop around the coarse circle so the rim does not
	// sit on the crop border.
	CropMargin int

	// BlurRadius is the median blur radius applied before circle detection.
	BlurRadius int

	// Circle overrides the Hough circle parameters. When nil they are
	// derived from MinRadius and MaxRadius.
	Circle *detection.CircleParams

	Needle  NeedleParams
	Backend detection.Backend
	Logger  logrus.FieldLogger
}

// Option mutates Options.
type Option func(*Options)

const (
	DefaultMinRadius  = 260
	DefaultMaxRadius  = 310
	DefaultCropMargin = 8
	DefaultBlurRadius = 2
)

func defaultOptions() Options {
	return Options{
		MinRadius:  DefaultMinRadius,
		MaxRadius:  DefaultMaxRadius,
		CropMargin: DefaultCropMargin,
		BlurRadius: DefaultBlurRadius,
		Needle:     DefaultNeedleParams(),
		Backend:    detection.DefaultBackend(),
		Logger:     logrus.StandardLogger(),
	}
}

// WithRadiusRange sets the accepted face radius range.
func WithRadiusRange(min, max int) Option {
	return func(o *Options) {
		o.MinRadius, o.MaxRadius = min, max
	}
}

// WithRegion restricts the coarse pass to r.
func WithRegion(r image.Rectangle) Option {
	return func(o *Options) { o.Region = r }
}

// WithCropMargin sets the padding around the coarse circle.
func WithCropMargin(px int) Option {
	return func(o *Options) { o.CropMargin = px }
}

// WithBlurRadius sets the median blur radius; 0 disables blurring.
func WithBlurRadius(r int) Option {
	return func(o *Options) { o.BlurRadius = r }
}

// WithCircleParams overrides the Hough circle parameters.
func WithCircleParams(p detection.CircleParams) Option {
	return func(o *Options) { o.Circle = &p }
}

// WithNeedleParams replaces the needle detection parameters.
func WithNeedleParams(p NeedleParams) Option {
	return func(o *Options) { o.Needle = p }
}

// WithTieBreak sets the needle tie-break policy.
func WithTieBreak(t TieBreak) Option {
	return func(o *Options) { o.Needle.TieBreak = t }
}

// WithBackend selects the detection backend.
func WithBackend(b detection.Backend) Option {
	return func(o *Options) { o.Backend = b }
}

// WithLogger sets the logger used for stage diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = l }
}

func (o Options) circleParams() detection.CircleParams {
	if o.Circle != nil {
		return *o.Circle
	}
	return detection.DefaultCircleParams(o.MinRadius, o.MaxRadius)
}
