package gauge

import (
	"errors"
	"fmt"
)

// DetectionError reports that an image did not contain the evidence a
// stage needs (no circle, no needle line).
type DetectionError struct {
	Msg string
}

func (e *DetectionError) Error() string { return e.Msg }

// ConfigError reports a missing or invalid calibration field, or a
// calibration that yields a degenerate sweep.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "invalid calibration: " + e.Msg
	}
	return fmt.Sprintf("invalid calibration: %s: %s", e.Field, e.Msg)
}

// GeometryError reports degenerate geometry: a non-positive radius, a ray
// of zero length, a crop outside the image.
type GeometryError struct {
	Msg string
}

func (e *GeometryError) Error() string { return e.Msg }

var (
	// ErrNoCircle is returned when circle detection yields no candidates.
	ErrNoCircle = &DetectionError{Msg: "no circle found"}

	// ErrNoNeedle is returned when line detection yields no segments.
	ErrNoNeedle = &DetectionError{Msg: "no needle line found"}
)

// IsDetection reports whether err is, or wraps, a DetectionError.
func IsDetection(err error) bool {
	var e *DetectionError
	return errors.As(err, &e)
}

// IsConfig reports whether err is, or wraps, a ConfigError.
func IsConfig(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsGeometry reports whether err is, or wraps, a GeometryError.
func IsGeometry(err error) bool {
	var e *GeometryError
	return errors.As(err, &e)
}
