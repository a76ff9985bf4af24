package gauge

import (
	"github.com/ironsheep/gauge-reader/internal/geometry"
)

// NeedleAngle returns the angle in degrees, in [0, 90], between the ray
// center→zero and the ray center→tip.
//
// The angle comes from the two ray slopes, so it is the acute angle
// between the supporting lines rather than a signed sweep.
func NeedleAngle(center, zero, tip geometry.Point) (float64, error) {
	if zero == center {
		return 0, &GeometryError{Msg: "zero point coincides with the gauge center"}
	}
	if tip == center {
		return 0, &GeometryError{Msg: "needle tip coincides with the gauge center"}
	}

	mz, okz := geometry.Slope(center, zero)
	mn, okn := geometry.Slope(center, tip)
	return geometry.AngleBetweenSlopes(mz, okz, mn, okn), nil
}

// MapAngle converts the needle position into a value: the needle/zero
// angle divided by the tick separation, times the unit weight. The value
// is an offset from the zero tick; MinValue is not added.
func MapAngle(center, zero, tip geometry.Point, cfg CalibrationConfig) (float64, error) {
	angle, err := NeedleAngle(center, zero, tip)
	if err != nil {
		return 0, err
	}
	return angle / cfg.SeparationDeg * cfg.UnitWeight, nil
}
