// Package gauge turns a photograph of an analog dial gauge into a
// calibrated reading.
//
// The work is split into stages that each consume the previous stage's
// artifact:
//
//   - LocateCircle finds the gauge face (CircleGeometry) by averaging the
//     Hough circle candidates.
//   - Calibrate builds the angular ReferenceFrame (ticks, sweep, zero
//     point) from the face and a CalibrationConfig.
//   - LocateNeedle detects line segments and picks one as the NeedleRay.
//   - MapAngle converts the needle/zero angle into a value.
//
// Pipeline chains them in two explicit passes: Coarse locates the face on
// the full frame and decides the crop, Refine re-locates and calibrates on
// the crop, ReadNeedle reads the value. Every stage fails fast with a
// DetectionError, ConfigError or GeometryError; a Reading is only returned
// when all stages succeeded.
//
// All artifacts are recomputed per image and nothing is shared between
// runs, so independent images can be read concurrently (see ReadAll).
package gauge
