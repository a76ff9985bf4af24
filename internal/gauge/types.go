package gauge

import (
	"github.com/ironsheep/gauge-reader/internal/detection"
	"github.com/ironsheep/gauge-reader/internal/geometry"
)

// CircleGeometry is the located gauge face. Radius is always > 0.
type CircleGeometry struct {
	CenterX int `json:"center_x"`
	CenterY int `json:"center_y"`
	Radius  int `json:"radius"`
}

// Center returns the face center as a point.
func (c CircleGeometry) Center() geometry.Point {
	return geometry.Point{X: c.CenterX, Y: c.CenterY}
}

// Translate returns c moved by d.
func (c CircleGeometry) Translate(d geometry.Point) CircleGeometry {
	return CircleGeometry{CenterX: c.CenterX + d.X, CenterY: c.CenterY + d.Y, Radius: c.Radius}
}

// Tick is one angular calibration mark. Inner sits at 0.9·r, Outer on the
// rim.
type Tick struct {
	Index    int          `json:"index"`
	AngleDeg float64      `json:"angle_deg"`
	Inner    geometry.Vec `json:"inner"`
	Outer    geometry.Vec `json:"outer"`
}

// ReferenceFrame is the calibrated angular frame of one gauge image.
//
// ZeroPoint is the angular origin the needle is measured against. The
// angle and value limits and the units are copied from the
// CalibrationConfig unchanged.
type ReferenceFrame struct {
	Geometry    CircleGeometry `json:"geometry"`
	ZeroPoint   geometry.Point `json:"zero_point"`
	MinAngleDeg float64        `json:"min_angle_deg"`
	MaxAngleDeg float64        `json:"max_angle_deg"`
	MinValue    float64        `json:"min_value"`
	MaxValue    float64        `json:"max_value"`
	Units       string         `json:"units"`

	// Ticks covers one full revolution; only ticks in [SweepStart,
	// SweepEnd) lie on the usable arc. Kept for visualisation.
	Ticks      []Tick `json:"ticks"`
	SweepStart int    `json:"sweep_start"`
	SweepEnd   int    `json:"sweep_end"`
}

// NeedleRay is the detected needle. Tip is the endpoint of Segment
// farthest from the gauge center.
type NeedleRay struct {
	Tip     geometry.Point    `json:"tip"`
	Segment detection.Segment `json:"segment"`
}

// Reading is the final calibrated value.
type Reading struct {
	Value float64 `json:"value"`
	Units string  `json:"units"`
}
