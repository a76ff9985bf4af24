// Package geometry holds the small numeric helpers shared by the gauge
// pipeline: integer and float points, Euclidean distance, and the
// angle-between-slopes formula used to turn a needle direction into a
// reading.
//
// Coordinates follow the image convention used throughout the repository:
// origin at the top-left, X grows rightward, Y grows downward. Angles are
// measured from the +X axis and therefore turn clockwise on screen.
package geometry

import "math"

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Vec is a sub-pixel coordinate.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec converts p to float coordinates.
func (p Point) Vec() Vec {
	return Vec{X: float64(p.X), Y: float64(p.Y)}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Trunc converts v to a pixel by truncating toward zero, the same rounding
// used when a float tick position becomes a drawable point.
func (v Vec) Trunc() Point {
	return Point{X: int(v.X), Y: int(v.Y)}
}

// Distance returns the Euclidean distance between (x1, y1) and (x2, y2).
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// PointDistance is Distance for integer points.
func PointDistance(a, b Point) float64 {
	return Distance(float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))
}

// PolarPoint returns the point at the given radius and angle (degrees)
// around center.
func PolarPoint(center Vec, radius, angleDeg float64) Vec {
	rad := angleDeg * math.Pi / 180
	return Vec{
		X: center.X + radius*math.Cos(rad),
		Y: center.Y + radius*math.Sin(rad),
	}
}

// Slope returns dy/dx of the ray from origin to p. The second result is
// false when the ray is vertical (dx == 0) and the slope is undefined.
func Slope(origin, p Point) (float64, bool) {
	dx := p.X - origin.X
	if dx == 0 {
		return 0, false
	}
	return float64(p.Y-origin.Y) / float64(dx), true
}

// AngleBetweenSlopes returns the unsigned acute angle in degrees between two
// lines given by their slopes:
//
//	degrees(atan(|(m1 - m2) / (1 + m1*m2)|))
//
// A slope flagged as undefined (ok == false) is a vertical line. The result
// is always within [0, 90].
func AngleBetweenSlopes(m1 float64, ok1 bool, m2 float64, ok2 bool) float64 {
	switch {
	case !ok1 && !ok2:
		return 0
	case !ok1:
		return verticalAngle(m2)
	case !ok2:
		return verticalAngle(m1)
	}

	denom := 1 + m1*m2
	if denom == 0 {
		return 90
	}
	return Degrees(math.Atan(math.Abs((m1 - m2) / denom)))
}

// verticalAngle is the angle between a vertical line and a line of slope m.
func verticalAngle(m float64) float64 {
	if m == 0 {
		return 90
	}
	return Degrees(math.Atan(math.Abs(1 / m)))
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// LineDistance returns the perpendicular distance from p to the infinite
// line through a and b. If a == b it is the distance from p to a.
func LineDistance(p, a, b Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return PointDistance(p, a)
	}
	cross := dx*float64(p.Y-a.Y) - dy*float64(p.X-a.X)
	return math.Abs(cross) / length
}
