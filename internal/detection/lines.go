package detection

import (
	"image"
	"math"
	"math/rand"

	"github.com/ironsheep/gauge-reader/internal/geometry"
)

// Segment is a detected line segment.
type Segment struct {
	Start geometry.Point `json:"start"`
	End   geometry.Point `json:"end"`
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return geometry.PointDistance(s.Start, s.End)
}

// LineParams controls HoughLinesP.
type LineParams struct {
	// Rho is the distance resolution of the accumulator in pixels.
	Rho float64 `json:"rho"`

	// Theta is the angle resolution of the accumulator in radians.
	Theta float64 `json:"theta"`

	// Threshold is the number of votes a (rho, theta) bin needs before a
	// segment is traced along it.
	Threshold int `json:"threshold"`

	// MinLineLength is the shortest segment reported, measured along the
	// dominant axis.
	MinLineLength float64 `json:"min_line_length"`

	// MaxLineGap is the longest run of missing edge pixels bridged while
	// tracing a segment.
	MaxLineGap int `json:"max_line_gap"`

	// Seed fixes the point visiting order so results are reproducible.
	Seed int64 `json:"seed"`
}

// DefaultLineParams returns the needle detection parameters: rho 2px,
// theta 1°, 150 votes, segments of at least 100px with gaps up to 50px.
func DefaultLineParams() LineParams {
	return LineParams{
		Rho:           2,
		Theta:         math.Pi / 180,
		Threshold:     150,
		MinLineLength: 100,
		MaxLineGap:    50,
		Seed:          0x5eed,
	}
}

// HoughLinesP finds line segments in a binary edge map with the progressive
// probabilistic Hough transform.
//
// Parameters:
//   - edges: Binary edge map, any non-zero pixel is an edge (e.g. Canny
//     output).
//   - p: Transform parameters.
//
// Returns segments in the order they were found. Order depends only on the
// edge map and p.Seed. The slice is empty, never nil, when nothing is
// found.
//
// # Algorithm
//
//  1. Collect all edge pixels and shuffle them with p.Seed
//  2. For each pixel still present in the edge map, vote for every theta
//  3. If the strongest bin for this pixel reaches Threshold, walk along
//     that line in both directions from the pixel, bridging gaps up to
//     MaxLineGap, to find the segment ends
//  4. Remove the walked pixels from the edge map; if the segment is long
//     enough also retract their votes and report it
func HoughLinesP(edges *image.Gray, p LineParams) []Segment {
	bounds := edges.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	lines := make([]Segment, 0)
	if w == 0 || h == 0 || p.Rho <= 0 || p.Theta <= 0 {
		return lines
	}

	numAngle := int(math.Round(math.Pi / p.Theta))
	numRho := int(math.Round(float64((w+h)*2+1) / p.Rho))
	rhoOffset := (numRho - 1) / 2

	cosT := make([]float64, numAngle)
	sinT := make([]float64, numAngle)
	for n := 0; n < numAngle; n++ {
		angle := float64(n) * p.Theta
		cosT[n] = math.Cos(angle) / p.Rho
		sinT[n] = math.Sin(angle) / p.Rho
	}

	mask := make([]bool, w*h)
	points := make([]geometry.Point, 0, 1024)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if edges.Pix[y*edges.Stride+x] != 0 {
				mask[y*w+x] = true
				points = append(points, geometry.Point{X: x, Y: y})
			}
		}
	}

	rng := rand.New(rand.NewSource(p.Seed))
	rng.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})

	acc := make([]int, numAngle*numRho)
	rhoIndex := func(pt geometry.Point, n int) int {
		r := int(math.Round(float64(pt.X)*cosT[n]+float64(pt.Y)*sinT[n])) + rhoOffset
		return n*numRho + clamp(r, 0, numRho-1)
	}

	for _, pt := range points {
		if !mask[pt.Y*w+pt.X] {
			continue
		}

		maxVal, maxN := p.Threshold-1, -1
		for n := 0; n < numAngle; n++ {
			i := rhoIndex(pt, n)
			acc[i]++
			if acc[i] > maxVal {
				maxVal, maxN = acc[i], n
			}
		}
		if maxN < 0 {
			continue
		}

		// Unit step along the line, normalised so the dominant axis moves
		// one pixel per step
		theta := float64(maxN) * p.Theta
		dirX, dirY := -math.Sin(theta), math.Cos(theta)
		var stepX, stepY float64
		if math.Abs(dirX) > math.Abs(dirY) {
			stepX = math.Copysign(1, dirX)
			stepY = dirY / math.Abs(dirX)
		} else {
			stepY = math.Copysign(1, dirY)
			stepX = dirX / math.Abs(dirY)
		}

		var ends [2]geometry.Point
		for k := 0; k < 2; k++ {
			sx, sy := stepX, stepY
			if k == 1 {
				sx, sy = -sx, -sy
			}
			ends[k] = pt
			gap := 0
			fx, fy := float64(pt.X), float64(pt.Y)
			for {
				x, y := int(math.Floor(fx+0.5)), int(math.Floor(fy+0.5))
				if x < 0 || x >= w || y < 0 || y >= h {
					break
				}
				if mask[y*w+x] {
					gap = 0
					ends[k] = geometry.Point{X: x, Y: y}
				} else {
					gap++
					if gap > p.MaxLineGap {
						break
					}
				}
				fx += sx
				fy += sy
			}
		}

		good := math.Abs(float64(ends[1].X-ends[0].X)) >= p.MinLineLength ||
			math.Abs(float64(ends[1].Y-ends[0].Y)) >= p.MinLineLength

		// Consume the walked pixels
		for k := 0; k < 2; k++ {
			sx, sy := stepX, stepY
			if k == 1 {
				sx, sy = -sx, -sy
			}
			fx, fy := float64(pt.X), float64(pt.Y)
			for {
				x, y := int(math.Floor(fx+0.5)), int(math.Floor(fy+0.5))
				if x < 0 || x >= w || y < 0 || y >= h {
					break
				}
				cur := geometry.Point{X: x, Y: y}
				if mask[y*w+x] {
					if good {
						for n := 0; n < numAngle; n++ {
							acc[rhoIndex(cur, n)]--
						}
					}
					mask[y*w+x] = false
				}
				if cur == ends[k] {
					break
				}
				fx += sx
				fy += sy
			}
		}

		if good {
			off := geometry.Point{X: bounds.Min.X, Y: bounds.Min.Y}
			lines = append(lines, Segment{Start: ends[0].Add(off), End: ends[1].Add(off)})
		}
	}

	return lines
}
