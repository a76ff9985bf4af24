package detection

import (
	"image"
	"math"
	"sort"
)

// Circle is one candidate produced by the Hough circle transform.
type Circle struct {
	// X, Y is the sub-pixel center in input image coordinates.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Radius in pixels.
	Radius float64 `json:"radius"`

	// Votes is the pooled (3×3) center accumulator value. Higher is
	// stronger.
	Votes int `json:"votes"`
}

// CircleParams controls HoughCircles. The field meanings follow the
// HOUGH_GRADIENT parameters of OpenCV so both backends accept the same
// configuration.
type CircleParams struct {
	// DP is the inverse accumulator resolution: 1 votes at full image
	// resolution, 2 at half.
	DP float64 `json:"dp"`

	// MinDist is the minimum distance between reported centers.
	MinDist float64 `json:"min_dist"`

	// CannyHigh is the upper Canny threshold; the lower is half of it.
	CannyHigh float64 `json:"canny_high"`

	// AccumThreshold is the minimum number of center votes (and of
	// supporting edge pixels) for a circle to be reported.
	AccumThreshold int `json:"accum_threshold"`

	MinRadius int `json:"min_radius"`
	MaxRadius int `json:"max_radius"`
}

// DefaultCircleParams returns the parameters used to find a gauge face:
// full resolution, centers at least 20px apart, Canny high 100 and an
// accumulator threshold of 100.
func DefaultCircleParams(minRadius, maxRadius int) CircleParams {
	return CircleParams{
		DP:             1,
		MinDist:        20,
		CannyHigh:      100,
		AccumThreshold: 100,
		MinRadius:      minRadius,
		MaxRadius:      maxRadius,
	}
}

// HoughCircles finds circles in a grayscale image using the gradient Hough
// transform.
//
// Parameters:
//   - gray: Source image, normally median-blurred first.
//   - p: Transform parameters. A MaxRadius <= 0 means "up to the larger
//     image dimension".
//
// Returns candidates ordered by center votes (strongest first). The slice
// is empty, never nil, when nothing is found.
//
// # Performance
//
// Voting is O(edges × (MaxRadius - MinRadius)); radius estimation is
// O(edges) per accepted center. Narrow radius ranges are much cheaper.
func HoughCircles(gray *image.Gray, p CircleParams) []Circle {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	circles := make([]Circle, 0)
	if w < 3 || h < 3 {
		return circles
	}

	dp := p.DP
	if dp < 1 {
		dp = 1
	}
	minR := p.MinRadius
	if minR < 1 {
		minR = 1
	}
	maxR := p.MaxRadius
	if maxR <= 0 {
		maxR = max(w, h)
	}
	if maxR < minR {
		return circles
	}

	g := sobel(gray)
	edges := cannyFromGradients(bounds, g, p.CannyHigh/2, p.CannyHigh)

	// Vote directions come from a smoothed copy; raw Sobel on a jagged
	// rim is several degrees off, which smears the center peak.
	dir := sobel(gaussianBlur(gray))

	points := make([]edgePoint, 0, 1024)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if edges.Pix[y*edges.Stride+x] == 0 {
				continue
			}
			i := y*w + x
			mag := dir.magnitude[i]
			if mag == 0 {
				continue
			}
			points = append(points, edgePoint{x: x, y: y, ux: dir.gx[i] / mag, uy: dir.gy[i] / mag})
		}
	}
	if len(points) == 0 {
		return circles
	}

	// Vote for centers along the gradient in both directions
	aw := int(math.Ceil(float64(w) / dp))
	ah := int(math.Ceil(float64(h) / dp))
	acc := make([]int, aw*ah)
	for _, pt := range points {
		for _, sign := range [2]float64{1, -1} {
			for r := minR; r <= maxR; r++ {
				cx := float64(pt.x) + sign*float64(r)*pt.ux
				cy := float64(pt.y) + sign*float64(r)*pt.uy
				if cx < 0 || cy < 0 {
					break
				}
				ax := int(cx/dp + 0.5)
				ay := int(cy/dp + 0.5)
				if ax >= aw || ay >= ah {
					break
				}
				acc[ay*aw+ax]++
			}
		}
	}

	// Pool each cell with its 8 neighbours so votes scattered by small
	// gradient direction errors still form one peak
	pooled := make([]int, aw*ah)
	for ay := 1; ay < ah-1; ay++ {
		for ax := 1; ax < aw-1; ax++ {
			i := ay*aw + ax
			pooled[i] = acc[i-aw-1] + acc[i-aw] + acc[i-aw+1] +
				acc[i-1] + acc[i] + acc[i+1] +
				acc[i+aw-1] + acc[i+aw] + acc[i+aw+1]
		}
	}

	// Local maxima above threshold
	type center struct {
		idx   int
		votes int
	}
	centers := make([]center, 0)
	for ay := 1; ay < ah-1; ay++ {
		for ax := 1; ax < aw-1; ax++ {
			i := ay*aw + ax
			v := pooled[i]
			if v <= p.AccumThreshold {
				continue
			}
			// Strict against cells already scanned, non-strict against
			// the rest, so a flat top keeps exactly one cell
			if v > pooled[i-aw-1] && v > pooled[i-aw] && v > pooled[i-aw+1] && v > pooled[i-1] &&
				v >= pooled[i+1] && v >= pooled[i+aw-1] && v >= pooled[i+aw] && v >= pooled[i+aw+1] {
				centers = append(centers, center{idx: i, votes: v})
			}
		}
	}
	sort.SliceStable(centers, func(i, j int) bool {
		return centers[i].votes > centers[j].votes
	})

	minDist := math.Max(p.MinDist, 1)
	win := max(2, int(minDist/dp/2))
	counts := make([]int, maxR+2)
	sums := make([]float64, maxR+2)
	for _, c := range centers {
		ax, ay := refineCenter(acc, aw, ah, float64(c.idx%aw), float64(c.idx/aw), win)
		cx, cy := ax*dp, ay*dp
		fx, fy := cx+float64(bounds.Min.X), cy+float64(bounds.Min.Y)

		if !distinctFace(circles, fx, fy, minDist) {
			continue
		}

		radius, support := estimateRadius(points, cx, cy, minR, maxR, counts, sums)
		if radius == 0 || support < p.AccumThreshold {
			continue
		}
		if len(circles) > 0 && !sameRadius(circles[0].Radius, radius) {
			continue
		}

		circles = append(circles, Circle{
			X:      fx,
			Y:      fy,
			Radius: radius,
			Votes:  c.votes,
		})
	}

	return circles
}

// edgePoint is a Canny edge pixel with its unit gradient direction.
type edgePoint struct {
	x, y   int
	ux, uy float64
}

// refineCenter moves an accumulator peak to the vote-weighted centroid of
// the raw accumulator within a disc of radius win, recentring the disc
// until the centroid settles. Returns accumulator coordinates.
func refineCenter(acc []int, aw, ah int, ax, ay float64, win int) (float64, float64) {
	for iter := 0; iter < 16; iter++ {
		ix, iy := int(math.Round(ax)), int(math.Round(ay))
		var sx, sy, sw float64
		for y := max(iy-win, 0); y <= min(iy+win, ah-1); y++ {
			for x := max(ix-win, 0); x <= min(ix+win, aw-1); x++ {
				dx, dy := x-ix, y-iy
				if dx*dx+dy*dy > win*win {
					continue
				}
				v := float64(acc[y*aw+x])
				sx += v * float64(x)
				sy += v * float64(y)
				sw += v
			}
		}
		if sw == 0 {
			break
		}
		nx, ny := sx/sw, sy/sw
		settled := math.Abs(nx-ax) < 0.05 && math.Abs(ny-ay) < 0.05
		ax, ay = nx, ny
		if settled {
			break
		}
	}
	return ax, ay
}

// distinctFace reports whether a center at (x, y) is at least minDist from
// every accepted circle and outside each accepted face. A center inside an
// accepted face belongs to the same rim.
func distinctFace(accepted []Circle, x, y, minDist float64) bool {
	for _, f := range accepted {
		d := math.Hypot(f.X-x, f.Y-y)
		if d < minDist || d < f.Radius {
			return false
		}
	}
	return true
}

// sameRadius reports whether r agrees with the dominant radius r0 within
// 5% (at least 3px).
func sameRadius(r0, r float64) bool {
	return math.Abs(r-r0) <= math.Max(3, 0.05*r0)
}

// estimateRadius picks the radius around (cx, cy) with the most edge
// pixels in a ±1px band. Ties go to the smaller radius. It returns the mean
// distance of the band's pixels and their count, or 0 when no edge pixel
// falls inside [minR, maxR].
//
// counts and sums are scratch buffers of length maxR+2, reset on entry.
func estimateRadius(points []edgePoint, cx, cy float64, minR, maxR int, counts []int, sums []float64) (float64, int) {
	for i := range counts {
		counts[i] = 0
		sums[i] = 0
	}

	for _, pt := range points {
		d := math.Hypot(float64(pt.x)-cx, float64(pt.y)-cy)
		r := int(d + 0.5)
		if r < minR || r > maxR {
			continue
		}
		counts[r]++
		sums[r] += d
	}

	bestR, bestCount := 0, 0
	for r := minR; r <= maxR; r++ {
		n := counts[r-1] + counts[r] + counts[r+1]
		if n > bestCount {
			bestR, bestCount = r, n
		}
	}
	if bestR == 0 {
		return 0, 0
	}

	sum := sums[bestR-1] + sums[bestR] + sums[bestR+1]
	return sum / float64(bestCount), bestCount
}
