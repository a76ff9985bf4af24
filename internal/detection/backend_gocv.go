//go:build gocv

package detection

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/gauge-reader/internal/geometry"
)

// OpenCV is a Backend backed by gocv. It is only compiled with the "gocv"
// build tag and requires OpenCV 4 on the host.
type OpenCV struct{}

var _ Backend = OpenCV{}

func init() {
	backends[OpenCV{}.Name()] = OpenCV{}
}

// DefaultBackend returns the OpenCV backend.
func DefaultBackend() Backend {
	return OpenCV{}
}

// Name implements Backend.
func (OpenCV) Name() string { return "opencv" }

// HoughCircles implements Backend using cv::HoughCircles(HOUGH_GRADIENT).
func (OpenCV) HoughCircles(gray *image.Gray, p CircleParams) ([]Circle, error) {
	src, err := grayToMat(gray)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	circles := gocv.NewMat()
	defer circles.Close()

	gocv.HoughCirclesWithParams(src, &circles, gocv.HoughGradient,
		p.DP, p.MinDist, p.CannyHigh, float64(p.AccumThreshold),
		p.MinRadius, p.MaxRadius)

	result := make([]Circle, 0, circles.Cols())
	if circles.Empty() {
		return result, nil
	}

	min := gray.Bounds().Min
	for i := 0; i < circles.Cols(); i++ {
		result = append(result, Circle{
			X:      float64(circles.GetFloatAt(0, i*3)) + float64(min.X),
			Y:      float64(circles.GetFloatAt(0, i*3+1)) + float64(min.Y),
			Radius: float64(circles.GetFloatAt(0, i*3+2)),
		})
	}
	return result, nil
}

// Canny implements Backend.
func (OpenCV) Canny(gray *image.Gray, low, high float64) (*image.Gray, error) {
	src, err := grayToMat(gray)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(src, &edges, float32(low), float32(high))

	img, err := edges.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert edge map: %w", err)
	}
	out, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("unexpected edge map type %T", img)
	}
	out.Rect = out.Rect.Add(gray.Bounds().Min)
	return out, nil
}

// HoughLinesP implements Backend. OpenCV uses its own fixed RNG seed, so
// p.Seed is ignored.
func (OpenCV) HoughLinesP(edges *image.Gray, p LineParams) ([]Segment, error) {
	src, err := grayToMat(edges)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	lines := gocv.NewMat()
	defer lines.Close()

	gocv.HoughLinesPWithParams(src, &lines, float32(p.Rho), float32(p.Theta),
		p.Threshold, float32(p.MinLineLength), float32(p.MaxLineGap))

	result := make([]Segment, 0, lines.Rows())
	min := edges.Bounds().Min
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVeciAt(i, 0)
		result = append(result, Segment{
			Start: geometry.Point{X: int(v[0]) + min.X, Y: int(v[1]) + min.Y},
			End:   geometry.Point{X: int(v[2]) + min.X, Y: int(v[3]) + min.Y},
		})
	}
	return result, nil
}

// grayToMat copies gray into a single-channel Mat with origin (0, 0).
func grayToMat(gray *image.Gray) (gocv.Mat, error) {
	b := gray.Bounds()
	pix := make([]byte, 0, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		pix = append(pix, row...)
	}
	m, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8U, pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to build Mat: %w", err)
	}
	return m, nil
}
