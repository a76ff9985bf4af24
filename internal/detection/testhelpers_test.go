package detection

import (
	"image"
	"image/color"
	"math"
)

// createTestImage creates a solid gray test image
func createTestImage(width, height int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// createRingImage creates a white image with a black ring of the given
// half-thickness around (cx, cy)
func createRingImage(width, height, cx, cy, radius int, halfWidth float64) *image.Gray {
	img := createTestImage(width, height, 255)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := math.Hypot(float64(x-cx), float64(y-cy))
			if math.Abs(d-float64(radius)) <= halfWidth {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return img
}

// createHorizontalLineImage creates an image with a horizontal black line
func createHorizontalLineImage(width, height, y, x1, x2, thickness int) *image.Gray {
	img := createTestImage(width, height, 255)
	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			img.SetGray(x, y+t, color.Gray{Y: 0})
		}
	}
	return img
}

// createBinaryLine draws a 1px white line on black, suitable as an edge map
func createBinaryLine(width, height int, x1, y1, x2, y2 int) *image.Gray {
	img := createTestImage(width, height, 0)
	steps := max(abs(x2-x1), abs(y2-y1))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(x1) + t*float64(x2-x1)))
		y := int(math.Round(float64(y1) + t*float64(y2-y1)))
		img.SetGray(x, y, color.Gray{Y: 255})
	}
	return img
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func countNonZero(img *image.Gray) int {
	n := 0
	for _, v := range img.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}
