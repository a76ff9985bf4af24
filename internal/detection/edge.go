package detection

import (
	"image"
	"math"
)

// gradients holds per-pixel Sobel responses for an image of size w×h,
// stored row-major.
type gradients struct {
	w, h      int
	gx, gy    []float64
	magnitude []float64
}

// sobel computes X and Y Sobel gradients on the 0-255 intensity scale.
//
// Border pixels use clamped (replicated) neighbours.
func sobel(gray *image.Gray) *gradients {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	g := &gradients{
		w:         w,
		h:         h,
		gx:        make([]float64, w*h),
		gy:        make([]float64, w*h),
		magnitude: make([]float64, w*h),
	}

	at := func(x, y int) float64 {
		x = clamp(x, 0, w-1)
		y = clamp(y, 0, h-1)
		return float64(gray.Pix[y*gray.Stride+x])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tl, tc, tr := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
			ml, mr := at(x-1, y), at(x+1, y)
			bl, bc, br := at(x-1, y+1), at(x, y+1), at(x+1, y+1)

			gx := (tr + 2*mr + br) - (tl + 2*ml + bl)
			gy := (bl + 2*bc + br) - (tl + 2*tc + tr)

			i := y*w + x
			g.gx[i] = gx
			g.gy[i] = gy
			g.magnitude[i] = math.Hypot(gx, gy)
		}
	}
	return g
}

// Canny performs Canny edge detection on a grayscale image and returns a
// binary map where edge pixels are 255 and everything else is 0.
//
// Parameters:
//   - gray: Source image. It is not blurred here; callers blur first when
//     the input is noisy.
//   - low, high: Hysteresis thresholds on the Sobel gradient magnitude
//     (0-255 intensity scale, so a hard black/white step scores about
//     1000).
//
// # Algorithm
//
//  1. Gradient computation: 3×3 Sobel, magnitude = sqrt(Gx² + Gy²)
//  2. Non-maximum suppression: keep only local maxima across the gradient
//     direction, quantised to 0°, 45°, 90° and 135°
//  3. Hysteresis: pixels above high seed edges, which then grow through
//     8-connected pixels above low
//
// Border pixels are never edges.
func Canny(gray *image.Gray, low, high float64) *image.Gray {
	return cannyFromGradients(gray.Bounds(), sobel(gray), low, high)
}

func cannyFromGradients(bounds image.Rectangle, g *gradients, low, high float64) *image.Gray {
	w, h := g.w, g.h
	if low > high {
		low, high = high, low
	}

	suppressed := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			mag := g.magnitude[i]
			if mag < low || mag == 0 {
				continue
			}

			angle := math.Atan2(g.gy[i], g.gx[i])

			// Determine neighbors to compare based on gradient direction
			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = g.magnitude[i-1]
				n2 = g.magnitude[i+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = g.magnitude[i-w-1]
				n2 = g.magnitude[i+w+1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = g.magnitude[i-w]
				n2 = g.magnitude[i+w]
			} else {
				n1 = g.magnitude[i-w+1]
				n2 = g.magnitude[i+w-1]
			}

			// Ties break toward the lower-index neighbour so a symmetric
			// ridge yields a single-pixel edge.
			if mag > n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	result := image.NewGray(bounds)
	stack := make([]int, 0, 1024)
	for i, v := range suppressed {
		if v >= high && result.Pix[pixIndex(result, i, w)] == 0 {
			result.Pix[pixIndex(result, i, w)] = 255
			stack = append(stack, i)
		}
	}

	// Grow strong edges through weak neighbours
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				j := ny*w + nx
				if suppressed[j] >= low && suppressed[j] > 0 && result.Pix[pixIndex(result, j, w)] == 0 {
					result.Pix[pixIndex(result, j, w)] = 255
					stack = append(stack, j)
				}
			}
		}
	}

	return result
}

// gaussianBlur applies a 5x5 Gaussian blur.
//
// Uses a standard 5x5 Gaussian kernel with sigma ≈ 1.4:
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// Total kernel sum = 273, used for normalization.
// Border pixels use clamped (replicated) edge values.
func gaussianBlur(gray *image.Gray) *image.Gray {
	kernel := [5][5]int{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	const kernelSum = 273

	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	result := image.NewGray(bounds)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					py := clamp(y+ky, 0, h-1)
					px := clamp(x+kx, 0, w-1)
					sum += int(gray.Pix[py*gray.Stride+px]) * kernel[ky+2][kx+2]
				}
			}
			result.Pix[y*result.Stride+x] = uint8((sum + kernelSum/2) / kernelSum)
		}
	}
	return result
}

// pixIndex maps a row-major index over a w-wide grid to the Pix offset of
// img, which may have a stride wider than w.
func pixIndex(img *image.Gray, i, w int) int {
	return (i/w)*img.Stride + i%w
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
