package detection

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// Grayscale converts any image to 8-bit luminance.
//
// An *image.Gray input is returned unchanged.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	return lumaPlane(effect.Grayscale(img))
}

// MedianBlur replaces each pixel by the median of its (2*radius+1)² square
// neighbourhood. A radius of 2 is the 5×5 kernel used before circle
// detection to knock out speckle and printed dial text.
func MedianBlur(gray *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return gray
	}
	return lumaPlane(effect.Median(gray, float64(radius)))
}

// lumaPlane copies the red channel of an image whose channels already hold
// the same luminance, as bild's effect output does.
func lumaPlane(rgba *image.RGBA) *image.Gray {
	b := rgba.Bounds()
	gray := image.NewGray(b)
	for y := 0; y < b.Dy(); y++ {
		src := rgba.Pix[y*rgba.Stride:]
		dst := gray.Pix[y*gray.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// Threshold applies a binary threshold: pixels strictly brighter than
// thresh become maxValue, all others become 0.
//
// A maxValue below 255 keeps the needle stroke well above the Canny
// thresholds while reducing the contrast of any residual texture.
func Threshold(gray *image.Gray, thresh, maxValue uint8) *image.Gray {
	b := gray.Bounds()
	binary := image.NewGray(b)
	for y := 0; y < b.Dy(); y++ {
		src := gray.Pix[y*gray.Stride:]
		dst := binary.Pix[y*binary.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if src[x] > thresh {
				dst[x] = maxValue
			}
		}
	}
	return binary
}
