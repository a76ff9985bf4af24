package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// EncodedImage is a PNG ready to be returned over JSON.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts rect from img. The result has its origin at (0, 0), so a
// point p in img maps to p - rect.Min in the crop.
func Crop(img image.Image, rect image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if rect.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: empty", rect)
	}
	if !rect.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", rect, bounds)
	}
	return imaging.Crop(img, rect), nil
}

// SquareAround returns the square of half-width r+margin centered on
// (cx, cy), clipped to bounds. The result is empty when the square misses
// bounds entirely.
func SquareAround(cx, cy, r, margin int, bounds image.Rectangle) image.Rectangle {
	half := r + margin
	return image.Rect(cx-half, cy-half, cx+half+1, cy+half+1).Intersect(bounds)
}

// CropAround crops the square around a circle; see SquareAround.
func CropAround(img image.Image, cx, cy, r, margin int) (*image.NRGBA, image.Rectangle, error) {
	rect := SquareAround(cx, cy, r, margin, img.Bounds())
	cropped, err := Crop(img, rect)
	if err != nil {
		return nil, rect, err
	}
	return cropped, rect, nil
}

// EncodePNG encodes img as a base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveFile writes img to path; the format follows the file extension.
func SaveFile(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
