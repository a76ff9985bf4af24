package ocr

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"unicode"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// Word is one recognized word with its location and OCR confidence.
type Word struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds image.Rectangle `json:"bounds"`
}

// UnitsCheck is the outcome of looking for the units label.
type UnitsCheck struct {
	Expected string `json:"expected"`
	Text     string `json:"text"`
	Found    bool   `json:"found"`
	Words    []Word `json:"words"`
}

// LabelRegion is where dials usually print their units: the band below the
// hub, inside the scale. The result is clipped to bounds.
func LabelRegion(cx, cy, r int, bounds image.Rectangle) image.Rectangle {
	return image.Rect(cx-r/2, cy+r/8, cx+r/2, cy+3*r/4).Intersect(bounds)
}

// ReadText runs OCR over region of img. Word bounds are reported in img's
// coordinates.
func ReadText(img image.Image, region image.Rectangle, language string) (string, []Word, error) {
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return "", nil, fmt.Errorf("empty OCR region")
	}
	if language == "" {
		language = DefaultLanguage
	}

	// Tesseract does better on dark text over a light, upscaled patch
	patch := imaging.Grayscale(imaging.Crop(img, region))
	patch = imaging.Resize(patch, patch.Bounds().Dx()*2, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, patch, imaging.PNG); err != nil {
		return "", nil, fmt.Errorf("failed to encode OCR patch: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return "", nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Return just text if boxes fail
		return text, []Word{}, nil
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		// Undo the 2x upscale and shift back into img coordinates
		b := image.Rect(box.Box.Min.X/2, box.Box.Min.Y/2, box.Box.Max.X/2, box.Box.Max.Y/2)
		words = append(words, Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds:     b.Add(region.Min),
		})
	}
	return text, words, nil
}

// CheckUnits reads the label region of a located dial and reports whether
// it mentions units.
func CheckUnits(img image.Image, cx, cy, r int, units, language string) (*UnitsCheck, error) {
	region := LabelRegion(cx, cy, r, img.Bounds())
	text, words, err := ReadText(img, region, language)
	if err != nil {
		return nil, err
	}
	return &UnitsCheck{
		Expected: units,
		Text:     strings.TrimSpace(text),
		Found:    MatchUnits(text, units),
		Words:    words,
	}, nil
}

// MatchUnits reports whether text contains units as a whole token,
// ignoring case and surrounding punctuation. "kgf/cm²" style units match
// across the slash.
func MatchUnits(text, units string) bool {
	want := strings.ToLower(strings.TrimSpace(units))
	if want == "" {
		return false
	}

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == '(' || r == ')' || r == '[' || r == ']'
	})
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".:")
		if tok == want {
			return true
		}
	}
	return false
}
