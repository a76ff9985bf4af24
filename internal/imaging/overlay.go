package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ironsheep/gauge-reader/internal/geometry"
)

// TickMark is one calibration tick to draw.
type TickMark struct {
	Inner geometry.Vec
	Outer geometry.Vec

	// OnSweep marks ticks on the usable arc; they are drawn in the hue
	// palette, the others in gray.
	OnSweep bool
}

// Annotation describes what Annotate draws. Coordinates are in the
// annotation's own space and are shifted by Offset onto the image.
type Annotation struct {
	Offset geometry.Point

	Center geometry.Point
	Radius int

	Ticks []TickMark

	Zero   *geometry.Point
	Needle *[2]geometry.Point
	Tip    *geometry.Point

	Label string
}

// OverlayStyle controls colors and stroke width.
type OverlayStyle struct {
	RimColor    string  `json:"rim_color"`
	NeedleColor string  `json:"needle_color"`
	LineWidth   float64 `json:"line_width"`
}

// DefaultOverlayStyle draws a green rim and a red needle, 2px wide.
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{RimColor: "#00C000", NeedleColor: "#FF0000", LineWidth: 2}
}

// Annotate returns a copy of img with the annotation drawn over it. The
// copy has its origin at (0, 0).
func Annotate(img image.Image, a Annotation, style OverlayStyle) *image.NRGBA {
	canvas := imaging.Clone(img)
	origin := img.Bounds().Min

	// Annotation space -> canvas space
	shift := func(v geometry.Vec) geometry.Vec {
		return geometry.Vec{X: v.X + float64(a.Offset.X-origin.X), Y: v.Y + float64(a.Offset.Y-origin.Y)}
	}

	rim, err := parseHexColor(style.RimColor)
	if err != nil {
		rim = color.RGBA{0, 192, 0, 255}
	}
	needle, err := parseHexColor(style.NeedleColor)
	if err != nil {
		needle = color.RGBA{255, 0, 0, 255}
	}
	width := style.LineWidth
	if width <= 0 {
		width = 2
	}

	center := shift(a.Center.Vec())
	if a.Radius > 0 {
		strokeCircle(canvas, center, float64(a.Radius), width, rim)
		fillDisc(canvas, center, width+1, rim)
	}

	palette := tickPalette(a.Ticks)
	for i, t := range a.Ticks {
		strokeLine(canvas, shift(t.Inner), shift(t.Outer), math.Max(1, width/2), palette[i])
	}

	if a.Zero != nil {
		fillDisc(canvas, shift(a.Zero.Vec()), width+2, color.RGBA{0, 128, 255, 255})
	}
	if a.Needle != nil {
		strokeLine(canvas, shift(a.Needle[0].Vec()), shift(a.Needle[1].Vec()), width, needle)
	}
	if a.Tip != nil {
		fillDisc(canvas, shift(a.Tip.Vec()), width+2, needle)
	}

	if a.Label != "" {
		drawLabel(canvas, 4, 4, a.Label, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
	}
	return canvas
}

// tickPalette colors the sweep ticks along a hue ramp from blue to red and
// the rest gray.
func tickPalette(ticks []TickMark) []color.Color {
	onSweep := 0
	for _, t := range ticks {
		if t.OnSweep {
			onSweep++
		}
	}

	colors := make([]color.Color, len(ticks))
	k := 0
	for i, t := range ticks {
		if !t.OnSweep {
			colors[i] = color.RGBA{128, 128, 128, 255}
			continue
		}
		frac := 0.0
		if onSweep > 1 {
			frac = float64(k) / float64(onSweep-1)
		}
		c := colorful.Hsv(240*(1-frac), 0.9, 1).Clamped()
		r, g, b := c.RGB255()
		colors[i] = color.RGBA{r, g, b, 255}
		k++
	}
	return colors
}

// fill rasterizes the path built by trace and composites c over dst.
func fill(dst *image.NRGBA, c color.Color, trace func(z *vector.Rasterizer)) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	trace(z)
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// strokeLine draws a segment of the given width as a filled quad.
func strokeLine(dst *image.NRGBA, a, b geometry.Vec, width float64, c color.Color) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		fillDisc(dst, a, width/2, c)
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2

	fill(dst, c, func(z *vector.Rasterizer) {
		z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
		z.LineTo(float32(b.X+nx), float32(b.Y+ny))
		z.LineTo(float32(b.X-nx), float32(b.Y-ny))
		z.LineTo(float32(a.X-nx), float32(a.Y-ny))
		z.ClosePath()
	})
}

// strokeCircle draws a ring: the outer contour one way round and the inner
// contour the other, so the inside cancels out.
func strokeCircle(dst *image.NRGBA, center geometry.Vec, r, width float64, c color.Color) {
	outer, inner := r+width/2, math.Max(0, r-width/2)
	steps := int(math.Max(32, 2*math.Pi*outer/4))

	fill(dst, c, func(z *vector.Rasterizer) {
		polygon(z, center, outer, steps, false)
		polygon(z, center, inner, steps, true)
	})
}

func fillDisc(dst *image.NRGBA, center geometry.Vec, r float64, c color.Color) {
	fill(dst, c, func(z *vector.Rasterizer) {
		polygon(z, center, r, 24, false)
	})
}

func polygon(z *vector.Rasterizer, center geometry.Vec, r float64, steps int, reverse bool) {
	for i := 0; i <= steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		if reverse {
			theta = -theta
		}
		x := float32(center.X + r*math.Cos(theta))
		y := float32(center.Y + r*math.Sin(theta))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	switch len(hex) {
	case 6:
		c, err := colorful.Hex("#" + hex)
		if err != nil {
			return color.RGBA{}, err
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex color length")
}

// drawLabel draws text on a filled box whose top-left corner is (x, y).
func drawLabel(img draw.Image, x, y int, text string, fg, bg color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(fg), Face: face}

	w := d.MeasureString(text).Ceil()
	h := face.Metrics().Height.Ceil()
	box := image.Rect(x-2, y-2, x+w+2, y+h+2).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y+face.Metrics().Ascent.Ceil())
	d.DrawString(text)
}
