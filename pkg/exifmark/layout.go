package exifmark

import (
	"image"
	"image/color"
)

var (
	textBlack = color.RGBA{A: 255}
	textGray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// dividerWidth is the width of the vertical line between the logo and the lens info.
const dividerWidth = 5

// Measurer reports the width in pixels of s rendered at a pixel size.
type Measurer interface {
	Measure(s string, size int) int
}

// TextBlock is one line of text in the border. Top is the top edge of the text, not its baseline.
type TextBlock struct {
	Text  string
	Left  int
	Top   int
	Size  int
	Color color.RGBA
}

// Layout holds the computed geometry of a watermarked photo.
type Layout struct {
	Canvas image.Point
	Border int

	Photo      image.Rectangle
	Divider    image.Rectangle
	LogoHeight int
	// LogoRight is the x coordinate the right edge of the logo is aligned to.
	LogoRight int
	LogoTop   int

	Text []TextBlock
}

// ComputeLayout positions the photo, text, divider and logo for a w by h photo.
func ComputeLayout(w, h int, c Caption, m Measurer, shrink float64) Layout {
	extra := w / 8
	if h < w {
		extra = h / 8
	}

	big := extra / 4
	small := extra / 8
	margin := w / 40
	quarter := float64(extra) / 4

	nw := int(float64(w) * shrink)
	nh := int(float64(h) * shrink)
	px := (w - nw) / 2
	py := (h - nh) / 2

	line1 := int(float64(h) + quarter)
	line2 := int(float64(h) + quarter + float64(int(quarter*1.5)))
	// the artist line offsets by the truncated big size, so it can sit a pixel above the subtitle
	line3 := int(float64(h) + quarter + float64(big)*1.5)

	textW := m.Measure(c.Lens, big)
	if aw := m.Measure(c.Artist, small); aw > textW {
		textW = aw
	}
	rightX := w - (margin*2 + textW)

	gl := int(quarter*1.5) + small + big
	gTop := int(float64(h) + quarter - float64(int(quarter/2)))
	gLeft := rightX - int(quarter/2)

	l := Layout{
		Canvas:     image.Pt(w, h+extra),
		Border:     extra,
		Photo:      image.Rect(px, py, px+nw, py+nh),
		Divider:    image.Rect(gLeft, gTop, gLeft+dividerWidth, gTop+gl),
		LogoHeight: gl,
		LogoRight:  gLeft - int(quarter/2),
		LogoTop:    gTop,
		Text: []TextBlock{
			{Text: c.Camera, Left: margin, Top: line1, Size: big, Color: textBlack},
			{Text: c.Subtitle, Left: margin, Top: line2, Size: small, Color: textGray},
			{Text: c.Lens, Left: rightX, Top: line1, Size: big, Color: textBlack},
			{Text: c.Artist, Left: rightX, Top: line3, Size: small, Color: textGray},
		},
	}
	return l
}

// EstimateMeasurer approximates text width as half the pixel size per character.
type EstimateMeasurer struct{}

// Measure implements Measurer.
func (EstimateMeasurer) Measure(s string, size int) int {
	return len([]rune(s)) * size / 2
}
