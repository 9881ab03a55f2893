package exifmark

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"k8s.io/klog/v2"
)

// RenderOpts control how a watermark is drawn.
type RenderOpts struct {
	Shrink float64
	// Stroke is the outline width of text in pixels. Zero disables it.
	Stroke int
}

// Render composites src onto a white canvas with a captioned border below it.
// logo may be nil.
func Render(src image.Image, c Caption, logo image.Image, f *Fonts, o RenderOpts) (image.Image, error) {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image: %+v", src.Bounds())
	}

	l := ComputeLayout(w, h, c, f, o.Shrink)
	klog.V(1).Infof("layout for %dx%d: %+v", w, h, l)

	canvas := imaging.New(l.Canvas.X, l.Canvas.Y, color.White)

	photo := transform.Resize(src, l.Photo.Dx(), l.Photo.Dy(), transform.Lanczos)
	canvas = imaging.Paste(canvas, photo, l.Photo.Min)

	if l.Divider.Dy() > 0 {
		divider := imaging.New(l.Divider.Dx(), l.Divider.Dy(), textGray)
		canvas = imaging.Paste(canvas, divider, l.Divider.Min)
	}

	if logo != nil && l.LogoHeight > 0 && logo.Bounds().Dy() > 0 {
		lw := logo.Bounds().Dx() * l.LogoHeight / logo.Bounds().Dy()
		if lw > 0 {
			scaled := transform.Resize(logo, lw, l.LogoHeight, transform.Lanczos)
			canvas = imaging.Overlay(canvas, scaled, image.Pt(l.LogoRight-lw, l.LogoTop), 1.0)
		}
	}

	for _, tb := range l.Text {
		if tb.Size < 1 || tb.Text == "" {
			klog.V(1).Infof("skipping text %q at size %d", tb.Text, tb.Size)
			continue
		}
		face, err := f.Face(tb.Size)
		if err != nil {
			return nil, fmt.Errorf("face: %w", err)
		}
		drawText(canvas, face, tb, o.Stroke)
	}

	return canvas, nil
}

// drawText draws tb with its top edge at tb.Top, outlined in black when stroke > 0.
func drawText(dst *image.NRGBA, face font.Face, tb TextBlock, stroke int) {
	baseline := tb.Top + face.Metrics().Ascent.Ceil()
	d := &font.Drawer{Dst: dst, Face: face}

	if stroke > 0 {
		d.Src = image.NewUniform(textBlack)
		for dy := -stroke; dy <= stroke; dy++ {
			for dx := -stroke; dx <= stroke; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				d.Dot = fixed.P(tb.Left+dx, baseline+dy)
				d.DrawString(tb.Text)
			}
		}
	}

	d.Src = image.NewUniform(tb.Color)
	d.Dot = fixed.P(tb.Left, baseline)
	d.DrawString(tb.Text)
}
