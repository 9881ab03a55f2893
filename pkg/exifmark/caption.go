package exifmark

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	unknownMaker = "UNKNOWN"
	unknownTime  = "UNKNOWN_TIME"
)

// CaptionOpts are user-provided caption values.
type CaptionOpts struct {
	// Artist is used when the photo has no Artist tag.
	Artist string
	// Subtitle replaces the date taken on the second left-hand line.
	Subtitle string
}

// Caption is the text printed in the watermark border.
type Caption struct {
	Maker    string
	Camera   string
	Taken    string
	Exposure string
	Aperture string
	ISO      string
	Focal    string
	Focal35  string
	Lens     string
	Artist   string
	Subtitle string
}

// NewCaption formats tags for display, substituting placeholders for missing values.
func NewCaption(t Tags, o CaptionOpts) Caption {
	c := Caption{
		Maker:    orDefault(t.Make, unknownMaker),
		Taken:    orDefault(t.Taken, unknownTime),
		Exposure: t.ExposureTime,
		Aperture: "f/?",
		ISO:      "ISO???",
		Focal:    "??mm",
	}

	model := orDefault(t.Model, unknownMaker)
	if strings.Contains(model, c.Maker) {
		c.Camera = model
	} else {
		c.Camera = c.Maker + " " + model
	}

	if t.FNumber > 0 {
		c.Aperture = "f/" + decimal(t.FNumber)
	}
	if t.ISO > 0 {
		c.ISO = fmt.Sprintf("ISO%d", t.ISO)
	}
	if t.FocalLength > 0 {
		c.Focal = decimal(t.FocalLength) + "mm"
	}
	if t.FocalLength35 > 0 {
		c.Focal35 = fmt.Sprintf("(%dmm)", t.FocalLength35)
	}

	parts := []string{}
	for _, p := range []string{c.Focal + c.Focal35, c.Aperture, c.Exposure, c.ISO} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	c.Lens = strings.Join(parts, " ")

	c.Artist = "PHOTO BY " + orDefault(t.Artist, orDefault(o.Artist, defaultConfig.Artist))
	c.Subtitle = orDefault(o.Subtitle, c.Taken)
	return c
}

func orDefault(s string, d string) string {
	if s == "" {
		return d
	}
	return s
}

// decimal formats f with at most one decimal place: 5.6, 50, 2.8.
func decimal(f float64) string {
	return strconv.FormatFloat(float64(int64(f*10+0.5))/10, 'f', -1, 64)
}
