package exifmark

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"k8s.io/klog/v2"
)

// Fonts hands out font faces by pixel size.
type Fonts struct {
	font  *opentype.Font
	faces map[int]font.Face
}

// LoadFonts parses the TTF, OTF or TTC file at path. An empty path selects the built-in Go font.
func LoadFonts(path string) (*Fonts, error) {
	bs := goregular.TTF
	if path != "" {
		var err error
		bs, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
	}

	// ParseCollection also accepts single-font files.
	col, err := opentype.ParseCollection(bs)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}

	f, err := col.Font(0)
	if err != nil {
		return nil, fmt.Errorf("font 0 of %q: %w", path, err)
	}

	klog.V(1).Infof("loaded font %q (%d fonts in file)", path, col.NumFonts())
	return &Fonts{font: f, faces: map[int]font.Face{}}, nil
}

// Face returns a face where one point equals one pixel.
func (f *Fonts) Face(size int) (font.Face, error) {
	if face, ok := f.faces[size]; ok {
		return face, nil
	}

	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}

	f.faces[size] = face
	return face, nil
}

// Measure implements Measurer.
func (f *Fonts) Measure(s string, size int) int {
	if size < 1 {
		return 0
	}
	face, err := f.Face(size)
	if err != nil {
		klog.Warningf("measure %q: %v", s, err)
		return EstimateMeasurer{}.Measure(s, size)
	}
	return font.MeasureString(face, s).Ceil()
}

// Close releases all cached faces.
func (f *Fonts) Close() error {
	for size, face := range f.faces {
		if err := face.Close(); err != nil {
			return fmt.Errorf("close face %d: %w", size, err)
		}
		delete(f.faces, size)
	}
	return nil
}
