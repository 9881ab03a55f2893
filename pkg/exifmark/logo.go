package exifmark

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"k8s.io/klog/v2"
)

// Logos resolves manufacturer logos from a directory of <Make>.png files.
type Logos struct {
	dir      string
	fallback string
	cache    map[string]image.Image
}

// NewLogos returns a resolver for dir. fallback is the file name used for unknown makers.
func NewLogos(dir string, fallback string) *Logos {
	return &Logos{dir: dir, fallback: fallback, cache: map[string]image.Image{}}
}

// Path returns the logo file for maker, or "" if neither it nor the fallback exist.
func (l *Logos) Path(maker string) string {
	want := maker + ".png"
	p := filepath.Join(l.dir, want)
	if _, err := os.Stat(p); err == nil {
		return p
	}

	des, err := os.ReadDir(l.dir)
	if err != nil {
		klog.Warningf("unable to read logo dir: %v", err)
		return ""
	}
	for _, de := range des {
		if !de.IsDir() && strings.EqualFold(de.Name(), want) {
			return filepath.Join(l.dir, de.Name())
		}
	}

	p = filepath.Join(l.dir, l.fallback)
	if _, err := os.Stat(p); err == nil {
		klog.V(1).Infof("no logo for %q, using %s", maker, p)
		return p
	}
	return ""
}

// Logo returns the decoded logo for maker. It returns nil, nil if no logo is available.
func (l *Logos) Logo(maker string) (image.Image, error) {
	p := l.Path(maker)
	if p == "" {
		klog.Warningf("no logo for %q and no fallback %s in %s", maker, l.fallback, l.dir)
		return nil, nil
	}

	if img, ok := l.cache[p]; ok {
		return img, nil
	}

	img, err := imgio.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open logo: %w", err)
	}

	l.cache[p] = img
	return img, nil
}
