package exifmark

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Build watermarks every JPEG in c.InDir and writes the results to c.OutDir.
func Build(c *Config) (*Summary, error) {
	c.Defaults()
	klog.Infof("build: %s -> %s", c.InDir, c.OutDir)

	if _, err := os.Stat(c.InDir); errors.Is(err, os.ErrNotExist) {
		if c.DryRun {
			klog.Infof("would create %s", c.InDir)
			return nil, ErrNoInput
		}
		if err := os.MkdirAll(c.InDir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
		klog.Infof("created %s: place photos there and run again", c.InDir)
		return nil, ErrNoInput
	}

	r, err := newReader(c)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := r.Close(); err != nil {
			klog.Errorf("close metadata reader: %v", err)
		}
	}()

	ps, err := Find(c.InDir, r)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	s := &Summary{Found: len(ps)}
	if len(ps) == 0 {
		klog.Infof("no photos found in %s", c.InDir)
		return s, nil
	}

	klog.Infof("found %d photos:", len(ps))
	for _, p := range ps {
		klog.Infof("  %s", p.RelPath)
	}

	if c.DryRun {
		klog.Infof("would create %s", c.OutDir)
	} else if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	fonts, err := LoadFonts(c.Font)
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	defer fonts.Close()

	logos := NewLogos(c.LogoDir, c.FallbackLogo)

	for _, p := range ps {
		p.OutPath = filepath.Join(c.OutDir, p.RelPath)

		if !c.Force && upToDate(p.InPath, p.OutPath) {
			klog.Infof("skipping %s: %s is up to date", p.RelPath, p.OutPath)
			s.Skipped++
			continue
		}

		if c.DryRun {
			klog.Infof("would write %s", p.OutPath)
			continue
		}

		klog.Infof("processing %s", p.RelPath)
		if err := process(c, p, fonts, logos); err != nil {
			klog.Errorf("process %s failed: %v", p.InPath, err)
			return s, fmt.Errorf("process %s: %w", p.RelPath, err)
		}
		s.Written++

		if c.OriginalsDir != "" {
			dest := filepath.Join(c.OriginalsDir, p.RelPath)
			klog.V(1).Infof("copying original to %s", dest)
			if err := copy.Copy(p.InPath, dest, copy.Options{PreserveTimes: true}); err != nil {
				return s, fmt.Errorf("copy: %w", err)
			}
			s.Copied++
		}
	}

	klog.Infof("all done: %d written, %d skipped", s.Written, s.Skipped)
	return s, nil
}

func newReader(c *Config) (MetadataReader, error) {
	if c.ExifTool {
		return NewExifToolReader()
	}
	return NewGoExifReader(), nil
}

// upToDate reports whether out exists and is at least as new as in.
func upToDate(in string, out string) bool {
	sst, err := os.Stat(in)
	if err != nil {
		return false
	}

	dst, err := os.Stat(out)
	if err != nil {
		klog.V(1).Infof("updating %s: does not exist", out)
		return false
	}

	if sst.ModTime().After(dst.ModTime()) {
		klog.V(1).Infof("updating %s: source newer", out)
		return false
	}
	return true
}

// process renders a single photo and writes it to p.OutPath.
func process(c *Config, p *Photo, fonts *Fonts, logos *Logos) error {
	img, err := imgio.Open(p.InPath)
	if err != nil {
		return fmt.Errorf("imgio.Open: %w", err)
	}

	b := img.Bounds()
	if p.Tags.Width != 0 && (p.Tags.Width != b.Dx() || p.Tags.Height != b.Dy()) {
		klog.V(1).Infof("%s: exif says %dx%d, pixels are %dx%d", p.RelPath, p.Tags.Width, p.Tags.Height, b.Dx(), b.Dy())
	}

	caption := NewCaption(p.Tags, CaptionOpts{Artist: c.Artist, Subtitle: c.Subtitle})
	klog.V(1).Infof("caption: %+v", caption)

	logo, err := logos.Logo(caption.Maker)
	if err != nil {
		return fmt.Errorf("logo: %w", err)
	}

	out, err := Render(img, caption, logo, fonts, RenderOpts{Shrink: c.Shrink, Stroke: c.Stroke})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	exif, err := ExifPayload(p.InPath)
	if err != nil {
		return fmt.Errorf("exif payload: %w", err)
	}
	if len(exif) == 0 {
		klog.Warningf("%s has no exif to preserve", p.RelPath)
	}

	return save(p.OutPath, func(f *os.File) error {
		return WriteJPEG(f, out, c.Quality, c.DPI, exif)
	})
}

// save writes path via a temporary file that is renamed into place.
func save(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
