// exifmark adds a camera and lens info border beneath JPEG photos.
package main

import (
	"errors"
	"flag"

	"k8s.io/klog/v2"

	"github.com/tstromberg/exifmark/pkg/exifmark"
)

// flags are the command-line options. Defaults mirror exifmark.NewConfig.
type flags struct {
	configPath   *string
	inDir        *string
	outDir       *string
	logoDir      *string
	fontPath     *string
	artist       *string
	subtitle     *string
	quality      *int
	dpi          *int
	shrink       *float64
	stroke       *int
	force        *bool
	dryRun       *bool
	originalsDir *string
	useExiftool  *bool
}

func newFlags(fs *flag.FlagSet) *flags {
	return &flags{
		configPath:   fs.String("config", "", "YAML configuration file"),
		inDir:        fs.String("in", "./input/", "Location of input directory"),
		outDir:       fs.String("out", "./output/", "Location of output directory"),
		logoDir:      fs.String("logos", "./logos/", "Directory of <Make>.png logos"),
		fontPath:     fs.String("font", "", "TTF/OTF/TTC font file (default: built-in Go font)"),
		artist:       fs.String("artist", "SOMEBODY", "Photographer credit when the photo has no Artist tag"),
		subtitle:     fs.String("subtitle", "", "Text below the camera name (default: date taken)"),
		quality:      fs.Int("quality", 90, "JPEG quality (1-100)"),
		dpi:          fs.Int("dpi", 300, "Output density in dots per inch"),
		shrink:       fs.Float64("shrink", 0.95, "Scale of the photo within the canvas"),
		stroke:       fs.Int("stroke", 1, "Text outline width in pixels"),
		force:        fs.Bool("force", false, "Rewrite outputs that are already up to date"),
		dryRun:       fs.Bool("n", false, "dry-run mode, don't write anything"),
		originalsDir: fs.String("originals", "", "Copy processed originals to this directory"),
		useExiftool:  fs.Bool("exiftool", false, "Read metadata with exiftool instead of the built-in parser"),
	}
}

// config loads the config file if one was given, then applies every flag set explicitly on fs.
func (f *flags) config(fs *flag.FlagSet) (*exifmark.Config, error) {
	c := exifmark.NewConfig()
	if *f.configPath != "" {
		var err error
		c, err = exifmark.LoadConfig(*f.configPath)
		if err != nil {
			return nil, err
		}
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "in":
			c.InDir = *f.inDir
		case "out":
			c.OutDir = *f.outDir
		case "logos":
			c.LogoDir = *f.logoDir
		case "font":
			c.Font = *f.fontPath
		case "artist":
			c.Artist = *f.artist
		case "subtitle":
			c.Subtitle = *f.subtitle
		case "quality":
			c.Quality = *f.quality
		case "dpi":
			c.DPI = *f.dpi
		case "shrink":
			c.Shrink = *f.shrink
		case "stroke":
			c.Stroke = *f.stroke
		case "force":
			c.Force = *f.force
		case "originals":
			c.OriginalsDir = *f.originalsDir
		case "exiftool":
			c.ExifTool = *f.useExiftool
		}
	})
	c.DryRun = *f.dryRun
	return c, nil
}

func main() {
	klog.InitFlags(nil)
	f := newFlags(flag.CommandLine)
	flag.Parse()

	c, err := f.config(flag.CommandLine)
	if err != nil {
		klog.Exitf("config: %v", err)
	}

	s, err := exifmark.Build(c)
	if errors.Is(err, exifmark.ErrNoInput) {
		return
	}
	if err != nil {
		klog.Exitf("build failed: %v", err)
	}

	klog.Infof("%d found, %d written, %d skipped, %d originals copied", s.Found, s.Written, s.Skipped, s.Copied)
}
