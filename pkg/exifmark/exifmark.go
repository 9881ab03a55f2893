// Package exifmark adds an EXIF-driven watermark border beneath JPEG photos.
package exifmark

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoInput is returned when the input directory did not exist and was created empty.
var ErrNoInput = errors.New("input directory missing")

// Config holds configuration for exifmark.
type Config struct {
	InDir        string `yaml:"input"`
	OutDir       string `yaml:"output"`
	LogoDir      string `yaml:"logos"`
	FallbackLogo string `yaml:"fallback_logo"`
	OriginalsDir string `yaml:"originals"`
	Font         string `yaml:"font"`

	Artist   string `yaml:"artist"`
	Subtitle string `yaml:"subtitle"`

	Quality int     `yaml:"quality"`
	DPI     int     `yaml:"dpi"`
	Shrink  float64 `yaml:"shrink"`
	Stroke  int     `yaml:"stroke"`

	Force    bool `yaml:"force"`
	DryRun   bool `yaml:"-"`
	ExifTool bool `yaml:"exiftool"`
}

var defaultConfig = Config{
	InDir:        "./input/",
	OutDir:       "./output/",
	LogoDir:      "./logos/",
	FallbackLogo: "UNKNOW.png",
	Artist:       "SOMEBODY",
	Quality:      90,
	DPI:          300,
	Shrink:       0.95,
	Stroke:       1,
}

// NewConfig returns a Config populated with default values.
func NewConfig() *Config {
	c := defaultConfig
	return &c
}

// Defaults fills unset fields with their default values.
func (c *Config) Defaults() {
	if c.InDir == "" {
		c.InDir = defaultConfig.InDir
	}
	if c.OutDir == "" {
		c.OutDir = defaultConfig.OutDir
	}
	if c.LogoDir == "" {
		c.LogoDir = defaultConfig.LogoDir
	}
	if c.FallbackLogo == "" {
		c.FallbackLogo = defaultConfig.FallbackLogo
	}
	if c.Artist == "" {
		c.Artist = defaultConfig.Artist
	}
	if c.Quality <= 0 || c.Quality > 100 {
		c.Quality = defaultConfig.Quality
	}
	if c.DPI <= 0 {
		c.DPI = defaultConfig.DPI
	}
	if c.Shrink <= 0 || c.Shrink > 1 {
		c.Shrink = defaultConfig.Shrink
	}
	if c.Stroke < 0 {
		c.Stroke = defaultConfig.Stroke
	}
}

// LoadConfig reads a YAML configuration file. Missing fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	c := defaultConfig

	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(bs, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	c.Defaults()
	return &c, nil
}
