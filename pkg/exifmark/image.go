package exifmark

import (
	"time"
)

// Tags are the raw EXIF values exifmark cares about. Zero values mean the tag was missing.
type Tags struct {
	Make   string
	Model  string
	Artist string

	// Taken is DateTimeOriginal as stored in the file.
	Taken string

	ExposureTime  string
	FNumber       float64
	ISO           int
	FocalLength   float64
	FocalLength35 int

	Width  int
	Height int
}

// Photo represents a discovered input file with its metadata.
type Photo struct {
	InPath  string
	RelPath string
	OutPath string
	ModTime time.Time

	Tags Tags
}

// Summary describes the result of a batch run.
type Summary struct {
	Found   int
	Written int
	Skipped int
	Copied  int
}
