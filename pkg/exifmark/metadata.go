package exifmark

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"k8s.io/klog/v2"
)

// MetadataReader reads caption-relevant tags from an image file.
type MetadataReader interface {
	Read(path string) (Tags, error)
	Close() error
}

// GoExifReader reads tags in-process using goexif.
type GoExifReader struct{}

// NewGoExifReader returns a pure Go MetadataReader.
func NewGoExifReader() *GoExifReader {
	return &GoExifReader{}
}

// Read returns the tags of path. A file without EXIF yields empty Tags.
func (*GoExifReader) Read(path string) (Tags, error) {
	raw, err := ExifPayload(path)
	if err != nil {
		return Tags{}, err
	}
	if len(raw) == 0 {
		return Tags{}, nil
	}

	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		if errors.Is(err, io.EOF) || exif.IsCriticalError(err) {
			klog.Warningf("no usable exif in %s: %v", path, err)
			return Tags{}, nil
		}
		// non-critical errors still return a usable *Exif
		klog.V(1).Infof("partial exif in %s: %v", path, err)
	}
	if x == nil {
		return Tags{}, nil
	}

	t := Tags{
		Make:         exifString(x, exif.Make),
		Model:        exifString(x, exif.Model),
		Artist:       exifString(x, exif.Artist),
		Taken:        exifString(x, exif.DateTimeOriginal),
		ExposureTime: exifRatString(x, exif.ExposureTime),
		FNumber:      exifFloat(x, exif.FNumber),
		ISO:          exifInt(x, exif.ISOSpeedRatings),
		FocalLength:  exifFloat(x, exif.FocalLength),
		Width:        exifInt(x, exif.PixelXDimension),
		Height:       exifInt(x, exif.PixelYDimension),
	}
	t.FocalLength35 = exifInt(x, exif.FocalLengthIn35mmFilm)

	klog.V(2).Infof("%s: %+v", path, t)
	return t, nil
}

// Close is a no-op.
func (*GoExifReader) Close() error {
	return nil
}

func exifString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		klog.V(1).Infof("%s: %v", name, err)
		return ""
	}
	return strings.TrimSpace(s)
}

func exifInt(x *exif.Exif, name exif.FieldName) int {
	tag, err := x.Get(name)
	if err != nil {
		return 0
	}
	i, err := tag.Int(0)
	if err != nil {
		klog.V(1).Infof("%s: %v", name, err)
		return 0
	}
	return i
}

func exifFloat(x *exif.Exif, name exif.FieldName) float64 {
	tag, err := x.Get(name)
	if err != nil {
		return 0
	}
	r, err := exifRat(tag)
	if err != nil {
		klog.V(1).Infof("%s: %v", name, err)
		return 0
	}
	f, _ := r.Float64()
	return f
}

// exifRatString renders a rational tag as "1/250", or "2" for whole numbers.
func exifRatString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	r, err := exifRat(tag)
	if err != nil {
		klog.V(1).Infof("%s: %v", name, err)
		return ""
	}
	return r.RatString()
}

func exifRat(tag *tiff.Tag) (*big.Rat, error) {
	n, d, err := tag.Rat2(0)
	if err != nil {
		return nil, err
	}
	if d == 0 {
		return nil, fmt.Errorf("zero denominator")
	}
	return big.NewRat(n, d), nil
}
