package exifmark

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// ExifToolReader reads tags through a long-running exiftool process.
type ExifToolReader struct {
	et *exiftool.Exiftool
}

// NewExifToolReader starts exiftool. It fails if the exiftool binary is not installed.
func NewExifToolReader() (*ExifToolReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &ExifToolReader{et: et}, nil
}

// Read returns the tags of path.
func (r *ExifToolReader) Read(path string) (Tags, error) {
	fis := r.et.ExtractMetadata(path)
	if len(fis) == 0 {
		return Tags{}, fmt.Errorf("extract fail for %q: no result", path)
	}
	fi := fis[0]
	if fi.Err != nil {
		return Tags{}, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	for k, v := range fi.Fields {
		klog.V(2).Infof("%q=%v", k, v)
	}

	t := Tags{}
	var err error

	t.Make, err = fi.GetString("Make")
	if err != nil {
		klog.Warningf("unable to get make for %s: %v", path, err)
	}

	t.Model, err = fi.GetString("Model")
	if err != nil {
		klog.V(1).Infof("unable to get model for %s: %v", path, err)
	}

	t.Artist, err = fi.GetString("Artist")
	if err != nil {
		klog.V(1).Infof("unable to get artist for %s: %v", path, err)
	}

	t.Taken, err = fi.GetString("DateTimeOriginal")
	if err != nil {
		klog.V(1).Infof("unable to get date time for %s: %v", path, err)
	}

	t.ExposureTime, err = fi.GetString("ExposureTime")
	if err != nil {
		klog.V(1).Infof("unable to get exposure time for %s: %v", path, err)
	}

	t.FNumber, err = fi.GetFloat("FNumber")
	if err != nil {
		klog.V(1).Infof("unable to get aperture for %s: %v", path, err)
	}

	iso, err := fi.GetInt("ISO")
	if err != nil {
		klog.V(1).Infof("unable to get ISO for %s: %v", path, err)
	}
	t.ISO = int(iso)

	// exiftool prints focal lengths as "50.0 mm"
	fl, err := fi.GetString("FocalLength")
	if err != nil {
		klog.V(1).Infof("unable to get focal length for %s: %v", path, err)
	}
	t.FocalLength = leadingFloat(fl)

	fl35, err := fi.GetString("FocalLengthIn35mmFormat")
	if err != nil {
		klog.V(1).Infof("unable to get 35mm focal length for %s: %v", path, err)
	}
	t.FocalLength35 = int(leadingFloat(fl35))

	w, err := fi.GetInt("ExifImageWidth")
	if err != nil {
		klog.V(1).Infof("unable to get width for %s: %v", path, err)
	}
	t.Width = int(w)

	h, err := fi.GetInt("ExifImageHeight")
	if err != nil {
		klog.V(1).Infof("unable to get height for %s: %v", path, err)
	}
	t.Height = int(h)

	t.Make = strings.TrimSpace(t.Make)
	t.Model = strings.TrimSpace(t.Model)
	t.Artist = strings.TrimSpace(t.Artist)
	return t, nil
}

// Close stops the exiftool process.
func (r *ExifToolReader) Close() error {
	return r.et.Close()
}

// leadingFloat parses the number at the start of s, ignoring a trailing unit.
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
