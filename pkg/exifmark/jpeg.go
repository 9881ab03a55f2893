package exifmark

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/anthonynsimon/bild/imgio"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
	"k8s.io/klog/v2"
)

var exifHeader = []byte("Exif\x00\x00")

// maxSegment is the largest payload a marker segment can carry after its two length bytes.
const maxSegment = 0xFFFF - 2

// parseSegments splits a JPEG stream into its marker segments.
func parseSegments(data []byte) (*jpegstructure.SegmentList, error) {
	ec, err := jpegstructure.NewJpegMediaParser().ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse jpeg: %w", err)
	}

	sl, ok := ec.(*jpegstructure.SegmentList)
	if !ok {
		return nil, fmt.Errorf("parse jpeg: unexpected %T", ec)
	}
	return sl, nil
}

// exifSegment returns the first APP1 segment carrying EXIF, wherever it sits.
func exifSegment(sl *jpegstructure.SegmentList) *jpegstructure.Segment {
	for _, s := range sl.Segments() {
		if s.IsExif() {
			return s
		}
	}
	return nil
}

// ExifPayload returns the raw TIFF-formatted EXIF block of the JPEG at path, or nil if it has none.
func ExifPayload(path string) ([]byte, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	sl, err := parseSegments(bs)
	if err != nil {
		klog.Warningf("%s: %v", path, err)
		return nil, nil
	}

	s := exifSegment(sl)
	if s == nil {
		klog.V(1).Infof("%s: no exif segment among %d", path, len(sl.Segments()))
		return nil, nil
	}
	return s.Data[len(exifHeader):], nil
}

// jfifPayload returns an APP0 body declaring dpi dots per inch on both axes.
func jfifPayload(dpi int) []byte {
	return []byte{
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x01, // version 1.01
		0x01, // units: dots per inch
		byte(dpi >> 8), byte(dpi),
		byte(dpi >> 8), byte(dpi),
		0x00, 0x00, // no thumbnail
	}
}

// WriteJPEG encodes img to w with a JFIF density header and, if raw is set, an EXIF APP1 segment.
func WriteJPEG(w io.Writer, img image.Image, quality int, dpi int, raw []byte) error {
	if n := len(exifHeader) + len(raw); n > maxSegment {
		return fmt.Errorf("exif block too large for one segment: %d bytes", n)
	}

	var buf bytes.Buffer
	if err := imgio.JPEGEncoder(quality)(&buf, img); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	sl, err := parseSegments(buf.Bytes())
	if err != nil {
		return err
	}

	segs := sl.Segments()
	if len(segs) == 0 || segs[0].MarkerId != jpegstructure.MARKER_SOI {
		return fmt.Errorf("encoder output is not a JPEG")
	}

	// SOI, then APP0 and APP1, then everything else the encoder wrote.
	out := []*jpegstructure.Segment{
		segs[0],
		{MarkerId: jpegstructure.MARKER_APP0, MarkerName: "APP0", Data: jfifPayload(dpi)},
	}
	if len(raw) > 0 {
		data := append(append([]byte{}, exifHeader...), raw...)
		out = append(out, &jpegstructure.Segment{MarkerId: jpegstructure.MARKER_APP1, MarkerName: "APP1", Data: data})
	}
	for _, s := range segs[1:] {
		if s.MarkerId == jpegstructure.MARKER_APP0 || s.IsExif() {
			continue
		}
		out = append(out, s)
	}

	if err := jpegstructure.NewSegmentList(out).Write(w); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
