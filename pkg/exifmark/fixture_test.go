package exifmark

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
)

// ifdEntry is a single TIFF directory entry used to build EXIF fixtures.
type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func asciiEntry(tag uint16, s string) ifdEntry {
	return ifdEntry{tag: tag, typ: 2, count: uint32(len(s) + 1), data: append([]byte(s), 0)}
}

func shortEntry(tag uint16, v uint16) ifdEntry {
	return ifdEntry{tag: tag, typ: 3, count: 1, data: binary.LittleEndian.AppendUint16(nil, v)}
}

func ratEntry(tag uint16, num uint32, den uint32) ifdEntry {
	b := binary.LittleEndian.AppendUint32(nil, num)
	return ifdEntry{tag: tag, typ: 5, count: 1, data: binary.LittleEndian.AppendUint32(b, den)}
}

// appendIFD writes entries at the end of buf followed by their out-of-line values.
// It returns the offsets of each entry's value field.
func appendIFD(buf []byte, entries []ifdEntry) ([]byte, map[uint16]int) {
	le := binary.LittleEndian
	dataOff := len(buf) + 2 + 12*len(entries) + 4
	data := []byte{}
	valueAt := map[uint16]int{}

	buf = le.AppendUint16(buf, uint16(len(entries)))
	for _, e := range entries {
		buf = le.AppendUint16(buf, e.tag)
		buf = le.AppendUint16(buf, e.typ)
		buf = le.AppendUint32(buf, e.count)
		valueAt[e.tag] = len(buf)
		if len(e.data) <= 4 {
			v := make([]byte, 4)
			copy(v, e.data)
			buf = append(buf, v...)
			continue
		}
		buf = le.AppendUint32(buf, uint32(dataOff+len(data)))
		data = append(data, e.data...)
		if len(data)%2 == 1 {
			data = append(data, 0)
		}
	}
	buf = le.AppendUint32(buf, 0)
	return append(buf, data...), valueAt
}

// buildTIFF returns a little-endian TIFF block with an IFD0 and an optional Exif sub-IFD.
func buildTIFF(t *testing.T, ifd0 []ifdEntry, sub []ifdEntry) []byte {
	t.Helper()
	const exifPointer = 0x8769

	if len(sub) > 0 {
		ifd0 = append(ifd0, ifdEntry{tag: exifPointer, typ: 4, count: 1, data: make([]byte, 4)})
	}

	buf := []byte{'I', 'I', 42, 0, 8, 0, 0, 0}
	buf, valueAt := appendIFD(buf, ifd0)
	if len(sub) == 0 {
		return buf
	}

	if len(buf)%2 == 1 {
		buf = append(buf, 0)
	}
	binary.LittleEndian.PutUint32(buf[valueAt[exifPointer]:], uint32(len(buf)))
	buf, _ = appendIFD(buf, sub)
	return buf
}

// canonTIFF is the EXIF block of a typical camera photo.
func canonTIFF(t *testing.T) []byte {
	t.Helper()
	return buildTIFF(t,
		[]ifdEntry{
			asciiEntry(0x010F, "Canon"),
			asciiEntry(0x0110, "Canon EOS R5"),
			asciiEntry(0x013B, "Ann"),
		},
		[]ifdEntry{
			ratEntry(0x829A, 1, 250),
			ratEntry(0x829D, 28, 5),
			shortEntry(0x8827, 100),
			asciiEntry(0x9003, "2023:05:01 10:00:00"),
			ratEntry(0x920A, 50, 1),
			shortEntry(0xA002, 320),
			shortEntry(0xA003, 240),
			shortEntry(0xA405, 75),
		},
	)
}

// writeFixture writes a w by h JPEG filled with c to path, embedding raw as its EXIF block.
func writeFixture(t *testing.T, path string, w, h int, c color.Color, raw []byte) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	if err := WriteJPEG(f, img, 90, 72, raw); err != nil {
		t.Fatalf("WriteJPEG: %v", err)
	}
}

// insertXMP rewrites the JPEG at path with an XMP APP1 segment placed ahead of every other APP1.
func insertXMP(t *testing.T, path string) {
	t.Helper()

	bs, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	sl, err := parseSegments(bs)
	if err != nil {
		t.Fatalf("parseSegments: %v", err)
	}

	xmp := &jpegstructure.Segment{
		MarkerId:   jpegstructure.MARKER_APP1,
		MarkerName: "APP1",
		Data:       []byte("http://ns.adobe.com/xap/1.0/\x00<x:xmpmeta xmlns:x=\"adobe:ns:meta/\"/>"),
	}

	segs := []*jpegstructure.Segment{}
	placed := false
	for _, s := range sl.Segments() {
		if !placed && s.MarkerId == jpegstructure.MARKER_APP1 {
			segs = append(segs, xmp)
			placed = true
		}
		segs = append(segs, s)
	}
	if !placed {
		t.Fatalf("%s has no APP1 segment to precede", path)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	if err := jpegstructure.NewSegmentList(segs).Write(f); err != nil {
		t.Fatalf("write: %v", err)
	}
}
