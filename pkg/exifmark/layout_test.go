package exifmark

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeLayoutLandscape(t *testing.T) {
	c := Caption{
		Camera:   "Canon EOS R5",
		Subtitle: "2023:05:01 10:00:00",
		Lens:     "50mm(75mm) f/5.6 1/250 ISO100",
		Artist:   "PHOTO BY Ann",
	}

	got := ComputeLayout(6000, 4000, c, EstimateMeasurer{}, 0.95)
	want := Layout{
		Canvas:     image.Pt(6000, 4500),
		Border:     500,
		Photo:      image.Rect(150, 100, 5850, 3900),
		Divider:    image.Rect(3826, 4063, 3831, 4437),
		LogoHeight: 374,
		LogoRight:  3764,
		LogoTop:    4063,
		Text: []TextBlock{
			{Text: "Canon EOS R5", Left: 150, Top: 4125, Size: 125, Color: textBlack},
			{Text: "2023:05:01 10:00:00", Left: 150, Top: 4312, Size: 62, Color: textGray},
			{Text: "50mm(75mm) f/5.6 1/250 ISO100", Left: 3888, Top: 4125, Size: 125, Color: textBlack},
			{Text: "PHOTO BY Ann", Left: 3888, Top: 4312, Size: 62, Color: textGray},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeLayout() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeLayoutPortrait(t *testing.T) {
	got := ComputeLayout(3000, 4000, Caption{}, EstimateMeasurer{}, 0.95)

	if got.Border != 375 {
		t.Errorf("border = %d, want 375", got.Border)
	}
	if want := image.Pt(3000, 4375); got.Canvas != want {
		t.Errorf("canvas = %v, want %v", got.Canvas, want)
	}
	if want := image.Rect(75, 100, 2925, 3900); got.Photo != want {
		t.Errorf("photo = %v, want %v", got.Photo, want)
	}
}

func TestComputeLayoutArtistWiderThanLens(t *testing.T) {
	c := Caption{Lens: "??mm", Artist: "PHOTO BY A VERY LONG NAME INDEED"}
	got := ComputeLayout(4000, 4000, c, EstimateMeasurer{}, 0.95)

	// border 500, artist at size 62: 32 runes * 62 / 2 = 992
	if want := 4000 - (100*2 + 992); got.Text[2].Left != want {
		t.Errorf("right column = %d, want %d", got.Text[2].Left, want)
	}
	if got.Text[2].Left != got.Text[3].Left {
		t.Errorf("lens and artist columns differ: %d vs %d", got.Text[2].Left, got.Text[3].Left)
	}
}

func TestComputeLayoutTiny(t *testing.T) {
	got := ComputeLayout(4, 4, Caption{Camera: "x"}, EstimateMeasurer{}, 0.95)

	if got.Border != 0 {
		t.Errorf("border = %d, want 0", got.Border)
	}
	for _, tb := range got.Text {
		if tb.Size != 0 {
			t.Errorf("text %q size = %d, want 0", tb.Text, tb.Size)
		}
	}
}

func TestComputeLayoutArtistLine(t *testing.T) {
	// border 11: the subtitle rounds to h+6, the artist line to h+5
	got := ComputeLayout(120, 88, Caption{}, EstimateMeasurer{}, 1)

	if got.Border != 11 {
		t.Fatalf("border = %d, want 11", got.Border)
	}
	if got.Text[1].Top != 94 {
		t.Errorf("subtitle top = %d, want 94", got.Text[1].Top)
	}
	if got.Text[3].Top != 93 {
		t.Errorf("artist top = %d, want 93", got.Text[3].Top)
	}
}
