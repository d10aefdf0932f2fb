package encoder

import (
	"bytes"
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/disintegration/imaging"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 16), uint8(y * 20), 90, 200})
		}
	}
	return img
}

func TestRegistryRoundtrip(t *testing.T) {
	r := NewRegistry()
	src := testImage()
	for _, f := range r.Available() {
		enc := r.Get(f)
		data, err := enc.Encode(src, 90)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s decode: %v", f, err)
		}
		if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 12 {
			t.Errorf("%s: bounds %v", f, img.Bounds())
		}
	}
}

func TestPNGKeepsPixels(t *testing.T) {
	src := testImage()
	data, err := NewRegistry().Get("png").Encode(src, 0)
	if err != nil {
		t.Fatal(err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	got := imaging.Clone(img)
	if !bytes.Equal(got.Pix, src.Pix) {
		t.Error("png roundtrip changed pixels")
	}
}

func TestGetAliases(t *testing.T) {
	r := NewRegistry()
	if r.Get("JPG") == nil || r.Get(".tif") == nil {
		t.Error("aliases not resolved")
	}
	if r.Get("avif") != nil {
		t.Error("unknown format resolved")
	}
	if got := r.ForPath("out/x.JPEG").Format(); got != "jpeg" {
		t.Errorf("ForPath jpeg: %s", got)
	}
	if got := r.ForPath("noext").Format(); got != "png" {
		t.Errorf("ForPath default: %s", got)
	}
}

func TestResolveFormats(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		req   []string
		alpha bool
		want  []string
	}{
		{nil, false, []string{"jpeg"}},
		{nil, true, []string{"png"}},
		{[]string{"jpg", "jpeg", "webp"}, false, []string{"jpeg"}},
		{[]string{"jpeg"}, true, []string{"jpeg", "png"}},
		{[]string{"tiff", "jpeg"}, true, []string{"tiff", "jpeg"}},
	}
	for _, tt := range tests {
		if got := r.ResolveFormats(tt.req, tt.alpha); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ResolveFormats(%v, %v) = %v, want %v", tt.req, tt.alpha, got, tt.want)
		}
	}
}
