package colorx

import (
	"fmt"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

// PixelInfo describes one sampled pixel in every supported representation.
type PixelInfo struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	R    uint8  `json:"r"`
	G    uint8  `json:"g"`
	B    uint8  `json:"b"`
	A    uint8  `json:"a"`
	Hex  string `json:"hex"`
	HSL  HSL    `json:"hsl"`
	CMYK CMYK   `json:"cmyk"`
	Gray uint8  `json:"gray"`
	Dark bool   `json:"dark"`

	Complementary string `json:"complementary"` // hex of the RGB complement
}

// SampleAt reads pixel (x, y). Coordinates are 0-based from the top-left.
func SampleAt(buf *pixbuf.Buffer, x, y int) (PixelInfo, error) {
	if err := buf.Validate(); err != nil {
		return PixelInfo{}, fmt.Errorf("sample: %w", err)
	}
	if x < 0 || y < 0 || x >= buf.Width || y >= buf.Height {
		return PixelInfo{}, fmt.Errorf("sample (%d,%d) outside %dx%d: %w",
			x, y, buf.Width, buf.Height, pixbuf.ErrInvalidParameter)
	}
	r, g, b := buf.RGB(x, y)
	cr, cg, cb := Complementary(r, g, b)
	return PixelInfo{
		X: x, Y: y,
		R: r, G: g, B: b,
		A:    buf.Alpha(x, y),
		Hex:  Hex(r, g, b),
		HSL:  RGBToHSL(r, g, b),
		CMYK: RGBToCMYK(r, g, b),
		Gray: Grayscale(r, g, b),
		Dark: IsDark(r, g, b),

		Complementary: Hex(cr, cg, cb),
	}, nil
}

// GrayscaleBuffer returns b with every pixel replaced by its luminance,
// replicated over RGB. Alpha is kept.
func GrayscaleBuffer(b *pixbuf.Buffer) *pixbuf.Buffer {
	out := b.SameShape()
	for o := 0; o < len(b.Pix); o += b.Channels {
		v := Grayscale(b.Pix[o], b.Pix[o+1], b.Pix[o+2])
		out.Pix[o], out.Pix[o+1], out.Pix[o+2] = v, v, v
	}
	return out
}

// GrayPlane returns the luminance of every pixel as a dense slice.
func GrayPlane(b *pixbuf.Buffer) []uint8 {
	out := make([]uint8, b.Pixels())
	for i, o := 0, 0; i < len(out); i, o = i+1, o+b.Channels {
		out[i] = Grayscale(b.Pix[o], b.Pix[o+1], b.Pix[o+2])
	}
	return out
}
