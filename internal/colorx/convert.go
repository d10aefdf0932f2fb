// Package colorx holds per-pixel color-space conversions and color sampling.
//
// All percentages are rounded to integers in [0, 100], hue to [0, 360).
// Degenerate inputs (achromatic HSL, pure black CMYK) yield zeros, never NaN.
package colorx

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
	"github.com/lucasb-eyer/go-colorful"
)

// HSL is a color in hue/saturation/lightness.
type HSL struct {
	H int `json:"h"` // 0-359 degrees
	S int `json:"s"` // 0-100 percent
	L int `json:"l"` // 0-100 percent
}

// CMYK is a color in cyan/magenta/yellow/key, each 0-100 percent.
type CMYK struct {
	C int `json:"c"`
	M int `json:"m"`
	Y int `json:"y"`
	K int `json:"k"`
}

// RGBToHSL converts 8-bit RGB to HSL.
func RGBToHSL(r, g, b uint8) HSL {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	if math.IsNaN(h) || math.IsNaN(s) {
		h, s = 0, 0
	}
	hi := int(math.Round(h)) % 360
	if hi < 0 {
		hi += 360
	}
	return HSL{H: hi, S: percent(s), L: percent(l)}
}

// HSLToRGB converts HSL back to 8-bit RGB. Out-of-range inputs are clamped.
func HSLToRGB(c HSL) (r, g, b uint8) {
	h := math.Mod(float64(c.H), 360)
	if h < 0 {
		h += 360
	}
	s := clamp01(float64(c.S) / 100)
	l := clamp01(float64(c.L) / 100)
	return colorful.Hsl(h, s, l).Clamped().RGB255()
}

// RGBToCMYK converts 8-bit RGB to CMYK.
func RGBToCMYK(r, g, b uint8) CMYK {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	k := 1 - max(rf, gf, bf)
	if k >= 1 {
		return CMYK{K: 100}
	}
	return CMYK{
		C: percent((1 - rf - k) / (1 - k)),
		M: percent((1 - gf - k) / (1 - k)),
		Y: percent((1 - bf - k) / (1 - k)),
		K: percent(k),
	}
}

// CMYKToRGB converts CMYK percentages back to 8-bit RGB.
func CMYKToRGB(c CMYK) (r, g, b uint8) {
	k := clamp01(float64(c.K) / 100)
	conv := func(v int) uint8 {
		return pixbuf.ClampByte(255 * (1 - clamp01(float64(v)/100)) * (1 - k))
	}
	return conv(c.C), conv(c.M), conv(c.Y)
}

// Grayscale returns round(0.299r + 0.587g + 0.114b), clamped to [0, 255].
func Grayscale(r, g, b uint8) uint8 {
	v := math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// IsDark reports whether text on this background should be light, using
// YIQ perceived brightness.
func IsDark(r, g, b uint8) bool {
	brightness := (int(r)*299 + int(g)*587 + int(b)*114) / 1000
	return brightness < 128
}

// Complementary returns the RGB inverse of a color.
func Complementary(r, g, b uint8) (uint8, uint8, uint8) {
	return 255 - r, 255 - g, 255 - b
}

const hexDigits = "0123456789abcdef"

// Hex formats a color as lowercase "#rrggbb".
func Hex(r, g, b uint8) string {
	buf := [7]byte{'#',
		hexDigits[r>>4], hexDigits[r&0x0f],
		hexDigits[g>>4], hexDigits[g&0x0f],
		hexDigits[b>>4], hexDigits[b&0x0f],
	}
	return string(buf[:])
}

// ParseHex parses "#rrggbb", "rrggbb" or the "#rgb" shorthand.
func ParseHex(s string) (r, g, b uint8, err error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("hex color %q: %w", s, pixbuf.ErrInvalidParameter)
	}
	v, perr := strconv.ParseUint(h, 16, 32)
	if perr != nil {
		return 0, 0, 0, fmt.Errorf("hex color %q: %w", s, pixbuf.ErrInvalidParameter)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

func percent(v float64) int {
	return int(math.Round(clamp01(v) * 100))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
