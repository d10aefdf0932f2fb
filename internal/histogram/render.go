package histogram

import (
	"fmt"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

var barColors = map[Channel][3]uint8{
	Red:       {230, 57, 70},
	Green:     {46, 196, 100},
	Blue:      {58, 110, 230},
	Luminance: {200, 200, 200},
}

// Render draws h as a bar chart on a black width×height canvas. Bar heights
// are normalised to the tallest bin.
func Render(h *Histogram, width, height int) (*pixbuf.Buffer, error) {
	out, err := pixbuf.New(width, height, 3)
	if err != nil {
		return nil, fmt.Errorf("render histogram: %w", err)
	}
	peak := h.Max()
	if peak == 0 {
		return out, nil
	}
	col := barColors[h.Channel]
	for x := 0; x < width; x++ {
		// Each column shows the bin it covers; narrower canvases pick the
		// tallest bin of the span.
		v0 := x * 256 / width
		v1 := max((x+1)*256/width, v0+1)
		var c int
		for v := v0; v < v1 && v < 256; v++ {
			c = max(c, h.Counts[v])
		}
		bar := c * height / peak
		if c > 0 && bar == 0 {
			bar = 1
		}
		for y := height - bar; y < height; y++ {
			o := (y*width + x) * 3
			out.Pix[o], out.Pix[o+1], out.Pix[o+2] = col[0], col[1], col[2]
		}
	}
	return out, nil
}
