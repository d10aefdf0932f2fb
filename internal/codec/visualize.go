package codec

import (
	"math"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

// visualize renders dequantized coefficients as an RGB image, one color
// channel per plane.
//
// DCT: log1p(|c|) scaled by the largest value over all planes, cropped to
// the source size. DWT: the padded Mallat grid, LL band min-max stretched and
// every detail band scaled by its own peak magnitude.
func visualize(c *Coefficients, deq [3][]float64) *pixbuf.Buffer {
	if c.Method == DCT {
		return visualizeDCT(c, deq)
	}
	return visualizeDWT(c, deq)
}

func visualizeDCT(c *Coefficients, deq [3][]float64) *pixbuf.Buffer {
	out, _ := pixbuf.New(c.Width, c.Height, 3)
	var peak float64
	for _, p := range deq {
		for _, v := range p {
			peak = math.Max(peak, math.Log1p(math.Abs(v)))
		}
	}
	if peak == 0 {
		return out
	}
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			o := (y*c.Width + x) * 3
			for p := 0; p < 3; p++ {
				v := math.Log1p(math.Abs(deq[p][y*c.PadW+x]))
				out.Pix[o+p] = pixbuf.ClampByte(v / peak * 255)
			}
		}
	}
	return out
}

func visualizeDWT(c *Coefficients, deq [3][]float64) *pixbuf.Buffer {
	out, _ := pixbuf.New(c.PadW, c.PadH, 3)
	bands := haarBands(c.PadW, c.PadH, c.Depth)
	for p := 0; p < 3; p++ {
		plane := deq[p]
		for i, b := range bands {
			if i == 0 {
				stretchBand(out, p, plane, c.PadW, b)
				continue
			}
			magnitudeBand(out, p, plane, c.PadW, b)
		}
	}
	return out
}

func stretchBand(out *pixbuf.Buffer, ch int, plane []float64, stride int, b subband) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for y := b.y0; y < b.y1; y++ {
		for x := b.x0; x < b.x1; x++ {
			v := plane[y*stride+x]
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	span := hi - lo
	for y := b.y0; y < b.y1; y++ {
		for x := b.x0; x < b.x1; x++ {
			var v float64
			if span > 0 {
				v = (plane[y*stride+x] - lo) / span * 255
			}
			out.Pix[(y*stride+x)*3+ch] = pixbuf.ClampByte(v)
		}
	}
}

func magnitudeBand(out *pixbuf.Buffer, ch int, plane []float64, stride int, b subband) {
	var peak float64
	for y := b.y0; y < b.y1; y++ {
		for x := b.x0; x < b.x1; x++ {
			peak = math.Max(peak, math.Abs(plane[y*stride+x]))
		}
	}
	if peak == 0 {
		return
	}
	for y := b.y0; y < b.y1; y++ {
		for x := b.x0; x < b.x1; x++ {
			out.Pix[(y*stride+x)*3+ch] = pixbuf.ClampByte(math.Abs(plane[y*stride+x]) / peak * 255)
		}
	}
}
