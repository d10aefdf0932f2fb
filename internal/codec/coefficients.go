package codec

import (
	"fmt"

	"github.com/AnyUserName/pixlab/internal/parallel"
	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

// Coefficients is the quantized transform of a buffer: one integer plane per
// color channel on the padded grid, plus untouched alpha.
type Coefficients struct {
	Method   Method
	Level    int
	Depth    int
	Width    int
	Height   int
	Channels int
	PadW     int
	PadH     int
	Planes   [3][]int32
	Alpha    []uint8 // nil for 3-channel buffers
}

// paddedDims rounds w and h up to the transform's block size.
func paddedDims(m Method, depth, w, h int) (int, int) {
	unit := blockSize
	if m == DWT {
		unit = 1 << depth
	}
	return (w + unit - 1) / unit * unit, (h + unit - 1) / unit * unit
}

// shiftedPlane copies channel c into a padW×padH grid, replicating the last
// row and column, and subtracts 128.
func shiftedPlane(buf *pixbuf.Buffer, c, padW, padH int) []float64 {
	out := make([]float64, padW*padH)
	for y := 0; y < padH; y++ {
		sy := min(y, buf.Height-1)
		for x := 0; x < padW; x++ {
			sx := min(x, buf.Width-1)
			out[y*padW+x] = float64(buf.Pix[buf.Offset(sx, sy)+c]) - 128
		}
	}
	return out
}

// Quantize runs the forward transform and quantizer without reconstructing.
func Quantize(buf *pixbuf.Buffer, opts Options) (*Coefficients, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	opts, err := opts.normalized()
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	padW, padH := paddedDims(opts.Method, opts.Depth, buf.Width, buf.Height)
	c := &Coefficients{
		Method:   opts.Method,
		Level:    opts.Level,
		Depth:    opts.Depth,
		Width:    buf.Width,
		Height:   buf.Height,
		Channels: buf.Channels,
		PadW:     padW,
		PadH:     padH,
	}
	if buf.HasAlpha() {
		c.Alpha = buf.Plane(3)
	}

	switch opts.Method {
	case DCT:
		t := newDCTTable(opts.Level)
		for p := 0; p < 3; p++ {
			c.Planes[p] = quantizeDCT(shiftedPlane(buf, p, padW, padH), padW, padH, &t, opts.Workers)
		}
	case DWT:
		parallel.Each(3, opts.Workers, func(p int) {
			plane := shiftedPlane(buf, p, padW, padH)
			forwardHaar(plane, padW, padH, opts.Depth)
			c.Planes[p] = quantizeHaar(plane, padW, padH, opts.Depth, opts.Level)
		})
	}
	return c, nil
}

// Retained counts non-zero quantized coefficients over the color planes.
func (c *Coefficients) Retained() int {
	var n int
	for _, p := range c.Planes {
		for _, v := range p {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

func (c *Coefficients) dequantize(p int) []float64 {
	if c.Method == DCT {
		t := newDCTTable(c.Level)
		return dequantizeDCT(c.Planes[p], c.PadW, &t)
	}
	return dequantizeHaar(c.Planes[p], c.PadW, c.PadH, c.Depth, c.Level)
}

func (c *Coefficients) dequantizeAll() [3][]float64 {
	var out [3][]float64
	for p := range out {
		out[p] = c.dequantize(p)
	}
	return out
}

// spatial inverts one dequantized plane back to level-shifted samples on the
// padded grid. deq is left untouched.
func (c *Coefficients) spatial(deq []float64, workers int) []float64 {
	if c.Method == DCT {
		return inverseDCT(deq, c.PadW, c.PadH, workers)
	}
	out := make([]float64, len(deq))
	copy(out, deq)
	inverseHaar(out, c.PadW, c.PadH, c.Depth)
	return out
}

func (c *Coefficients) reconstructFrom(deq [3][]float64, workers int) *pixbuf.Buffer {
	out := &pixbuf.Buffer{Width: c.Width, Height: c.Height, Channels: c.Channels}
	out.Pix = make([]uint8, c.Width*c.Height*c.Channels)

	var planes [3][]float64
	if c.Method == DCT {
		for p := range planes {
			planes[p] = c.spatial(deq[p], workers)
		}
	} else {
		parallel.Each(3, workers, func(p int) {
			planes[p] = c.spatial(deq[p], 1)
		})
	}

	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			o := (y*c.Width + x) * c.Channels
			for p := 0; p < 3; p++ {
				out.Pix[o+p] = pixbuf.ClampByte(planes[p][y*c.PadW+x] + 128)
			}
			if c.Alpha != nil {
				out.Pix[o+3] = c.Alpha[y*c.Width+x]
			}
		}
	}
	return out
}

// Reconstruct dequantizes and inverts c into a buffer of the original shape.
func (c *Coefficients) Reconstruct() *pixbuf.Buffer {
	return c.reconstructFrom(c.dequantizeAll(), 0)
}

// Requantize inverts c in the continuous domain (no rounding, no crop), runs
// the forward transform again and quantizes at the same level. The result
// equals c: quantization is idempotent on its own output.
func (c *Coefficients) Requantize() *Coefficients {
	out := *c
	deq := c.dequantizeAll()
	for p := 0; p < 3; p++ {
		s := c.spatial(deq[p], 1)
		switch c.Method {
		case DCT:
			t := newDCTTable(c.Level)
			out.Planes[p] = quantizeDCT(s, c.PadW, c.PadH, &t, 1)
		case DWT:
			forwardHaar(s, c.PadW, c.PadH, c.Depth)
			out.Planes[p] = quantizeHaar(s, c.PadW, c.PadH, c.Depth, c.Level)
		}
	}
	return &out
}

// Equal reports whether two coefficient sets are identical.
func (c *Coefficients) Equal(o *Coefficients) bool {
	if c.Method != o.Method || c.Level != o.Level || c.Depth != o.Depth ||
		c.Width != o.Width || c.Height != o.Height || c.Channels != o.Channels ||
		c.PadW != o.PadW || c.PadH != o.PadH || len(c.Alpha) != len(o.Alpha) {
		return false
	}
	for p := range c.Planes {
		if len(c.Planes[p]) != len(o.Planes[p]) {
			return false
		}
		for i, v := range c.Planes[p] {
			if o.Planes[p][i] != v {
				return false
			}
		}
	}
	for i, v := range c.Alpha {
		if o.Alpha[i] != v {
			return false
		}
	}
	return true
}
