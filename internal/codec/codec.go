// Package codec implements block-transform lossy compression (8x8 DCT and
// multi-level Haar DWT) over pixbuf buffers, with fidelity metrics, a
// coefficient visualization and a packed bitstream.
//
// All functions are pure: inputs are never modified and identical inputs
// give identical outputs regardless of Workers.
package codec

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

// Method selects the transform.
type Method int

const (
	DCT Method = iota
	DWT
)

func (m Method) String() string {
	switch m {
	case DCT:
		return "dct"
	case DWT:
		return "dwt"
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// ParseMethod accepts "dct" or "dwt", case-insensitive.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dct":
		return DCT, nil
	case "dwt":
		return DWT, nil
	}
	return 0, fmt.Errorf("unknown method %q: %w", s, pixbuf.ErrInvalidParameter)
}

const (
	MinLevel     = 0
	MaxLevel     = 100
	DefaultDepth = 2
	MaxDepth     = 8
)

// ErrInvalidLevel is returned for a compression level outside [0, 100].
var ErrInvalidLevel = fmt.Errorf("compression level out of range: %w", pixbuf.ErrInvalidParameter)

// Options configures Compress.
type Options struct {
	Method  Method
	Level   int // 0 = near-lossless, 100 = most aggressive
	Depth   int // DWT decomposition levels; 0 = DefaultDepth
	Workers int // 0 = NumCPU
}

func (o Options) normalized() (Options, error) {
	if o.Method != DCT && o.Method != DWT {
		return o, fmt.Errorf("method %v: %w", o.Method, pixbuf.ErrInvalidParameter)
	}
	if o.Level < MinLevel || o.Level > MaxLevel {
		return o, fmt.Errorf("level %d: %w", o.Level, ErrInvalidLevel)
	}
	if o.Method == DCT {
		o.Depth = 0
		return o, nil
	}
	if o.Depth == 0 {
		o.Depth = DefaultDepth
	}
	if o.Depth < 1 || o.Depth > MaxDepth {
		return o, fmt.Errorf("depth %d (want 1..%d): %w", o.Depth, MaxDepth, pixbuf.ErrInvalidParameter)
	}
	return o, nil
}

// Result is the outcome of one compression run.
type Result struct {
	Method Method
	Level  int
	Depth  int

	Compressed    *pixbuf.Buffer // same shape as the input
	Visualization *pixbuf.Buffer // 3 channels; padded grid for DWT
	Coefficients  *Coefficients

	OriginalSizeBytes   int
	CompressedSizeBytes int
	CompressionRatio    float64
	Retained            int // non-zero quantized coefficients
	MSE                 float64
	PSNR                float64 // +Inf when MSE is 0
}

// Compress quantizes buf in the transform domain and reconstructs it.
//
// CompressedSizeBytes is the number of non-zero quantized coefficients plus
// one byte per pixel of pass-through alpha, never less than 1. It does not
// grow with level.
func Compress(buf *pixbuf.Buffer, opts Options) (*Result, error) {
	coefs, err := Quantize(buf, opts)
	if err != nil {
		return nil, err
	}

	deq := coefs.dequantizeAll()
	out := coefs.reconstructFrom(deq, opts.Workers)

	mse, err := MSE(buf, out)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	retained := coefs.Retained()
	size := retained
	if buf.HasAlpha() {
		size += buf.Pixels()
	}
	size = max(size, 1)
	orig := len(buf.Pix)

	return &Result{
		Method:              coefs.Method,
		Level:               coefs.Level,
		Depth:               coefs.Depth,
		Compressed:          out,
		Visualization:       visualize(coefs, deq),
		Coefficients:        coefs,
		OriginalSizeBytes:   orig,
		CompressedSizeBytes: size,
		CompressionRatio:    float64(orig) / float64(size),
		Retained:            retained,
		MSE:                 mse,
		PSNR:                PSNR(mse),
	}, nil
}
