// Package pixbuf defines the raw sample grid every analysis, codec and
// segmentation step consumes and produces.
//
// A Buffer is treated as immutable once built: core functions never write
// into their input and always return a freshly allocated Buffer.
package pixbuf

import "fmt"

// Buffer is a row-major, channel-interleaved grid of 8-bit samples.
// Channels is 3 (RGB) or 4 (RGBA).
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// New allocates a zeroed buffer.
func New(width, height, channels int) (*Buffer, error) {
	if err := checkDims(width, height, channels); err != nil {
		return nil, err
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// FromSamples wraps an existing sample slice after validating its length.
// The slice is not copied; the caller hands over ownership.
func FromSamples(width, height, channels int, pix []uint8) (*Buffer, error) {
	b := &Buffer{Width: width, Height: height, Channels: channels, Pix: pix}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the structural invariants of b.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("nil buffer: %w", ErrInvalidBuffer)
	}
	if err := checkDims(b.Width, b.Height, b.Channels); err != nil {
		return err
	}
	if want := b.Width * b.Height * b.Channels; len(b.Pix) != want {
		return fmt.Errorf("sample count %d, want %d (%dx%dx%d): %w",
			len(b.Pix), want, b.Width, b.Height, b.Channels, ErrInvalidBuffer)
	}
	return nil
}

func checkDims(width, height, channels int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("dimensions %dx%d: %w", width, height, ErrInvalidBuffer)
	}
	if channels != 3 && channels != 4 {
		return fmt.Errorf("channels %d (want 3 or 4): %w", channels, ErrInvalidBuffer)
	}
	return nil
}

// Pixels returns Width*Height.
func (b *Buffer) Pixels() int { return b.Width * b.Height }

// HasAlpha reports whether the buffer carries an alpha channel.
func (b *Buffer) HasAlpha() bool { return b.Channels == 4 }

// Offset returns the index of the first sample of pixel (x, y).
func (b *Buffer) Offset(x, y int) int { return (y*b.Width + x) * b.Channels }

// RGB returns the color samples of pixel (x, y).
func (b *Buffer) RGB(x, y int) (r, g, bl uint8) {
	o := b.Offset(x, y)
	return b.Pix[o], b.Pix[o+1], b.Pix[o+2]
}

// Alpha returns the alpha sample of pixel (x, y), 255 for RGB buffers.
func (b *Buffer) Alpha(x, y int) uint8 {
	if b.Channels < 4 {
		return 255
	}
	return b.Pix[b.Offset(x, y)+3]
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Width: b.Width, Height: b.Height, Channels: b.Channels}
	out.Pix = make([]uint8, len(b.Pix))
	copy(out.Pix, b.Pix)
	return out
}

// SameShape returns a zeroed buffer with b's dimensions and channel count.
// Alpha is copied over so derived images keep the source transparency.
func (b *Buffer) SameShape() *Buffer {
	out := &Buffer{Width: b.Width, Height: b.Height, Channels: b.Channels}
	out.Pix = make([]uint8, len(b.Pix))
	if b.Channels == 4 {
		for i := 3; i < len(b.Pix); i += 4 {
			out.Pix[i] = b.Pix[i]
		}
	}
	return out
}

// Plane extracts channel c as a dense Width*Height slice.
func (b *Buffer) Plane(c int) []uint8 {
	n := b.Pixels()
	out := make([]uint8, n)
	for i, o := 0, c; i < n; i, o = i+1, o+b.Channels {
		out[i] = b.Pix[o]
	}
	return out
}

// SetPlane writes a dense Width*Height slice into channel c.
func (b *Buffer) SetPlane(c int, plane []uint8) {
	for i, o := 0, c; i < len(plane); i, o = i+1, o+b.Channels {
		b.Pix[o] = plane[i]
	}
}

// Equal reports whether a and b have the same shape and samples.
func Equal(a, b *Buffer) bool {
	if a.Width != b.Width || a.Height != b.Height || a.Channels != b.Channels {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}

// ClampByte rounds v to the nearest integer and clamps it to [0, 255].
func ClampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
