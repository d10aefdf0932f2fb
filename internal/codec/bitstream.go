package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
	"github.com/klauspost/compress/zstd"
)

// Stream layout:
//
//	"PXC1" | zstd( method u8 | level u8 | depth u8 | channels u8 |
//	               width uvarint | height uvarint |
//	               3 × padW*padH signed varints | width*height alpha bytes )
var streamMagic = []byte("PXC1")

// maxStreamPixels bounds the dimensions accepted from a stream header.
const maxStreamPixels = 1 << 28

// ErrCorruptStream is returned by Decode for malformed input.
var ErrCorruptStream = errors.New("corrupt pixlab stream")

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var zstdEncPool = sync.Pool{
	New: func() any {
		return mustNewZstdEncoder()
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		return mustNewZstdDecoder()
	},
}

// Encode packs c into a self-describing stream.
func Encode(c *Coefficients) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("encode: nil coefficients: %w", pixbuf.ErrInvalidParameter)
	}
	if c.Level < MinLevel || c.Level > MaxLevel || c.Depth < 0 || c.Depth > MaxDepth {
		return nil, fmt.Errorf("encode: level %d depth %d: %w", c.Level, c.Depth, pixbuf.ErrInvalidParameter)
	}
	n := c.PadW * c.PadH
	for p, plane := range c.Planes {
		if len(plane) != n {
			return nil, fmt.Errorf("encode: plane %d has %d coefficients, want %d: %w",
				p, len(plane), n, pixbuf.ErrInvalidParameter)
		}
	}

	raw := make([]byte, 0, 16+3*n+len(c.Alpha))
	raw = append(raw, byte(c.Method), byte(c.Level), byte(c.Depth), byte(c.Channels))
	raw = binary.AppendUvarint(raw, uint64(c.Width))
	raw = binary.AppendUvarint(raw, uint64(c.Height))
	for _, plane := range c.Planes {
		for _, v := range plane {
			raw = binary.AppendVarint(raw, int64(v))
		}
	}
	raw = append(raw, c.Alpha...)

	enc := zstdEncPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(raw, append([]byte(nil), streamMagic...))
	zstdEncPool.Put(enc)
	return out, nil
}

// DecodeCoefficients parses a stream produced by Encode.
func DecodeCoefficients(data []byte) (*Coefficients, error) {
	if !bytes.HasPrefix(data, streamMagic) {
		return nil, fmt.Errorf("decode: bad magic: %w", ErrCorruptStream)
	}
	dec := zstdDecPool.Get().(*zstd.Decoder)
	raw, err := dec.DecodeAll(data[len(streamMagic):], nil)
	zstdDecPool.Put(dec)
	if err != nil {
		return nil, fmt.Errorf("decode: zstd: %v: %w", err, ErrCorruptStream)
	}

	r := bytes.NewReader(raw)
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("decode: header: %w", ErrCorruptStream)
	}
	c := &Coefficients{
		Method:   Method(hdr[0]),
		Level:    int(hdr[1]),
		Depth:    int(hdr[2]),
		Channels: int(hdr[3]),
	}
	w, err1 := binary.ReadUvarint(r)
	h, err2 := binary.ReadUvarint(r)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("decode: dimensions: %w", ErrCorruptStream)
	}
	if w == 0 || h == 0 || w*h > maxStreamPixels || w > maxStreamPixels || h > maxStreamPixels {
		return nil, fmt.Errorf("decode: dimensions %dx%d: %w", w, h, ErrCorruptStream)
	}
	c.Width, c.Height = int(w), int(h)

	switch {
	case c.Method != DCT && c.Method != DWT,
		c.Level > MaxLevel,
		c.Channels != 3 && c.Channels != 4,
		c.Method == DWT && (c.Depth < 1 || c.Depth > MaxDepth),
		c.Method == DCT && c.Depth != 0:
		return nil, fmt.Errorf("decode: header %v: %w", hdr, ErrCorruptStream)
	}
	c.PadW, c.PadH = paddedDims(c.Method, c.Depth, c.Width, c.Height)

	// Every varint takes at least one byte, so a stream too short for three
	// full planes is rejected before anything is allocated.
	n := c.PadW * c.PadH
	if n > maxStreamPixels || r.Len() < 3*n {
		return nil, fmt.Errorf("decode: padded grid %dx%d with %d bytes left: %w",
			c.PadW, c.PadH, r.Len(), ErrCorruptStream)
	}
	for p := range c.Planes {
		plane := make([]int32, n)
		for i := range plane {
			v, err := binary.ReadVarint(r)
			if err != nil {
				return nil, fmt.Errorf("decode: plane %d: %w", p, ErrCorruptStream)
			}
			plane[i] = int32(v)
		}
		c.Planes[p] = plane
	}
	if c.Channels == 4 {
		c.Alpha = make([]uint8, c.Width*c.Height)
		if _, err := io.ReadFull(r, c.Alpha); err != nil {
			return nil, fmt.Errorf("decode: alpha: %w", ErrCorruptStream)
		}
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("decode: %d trailing bytes: %w", r.Len(), ErrCorruptStream)
	}
	return c, nil
}

// Decode parses a stream and reconstructs the buffer Compress produced for
// the same coefficients.
func Decode(data []byte) (*pixbuf.Buffer, error) {
	c, err := DecodeCoefficients(data)
	if err != nil {
		return nil, err
	}
	return c.Reconstruct(), nil
}
