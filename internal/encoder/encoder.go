// Package encoder writes result images to the raster formats a pixlab run
// can emit.
package encoder

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// DefaultQuality is used when a lossy format is asked for quality 0.
const DefaultQuality = 82

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "jpeg", "png").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless formats ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Alpha reports whether the format keeps the alpha channel.
	Alpha() bool

	// Extension returns the file extension without dot.
	Extension() string
}

// imagingEncoder wraps imaging.Encode for one format.
type imagingEncoder struct {
	format imaging.Format
	name   string
	ext    string
	alpha  bool
	grow   int
}

func (e *imagingEncoder) Format() string    { return e.name }
func (e *imagingEncoder) Extension() string { return e.ext }
func (e *imagingEncoder) Alpha() bool       { return e.alpha }

func (e *imagingEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	buf.Grow(e.grow)

	err := imaging.Encode(&buf, img, e.format,
		imaging.JPEGQuality(quality),
		imaging.PNGCompressionLevel(png.BestCompression),
	)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
