package pixbuf

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// FromImage converts a decoded image into a Buffer. Opaque images become
// 3-channel buffers; anything with a translucent pixel keeps its alpha.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image bounds %v: %w", bounds, ErrInvalidBuffer)
	}

	// imaging.Clone normalises every image type (YCbCr, Gray, Paletted,
	// premultiplied RGBA...) to non-premultiplied NRGBA at origin 0,0.
	src, ok := img.(*image.NRGBA)
	if !ok || src.Rect.Min != (image.Point{}) {
		src = imaging.Clone(img)
	}

	channels := 3
	if hasAlpha(src) {
		channels = 4
	}
	out := &Buffer{Width: w, Height: h, Channels: channels}
	out.Pix = make([]uint8, w*h*channels)

	di := 0
	for y := 0; y < h; y++ {
		off := y * src.Stride
		if channels == 4 {
			copy(out.Pix[di:di+w*4], src.Pix[off:off+w*4])
			di += w * 4
			continue
		}
		for x := 0; x < w; x++ {
			out.Pix[di] = src.Pix[off]
			out.Pix[di+1] = src.Pix[off+1]
			out.Pix[di+2] = src.Pix[off+2]
			off += 4
			di += 3
		}
	}
	return out, nil
}

// ToImage converts b into an *image.NRGBA for encoding.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	si, di := 0, 0
	for i := 0; i < b.Pixels(); i++ {
		img.Pix[di] = b.Pix[si]
		img.Pix[di+1] = b.Pix[si+1]
		img.Pix[di+2] = b.Pix[si+2]
		if b.Channels == 4 {
			img.Pix[di+3] = b.Pix[si+3]
		} else {
			img.Pix[di+3] = 255
		}
		si += b.Channels
		di += 4
	}
	return img
}

func hasAlpha(img *image.NRGBA) bool {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] < 255 {
				return true
			}
		}
	}
	return false
}
