package colorx

import (
	"fmt"
	"sort"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

const (
	// dominantMaxDim bounds the longest side of the image scanned for
	// dominant colors.
	dominantMaxDim = 50
	// bucketStep is the per-channel rounding step; 0..256 in steps of 8 gives
	// 33 levels per channel.
	bucketStep = 8
	// minOpaqueAlpha skips pixels that are mostly transparent.
	minOpaqueAlpha = 128
)

// DominantColors returns up to k of the most frequent bucketed colors as
// "#rrggbb" strings, most frequent first. Ties keep scan order.
func DominantColors(buf *pixbuf.Buffer, k int) ([]string, error) {
	if buf == nil || buf.Width*buf.Height == 0 {
		return nil, fmt.Errorf("dominant colors: %w", pixbuf.ErrEmptyImage)
	}
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("dominant colors: %w", err)
	}
	if k < 1 {
		return nil, fmt.Errorf("dominant colors: k=%d: %w", k, pixbuf.ErrInvalidParameter)
	}

	small := pixbuf.Downsample(buf, dominantMaxDim)

	type bucket struct {
		key   int
		count int
	}
	index := make(map[int]int) // bucket key -> position in order
	var order []bucket

	ch := small.Channels
	for o := 0; o < len(small.Pix); o += ch {
		if ch == 4 && small.Pix[o+3] < minOpaqueAlpha {
			continue
		}
		key := bucketLevel(small.Pix[o])<<16 | bucketLevel(small.Pix[o+1])<<8 | bucketLevel(small.Pix[o+2])
		if i, ok := index[key]; ok {
			order[i].count++
			continue
		}
		index[key] = len(order)
		order = append(order, bucket{key: key, count: 1})
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("dominant colors: no opaque pixels: %w", pixbuf.ErrEmptyImage)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})

	n := min(k, len(order))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		key := order[i].key
		out[i] = Hex(levelValue(key>>16), levelValue(key>>8&0xff), levelValue(key&0xff))
	}
	return out, nil
}

// bucketLevel returns round(v/8), 0..32.
func bucketLevel(v uint8) int {
	return (int(v) + bucketStep/2) / bucketStep
}

// levelValue maps a bucket level back to a channel value; level 32 (256)
// clamps to 255.
func levelValue(level int) uint8 {
	return uint8(min(level*bucketStep, 255))
}
