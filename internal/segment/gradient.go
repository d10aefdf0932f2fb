package segment

import (
	"math"

	"github.com/AnyUserName/pixlab/internal/parallel"
	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

// Gradient returns the Sobel magnitude of a w×h gray plane divided by 4 and
// clamped to [0, 255]. Borders replicate the nearest edge pixel.
func Gradient(gray []uint8, w, h, workers int) []uint8 {
	out := make([]uint8, w*h)
	at := func(x, y int) int {
		x = min(max(x, 0), w-1)
		y = min(max(y, 0), h-1)
		return int(gray[y*w+x])
	}
	parallel.Ranges(h, workers, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			for x := 0; x < w; x++ {
				tl, tc, tr := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
				ml, mr := at(x-1, y), at(x+1, y)
				bl, bc, br := at(x-1, y+1), at(x, y+1), at(x+1, y+1)
				gx := (tr + 2*mr + br) - (tl + 2*ml + bl)
				gy := (bl + 2*bc + br) - (tl + 2*tc + tr)
				out[y*w+x] = pixbuf.ClampByte(math.Sqrt(float64(gx*gx+gy*gy)) / 4)
			}
		}
	})
	return out
}
