package codec

import (
	"math"

	"github.com/AnyUserName/pixlab/internal/parallel"
)

const blockSize = 8

// dctBasis[u][x] = a(u) * cos((2x+1)uπ/16), the orthonormal DCT-II basis.
var dctBasis [blockSize][blockSize]float64

// zigzag maps a zigzag scan position to its natural (row*8+col) index.
var zigzag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// baseQuant is the JPEG Annex K luminance table, natural order.
var baseQuant = [64]float64{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

func init() {
	for u := 0; u < blockSize; u++ {
		a := math.Sqrt(2.0 / blockSize)
		if u == 0 {
			a = math.Sqrt(1.0 / blockSize)
		}
		for x := 0; x < blockSize; x++ {
			dctBasis[u][x] = a * math.Cos(float64((2*x+1)*u)*math.Pi/(2*blockSize))
		}
	}
}

// dctTable holds the per-coefficient quantizer for one level.
// A zero step marks a coefficient that is always discarded.
type dctTable [64]float64

// newDCTTable derives the quantizer for level in [0, 100]:
// step = 1 + f*T with f = 8*(level/100)^2, DC step pinned at 1, and every
// coefficient past zigzag position keep(level) dropped.
func newDCTTable(level int) dctTable {
	l := float64(level) / 100
	f := 8 * l * l
	keep := 64 - int(math.Round(58*l))

	var t dctTable
	for k := 0; k < 64; k++ {
		nat := zigzag[k]
		if k >= keep {
			t[nat] = 0
			continue
		}
		t[nat] = 1 + f*baseQuant[nat]
	}
	t[0] = 1
	return t
}

// fdct8x8 computes the 2D DCT-II of a block, natural order in and out.
func fdct8x8(in, out *[64]float64) {
	var tmp [64]float64
	for y := 0; y < blockSize; y++ {
		row := in[y*blockSize : y*blockSize+blockSize]
		for u := 0; u < blockSize; u++ {
			var s float64
			for x, v := range row {
				s += dctBasis[u][x] * v
			}
			tmp[y*blockSize+u] = s
		}
	}
	for u := 0; u < blockSize; u++ {
		for v := 0; v < blockSize; v++ {
			var s float64
			for y := 0; y < blockSize; y++ {
				s += dctBasis[v][y] * tmp[y*blockSize+u]
			}
			out[v*blockSize+u] = s
		}
	}
}

// idct8x8 inverts fdct8x8.
func idct8x8(in, out *[64]float64) {
	var tmp [64]float64
	for v := 0; v < blockSize; v++ {
		for x := 0; x < blockSize; x++ {
			var s float64
			for u := 0; u < blockSize; u++ {
				s += dctBasis[u][x] * in[v*blockSize+u]
			}
			tmp[v*blockSize+x] = s
		}
	}
	for x := 0; x < blockSize; x++ {
		for y := 0; y < blockSize; y++ {
			var s float64
			for v := 0; v < blockSize; v++ {
				s += dctBasis[v][y] * tmp[v*blockSize+x]
			}
			out[y*blockSize+x] = s
		}
	}
}

// forEachBlock runs fn over every 8x8 block of a padW×padH plane, block
// rows split across workers.
func forEachBlock(padW, padH, workers int, fn func(bx, by int)) {
	parallel.Ranges(padH/blockSize, workers, func(lo, hi int) {
		for by := lo; by < hi; by++ {
			for bx := 0; bx < padW/blockSize; bx++ {
				fn(bx, by)
			}
		}
	})
}

func loadBlock(plane []float64, stride, bx, by int, blk *[64]float64) {
	for y := 0; y < blockSize; y++ {
		off := (by*blockSize+y)*stride + bx*blockSize
		copy(blk[y*blockSize:y*blockSize+blockSize], plane[off:off+blockSize])
	}
}

func storeBlock(plane []float64, stride, bx, by int, blk *[64]float64) {
	for y := 0; y < blockSize; y++ {
		off := (by*blockSize+y)*stride + bx*blockSize
		copy(plane[off:off+blockSize], blk[y*blockSize:y*blockSize+blockSize])
	}
}

// quantizeDCT transforms and quantizes a padded, level-shifted plane.
// Coefficient (u,v) of block (bx,by) lands at (bx*8+u, by*8+v).
func quantizeDCT(plane []float64, padW, padH int, t *dctTable, workers int) []int32 {
	out := make([]int32, len(plane))
	forEachBlock(padW, padH, workers, func(bx, by int) {
		var blk, coef [64]float64
		loadBlock(plane, padW, bx, by, &blk)
		fdct8x8(&blk, &coef)
		for i := range coef {
			if t[i] == 0 {
				coef[i] = 0
				continue
			}
			coef[i] = math.Round(coef[i] / t[i])
		}
		for y := 0; y < blockSize; y++ {
			off := (by*blockSize+y)*padW + bx*blockSize
			for x := 0; x < blockSize; x++ {
				out[off+x] = int32(coef[y*blockSize+x])
			}
		}
	})
	return out
}

// dequantizeDCT maps quantized integers back to coefficient values.
func dequantizeDCT(q []int32, padW int, t *dctTable) []float64 {
	out := make([]float64, len(q))
	for i, v := range q {
		x, y := i%padW, i/padW
		out[i] = float64(v) * t[(y%blockSize)*blockSize+x%blockSize]
	}
	return out
}

// inverseDCT converts a dequantized coefficient plane back to samples.
func inverseDCT(coef []float64, padW, padH, workers int) []float64 {
	out := make([]float64, len(coef))
	forEachBlock(padW, padH, workers, func(bx, by int) {
		var blk, px [64]float64
		loadBlock(coef, padW, bx, by, &blk)
		idct8x8(&blk, &px)
		storeBlock(out, padW, bx, by, &px)
	})
	return out
}

// forwardDCT transforms a spatial plane without quantizing.
func forwardDCT(plane []float64, padW, padH, workers int) []float64 {
	out := make([]float64, len(plane))
	forEachBlock(padW, padH, workers, func(bx, by int) {
		var blk, coef [64]float64
		loadBlock(plane, padW, bx, by, &blk)
		fdct8x8(&blk, &coef)
		storeBlock(out, padW, bx, by, &coef)
	})
	return out
}
