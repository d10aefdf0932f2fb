package codec

import "math"

// Haar wavelet with orthonormal scaling, Mallat layout: after each level the
// approximation occupies the top-left quadrant of the region it came from.

// haarStep returns the detail quantizer step and dead-zone threshold for level.
// Below the threshold a detail coefficient is zeroed; the threshold stays
// under one step so a dequantized coefficient always survives requantization.
func haarStep(level int) (step, threshold float64) {
	step = 1 + 0.6*float64(level)
	threshold = step * (0.5 + float64(level)/250)
	return step, threshold
}

func haarRows(p []float64, stride, w, h int, tmp []float64) {
	half := w / 2
	for y := 0; y < h; y++ {
		row := p[y*stride : y*stride+w]
		for i := 0; i < half; i++ {
			a, b := row[2*i], row[2*i+1]
			tmp[i] = (a + b) / math.Sqrt2
			tmp[half+i] = (a - b) / math.Sqrt2
		}
		copy(row, tmp[:w])
	}
}

func haarCols(p []float64, stride, w, h int, tmp []float64) {
	half := h / 2
	for x := 0; x < w; x++ {
		for i := 0; i < half; i++ {
			a, b := p[(2*i)*stride+x], p[(2*i+1)*stride+x]
			tmp[i] = (a + b) / math.Sqrt2
			tmp[half+i] = (a - b) / math.Sqrt2
		}
		for y := 0; y < h; y++ {
			p[y*stride+x] = tmp[y]
		}
	}
}

func unhaarRows(p []float64, stride, w, h int, tmp []float64) {
	half := w / 2
	for y := 0; y < h; y++ {
		row := p[y*stride : y*stride+w]
		for i := 0; i < half; i++ {
			a, d := row[i], row[half+i]
			tmp[2*i] = (a + d) / math.Sqrt2
			tmp[2*i+1] = (a - d) / math.Sqrt2
		}
		copy(row, tmp[:w])
	}
}

func unhaarCols(p []float64, stride, w, h int, tmp []float64) {
	half := h / 2
	for x := 0; x < w; x++ {
		for i := 0; i < half; i++ {
			a, d := p[i*stride+x], p[(half+i)*stride+x]
			tmp[2*i] = (a + d) / math.Sqrt2
			tmp[2*i+1] = (a - d) / math.Sqrt2
		}
		for y := 0; y < h; y++ {
			p[y*stride+x] = tmp[y]
		}
	}
}

// forwardHaar transforms a padW×padH plane in place over depth levels.
func forwardHaar(p []float64, padW, padH, depth int) {
	tmp := make([]float64, max(padW, padH))
	w, h := padW, padH
	for l := 0; l < depth; l++ {
		haarRows(p, padW, w, h, tmp)
		haarCols(p, padW, w, h, tmp)
		w, h = w/2, h/2
	}
}

// inverseHaar undoes forwardHaar in place.
func inverseHaar(p []float64, padW, padH, depth int) {
	tmp := make([]float64, max(padW, padH))
	for l := depth - 1; l >= 0; l-- {
		w, h := padW>>l, padH>>l
		unhaarCols(p, padW, w, h, tmp)
		unhaarRows(p, padW, w, h, tmp)
	}
}

// inLL reports whether (x, y) lies in the final approximation band.
func inLL(x, y, padW, padH, depth int) bool {
	return x < padW>>depth && y < padH>>depth
}

// quantizeHaar quantizes a transformed plane: LL with step 1, details with
// the level's step behind a dead zone.
func quantizeHaar(c []float64, padW, padH, depth, level int) []int32 {
	step, tau := haarStep(level)
	out := make([]int32, len(c))
	for i, v := range c {
		x, y := i%padW, i/padW
		if inLL(x, y, padW, padH, depth) {
			out[i] = int32(math.Round(v))
			continue
		}
		if math.Abs(v) < tau {
			continue
		}
		out[i] = int32(math.Round(v / step))
	}
	return out
}

func dequantizeHaar(q []int32, padW, padH, depth, level int) []float64 {
	step, _ := haarStep(level)
	out := make([]float64, len(q))
	for i, v := range q {
		if v == 0 {
			continue
		}
		if inLL(i%padW, i/padW, padW, padH, depth) {
			out[i] = float64(v)
			continue
		}
		out[i] = float64(v) * step
	}
	return out
}

// subband is a rectangle of the Mallat layout, [x0,x1)×[y0,y1).
type subband struct{ x0, y0, x1, y1 int }

// haarBands lists the final LL band followed by every detail band,
// coarsest first.
func haarBands(padW, padH, depth int) []subband {
	bands := []subband{{0, 0, padW >> depth, padH >> depth}}
	for l := depth - 1; l >= 0; l-- {
		w, h := padW>>l, padH>>l
		hw, hh := w/2, h/2
		bands = append(bands,
			subband{hw, 0, w, hh},
			subband{0, hh, hw, h},
			subband{hw, hh, w, h},
		)
	}
	return bands
}
