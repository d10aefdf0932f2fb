package pixbuf

// FitDims returns the dimensions of a w×h image scaled so that its longest
// side is at most maxDim, aspect preserved, never below 1.
func FitDims(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}

// Downsample shrinks b so its longest side is at most maxDim using area
// averaging with integer accumulation. A buffer already within bounds is
// returned as a copy. Output is deterministic for identical input.
func Downsample(b *Buffer, maxDim int) *Buffer {
	dstW, dstH := FitDims(b.Width, b.Height, maxDim)
	if dstW == b.Width && dstH == b.Height {
		return b.Clone()
	}

	ch := b.Channels
	out := &Buffer{Width: dstW, Height: dstH, Channels: ch}
	out.Pix = make([]uint8, dstW*dstH*ch)

	var sums [4]uint32
	for dy := 0; dy < dstH; dy++ {
		sy0, sy1 := srcSpan(dy, dstH, b.Height)
		for dx := 0; dx < dstW; dx++ {
			sx0, sx1 := srcSpan(dx, dstW, b.Width)

			sums = [4]uint32{}
			for sy := sy0; sy < sy1; sy++ {
				off := (sy*b.Width + sx0) * ch
				for range sx1 - sx0 {
					for c := 0; c < ch; c++ {
						sums[c] += uint32(b.Pix[off+c])
					}
					off += ch
				}
			}

			n := uint32((sy1 - sy0) * (sx1 - sx0))
			di := (dy*dstW + dx) * ch
			for c := 0; c < ch; c++ {
				out.Pix[di+c] = uint8((sums[c] + n/2) / n)
			}
		}
	}
	return out
}

// srcSpan maps destination index d to the half-open source range it covers.
func srcSpan(d, dstSize, srcSize int) (int, int) {
	s0 := d * srcSize / dstSize
	s1 := (d + 1) * srcSize / dstSize
	if s1 <= s0 {
		s1 = s0 + 1
	}
	if s1 > srcSize {
		s1 = srcSize
	}
	return s0, s1
}
