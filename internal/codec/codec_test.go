package codec

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

var methods = []Method{DCT, DWT}

// textured builds a mid-range gradient with deterministic noise, far enough
// from 0 and 255 that reconstruction never clamps.
func textured(w, h, ch int) *pixbuf.Buffer {
	b, _ := pixbuf.New(w, h, ch)
	rng := rand.New(rand.NewPCG(1, 2))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := b.Offset(x, y)
			base := 60 + (x*3+y*2)%100
			for c := 0; c < 3; c++ {
				b.Pix[o+c] = uint8(base + c*10 + rng.IntN(41) - 20)
			}
			if ch == 4 {
				b.Pix[o+3] = uint8(255 - (x%7)*10)
			}
		}
	}
	return b
}

func uniform(w, h, ch int, v uint8) *pixbuf.Buffer {
	b, _ := pixbuf.New(w, h, ch)
	for i := range b.Pix {
		b.Pix[i] = v
	}
	return b
}

func TestCompress_UniformGray8x8_DCTExact(t *testing.T) {
	buf := uniform(8, 8, 3, 128)
	for level := 0; level <= 100; level++ {
		r, err := Compress(buf, Options{Method: DCT, Level: level})
		if err != nil {
			t.Fatal(err)
		}
		if !math.IsInf(r.PSNR, 1) {
			t.Fatalf("level %d: PSNR %v, want +Inf", level, r.PSNR)
		}
		if !pixbuf.Equal(r.Compressed, buf) {
			t.Fatalf("level %d: reconstruction differs", level)
		}
	}
}

func TestCompress_UniformExactAnySize(t *testing.T) {
	for _, m := range methods {
		for _, v := range []uint8{0, 37, 128, 200, 255} {
			for _, level := range []int{0, 50, 100} {
				buf := uniform(13, 7, 4, v)
				r, err := Compress(buf, Options{Method: m, Level: level, Depth: 3})
				if err != nil {
					t.Fatal(err)
				}
				if !pixbuf.Equal(r.Compressed, buf) {
					t.Fatalf("%v gray %d level %d: not exact", m, v, level)
				}
				if !math.IsInf(r.PSNR, 1) || r.MSE != 0 {
					t.Fatalf("%v gray %d level %d: PSNR %v", m, v, level, r.PSNR)
				}
			}
		}
	}
}

func TestCompress_LevelZeroNearLossless(t *testing.T) {
	buf := textured(64, 64, 3)
	for _, m := range methods {
		r, err := Compress(buf, Options{Method: m, Level: 0})
		if err != nil {
			t.Fatal(err)
		}
		if r.PSNR <= 40 {
			t.Errorf("%v: PSNR %.2f, want > 40", m, r.PSNR)
		}
		if r.CompressionRatio < 0.9 || r.CompressionRatio > 1.25 {
			t.Errorf("%v: ratio %.3f, want close to 1", m, r.CompressionRatio)
		}
	}
}

func TestCompress_Monotonic(t *testing.T) {
	buf := textured(64, 48, 3)
	for _, m := range methods {
		r50, err := Compress(buf, Options{Method: m, Level: 50})
		if err != nil {
			t.Fatal(err)
		}
		r100, err := Compress(buf, Options{Method: m, Level: 100})
		if err != nil {
			t.Fatal(err)
		}
		if !(r100.PSNR < r50.PSNR) {
			t.Errorf("%v: PSNR level 100 %.2f not below level 50 %.2f", m, r100.PSNR, r50.PSNR)
		}
		if !(r100.CompressionRatio > r50.CompressionRatio) {
			t.Errorf("%v: ratio level 100 %.2f not above level 50 %.2f", m, r100.CompressionRatio, r50.CompressionRatio)
		}
	}
}

func TestCompress_SizeNonIncreasingInLevel(t *testing.T) {
	buf := textured(40, 24, 4)
	for _, m := range methods {
		prev := math.MaxInt
		for level := 0; level <= 100; level += 5 {
			r, err := Compress(buf, Options{Method: m, Level: level})
			if err != nil {
				t.Fatal(err)
			}
			if r.CompressedSizeBytes > prev {
				t.Fatalf("%v level %d: size %d grew from %d", m, level, r.CompressedSizeBytes, prev)
			}
			if want := r.Retained + buf.Pixels(); r.CompressedSizeBytes != want {
				t.Fatalf("%v level %d: size %d, want retained+alpha %d", m, level, r.CompressedSizeBytes, want)
			}
			prev = r.CompressedSizeBytes
		}
	}
}

func TestCompress_DCTLevel100KeepsLowFrequencies(t *testing.T) {
	c, err := Quantize(textured(32, 32, 3), Options{Method: DCT, Level: 100})
	if err != nil {
		t.Fatal(err)
	}
	for p, plane := range c.Planes {
		for i, v := range plane {
			u, w := (i%c.PadW)%8, (i/c.PadW)%8
			if v != 0 && u+w > 2 {
				t.Fatalf("plane %d: coefficient (%d,%d) survived level 100", p, u, w)
			}
		}
	}
}

func TestQuantize_FixedPoint(t *testing.T) {
	buf := textured(37, 21, 3)
	for _, m := range methods {
		for _, level := range []int{0, 10, 50, 90, 100} {
			c, err := Quantize(buf, Options{Method: m, Level: level})
			if err != nil {
				t.Fatal(err)
			}
			if again := c.Requantize(); !c.Equal(again) {
				t.Errorf("%v level %d: requantization changed coefficients", m, level)
			}
		}
	}
}

func TestCompress_RecompressIsStable(t *testing.T) {
	buf := textured(64, 64, 3)
	for _, m := range methods {
		first, err := Compress(buf, Options{Method: m, Level: 50})
		if err != nil {
			t.Fatal(err)
		}
		second, err := Compress(first.Compressed, Options{Method: m, Level: 50})
		if err != nil {
			t.Fatal(err)
		}
		mse, _ := MSE(first.Compressed, second.Compressed)
		if p := PSNR(mse); p < 55 {
			t.Errorf("%v: recompression drifted, PSNR %.2f", m, p)
		}
	}
}

func TestCompress_AlphaPassthrough(t *testing.T) {
	buf := textured(19, 11, 4)
	for _, m := range methods {
		r, err := Compress(buf, Options{Method: m, Level: 80})
		if err != nil {
			t.Fatal(err)
		}
		for i := 3; i < len(buf.Pix); i += 4 {
			if r.Compressed.Pix[i] != buf.Pix[i] {
				t.Fatalf("%v: alpha changed at sample %d", m, i)
			}
		}
	}
}

func TestCompress_VisualizationShape(t *testing.T) {
	buf := textured(21, 10, 3)
	r, err := Compress(buf, Options{Method: DCT, Level: 40})
	if err != nil {
		t.Fatal(err)
	}
	if v := r.Visualization; v.Width != 21 || v.Height != 10 || v.Channels != 3 {
		t.Errorf("dct viz %dx%dx%d", v.Width, v.Height, v.Channels)
	}
	r, err = Compress(buf, Options{Method: DWT, Level: 40, Depth: 3})
	if err != nil {
		t.Fatal(err)
	}
	if v := r.Visualization; v.Width != 24 || v.Height != 16 || v.Channels != 3 {
		t.Errorf("dwt viz %dx%dx%d", v.Width, v.Height, v.Channels)
	}
}

func TestCompress_ParallelDeterministic(t *testing.T) {
	buf := textured(83, 57, 4)
	for _, m := range methods {
		a, err := Compress(buf, Options{Method: m, Level: 35, Workers: 1})
		if err != nil {
			t.Fatal(err)
		}
		b, err := Compress(buf, Options{Method: m, Level: 35, Workers: 8})
		if err != nil {
			t.Fatal(err)
		}
		if !pixbuf.Equal(a.Compressed, b.Compressed) || !pixbuf.Equal(a.Visualization, b.Visualization) {
			t.Errorf("%v: output depends on worker count", m)
		}
		if a.PSNR != b.PSNR || a.CompressedSizeBytes != b.CompressedSizeBytes {
			t.Errorf("%v: metrics depend on worker count", m)
		}
	}
}

func TestCompress_DoesNotMutateInput(t *testing.T) {
	buf := textured(16, 16, 3)
	orig := buf.Clone()
	for _, m := range methods {
		if _, err := Compress(buf, Options{Method: m, Level: 70}); err != nil {
			t.Fatal(err)
		}
	}
	if !pixbuf.Equal(buf, orig) {
		t.Error("input buffer modified")
	}
}

func TestCompress_Errors(t *testing.T) {
	buf := uniform(8, 8, 3, 10)
	for _, level := range []int{-1, 101, 1000} {
		_, err := Compress(buf, Options{Method: DCT, Level: level})
		if !errors.Is(err, ErrInvalidLevel) || !errors.Is(err, pixbuf.ErrInvalidParameter) {
			t.Errorf("level %d: got %v", level, err)
		}
	}
	if _, err := Compress(&pixbuf.Buffer{Channels: 3}, Options{}); !errors.Is(err, pixbuf.ErrInvalidBuffer) {
		t.Errorf("empty buffer: got %v", err)
	}
	if _, err := Compress(buf, Options{Method: DWT, Depth: MaxDepth + 1}); !errors.Is(err, pixbuf.ErrInvalidParameter) {
		t.Errorf("depth: got %v", err)
	}
	if _, err := Compress(buf, Options{Method: Method(9)}); !errors.Is(err, pixbuf.ErrInvalidParameter) {
		t.Errorf("method: got %v", err)
	}
}

func TestParseMethod(t *testing.T) {
	if m, err := ParseMethod(" DWT "); err != nil || m != DWT {
		t.Errorf("got %v %v", m, err)
	}
	if _, err := ParseMethod("jpeg"); !errors.Is(err, pixbuf.ErrInvalidParameter) {
		t.Errorf("got %v", err)
	}
}

func TestPSNR(t *testing.T) {
	if !math.IsInf(PSNR(0), 1) {
		t.Error("zero mse should be +Inf")
	}
	if got := PSNR(255 * 255); math.Abs(got) > 1e-12 {
		t.Errorf("PSNR(255^2) = %v", got)
	}
	a := uniform(2, 2, 3, 10)
	b := uniform(2, 2, 3, 12)
	if mse, _ := MSE(a, b); mse != 4 {
		t.Errorf("mse %v", mse)
	}
	if _, err := MSE(a, uniform(2, 3, 3, 0)); !errors.Is(err, pixbuf.ErrInvalidParameter) {
		t.Errorf("shape mismatch: %v", err)
	}
}

func TestDCTRoundTripBlock(t *testing.T) {
	var in, coef, out [64]float64
	for i := range in {
		in[i] = float64(i*7%50) - 25
	}
	fdct8x8(&in, &coef)
	idct8x8(&coef, &out)
	for i := range in {
		if math.Abs(in[i]-out[i]) > 1e-9 {
			t.Fatalf("sample %d: %v -> %v", i, in[i], out[i])
		}
	}
}

func TestHaarRoundTrip(t *testing.T) {
	const w, h = 16, 8
	p := make([]float64, w*h)
	for i := range p {
		p[i] = float64(i*13%31) - 15
	}
	orig := append([]float64(nil), p...)
	forwardHaar(p, w, h, 3)
	inverseHaar(p, w, h, 3)
	for i := range p {
		if math.Abs(p[i]-orig[i]) > 1e-9 {
			t.Fatalf("sample %d: %v -> %v", i, orig[i], p[i])
		}
	}
}

func BenchmarkCompress_DCT(b *testing.B) {
	buf := textured(512, 512, 3)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Compress(buf, Options{Method: DCT, Level: 50})
	}
}

func BenchmarkCompress_DWT(b *testing.B) {
	buf := textured(512, 512, 3)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Compress(buf, Options{Method: DWT, Level: 50, Depth: 3})
	}
}
