package denoise

import (
	"errors"
	"testing"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

var filters = []Filter{Median, Gaussian, Bilateral}

func speckled(w, h, ch int) *pixbuf.Buffer {
	b, _ := pixbuf.New(w, h, ch)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := b.Offset(x, y)
			v := uint8(120)
			if (x*7+y*13)%11 == 0 {
				v = 250 // salt
			}
			b.Pix[o], b.Pix[o+1], b.Pix[o+2] = v, v, v
			if ch == 4 {
				b.Pix[o+3] = uint8(100 + x)
			}
		}
	}
	return b
}

func TestApply_PreservesShapeAndAlpha(t *testing.T) {
	buf := speckled(23, 17, 4)
	for _, f := range filters {
		out, err := Apply(buf, Options{Filter: f, Radius: 2})
		if err != nil {
			t.Fatalf("%v: %v", f, err)
		}
		if out.Width != buf.Width || out.Height != buf.Height || out.Channels != buf.Channels {
			t.Fatalf("%v: shape %dx%dx%d", f, out.Width, out.Height, out.Channels)
		}
		for i := 3; i < len(buf.Pix); i += 4 {
			if out.Pix[i] != buf.Pix[i] {
				t.Fatalf("%v: alpha changed at %d", f, i)
			}
		}
	}
}

func TestApply_UniformUnchanged(t *testing.T) {
	buf, _ := pixbuf.New(16, 9, 3)
	for i := range buf.Pix {
		buf.Pix[i] = 77
	}
	for _, f := range filters {
		out, err := Apply(buf, Options{Filter: f, Radius: 3})
		if err != nil {
			t.Fatal(err)
		}
		if !pixbuf.Equal(out, buf) {
			t.Errorf("%v: uniform image changed", f)
		}
	}
}

func TestApply_MedianRemovesSalt(t *testing.T) {
	buf := speckled(30, 30, 3)
	out, err := Apply(buf, Options{Filter: Median, Radius: 1})
	if err != nil {
		t.Fatal(err)
	}
	for y := 1; y < 29; y++ {
		for x := 1; x < 29; x++ {
			if r, _, _ := out.RGB(x, y); r != 120 {
				t.Fatalf("(%d,%d) = %d, want 120", x, y, r)
			}
		}
	}
}

func TestApply_BilateralKeepsEdges(t *testing.T) {
	buf, _ := pixbuf.New(20, 4, 3)
	for y := 0; y < 4; y++ {
		for x := 10; x < 20; x++ {
			o := buf.Offset(x, y)
			buf.Pix[o], buf.Pix[o+1], buf.Pix[o+2] = 240, 240, 240
		}
	}
	out, err := Apply(buf, Options{Filter: Bilateral, Radius: 3, RangeSigma: 10})
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _ := out.RGB(9, 1); r > 2 {
		t.Errorf("dark side bled: %d", r)
	}
	if r, _, _ := out.RGB(10, 1); r < 238 {
		t.Errorf("bright side bled: %d", r)
	}
}

func TestApply_BilateralParallelDeterministic(t *testing.T) {
	buf := speckled(41, 33, 3)
	a, _ := Apply(buf, Options{Filter: Bilateral, Workers: 1})
	b, _ := Apply(buf, Options{Filter: Bilateral, Workers: 6})
	if !pixbuf.Equal(a, b) {
		t.Error("bilateral output depends on worker count")
	}
}

func TestApply_Errors(t *testing.T) {
	buf := speckled(4, 4, 3)
	cases := []Options{
		{Filter: Filter(7)},
		{Filter: Median, Radius: MaxRadius + 1},
		{Filter: Median, Radius: -1},
		{Filter: Gaussian, Sigma: -2},
	}
	for _, o := range cases {
		if _, err := Apply(buf, o); !errors.Is(err, pixbuf.ErrInvalidParameter) {
			t.Errorf("%+v: got %v", o, err)
		}
	}
	if _, err := Apply(&pixbuf.Buffer{}, Options{}); !errors.Is(err, pixbuf.ErrInvalidBuffer) {
		t.Errorf("empty: got %v", err)
	}
	if f, err := ParseFilter("Bilateral"); err != nil || f != Bilateral {
		t.Errorf("ParseFilter: %v %v", f, err)
	}
}

func BenchmarkApply_Bilateral(b *testing.B) {
	buf := speckled(256, 256, 3)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Apply(buf, Options{Filter: Bilateral, Radius: 2})
	}
}
