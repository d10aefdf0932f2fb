// Package denoise applies edge-aware and plain smoothing filters to buffers.
package denoise

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/AnyUserName/pixlab/internal/parallel"
	"github.com/AnyUserName/pixlab/internal/pixbuf"
	"github.com/disintegration/gift"
)

// Filter selects the smoothing kernel.
type Filter int

const (
	Median Filter = iota
	Gaussian
	Bilateral
)

func (f Filter) String() string {
	switch f {
	case Median:
		return "median"
	case Gaussian:
		return "gaussian"
	case Bilateral:
		return "bilateral"
	}
	return fmt.Sprintf("filter(%d)", int(f))
}

// ParseFilter accepts "median", "gaussian" or "bilateral".
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "median":
		return Median, nil
	case "gaussian", "gauss":
		return Gaussian, nil
	case "bilateral":
		return Bilateral, nil
	}
	return 0, fmt.Errorf("unknown filter %q: %w", s, pixbuf.ErrInvalidParameter)
}

const (
	DefaultRadius     = 2
	MaxRadius         = 15
	DefaultRangeSigma = 30.0
)

// Options configures Apply. Zero values pick defaults.
type Options struct {
	Filter     Filter
	Radius     int     // window half-size, 1..MaxRadius
	Sigma      float64 // spatial sigma; 0 = Radius/2
	RangeSigma float64 // bilateral color sigma; 0 = DefaultRangeSigma
	Workers    int
}

func (o Options) normalized() (Options, error) {
	if o.Filter != Median && o.Filter != Gaussian && o.Filter != Bilateral {
		return o, fmt.Errorf("filter %v: %w", o.Filter, pixbuf.ErrInvalidParameter)
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Radius < 1 || o.Radius > MaxRadius {
		return o, fmt.Errorf("radius %d (want 1..%d): %w", o.Radius, MaxRadius, pixbuf.ErrInvalidParameter)
	}
	if o.Sigma < 0 || o.RangeSigma < 0 || math.IsNaN(o.Sigma) || math.IsNaN(o.RangeSigma) {
		return o, fmt.Errorf("sigma %g range sigma %g: %w", o.Sigma, o.RangeSigma, pixbuf.ErrInvalidParameter)
	}
	if o.Sigma == 0 {
		o.Sigma = math.Max(float64(o.Radius)/2, 0.5)
	}
	if o.RangeSigma == 0 {
		o.RangeSigma = DefaultRangeSigma
	}
	return o, nil
}

// Apply returns a filtered copy of buf. Alpha is carried over unchanged.
func Apply(buf *pixbuf.Buffer, opts Options) (*pixbuf.Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("denoise: %w", err)
	}
	opts, err := opts.normalized()
	if err != nil {
		return nil, fmt.Errorf("denoise: %w", err)
	}

	switch opts.Filter {
	case Median:
		return withGift(buf, gift.New(gift.Median(2*opts.Radius+1, false))), nil
	case Gaussian:
		return withGift(buf, gift.New(gift.GaussianBlur(float32(opts.Sigma)))), nil
	default:
		return bilateral(buf, opts), nil
	}
}

// withGift runs g over the color channels of buf. The source is fed as
// opaque so premultiplication never touches the color samples.
func withGift(buf *pixbuf.Buffer, g *gift.GIFT) *pixbuf.Buffer {
	src := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for i, o := 0, 0; o < len(buf.Pix); i, o = i+4, o+buf.Channels {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = buf.Pix[o], buf.Pix[o+1], buf.Pix[o+2], 255
	}
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)

	out := buf.SameShape()
	for i, o := 0, 0; o < len(out.Pix); i, o = i+4, o+out.Channels {
		out.Pix[o], out.Pix[o+1], out.Pix[o+2] = dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2]
	}
	return out
}

// bilateral weights each neighbor by spatial distance and by RGB distance to
// the center pixel, so edges between distinct colors survive smoothing.
func bilateral(buf *pixbuf.Buffer, opts Options) *pixbuf.Buffer {
	r := opts.Radius
	size := 2*r + 1
	spatial := make([]float64, size*size)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			spatial[(dy+r)*size+dx+r] = math.Exp(-float64(dx*dx+dy*dy) / (2 * opts.Sigma * opts.Sigma))
		}
	}
	rangeDen := 2 * opts.RangeSigma * opts.RangeSigma

	out := buf.SameShape()
	w, h, ch := buf.Width, buf.Height, buf.Channels
	parallel.Ranges(h, opts.Workers, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			for x := 0; x < w; x++ {
				c := (y*w + x) * ch
				cr, cg, cb := float64(buf.Pix[c]), float64(buf.Pix[c+1]), float64(buf.Pix[c+2])
				var sr, sg, sb, sw float64
				for dy := -r; dy <= r; dy++ {
					ny := y + dy
					if ny < 0 || ny >= h {
						continue
					}
					for dx := -r; dx <= r; dx++ {
						nx := x + dx
						if nx < 0 || nx >= w {
							continue
						}
						n := (ny*w + nx) * ch
						nr, ng, nb := float64(buf.Pix[n]), float64(buf.Pix[n+1]), float64(buf.Pix[n+2])
						d := (nr-cr)*(nr-cr) + (ng-cg)*(ng-cg) + (nb-cb)*(nb-cb)
						wt := spatial[(dy+r)*size+dx+r] * math.Exp(-d/rangeDen)
						sr += wt * nr
						sg += wt * ng
						sb += wt * nb
						sw += wt
					}
				}
				out.Pix[c] = pixbuf.ClampByte(sr / sw)
				out.Pix[c+1] = pixbuf.ClampByte(sg / sw)
				out.Pix[c+2] = pixbuf.ClampByte(sb / sw)
			}
		}
	})
	return out
}
