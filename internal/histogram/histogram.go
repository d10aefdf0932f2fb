// Package histogram builds per-channel and luminance frequency tables.
package histogram

import (
	"fmt"
	"math"

	"github.com/AnyUserName/pixlab/internal/colorx"
	"github.com/AnyUserName/pixlab/internal/parallel"
	"github.com/AnyUserName/pixlab/internal/pixbuf"
	"gonum.org/v1/gonum/stat"
)

// Channel identifies which samples a Histogram counts.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
	Luminance
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Luminance:
		return "luminance"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// Histogram is a 256-bin frequency table for one channel.
type Histogram struct {
	Channel Channel
	Counts  [256]int
}

// Set groups the four histograms of one image.
type Set struct {
	Red       Histogram
	Green     Histogram
	Blue      Histogram
	Luminance Histogram
}

// All returns the histograms in R, G, B, L order.
func (s *Set) All() []*Histogram {
	return []*Histogram{&s.Red, &s.Green, &s.Blue, &s.Luminance}
}

// Options tunes Compute. The zero value is valid.
type Options struct {
	Workers int // row bands processed concurrently; 0 = NumCPU
}

// Compute counts every pixel of buf once per histogram. Alpha is ignored.
func Compute(buf *pixbuf.Buffer) (*Set, error) {
	return ComputeWith(buf, Options{})
}

// ComputeWith is Compute with explicit options.
func ComputeWith(buf *pixbuf.Buffer, opts Options) (*Set, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}

	workers := parallel.Workers(opts.Workers)
	if workers > buf.Height {
		workers = buf.Height
	}
	partials := make([]Set, workers)
	chunk := (buf.Height + workers - 1) / workers

	parallel.Each(workers, workers, func(i int) {
		lo := i * chunk
		hi := min(lo+chunk, buf.Height)
		p := &partials[i]
		ch := buf.Channels
		for o := lo * buf.Width * ch; o < hi*buf.Width*ch; o += ch {
			r, g, b := buf.Pix[o], buf.Pix[o+1], buf.Pix[o+2]
			p.Red.Counts[r]++
			p.Green.Counts[g]++
			p.Blue.Counts[b]++
			p.Luminance.Counts[colorx.Grayscale(r, g, b)]++
		}
	})

	out := &Set{}
	out.Red.Channel, out.Green.Channel, out.Blue.Channel, out.Luminance.Channel = Red, Green, Blue, Luminance
	for i := range partials {
		for v := 0; v < 256; v++ {
			out.Red.Counts[v] += partials[i].Red.Counts[v]
			out.Green.Counts[v] += partials[i].Green.Counts[v]
			out.Blue.Counts[v] += partials[i].Blue.Counts[v]
			out.Luminance.Counts[v] += partials[i].Luminance.Counts[v]
		}
	}
	return out, nil
}

// Total returns the number of counted samples.
func (h *Histogram) Total() int {
	var n int
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// Max returns the largest bin count.
func (h *Histogram) Max() int {
	var m int
	for _, c := range h.Counts {
		if c > m {
			m = c
		}
	}
	return m
}

// Mode returns the most frequent value (lowest on ties).
func (h *Histogram) Mode() int {
	best := 0
	for v, c := range h.Counts {
		if c > h.Counts[best] {
			best = v
		}
	}
	return best
}

// MeanStdDev returns the weighted mean and standard deviation of the values.
func (h *Histogram) MeanStdDev() (mean, std float64) {
	if h.Total() == 0 {
		return 0, 0
	}
	values := make([]float64, 256)
	weights := make([]float64, 256)
	for v, c := range h.Counts {
		values[v] = float64(v)
		weights[v] = float64(c)
	}
	mean, std = stat.MeanStdDev(values, weights)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// Percentile returns the smallest value v such that at least p percent of
// the samples are <= v. p is clamped to [0, 100].
func (h *Histogram) Percentile(p float64) int {
	total := h.Total()
	if total == 0 {
		return 0
	}
	p = math.Max(0, math.Min(100, p))
	target := int(math.Ceil(p / 100 * float64(total)))
	if target < 1 {
		target = 1
	}
	cum := 0
	for v, c := range h.Counts {
		cum += c
		if cum >= target {
			return v
		}
	}
	return 255
}

// Summary condenses a histogram for reports.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Median int     `json:"median"`
	Mode   int     `json:"mode"`
	P5     int     `json:"p5"`
	P95    int     `json:"p95"`
}

// Summarize computes the Summary of h.
func (h *Histogram) Summarize() Summary {
	mean, std := h.MeanStdDev()
	return Summary{
		Mean:   mean,
		StdDev: std,
		Median: h.Percentile(50),
		Mode:   h.Mode(),
		P5:     h.Percentile(5),
		P95:    h.Percentile(95),
	}
}
