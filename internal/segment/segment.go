// Package segment partitions an image into labeled regions, either by
// marker-controlled watershed flooding of the gradient map or by k-means
// clustering in RGB space.
package segment

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/pixlab/internal/colorx"
	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

// Algorithm selects how regions are formed.
type Algorithm int

const (
	Watershed Algorithm = iota
	KMeans
)

func (a Algorithm) String() string {
	switch a {
	case Watershed:
		return "watershed"
	case KMeans:
		return "kmeans"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// ParseAlgorithm accepts "watershed" or "kmeans" ("k-means" also works).
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "watershed":
		return Watershed, nil
	case "kmeans", "k-means":
		return KMeans, nil
	}
	return 0, fmt.Errorf("unknown algorithm %q: %w", s, pixbuf.ErrInvalidParameter)
}

// Style selects how the segmented image is drawn.
type Style int

const (
	Colored Style = iota
	Contours
)

func (s Style) String() string {
	switch s {
	case Colored:
		return "colored"
	case Contours:
		return "contours"
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// ParseStyle accepts "colored" or "contours".
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "colored", "coloured", "regions":
		return Colored, nil
	case "contours", "contour":
		return Contours, nil
	}
	return 0, fmt.Errorf("unknown style %q: %w", s, pixbuf.ErrInvalidParameter)
}

const (
	DefaultMaxIterations = 50
	DefaultEpsilon       = 1e-3
)

// ErrInvalidSegmentCount is returned when Count is below 1 or above the
// number of pixels.
var ErrInvalidSegmentCount = fmt.Errorf("invalid segment count: %w", pixbuf.ErrInvalidParameter)

// Options configures Segment.
type Options struct {
	// Count is the number of regions, 1..pixels. Watershed seeding switches
	// to an even spread above 1024 regions; k-means assignment stays
	// O(pixels × Count) per iteration, so large counts are slow there.
	Count     int
	Algorithm Algorithm
	Style     Style

	// k-means only.
	MaxIterations int     // 0 = DefaultMaxIterations
	Epsilon       float64 // 0 = DefaultEpsilon
	Seed          uint64

	Workers int // 0 = NumCPU
}

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Result holds the label map and everything rendered from it.
type Result struct {
	Width  int
	Height int
	Count  int

	// Labels has one entry per pixel, row-major. 0 marks a watershed
	// boundary or a pixel no flood reached; regions are 1..Count.
	Labels []int

	Segmented *pixbuf.Buffer
	Grayscale *pixbuf.Buffer
	Markers   *pixbuf.Buffer

	AreaFractions map[int]float64
	Stats         Stats

	Seeds     []Point      // seed pixel per label, index label-1
	Centroids [][3]float64 // k-means cluster centers, index label-1

	Converged  bool
	Iterations int
}

func (o Options) normalized(pixels int) (Options, error) {
	if o.Count < 1 || o.Count > pixels {
		return o, fmt.Errorf("count %d (image has %d pixels): %w", o.Count, pixels, ErrInvalidSegmentCount)
	}
	if o.Algorithm != Watershed && o.Algorithm != KMeans {
		return o, fmt.Errorf("algorithm %v: %w", o.Algorithm, pixbuf.ErrInvalidParameter)
	}
	if o.Style != Colored && o.Style != Contours {
		return o, fmt.Errorf("style %v: %w", o.Style, pixbuf.ErrInvalidParameter)
	}
	if o.MaxIterations < 0 || o.Epsilon < 0 {
		return o, fmt.Errorf("iterations %d epsilon %g: %w", o.MaxIterations, o.Epsilon, pixbuf.ErrInvalidParameter)
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Epsilon == 0 {
		o.Epsilon = DefaultEpsilon
	}
	return o, nil
}

// Segment labels buf into opts.Count regions and renders the outcome.
// K-means stopping at the iteration cap is reported through Converged, not
// as an error.
func Segment(buf *pixbuf.Buffer, opts Options) (*Result, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}
	opts, err := opts.normalized(buf.Pixels())
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}

	res := &Result{
		Width:     buf.Width,
		Height:    buf.Height,
		Count:     opts.Count,
		Grayscale: colorx.GrayscaleBuffer(buf),
		Converged: true,
	}

	switch opts.Algorithm {
	case Watershed:
		elev := Gradient(colorx.GrayPlane(buf), buf.Width, buf.Height, opts.Workers)
		seeds := Seeds(elev, buf.Width, buf.Height, opts.Count)
		res.Labels = Flood(elev, buf.Width, buf.Height, seeds)
		res.Seeds = toPoints(seeds, buf.Width)
	case KMeans:
		km := kmeans(buf, opts)
		res.Labels = km.labels
		res.Seeds = toPoints(km.seeds, buf.Width)
		res.Centroids = km.centroids
		res.Converged = km.converged
		res.Iterations = km.iterations
	}

	switch opts.Style {
	case Colored:
		res.Segmented = renderColored(buf, res.Labels, opts.Count)
	case Contours:
		res.Segmented = renderContours(buf, res.Labels)
	}
	res.Markers = renderMarkers(buf, res.Seeds, opts.Count)
	res.AreaFractions, res.Stats = computeStats(res.Labels, opts.Count)
	return res, nil
}

func toPoints(idx []int, w int) []Point {
	out := make([]Point, len(idx))
	for i, p := range idx {
		out[i] = Point{X: p % w, Y: p / w}
	}
	return out
}
