package preset

import (
	"sort"

	"github.com/AnyUserName/pixlab/internal/codec"
	"github.com/AnyUserName/pixlab/internal/denoise"
	"github.com/AnyUserName/pixlab/internal/pixbuf"
	"github.com/AnyUserName/pixlab/internal/segment"
)

// Preset bundles the analysis, compression and segmentation parameters
// applied to every image of a batch run.
type Preset struct {
	Name   string
	MaxDim int // longest side after downscaling; 0 keeps the source size

	TopColors int

	Method codec.Method
	Level  int // 0-100
	Depth  int // DWT only

	Segments  int
	Algorithm segment.Algorithm
	Style     segment.Style

	Denoise bool
	Filter  denoise.Filter
	Radius  int

	Formats   []string // output formats in priority order
	Quality   int      // JPEG quality 1-100
	Bitstream bool     // also write the packed .pxc stream
}

// Default is used for unknown preset names.
const Default = "balanced"

// Built-in presets.
var presets = map[string]Preset{
	"balanced": {
		Name:      "balanced",
		MaxDim:    1024,
		TopColors: 5,
		Method:    codec.DCT,
		Level:     50,
		Segments:  6,
		Algorithm: segment.Watershed,
		Style:     segment.Colored,
		Formats:   []string{"png"},
		Quality:   90,
		Bitstream: true,
	},
	"archival": {
		Name:      "archival",
		TopColors: 8,
		Method:    codec.DWT,
		Level:     10,
		Depth:     3,
		Segments:  4,
		Algorithm: segment.KMeans,
		Style:     segment.Contours,
		Formats:   []string{"png"},
		Quality:   95,
		Bitstream: true,
	},
	"aggressive": {
		Name:      "aggressive",
		MaxDim:    768,
		TopColors: 5,
		Method:    codec.DCT,
		Level:     90,
		Segments:  8,
		Algorithm: segment.KMeans,
		Style:     segment.Colored,
		Denoise:   true,
		Filter:    denoise.Median,
		Radius:    1,
		Formats:   []string{"jpeg"},
		Quality:   75,
		Bitstream: true,
	},
	"preview": {
		Name:      "preview",
		MaxDim:    256,
		TopColors: 3,
		Method:    codec.DWT,
		Level:     70,
		Depth:     2,
		Segments:  3,
		Algorithm: segment.Watershed,
		Style:     segment.Contours,
		Formats:   []string{"jpeg"},
		Quality:   70,
	},
}

// Get returns a preset by name. Falls back to balanced if unknown.
func Get(name string) Preset {
	if p, ok := presets[name]; ok {
		p.Formats = append([]string(nil), p.Formats...)
		return p
	}
	p := presets[Default]
	p.Formats = append([]string(nil), p.Formats...)
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in preset.
func Known(name string) bool {
	_, ok := presets[name]
	return ok
}

// Names lists the built-in presets alphabetically.
func Names() []string {
	out := make([]string, 0, len(presets))
	for n := range presets {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// TargetDims returns the working size for a w×h source. Images are only
// ever shrunk.
func (p Preset) TargetDims(w, h int) (int, int) {
	if p.MaxDim <= 0 {
		return w, h
	}
	return pixbuf.FitDims(w, h, p.MaxDim)
}

// CodecOptions maps the preset onto codec options.
func (p Preset) CodecOptions(workers int) codec.Options {
	return codec.Options{Method: p.Method, Level: p.Level, Depth: p.Depth, Workers: workers}
}

// SegmentOptions maps the preset onto segmentation options. The segment
// count is capped at the pixel count so tiny images stay valid.
func (p Preset) SegmentOptions(pixels, workers int) segment.Options {
	return segment.Options{
		Count:     max(1, min(p.Segments, pixels)),
		Algorithm: p.Algorithm,
		Style:     p.Style,
		Workers:   workers,
	}
}

// DenoiseOptions maps the preset onto denoise options.
func (p Preset) DenoiseOptions(workers int) denoise.Options {
	return denoise.Options{Filter: p.Filter, Radius: p.Radius, Workers: workers}
}
