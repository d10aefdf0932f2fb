package pipeline

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/AnyUserName/pixlab/internal/codec"
	"github.com/AnyUserName/pixlab/internal/colorx"
	"github.com/AnyUserName/pixlab/internal/denoise"
	"github.com/AnyUserName/pixlab/internal/hasher"
	"github.com/AnyUserName/pixlab/internal/histogram"
	"github.com/AnyUserName/pixlab/internal/pixbuf"
	"github.com/AnyUserName/pixlab/internal/report"
	"github.com/AnyUserName/pixlab/internal/segment"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key   string
	image report.Image
	err   error
}

// Output kinds recorded in the report.
const (
	KindCompressed    = "compressed"
	KindVisualization = "visualization"
	KindSegmented     = "segmented"
	KindMarkers       = "markers"
	KindBitstream     = "bitstream"
)

// processImage handles a single source image: decode, downscale, analyze,
// compress, segment and write every output.
func (p *Pipeline) processImage(src Source, log zerolog.Logger) processResult {
	result := processResult{key: src.Key}
	pre := p.cfg.Preset

	img, err := decodeFile(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	bounds := img.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()
	if w, h := pre.TargetDims(origW, origH); w != origW || h != origH {
		log.Debug().Msgf("downscale %dx%d -> %dx%d", origW, origH, w, h)
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	buf, err := pixbuf.FromImage(img)
	if err != nil {
		result.err = fmt.Errorf("convert %s: %w", src.RelPath, err)
		return result
	}

	out := report.Image{
		Original: report.OriginalInfo{
			Width:    origW,
			Height:   origH,
			Format:   src.Format,
			Size:     src.Size,
			HasAlpha: buf.HasAlpha(),
		},
		Working:     report.Dims{Width: buf.Width, Height: buf.Height},
		Fingerprint: hasher.Fingerprint(buf),
		AspectRatio: float64(origW) / float64(origH),
	}

	if pre.Denoise {
		buf, err = denoise.Apply(buf, pre.DenoiseOptions(p.inner))
		if err != nil {
			result.err = fmt.Errorf("denoise %s: %w", src.RelPath, err)
			return result
		}
		out.Denoise = pre.Filter.String()
	}

	hist, err := histogram.ComputeWith(buf, histogram.Options{Workers: p.inner})
	if err != nil {
		result.err = fmt.Errorf("histogram %s: %w", src.RelPath, err)
		return result
	}
	lum := hist.Luminance.Summarize()
	out.Luminance = &lum

	if pre.TopColors > 0 {
		// A fully transparent image has no dominant colors; that is not fatal.
		if dom, err := colorx.DominantColors(buf, pre.TopColors); err == nil {
			out.Dominant = dom
		} else {
			log.Debug().Err(err).Msg("dominant colors skipped")
		}
	}

	w := &outputWriter{
		dir:  filepath.Join(p.cfg.OutputDir, filepath.Dir(src.Key)),
		rel:  filepath.Dir(src.Key),
		base: filepath.Base(src.Key),
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		result.err = fmt.Errorf("mkdir %s: %w", w.rel, err)
		return result
	}

	comp, err := codec.Compress(buf, pre.CodecOptions(p.inner))
	if err != nil {
		result.err = fmt.Errorf("compress %s: %w", src.RelPath, err)
		return result
	}
	out.Compression = &report.Compression{
		Method:              comp.Method.String(),
		Level:               comp.Level,
		OriginalSizeBytes:   comp.OriginalSizeBytes,
		CompressedSizeBytes: comp.CompressedSizeBytes,
		Ratio:               comp.CompressionRatio,
		PSNR:                report.Decibels(comp.PSNR),
		MSE:                 comp.MSE,
	}
	if comp.Method == codec.DWT {
		out.Compression.Depth = comp.Depth
	}
	log.Debug().
		Str("method", comp.Method.String()).
		Int("level", comp.Level).
		Float64("psnr", comp.PSNR).
		Float64("ratio", comp.CompressionRatio).
		Msg("compressed")

	if pre.Bitstream {
		data, err := codec.Encode(comp.Coefficients)
		if err != nil {
			result.err = fmt.Errorf("encode bitstream %s: %w", src.RelPath, err)
			return result
		}
		o, err := w.write(KindBitstream, "pxc", "pxc", data, buf.Width, buf.Height)
		if err != nil {
			result.err = err
			return result
		}
		out.Compression.EncodedSizeBytes = len(data)
		out.Outputs = append(out.Outputs, o)
	}

	seg, err := segment.Segment(buf, pre.SegmentOptions(buf.Pixels(), p.inner))
	if err != nil {
		result.err = fmt.Errorf("segment %s: %w", src.RelPath, err)
		return result
	}
	out.Segmentation = &report.Segmentation{
		Algorithm:  pre.Algorithm.String(),
		Count:      seg.Count,
		Segments:   seg.Stats.Segments,
		Largest:    seg.Stats.Largest,
		Smallest:   seg.Stats.Smallest,
		Boundary:   seg.Stats.Boundary,
		Converged:  seg.Converged,
		Iterations: seg.Iterations,
	}
	if !seg.Converged {
		log.Warn().Int("iterations", seg.Iterations).Msg("k-means hit the iteration cap")
	}

	images := []struct {
		kind string
		buf  *pixbuf.Buffer
	}{
		{KindCompressed, comp.Compressed},
		{KindVisualization, comp.Visualization},
		{KindSegmented, seg.Segmented},
		{KindMarkers, seg.Markers},
	}
	for _, im := range images {
		for _, format := range p.registry.ResolveFormats(pre.Formats, im.buf.HasAlpha()) {
			enc := p.registry.Get(format)
			data, err := enc.Encode(im.buf.ToImage(), pre.Quality)
			if err != nil {
				log.Warn().Err(err).Str("kind", im.kind).Str("format", format).Msg("encode failed")
				continue
			}
			o, err := w.write(im.kind, format, enc.Extension(), data, im.buf.Width, im.buf.Height)
			if err != nil {
				result.err = err
				return result
			}
			out.Outputs = append(out.Outputs, o)
		}
	}

	result.image = out
	return result
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// outputWriter stores content-addressed files named
// base.kind.hash8.ext next to each other.
type outputWriter struct {
	dir  string // on disk
	rel  string // relative to the output root
	base string
}

func (w *outputWriter) write(kind, format, ext string, data []byte, width, height int) (report.Output, error) {
	contentHash := hasher.ContentHash(data, hasher.OutputHexLen)
	fileName := fmt.Sprintf("%s.%s.%s.%s", w.base, kind, contentHash[:8], ext)
	relPath := filepath.ToSlash(filepath.Join(w.rel, fileName))

	if err := os.WriteFile(filepath.Join(w.dir, fileName), data, 0o644); err != nil {
		return report.Output{}, fmt.Errorf("write %s: %w", relPath, err)
	}
	return report.Output{
		Kind:   kind,
		Format: format,
		Width:  width,
		Height: height,
		Size:   int64(len(data)),
		Hash:   contentHash,
		Path:   relPath,
	}, nil
}
