package cmd

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AnyUserName/pixlab/internal/encoder"
	"github.com/AnyUserName/pixlab/internal/pixbuf"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var registry = encoder.NewRegistry()

// loadImage decodes path into a buffer, shrinking it so its longest side is
// at most maxDim (0 keeps the source size).
func loadImage(path string, maxDim int) (*pixbuf.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	b := img.Bounds()
	logger.Debug().Str("path", path).Str("format", format).Int("width", b.Dx()).Int("height", b.Dy()).Msg("decoded")

	if maxDim > 0 {
		if w, h := pixbuf.FitDims(b.Dx(), b.Dy(), maxDim); w != b.Dx() || h != b.Dy() {
			img = imaging.Fit(img, w, h, imaging.Lanczos)
			logger.Debug().Int("width", w).Int("height", h).Msg("downscaled")
		}
	}
	return pixbuf.FromImage(img)
}

// saveBuffer encodes buf in the format implied by the extension of path.
func saveBuffer(path string, buf *pixbuf.Buffer, quality int) error {
	enc := registry.ForPath(path)
	data, err := enc.Encode(buf.ToImage(), quality)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("wrote")
	return nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", s, err)
	}
	return x, y, nil
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func formatPSNR(db float64) string {
	if math.IsInf(db, 1) {
		return "inf (lossless)"
	}
	return fmt.Sprintf("%.2f dB", db)
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
