package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/pixlab/internal/hasher"
)

// Validate checks r for internal consistency and verifies that every output
// it references exists under baseDir with the recorded size. It returns one
// message per problem, sorted for stable output.
func Validate(r *Report, baseDir string) []string {
	var errs []string

	if r.Version != SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}

	outputCount := 0
	for key, img := range r.Images {
		if img.Original.Width <= 0 || img.Original.Height <= 0 {
			errs = append(errs, fmt.Sprintf("image %q: invalid original dimensions %dx%d",
				key, img.Original.Width, img.Original.Height))
		}
		if img.AspectRatio <= 0 {
			errs = append(errs, fmt.Sprintf("image %q: invalid aspect ratio %.4f", key, img.AspectRatio))
		}
		if img.Fingerprint == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing fingerprint", key))
		}
		if c := img.Compression; c != nil {
			if c.Level < 0 || c.Level > 100 {
				errs = append(errs, fmt.Sprintf("image %q: compression level %d out of range", key, c.Level))
			}
			if c.CompressedSizeBytes < 1 || c.Ratio <= 0 {
				errs = append(errs, fmt.Sprintf("image %q: invalid compressed size %d / ratio %.3f",
					key, c.CompressedSizeBytes, c.Ratio))
			}
		}
		if s := img.Segmentation; s != nil && (s.Count < 1 || s.Segments > s.Count) {
			errs = append(errs, fmt.Sprintf("image %q: segments %d of %d", key, s.Segments, s.Count))
		}
		if len(img.Outputs) == 0 {
			errs = append(errs, fmt.Sprintf("image %q: no outputs", key))
		}
		outputCount += len(img.Outputs)

		seenPaths := map[string]bool{}
		for i, o := range img.Outputs {
			if o.Kind == "" || o.Format == "" {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: empty kind or format", key, i))
			}
			if o.Hash == "" {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: missing hash", key, i))
			}
			if o.Path == "" {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: missing path", key, i))
				continue
			}
			if seenPaths[o.Path] {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: duplicate path %q", key, i, o.Path))
			}
			seenPaths[o.Path] = true

			full := filepath.Join(baseDir, filepath.FromSlash(o.Path))
			info, err := os.Stat(full)
			if err != nil {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: file not found: %s", key, i, o.Path))
				continue
			}
			if o.Size > 0 && info.Size() != o.Size {
				errs = append(errs, fmt.Sprintf("image %q output[%d]: size mismatch: report=%d, disk=%d",
					key, i, o.Size, info.Size()))
			}
			if len(o.Hash) == hasher.OutputHexLen {
				if got, err := hashFile(full); err != nil {
					errs = append(errs, fmt.Sprintf("image %q output[%d]: %v", key, i, err))
				} else if got != o.Hash {
					errs = append(errs, fmt.Sprintf("image %q output[%d]: hash mismatch: report=%s, disk=%s",
						key, i, o.Hash, got))
				}
			}
		}
	}

	if r.Stats.TotalImages != len(r.Images) {
		errs = append(errs, fmt.Sprintf("stats.total_images mismatch: %d != %d", r.Stats.TotalImages, len(r.Images)))
	}
	if r.Stats.TotalOutputs != outputCount {
		errs = append(errs, fmt.Sprintf("stats.total_outputs mismatch: %d != %d", r.Stats.TotalOutputs, outputCount))
	}

	sort.Strings(errs)
	return errs
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return hasher.ContentHashReader(f, hasher.OutputHexLen)
}
