package encoder

import (
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// Registry holds the encoders keyed by format name.
type Registry struct {
	encoders map[string]Encoder
}

// priority is the order Available reports formats in.
var priority = []string{"png", "jpeg", "tiff", "bmp", "gif"}

// NewRegistry creates a registry with every supported encoder.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}

	all := []Encoder{
		&imagingEncoder{format: imaging.PNG, name: "png", ext: "png", alpha: true, grow: 512 * 1024},
		&imagingEncoder{format: imaging.JPEG, name: "jpeg", ext: "jpg", grow: 256 * 1024},
		&imagingEncoder{format: imaging.TIFF, name: "tiff", ext: "tiff", alpha: true, grow: 1024 * 1024},
		&imagingEncoder{format: imaging.BMP, name: "bmp", ext: "bmp", grow: 1024 * 1024},
		&imagingEncoder{format: imaging.GIF, name: "gif", ext: "gif", grow: 256 * 1024},
	}
	for _, enc := range all {
		r.encoders[enc.Format()] = enc
	}
	return r
}

// Get returns an encoder for the given format, or nil if unknown.
// "jpg" and "tif" are accepted as aliases.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[canonical(format)]
}

func canonical(format string) string {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	switch f {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return f
}

// ForPath picks the encoder matching the extension of path, or PNG.
func (r *Registry) ForPath(path string) Encoder {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		if enc := r.Get(path[i+1:]); enc != nil {
			return enc
		}
	}
	return r.encoders["png"]
}

// Available returns all format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range priority {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// ResolveFormats filters requested formats to known ones, dropping
// duplicates, and ensures at least one output format. Images with alpha
// always get an alpha-preserving format.
func (r *Registry) ResolveFormats(requested []string, hasAlpha bool) []string {
	var resolved []string
	seen := map[string]bool{}
	keepsAlpha := false

	for _, f := range requested {
		f = canonical(f)
		if enc, ok := r.encoders[f]; ok && !seen[f] {
			resolved = append(resolved, f)
			seen[f] = true
			keepsAlpha = keepsAlpha || enc.Alpha()
		}
	}

	if len(resolved) == 0 {
		if hasAlpha {
			return []string{"png"}
		}
		return []string{"jpeg"}
	}
	if hasAlpha && !keepsAlpha {
		resolved = append(resolved, "png")
	}
	return resolved
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	return fmt.Sprintf("encoders: %s", strings.Join(r.Available(), ", "))
}
