package report

import (
	"github.com/AnyUserName/pixlab/internal/histogram"
	"github.com/AnyUserName/pixlab/internal/segment"
)

// Report is the top-level output of a pixlab batch run.
type Report struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Preset      string           `json:"preset"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Images      map[string]Image `json:"images"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run-time parameters for diagnostics.
type BuildInfo struct {
	Workers int `json:"workers"`
	MaxDim  int `json:"max_dim,omitempty"`
}

// Image describes one source image and everything derived from it.
type Image struct {
	Original     OriginalInfo       `json:"original"`
	Working      Dims               `json:"working"`     // size after downscaling
	Fingerprint  string             `json:"fingerprint"` // xxhash64 of the working samples
	AspectRatio  float64            `json:"aspect_ratio"`
	Dominant     []string           `json:"dominant,omitempty"`
	Luminance    *histogram.Summary `json:"luminance,omitempty"`
	Compression  *Compression       `json:"compression,omitempty"`
	Segmentation *Segmentation      `json:"segmentation,omitempty"`
	Denoise      string             `json:"denoise,omitempty"` // filter applied before processing
	Outputs      []Output           `json:"outputs"`
}

// OriginalInfo holds metadata about the source file.
type OriginalInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"`
}

// Dims is a width/height pair.
type Dims struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Compression records one codec run.
type Compression struct {
	Method              string   `json:"method"`
	Level               int      `json:"level"`
	Depth               int      `json:"depth,omitempty"`
	OriginalSizeBytes   int      `json:"original_size_bytes"`
	CompressedSizeBytes int      `json:"compressed_size_bytes"`
	EncodedSizeBytes    int      `json:"encoded_size_bytes,omitempty"` // zstd stream length
	Ratio               float64  `json:"ratio"`
	PSNR                Decibels `json:"psnr_db"`
	MSE                 float64  `json:"mse"`
}

// Segmentation records one segmentation run.
type Segmentation struct {
	Algorithm  string        `json:"algorithm"`
	Count      int           `json:"count"`
	Segments   int           `json:"segments"`
	Largest    segment.Share `json:"largest"`
	Smallest   segment.Share `json:"smallest"`
	Boundary   float64       `json:"boundary,omitempty"`
	Converged  bool          `json:"converged"`
	Iterations int           `json:"iterations,omitempty"`
}

// Output is one file written for an image.
type Output struct {
	Kind   string `json:"kind"`   // "compressed", "visualization", "segmented", "markers", "bitstream"
	Format string `json:"format"` // "png", "jpeg", "pxc"
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // first 16 hex chars of xxhash64
	Path   string `json:"path"` // relative to base_path
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64    `json:"total_input_bytes"`
	TotalOutputBytes int64    `json:"total_output_bytes"`
	TotalImages      int      `json:"total_images"`
	TotalOutputs     int      `json:"total_outputs"`
	Failed           int      `json:"failed,omitempty"`
	MeanPSNR         Decibels `json:"mean_psnr_db"`
	MeanRatio        float64  `json:"mean_ratio"`
}

// SupportedVersion is the current schema version.
const SupportedVersion = 1

// FileName is the report's name inside an output directory.
const FileName = "pixlab.report.json"
