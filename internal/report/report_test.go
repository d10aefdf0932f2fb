package report

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/pixlab/internal/hasher"
	"github.com/AnyUserName/pixlab/internal/segment"
)

func sample() *Report {
	r := New("test-preset")
	r.BuildInfo = &BuildInfo{Workers: 4, MaxDim: 512}
	r.Images["photos/cat"] = Image{
		Original:    OriginalInfo{Width: 800, Height: 600, Format: "jpeg", Size: 100000},
		Working:     Dims{Width: 512, Height: 384},
		Fingerprint: "0123456789abcdef",
		AspectRatio: 1.3333,
		Dominant:    []string{"#102030"},
		Compression: &Compression{
			Method: "dct", Level: 50,
			OriginalSizeBytes: 589824, CompressedSizeBytes: 20000, Ratio: 29.49,
			PSNR: 34.5, MSE: 23.1,
		},
		Segmentation: &Segmentation{
			Algorithm: "watershed", Count: 6, Segments: 6,
			Largest: segment.Share{Label: 2, Fraction: 0.4},
		},
		Outputs: []Output{
			{Kind: "compressed", Format: "png", Width: 512, Height: 384, Size: 5, Hash: "abcd1234abcd1234", Path: "photos/cat.compressed.abcd1234.png"},
		},
	}
	r.Images["flat"] = Image{
		Original:    OriginalInfo{Width: 8, Height: 8, Format: "png", Size: 70},
		Fingerprint: "fedcba9876543210",
		AspectRatio: 1,
		Compression: &Compression{Method: "dwt", Level: 100, CompressedSizeBytes: 3, Ratio: 64, PSNR: Decibels(math.Inf(1))},
		Outputs: []Output{
			{Kind: "compressed", Format: "png", Width: 8, Height: 8, Size: 3, Hash: "1111222233334444", Path: "flat.compressed.11112222.png"},
		},
	}
	return r
}

func TestReportRoundtrip(t *testing.T) {
	r := sample()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := WriteJSON(r, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	r2, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if r2.Version != SupportedVersion || r2.Preset != "test-preset" {
		t.Errorf("header: %+v", r2)
	}
	if r2.BuildInfo == nil || r2.BuildInfo.Workers != 4 || r2.BuildInfo.MaxDim != 512 {
		t.Errorf("build_info: %+v", r2.BuildInfo)
	}
	flat := r2.Images["flat"]
	if flat.Compression == nil || !flat.Compression.PSNR.IsLossless() {
		t.Fatalf("infinite PSNR lost: %+v", flat.Compression)
	}
	cat := r2.Images["photos/cat"]
	if cat.Compression.PSNR != 34.5 || cat.Segmentation.Largest.Label != 2 {
		t.Errorf("cat: %+v %+v", cat.Compression, cat.Segmentation)
	}
	if r2.Stats.TotalImages != 2 || r2.Stats.TotalOutputs != 2 || r2.Stats.TotalOutputBytes != 8 {
		t.Errorf("stats: %+v", r2.Stats)
	}
	if r2.Stats.MeanPSNR != 34.5 {
		t.Errorf("mean psnr should skip lossless runs: %v", r2.Stats.MeanPSNR)
	}
}

func TestDecibelsJSON(t *testing.T) {
	data, err := json.Marshal(Decibels(math.Inf(1)))
	if err != nil || string(data) != `"inf"` {
		t.Errorf("inf: %s %v", data, err)
	}
	data, err = json.Marshal(Decibels(41.25))
	if err != nil || string(data) != "41.2500" {
		t.Errorf("finite: %s %v", data, err)
	}
	if _, err := json.Marshal(Decibels(math.NaN())); err == nil {
		t.Error("NaN should not marshal")
	}
	var d Decibels
	if err := json.Unmarshal([]byte("12.5"), &d); err != nil || d != 12.5 {
		t.Errorf("unmarshal: %v %v", d, err)
	}
	if err := json.Unmarshal([]byte(`"loud"`), &d); err == nil {
		t.Error("bad string should fail")
	}
}

func TestComputeStats_AllLossless(t *testing.T) {
	r := New("x")
	r.Images["a"] = Image{Compression: &Compression{Ratio: 2, PSNR: Decibels(math.Inf(1))}}
	r.Stats.Failed = 3
	r.ComputeStats()
	if !r.Stats.MeanPSNR.IsLossless() || r.Stats.MeanRatio != 2 || r.Stats.Failed != 3 {
		t.Errorf("stats: %+v", r.Stats)
	}
}

func TestReportIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"preset": "test",
		"base_path": "./",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "new_flag": true },
		"images": {},
		"stats": { "total_images": 0, "mean_psnr_db": "inf", "new_stat": 42 }
	}`
	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if r.BuildInfo == nil || r.BuildInfo.Workers != 8 || !r.Stats.MeanPSNR.IsLossless() {
		t.Errorf("parsed: %+v", r)
	}
}

func TestValidate(t *testing.T) {
	r := sample()
	r.ComputeStats()
	dir := t.TempDir()
	for key, img := range r.Images {
		for i, o := range img.Outputs {
			p := filepath.Join(dir, filepath.FromSlash(o.Path))
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				t.Fatal(err)
			}
			data := []byte(strings.Repeat("x", int(o.Size)))
			if err := os.WriteFile(p, data, 0o644); err != nil {
				t.Fatal(err)
			}
			img.Outputs[i].Hash = hasher.ContentHash(data, hasher.OutputHexLen)
		}
		r.Images[key] = img
	}
	if errs := Validate(r, dir); len(errs) != 0 {
		t.Fatalf("valid report flagged: %v", errs)
	}

	cat := r.Images["photos/cat"]
	cat.Outputs[0].Hash = "0000000000000000"
	r.Images["photos/cat"] = cat
	broken := r.Images["flat"]
	broken.Outputs = append(broken.Outputs, Output{Kind: "markers", Format: "png", Hash: "x", Path: "missing.png"})
	r.Images["flat"] = broken
	r.Version = 9
	errs := Validate(r, dir)
	joined := strings.Join(errs, "\n")
	for _, want := range []string{"unsupported report version", "file not found: missing.png", "total_outputs mismatch", "hash mismatch"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}
}
