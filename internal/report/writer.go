package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"
)

// New creates an empty report with defaults.
func New(presetName string) *Report {
	return &Report{
		Version:     SupportedVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Preset:      presetName,
		BasePath:    "./",
		Images:      make(map[string]Image),
	}
}

// ComputeStats recalculates aggregate statistics from images. Failed is
// carried over since failed images never enter the map. Lossless runs are
// left out of MeanPSNR; if every run was lossless it is +Inf.
func (r *Report) ComputeStats() {
	s := Stats{Failed: r.Stats.Failed}
	s.TotalImages = len(r.Images)
	var psnr, ratio []float64
	lossless := 0
	for _, img := range r.Images {
		s.TotalInputBytes += img.Original.Size
		s.TotalOutputs += len(img.Outputs)
		for _, o := range img.Outputs {
			s.TotalOutputBytes += o.Size
		}
		if c := img.Compression; c != nil {
			ratio = append(ratio, c.Ratio)
			if c.PSNR.IsLossless() {
				lossless++
				continue
			}
			psnr = append(psnr, float64(c.PSNR))
		}
	}
	if len(ratio) > 0 {
		s.MeanRatio = stat.Mean(ratio, nil)
	}
	switch {
	case len(psnr) > 0:
		s.MeanPSNR = Decibels(stat.Mean(psnr, nil))
	case lossless > 0:
		s.MeanPSNR = Decibels(math.Inf(1))
	}
	r.Stats = s
}

// WriteJSON serializes the report to a JSON file with stable ordering.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a report written by WriteJSON. Unknown fields are ignored.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}
