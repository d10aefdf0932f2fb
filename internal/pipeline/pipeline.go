// Package pipeline runs a preset over every image of a directory and
// assembles the batch report.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/AnyUserName/pixlab/internal/encoder"
	"github.com/AnyUserName/pixlab/internal/logx"
	"github.com/AnyUserName/pixlab/internal/preset"
	"github.com/AnyUserName/pixlab/internal/report"
	"github.com/rs/zerolog"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	Preset    preset.Preset
	Workers   int // images processed concurrently; 0 = NumCPU
	Logger    zerolog.Logger
}

// Pipeline orchestrates image processing.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
	log      zerolog.Logger
	inner    int // workers handed to the core packages per image
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
		log:      logx.Component(cfg.Logger, "pipeline"),
		inner:    max(1, runtime.NumCPU()/cfg.Workers),
	}
}

// Run processes every image and returns the report. Individual failures
// are logged and counted; Run fails only when no image could be processed.
func (p *Pipeline) Run() (*report.Report, error) {
	p.log.Debug().Str("preset", p.cfg.Preset.Name).Msg(p.registry.String())

	sources, err := ScanImages(p.cfg.InputDir, p.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	p.log.Info().Int("images", len(sources)).Int("workers", p.cfg.Workers).Msg("scan complete")

	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			log := p.log.With().Str("key", s.Key).Logger()
			log.Debug().Msg("processing")

			results[idx] = p.processImage(s, log)

			if results[idx].err == nil {
				log.Debug().Int("outputs", len(results[idx].image.Outputs)).Msg("done")
			}
		}(i, src)
	}
	wg.Wait()

	r := report.New(p.cfg.Preset.Name)

	var failed int
	for _, res := range results {
		if res.err != nil {
			p.log.Error().Err(res.err).Str("key", res.key).Msg("image failed")
			failed++
			continue
		}
		r.Images[res.key] = res.image
	}
	if failed == len(sources) {
		return nil, fmt.Errorf("all %d images failed to process", failed)
	}
	if failed > 0 {
		p.log.Warn().Msgf("%d of %d images had errors", failed, len(sources))
	}

	r.BuildInfo = &report.BuildInfo{
		Workers: p.cfg.Workers,
		MaxDim:  p.cfg.Preset.MaxDim,
	}
	r.Stats.Failed = failed
	r.ComputeStats()
	return r, nil
}
