package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AnyUserName/pixlab/internal/logx"
	"github.com/AnyUserName/pixlab/internal/pipeline"
	"github.com/AnyUserName/pixlab/internal/preset"
	"github.com/AnyUserName/pixlab/internal/report"
	"github.com/spf13/cobra"
)

var (
	batchOutDir  string
	batchPreset  string
	batchMaxDim  int
	batchLevel   int
	batchFormats []string
	batchQuality int
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Analyze, compress and segment every image in a directory",
	Long: `Scans the input directory for images (png, jpg, jpeg, gif, bmp, tiff, webp),
applies a preset to each one and writes the reconstructed image, coefficient
visualization, segmentation, marker overlay and .pxc stream, plus a
pixlab.report.json describing every run.

Output filenames are content-addressed: <key>.<kind>.<hash>.<ext>`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./pixlab_out", "output directory")
	batchCmd.Flags().StringVarP(&batchPreset, "preset", "p", preset.Default,
		"processing preset ("+strings.Join(preset.Names(), ", ")+")")
	batchCmd.Flags().IntVar(&batchMaxDim, "max-dim", -1, "override preset max dimension (0 = keep source size)")
	batchCmd.Flags().IntVarP(&batchLevel, "level", "l", -1, "override preset compression level")
	batchCmd.Flags().StringSliceVar(&batchFormats, "formats", nil, "override preset output formats")
	batchCmd.Flags().IntVarP(&batchQuality, "quality", "q", 0, "JPEG quality 1-100 (0 = preset default)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	if !preset.Known(batchPreset) {
		logger.Warn().Str("preset", batchPreset).Msgf("unknown preset, using %s settings", preset.Default)
	}
	pre := preset.Get(batchPreset)
	if batchMaxDim >= 0 {
		pre.MaxDim = batchMaxDim
	}
	if batchLevel >= 0 {
		pre.Level = batchLevel
	}
	if batchFormats != nil {
		pre.Formats = batchFormats
	}
	if batchQuality > 0 {
		pre.Quality = batchQuality
	}

	logger.Debug().
		Str("input", absInput).
		Str("output", absOutput).
		Str("preset", pre.Name).
		Str("method", pre.Method.String()).
		Int("level", pre.Level).
		Int("max_dim", pre.MaxDim).
		Msg("batch configuration")

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Preset:    pre,
		Workers:   workers,
		Logger:    logx.New(os.Stderr, verbose, logJSON),
	})

	r, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	reportPath := filepath.Join(absOutput, report.FileName)
	if err := report.WriteJSON(r, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printBatchReport(r, time.Since(start))
	return nil
}

func printBatchReport(r *report.Report, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║              pixlab batch complete               ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Images:      %d", s.TotalImages)
	if s.Failed > 0 {
		fmt.Printf("  (%d failed)", s.Failed)
	}
	fmt.Println()
	fmt.Printf("  Outputs:     %d\n", s.TotalOutputs)
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Mean ratio:  %.2f:1\n", s.MeanRatio)
	fmt.Printf("  Mean PSNR:   %s\n", formatPSNR(float64(s.MeanPSNR)))
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if r.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", r.BuildInfo.Workers)
	}
	fmt.Println()

	// Lowest PSNR first: those are the images the preset hurts most.
	if len(r.Images) > 0 {
		type row struct {
			key   string
			psnr  float64
			ratio float64
		}
		var rows []row
		for key, img := range r.Images {
			if c := img.Compression; c != nil {
				rows = append(rows, row{key, float64(c.PSNR), c.Ratio})
			}
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].psnr != rows[j].psnr {
				return rows[i].psnr < rows[j].psnr
			}
			return rows[i].key < rows[j].key
		})
		n := min(len(rows), 10)
		fmt.Printf("  Lowest PSNR (%d):\n", n)
		for _, it := range rows[:n] {
			fmt.Printf("    %-40s %16s  %7.2f:1\n", truncKey(it.key, 40), formatPSNR(it.psnr), it.ratio)
		}
		fmt.Println()
	}

	data, _ := json.Marshal(r)
	fmt.Printf("  Report:      %s (%s)\n", report.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}
