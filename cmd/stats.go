package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/pixlab/internal/report"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_report>",
	Short: "Display statistics for a batch output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for the report inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, report.FileName)
	}

	r, err := report.ReadJSON(path)
	if err != nil {
		return err
	}
	printStats(r)
	return nil
}

type tally struct {
	count int
	bytes int64
}

func printStats(r *report.Report) {
	fmt.Println()
	fmt.Printf("  Report version:   %d\n", r.Version)
	fmt.Printf("  Generated:        %s\n", r.GeneratedAt)
	fmt.Printf("  Preset:           %s\n", r.Preset)
	if r.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", r.BuildInfo.Workers)
		if r.BuildInfo.MaxDim > 0 {
			fmt.Printf("  Max dimension:    %d\n", r.BuildInfo.MaxDim)
		}
	}
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Total images:     %d\n", s.TotalImages)
	if s.Failed > 0 {
		fmt.Printf("  Failed:           %d\n", s.Failed)
	}
	fmt.Printf("  Total outputs:    %d\n", s.TotalOutputs)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Mean ratio:       %.2f:1\n", s.MeanRatio)
	fmt.Printf("  Mean PSNR:        %s\n", formatPSNR(float64(s.MeanPSNR)))
	fmt.Println()

	kinds := map[string]tally{}
	methods := map[string]int{}
	algorithms := map[string]int{}
	for _, img := range r.Images {
		for _, o := range img.Outputs {
			t := kinds[o.Kind]
			t.count++
			t.bytes += o.Size
			kinds[o.Kind] = t
		}
		if c := img.Compression; c != nil {
			methods[c.Method]++
		}
		if sg := img.Segmentation; sg != nil {
			algorithms[sg.Algorithm]++
		}
	}

	fmt.Println("  Output breakdown:")
	for _, k := range sortedKeys(kinds) {
		fmt.Printf("    %-14s  %4d files  %s\n", k, kinds[k].count, formatBytes(kinds[k].bytes))
	}
	fmt.Println()
	fmt.Println("  Methods:")
	for _, m := range sortedKeys(methods) {
		fmt.Printf("    %-10s  %4d images\n", m, methods[m])
	}
	fmt.Println("  Segmentation:")
	for _, a := range sortedKeys(algorithms) {
		fmt.Printf("    %-10s  %4d images\n", a, algorithms[a])
	}

	// Warnings.
	var warnings []string
	for key, img := range r.Images {
		if len(img.Outputs) == 0 {
			warnings = append(warnings, fmt.Sprintf("image %q has no outputs", key))
		}
		if sg := img.Segmentation; sg != nil {
			if !sg.Converged {
				warnings = append(warnings, fmt.Sprintf("image %q: k-means did not converge", key))
			}
			if sg.Segments < sg.Count {
				warnings = append(warnings, fmt.Sprintf("image %q: only %d of %d segments non-empty", key, sg.Segments, sg.Count))
			}
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
