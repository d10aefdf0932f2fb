package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/AnyUserName/pixlab/internal/colorx"
	"github.com/AnyUserName/pixlab/internal/hasher"
	"github.com/AnyUserName/pixlab/internal/histogram"
	"github.com/spf13/cobra"
)

var (
	analyzeTop    int
	analyzeAt     []string
	analyzeJSON   bool
	analyzeHist   string
	analyzeMaxDim int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Print histograms, dominant colors and sampled pixels",
	Long: `Computes per-channel and luminance histograms, the most frequent colors
and, for every --at point, the pixel in RGB, hex, HSL and CMYK.

--hist writes the four histograms as bar charts; the channel name is
inserted before the extension (out.png -> out.red.png, ...).`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeTop, "top", "k", 5, "number of dominant colors")
	analyzeCmd.Flags().StringArrayVar(&analyzeAt, "at", nil, "sample pixel x,y (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print JSON instead of text")
	analyzeCmd.Flags().StringVar(&analyzeHist, "hist", "", "write histogram charts to this path")
	analyzeCmd.Flags().IntVar(&analyzeMaxDim, "max-dim", 0, "downscale so the longest side is at most this (0 = off)")
	rootCmd.AddCommand(analyzeCmd)
}

type analysis struct {
	Width       int                          `json:"width"`
	Height      int                          `json:"height"`
	Channels    int                          `json:"channels"`
	Fingerprint string                       `json:"fingerprint"`
	Dominant    []string                     `json:"dominant"`
	Histograms  map[string]histogram.Summary `json:"histograms"`
	Samples     []colorx.PixelInfo           `json:"samples,omitempty"`
}

func runAnalyze(_ *cobra.Command, args []string) error {
	buf, err := loadImage(args[0], analyzeMaxDim)
	if err != nil {
		return err
	}

	set, err := histogram.ComputeWith(buf, histogram.Options{Workers: workers})
	if err != nil {
		return err
	}
	dom, err := colorx.DominantColors(buf, analyzeTop)
	if err != nil {
		return err
	}

	a := analysis{
		Width:       buf.Width,
		Height:      buf.Height,
		Channels:    buf.Channels,
		Fingerprint: hasher.Fingerprint(buf),
		Dominant:    dom,
		Histograms:  map[string]histogram.Summary{},
	}
	for _, h := range set.All() {
		a.Histograms[h.Channel.String()] = h.Summarize()
	}
	for _, at := range analyzeAt {
		x, y, err := parsePoint(at)
		if err != nil {
			return err
		}
		info, err := colorx.SampleAt(buf, x, y)
		if err != nil {
			return err
		}
		a.Samples = append(a.Samples, info)
	}

	if analyzeHist != "" {
		for _, h := range set.All() {
			chart, err := histogram.Render(h, 512, 200)
			if err != nil {
				return err
			}
			if err := saveBuffer(withSuffix(analyzeHist, h.Channel.String()), chart, 0); err != nil {
				return err
			}
		}
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}
	printAnalysis(&a)
	return nil
}

func printAnalysis(a *analysis) {
	fmt.Println()
	fmt.Printf("  Size:         %dx%d (%d channels)\n", a.Width, a.Height, a.Channels)
	fmt.Printf("  Fingerprint:  %s\n", a.Fingerprint)
	fmt.Printf("  Dominant:     %s\n", strings.Join(a.Dominant, " "))
	fmt.Println()
	fmt.Println("  Histograms:")
	for _, ch := range []string{"red", "green", "blue", "luminance"} {
		s := a.Histograms[ch]
		fmt.Printf("    %-9s  mean %6.2f  sd %6.2f  median %3d  mode %3d  p5 %3d  p95 %3d\n",
			ch, s.Mean, s.StdDev, s.Median, s.Mode, s.P5, s.P95)
	}
	if len(a.Samples) > 0 {
		fmt.Println()
		fmt.Println("  Samples:")
		for _, p := range a.Samples {
			fmt.Printf("    (%d,%d)  rgb(%d,%d,%d) a=%d  %s  hsl(%d,%d%%,%d%%)  cmyk(%d,%d,%d,%d)  gray %d  complement %s\n",
				p.X, p.Y, p.R, p.G, p.B, p.A, p.Hex,
				p.HSL.H, p.HSL.S, p.HSL.L,
				p.CMYK.C, p.CMYK.M, p.CMYK.Y, p.CMYK.K, p.Gray, p.Complementary)
		}
	}
	fmt.Println()
}

// withSuffix turns out.png into out.<suffix>.png.
func withSuffix(path, suffix string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexAny(path, `/\`) {
		return path[:i] + "." + suffix + path[i:]
	}
	return path + "." + suffix + ".png"
}
