package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/AnyUserName/pixlab/internal/logx"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
	logJSON bool
	workers int

	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "pixlab",
	Short: "Image analysis, transform compression and segmentation toolkit",
	Long: `pixlab inspects, compresses and segments raster images.

Reports histograms and dominant colors, runs DCT/DWT transform compression
with PSNR and size estimates, packs coefficients into a compact .pxc stream,
and splits images into regions with marker watershed or k-means.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger = logx.Component(logx.New(os.Stderr, verbose, logJSON), cmd.Name())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON lines")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pixlab %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}
