package cmd

import (
	"fmt"
	"os"

	"github.com/AnyUserName/pixlab/internal/codec"
	"github.com/spf13/cobra"
)

var (
	decompressOut     string
	decompressQuality int
)

var decompressCmd = &cobra.Command{
	Use:   "decompress <stream.pxc>",
	Short: "Reconstruct an image from a packed coefficient stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecompress,
}

func init() {
	decompressCmd.Flags().StringVarP(&decompressOut, "out", "o", "", "output image path (required)")
	decompressCmd.Flags().IntVarP(&decompressQuality, "quality", "q", 0, "JPEG quality for lossy outputs (0 = default)")
	_ = decompressCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(decompressCmd)
}

func runDecompress(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	coefs, err := codec.DecodeCoefficients(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", args[0], err)
	}
	buf := coefs.Reconstruct()
	logger.Debug().
		Str("method", coefs.Method.String()).
		Int("level", coefs.Level).
		Int("retained", coefs.Retained()).
		Msg("stream decoded")

	if err := saveBuffer(decompressOut, buf, decompressQuality); err != nil {
		return err
	}
	fmt.Printf("  ✓ %dx%d %s level %d → %s\n", buf.Width, buf.Height, coefs.Method, coefs.Level, decompressOut)
	return nil
}
