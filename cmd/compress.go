package cmd

import (
	"fmt"

	"github.com/AnyUserName/pixlab/internal/codec"
	"github.com/spf13/cobra"
)

var (
	compressMethod    string
	compressLevel     int
	compressDepth     int
	compressOut       string
	compressViz       string
	compressBitstream string
	compressMaxDim    int
	compressQuality   int
)

var compressCmd = &cobra.Command{
	Use:   "compress <image>",
	Short: "Compress an image with DCT or DWT quantization",
	Long: `Quantizes the image in the transform domain at the given level (0-100),
reconstructs it, and reports MSE, PSNR and the estimated compressed size.

--viz writes the coefficient magnitudes; --bitstream writes the quantized
coefficients as a zstd-packed .pxc stream that 'pixlab decompress' reads.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().StringVarP(&compressMethod, "method", "m", "dct", "transform: dct or dwt")
	compressCmd.Flags().IntVarP(&compressLevel, "level", "l", 50, "compression level 0-100")
	compressCmd.Flags().IntVar(&compressDepth, "depth", codec.DefaultDepth, "DWT decomposition depth")
	compressCmd.Flags().StringVarP(&compressOut, "out", "o", "", "reconstructed image path")
	compressCmd.Flags().StringVar(&compressViz, "viz", "", "coefficient visualization path")
	compressCmd.Flags().StringVar(&compressBitstream, "bitstream", "", "packed coefficient stream path")
	compressCmd.Flags().IntVar(&compressMaxDim, "max-dim", 0, "downscale so the longest side is at most this (0 = off)")
	compressCmd.Flags().IntVarP(&compressQuality, "quality", "q", 0, "JPEG quality for lossy outputs (0 = default)")
	rootCmd.AddCommand(compressCmd)
}

func runCompress(_ *cobra.Command, args []string) error {
	method, err := codec.ParseMethod(compressMethod)
	if err != nil {
		return err
	}
	buf, err := loadImage(args[0], compressMaxDim)
	if err != nil {
		return err
	}

	res, err := codec.Compress(buf, codec.Options{
		Method:  method,
		Level:   compressLevel,
		Depth:   compressDepth,
		Workers: workers,
	})
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	logger.Debug().Int("retained", res.Retained).Msg("quantized")

	if compressOut != "" {
		if err := saveBuffer(compressOut, res.Compressed, compressQuality); err != nil {
			return err
		}
	}
	if compressViz != "" {
		if err := saveBuffer(compressViz, res.Visualization, compressQuality); err != nil {
			return err
		}
	}
	var encoded int
	if compressBitstream != "" {
		data, err := codec.Encode(res.Coefficients)
		if err != nil {
			return fmt.Errorf("encode bitstream: %w", err)
		}
		if err := writeFile(compressBitstream, data); err != nil {
			return err
		}
		encoded = len(data)
	}

	fmt.Println()
	fmt.Printf("  Method:       %s (level %d", res.Method, res.Level)
	if res.Method == codec.DWT {
		fmt.Printf(", depth %d", res.Depth)
	}
	fmt.Println(")")
	fmt.Printf("  Size:         %dx%d\n", buf.Width, buf.Height)
	fmt.Printf("  Original:     %s\n", formatBytes(int64(res.OriginalSizeBytes)))
	fmt.Printf("  Estimated:    %s  (ratio %.2f:1)\n", formatBytes(int64(res.CompressedSizeBytes)), res.CompressionRatio)
	if encoded > 0 {
		fmt.Printf("  Bitstream:    %s\n", formatBytes(int64(encoded)))
	}
	fmt.Printf("  MSE:          %.4f\n", res.MSE)
	fmt.Printf("  PSNR:         %s\n", formatPSNR(res.PSNR))
	fmt.Println()
	return nil
}
