package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/pixlab/internal/report"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <report_path>",
	Short: "Validate a pixlab report and check referenced files exist",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	reportPath := args[0]
	if info, err := os.Stat(reportPath); err == nil && info.IsDir() {
		reportPath = filepath.Join(reportPath, report.FileName)
	}

	r, err := report.ReadJSON(reportPath)
	if err != nil {
		return err
	}

	errs := report.Validate(r, filepath.Dir(reportPath))
	if len(errs) == 0 {
		fmt.Println("  ✓ Report is valid")
		fmt.Printf("  ✓ %d images, %d outputs: all files present, hashes match\n", r.Stats.TotalImages, r.Stats.TotalOutputs)
		return nil
	}

	fmt.Printf("  ✗ Report has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}
