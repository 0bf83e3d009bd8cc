package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aristath/tnuos/internal/modules/portfolio"
)

var sampleOutputPath string

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write the sample portfolio CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		sample := portfolio.Sample()

		if sampleOutputPath == "" {
			return portfolio.ToCSV(os.Stdout, sample)
		}

		f, err := os.Create(sampleOutputPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", sampleOutputPath, err)
		}
		defer f.Close()

		if err := portfolio.ToCSV(f, sample); err != nil {
			return fmt.Errorf("writing sample portfolio: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d sites to %s\n", len(sample), sampleOutputPath)
		return nil
	},
}

func init() {
	sampleCmd.Flags().StringVarP(&sampleOutputPath, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(sampleCmd)
}
