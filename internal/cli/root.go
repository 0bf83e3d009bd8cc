// Package cli implements the tnuos command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir       string
	portfolioPath string
	useSample     bool
	jsonOut       bool
	yearFlag      int
)

var rootCmd = &cobra.Command{
	Use:   "tnuos",
	Short: "UK TNUoS exposure calculator",
	Long: `tnuos models a portfolio's exposure to UK Transmission Network Use of
System demand charges: TCR band classification, locational and residual
cost calculation, band drop opportunities, what-if scenarios and
multi-year forecasts.

Tariff tables are read from TNUOS_DATA_DIR (or --data-dir); without one
the embedded sample tables are used.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the tariff CSV tables")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// addPortfolioFlags registers the flags shared by every command that
// reads a portfolio.
func addPortfolioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&portfolioPath, "portfolio", "p", "", "portfolio CSV file")
	cmd.Flags().BoolVar(&useSample, "sample", false, "use the built-in sample portfolio")
}

// addJSONFlag registers the JSON output switch.
func addJSONFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit indented JSON instead of text")
}

// addYearFlag registers the charging year flag. Zero selects the
// configured default year.
func addYearFlag(cmd *cobra.Command) {
	cmd.Flags().IntVar(&yearFlag, "year", 0, "charging year (0 = configured default)")
}
