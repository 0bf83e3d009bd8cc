package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aristath/tnuos/internal/modules/forecast"
	"github.com/aristath/tnuos/internal/modules/opportunities"
	"github.com/aristath/tnuos/internal/modules/reports"
)

var (
	pdfOutputPath  string
	xlsxOutputPath string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render portfolio reports",
}

var reportPDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Render the executive risk assessment PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		sites, err := loadPortfolio(e)
		if err != nil {
			return err
		}

		baseline := baselineYearFlag
		if baseline == 0 {
			baseline = e.cfg.BaselineYear
		}
		data, err := newGenerator(e).RiskPDF(sites, baseline, forecastYearFlag, forecast.ContractType(contractFlag))
		if err != nil {
			return fmt.Errorf("rendering risk PDF: %w", err)
		}

		if err := os.WriteFile(pdfOutputPath, data, 0644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", pdfOutputPath, len(data))
		return nil
	},
}

var reportXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Render the portfolio analysis workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		sites, err := loadPortfolio(e)
		if err != nil {
			return err
		}

		data, err := newGenerator(e).PortfolioXLSX(sites, e.year())
		if err != nil {
			return fmt.Errorf("rendering workbook: %w", err)
		}

		if err := os.WriteFile(xlsxOutputPath, data, 0644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", xlsxOutputPath, len(data))
		return nil
	},
}

// newGenerator wires a report generator over the command environment.
func newGenerator(e *env) *reports.Generator {
	return reports.NewGenerator(
		e.calc,
		forecast.NewForecaster(e.calc, e.log),
		opportunities.NewAnalyzer(e.calc, e.log),
		e.log,
	)
}

func init() {
	for _, cmd := range []*cobra.Command{reportPDFCmd, reportXLSXCmd} {
		addPortfolioFlags(cmd)
	}
	reportPDFCmd.Flags().IntVar(&baselineYearFlag, "baseline-year", 0, "baseline charging year (0 = configured baseline)")
	reportPDFCmd.Flags().IntVar(&forecastYearFlag, "forecast-year", 0, "forecast charging year (0 = baseline + 1)")
	reportPDFCmd.Flags().StringVar(&contractFlag, "contract", "pass_through", "contract type: pass_through or fixed")
	reportPDFCmd.Flags().StringVarP(&pdfOutputPath, "output", "o", "tnuos_risk_report.pdf", "output file")
	reportXLSXCmd.Flags().StringVarP(&xlsxOutputPath, "output", "o", "tnuos_portfolio.xlsx", "output file")
	addYearFlag(reportXLSXCmd)

	reportCmd.AddCommand(reportPDFCmd, reportXLSXCmd)
	rootCmd.AddCommand(reportCmd)
}
