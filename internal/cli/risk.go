package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/tnuos/internal/modules/forecast"
)

var (
	baselineYearFlag int
	forecastYearFlag int
	contractFlag     string
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Compare portfolio exposure between two charging years",
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
		report := forecast.NewForecaster(e.calc, e.log).
			Risk(sites, baseline, forecastYearFlag, forecast.ContractType(contractFlag))

		if jsonOut {
			return printJSON(report)
		}

		fmt.Printf("Risk assessment: %s vs %s (%d sites, %s contract)\n\n",
			report.BaselineLabel, report.ForecastLabel, report.SiteCount, report.Contract)
		fmt.Printf("  Baseline total:  £%.2f\n", report.BaselineTotal)
		fmt.Printf("  Forecast total:  £%.2f\n", report.ForecastTotal)
		if report.Shielded {
			fmt.Println("  Fixed contract: tariff movement is shielded until renewal.")
		} else {
			fmt.Printf("  Delta:           £%.2f (%.2f%%)\n", report.Delta, report.DeltaPct)
		}
		fmt.Printf("  Waterfall:       £%.2f baseline %+.2f residual %+.2f locational = £%.2f\n",
			report.Waterfall.Baseline, report.Waterfall.ResidualDiff,
			report.Waterfall.LocationalDiff, report.Waterfall.Forecast)
		fmt.Printf("  Site change:     mean %.2f%%, stddev %.2f%%, max %.2f%% (%s)\n",
			report.Stats.MeanChangePct, report.Stats.StdDevChangePct,
			report.Stats.MaxChangePct, report.Stats.MaxChangeSite)

		if report.HighRiskCount == 0 {
			fmt.Println("\nNo sites above the critical risk threshold.")
			return nil
		}

		fmt.Printf("\nCritical risk sites (%d)\n\n", report.HighRiskCount)
		table := newTable()
		fmt.Fprintln(table, "SITE\tBASELINE £\tFORECAST £\tCHANGE")
		for _, site := range report.HighRiskSites {
			change := fmt.Sprintf("%.2f%%", site.ChangePct)
			if site.NewExposure {
				change = "new exposure"
			}
			fmt.Fprintf(table, "%s\t%.2f\t%.2f\t%s\n",
				site.SiteID, site.BaselineCost, site.ForecastCost, change)
		}
		return table.Flush()
	},
}

func init() {
	addPortfolioFlags(riskCmd)
	addJSONFlag(riskCmd)
	riskCmd.Flags().IntVar(&baselineYearFlag, "baseline-year", 0, "baseline charging year (0 = configured baseline)")
	riskCmd.Flags().IntVar(&forecastYearFlag, "forecast-year", 0, "forecast charging year (0 = baseline + 1)")
	riskCmd.Flags().StringVar(&contractFlag, "contract", "pass_through", "contract type: pass_through or fixed")
	rootCmd.AddCommand(riskCmd)
}
