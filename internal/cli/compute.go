package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/tnuos/internal/modules/costing"
	"github.com/aristath/tnuos/internal/modules/forecast"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Cost a portfolio for one charging year",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		sites, err := loadPortfolio(e)
		if err != nil {
			return err
		}

		year := e.year()
		costed := e.calc.Compute(sites, year)

		if jsonOut {
			return printJSON(map[string]interface{}{
				"year":             year,
				"label":            forecast.FYLabel(year),
				"sites":            costed,
				"locational_total": costing.Round2(costing.LocationalTotal(costed)),
				"residual_total":   costing.Round2(costing.ResidualTotal(costed)),
				"total_cost":       costing.Round2(costing.Total(costed)),
			})
		}

		fmt.Printf("TNUoS costs for %s (%d sites)\n\n", forecast.FYLabel(year), len(costed))
		table := newTable()
		fmt.Fprintln(table, "SITE\tBAND\tTARIFF KEY\tLOCATIONAL £\tRESIDUAL £\tTOTAL £")
		for _, site := range costed {
			fmt.Fprintf(table, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\n",
				site.SiteID, site.TCRBand, site.TDRKey,
				site.LocationalCost, site.ResidualCost, site.TotalCost)
		}
		fmt.Fprintf(table, "TOTAL\t\t\t%.2f\t%.2f\t%.2f\n",
			costing.Round2(costing.LocationalTotal(costed)),
			costing.Round2(costing.ResidualTotal(costed)),
			costing.Round2(costing.Total(costed)))
		return table.Flush()
	},
}

func init() {
	addPortfolioFlags(computeCmd)
	addYearFlag(computeCmd)
	addJSONFlag(computeCmd)
	rootCmd.AddCommand(computeCmd)
}
