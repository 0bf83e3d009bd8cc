package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/tnuos/internal/modules/forecast"
)

var (
	fromYearFlag int
	toYearFlag   int
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Project portfolio cost across charging years",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		sites, err := loadPortfolio(e)
		if err != nil {
			return err
		}

		from, to := fromYearFlag, toYearFlag
		if from == 0 {
			from = e.cfg.BaselineYear
		}
		if to == 0 {
			to = e.cfg.HorizonYear
		}
		points := forecast.NewForecaster(e.calc, e.log).Trend(sites, from, to)

		if jsonOut {
			return printJSON(map[string]interface{}{
				"site_count": len(sites),
				"points":     points,
			})
		}

		fmt.Printf("Cost trend for %d sites\n\n", len(sites))
		table := newTable()
		fmt.Fprintln(table, "YEAR\tLABEL\tTOTAL £")
		for _, point := range points {
			fmt.Fprintf(table, "%d\t%s\t%.2f\n", point.Year, point.Label, point.TotalCost)
		}
		return table.Flush()
	},
}

func init() {
	addPortfolioFlags(trendCmd)
	addJSONFlag(trendCmd)
	trendCmd.Flags().IntVar(&fromYearFlag, "from", 0, "first charging year (0 = configured baseline)")
	trendCmd.Flags().IntVar(&toYearFlag, "to", 0, "last charging year (0 = configured horizon)")
	rootCmd.AddCommand(trendCmd)
}
