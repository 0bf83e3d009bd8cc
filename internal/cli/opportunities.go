package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/tnuos/internal/modules/opportunities"
)

var opportunitiesCmd = &cobra.Command{
	Use:   "opportunities",
	Short: "List TCR band drop opportunities in a portfolio",
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
		opps := opportunities.NewAnalyzer(e.calc, e.log).Find(sites, year)

		if jsonOut {
			return printJSON(map[string]interface{}{
				"year":          year,
				"count":         len(opps),
				"opportunities": opps,
			})
		}

		if len(opps) == 0 {
			fmt.Println("No band drop opportunities found.")
			return nil
		}

		fmt.Printf("Band drop opportunities (%d)\n\n", len(opps))
		table := newTable()
		fmt.Fprintln(table, "SITE\tFROM\tTO\tMETRIC\tCURRENT\tTARGET\tREDUCTION\tPCT")
		for _, opp := range opps {
			fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%.0f %s\t%.0f %s\t%.2f %s\t%.2f%%\n",
				opp.SiteID, opp.CurrentBand, opp.TargetBand, opp.Metric,
				opp.CurrentValue, opp.Unit, opp.TargetValue, opp.Unit,
				opp.ReductionNeeded, opp.Unit, opp.ReductionPct)
		}
		return table.Flush()
	},
}

func init() {
	addPortfolioFlags(opportunitiesCmd)
	addYearFlag(opportunitiesCmd)
	addJSONFlag(opportunitiesCmd)
	rootCmd.AddCommand(opportunitiesCmd)
}
