package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/tnuos/internal/modules/costing"
	"github.com/aristath/tnuos/internal/modules/scenarios"
)

var (
	reductionFlag float64
	flexFlag      float64
	adjustFlag    float64
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Run what-if scenarios over a portfolio",
}

var scenarioCapacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Cut every agreed capacity by a fraction and re-cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		sites, err := loadPortfolio(e)
		if err != nil {
			return err
		}

		session := scenarios.NewSession(sites, e.year(), e.calc, e.log)
		costed := session.CapacityOptimization(reductionFlag)

		baselineTotal := costing.Round2(costing.Total(e.calc.Compute(session.Baseline(), session.Year())))
		scenarioTotal := costing.Round2(costing.Total(costed))

		if jsonOut {
			return printJSON(map[string]interface{}{
				"scenario_id":    session.ID(),
				"year":           session.Year(),
				"reduction":      reductionFlag,
				"baseline_total": baselineTotal,
				"scenario_total": scenarioTotal,
				"saving":         costing.Round2(baselineTotal - scenarioTotal),
				"sites":          costed,
			})
		}

		fmt.Printf("Capacity cut %.0f%% (session %s)\n\n", reductionFlag*100, session.ID())
		table := newTable()
		fmt.Fprintln(table, "SITE\tBAND\tCAPACITY kVA\tTOTAL £")
		for _, site := range costed {
			fmt.Fprintf(table, "%s\t%s\t%.0f\t%.2f\n",
				site.SiteID, site.TCRBand, site.AgreedCapacityKVA, site.TotalCost)
		}
		if err := table.Flush(); err != nil {
			return err
		}
		fmt.Printf("\nBaseline £%.2f, scenario £%.2f, saving £%.2f\n",
			baselineTotal, scenarioTotal, costing.Round2(baselineTotal-scenarioTotal))
		return nil
	},
}

var scenarioFlexCmd = &cobra.Command{
	Use:   "flex",
	Short: "Price triad demand flexibility savings",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		sites, err := loadPortfolio(e)
		if err != nil {
			return err
		}

		session := scenarios.NewSession(sites, e.year(), e.calc, e.log)
		saving := costing.Round2(session.DemandFlexibility(flexFlag))

		if jsonOut {
			return printJSON(map[string]interface{}{
				"scenario_id":   session.ID(),
				"year":          session.Year(),
				"flex_factor":   flexFlag,
				"annual_saving": saving,
			})
		}

		fmt.Printf("Shedding %.0f%% of half-hourly load at triad peaks saves £%.2f per year.\n",
			flexFlag*100, saving)
		return nil
	},
}

var scenarioSensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Scale demand up or down and measure the cost impact",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		sites, err := loadPortfolio(e)
		if err != nil {
			return err
		}

		session := scenarios.NewSession(sites, e.year(), e.calc, e.log)
		result := session.Sensitivity(adjustFlag)

		if jsonOut {
			return printJSON(result)
		}

		fmt.Printf("Demand %+.1f%%: baseline £%.2f, adjusted £%.2f, delta £%.2f\n",
			result.AdjustPct, result.BaselineTotal, result.AdjustedTotal, result.Delta)
		for _, change := range result.BandChanges {
			direction := "rises"
			if change.Dropped {
				direction = "drops"
			}
			fmt.Printf("  %s %s from %s to %s\n", change.SiteID, direction, change.From, change.To)
		}
		if result.MinimalImpact {
			fmt.Println("Minimal impact: exposure is dominated by fixed residual charges.")
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{scenarioCapacityCmd, scenarioFlexCmd, scenarioSensitivityCmd} {
		addPortfolioFlags(cmd)
		addYearFlag(cmd)
		addJSONFlag(cmd)
	}
	scenarioCapacityCmd.Flags().Float64Var(&reductionFlag, "reduction", 0.10, "capacity cut as a fraction (0.10 = 10%)")
	scenarioFlexCmd.Flags().Float64Var(&flexFlag, "flex", 0.20, "half-hourly load shed as a fraction (0.20 = 20%)")
	scenarioSensitivityCmd.Flags().Float64Var(&adjustFlag, "adjust", 0, "demand adjustment in percent (-15 = shrink 15%)")

	scenarioCmd.AddCommand(scenarioCapacityCmd, scenarioFlexCmd, scenarioSensitivityCmd)
	rootCmd.AddCommand(scenarioCmd)
}
