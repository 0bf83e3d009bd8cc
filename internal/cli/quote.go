package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/modules/costing"
	"github.com/aristath/tnuos/internal/modules/forecast"
	"github.com/aristath/tnuos/internal/modules/opportunities"
)

var (
	quoteSiteID      string
	quoteVoltage     string
	quoteZone        int
	quoteMeter       string
	quoteCapacity    float64
	quoteConsumption float64
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quick quote for a single site",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}

		site := domain.Site{
			SiteID:               quoteSiteID,
			MeterType:            domain.MeterType(quoteMeter),
			VoltageLevel:         domain.VoltageLevel(quoteVoltage),
			DNOZone:              quoteZone,
			AgreedCapacityKVA:    quoteCapacity,
			AnnualConsumptionKWH: quoteConsumption,
		}

		year := e.year()
		costed := e.calc.CostSite(site, year)
		trend := forecast.NewForecaster(e.calc, e.log).
			Trend(domain.Portfolio{site}, e.cfg.BaselineYear, e.cfg.HorizonYear)
		opp, hasOpp := opportunities.Check(site, costed.TCRBand)

		if jsonOut {
			out := map[string]interface{}{
				"year":  year,
				"label": forecast.FYLabel(year),
				"site":  costed,
				"trend": trend,
			}
			if hasOpp {
				out["opportunity"] = opp
			}
			return printJSON(out)
		}

		fmt.Printf("Quote for %s (%s)\n\n", costed.SiteID, forecast.FYLabel(year))
		fmt.Printf("  TCR band:    %s\n", costed.TCRBand)
		if costed.TDRKey != "" {
			fmt.Printf("  Tariff key:  %s\n", costed.TDRKey)
		}
		fmt.Printf("  Locational:  £%.2f (rate %.4f)\n", costed.LocationalCost, costed.LocationalRate)
		fmt.Printf("  Residual:    £%.2f (rate %.4f p/day)\n", costed.ResidualCost, costed.ResidualRate)
		fmt.Printf("  Total:       £%.2f\n", costed.TotalCost)

		if hasOpp {
			target := site
			switch opp.Metric {
			case domain.MetricCapacity:
				target.AgreedCapacityKVA = opp.TargetValue
			case domain.MetricConsumption:
				target.AnnualConsumptionKWH = opp.TargetValue
			}
			targetCosted := e.calc.CostSite(target, year)
			fmt.Printf("\nBand drop: reduce %s by %.2f %s to reach %s and pay £%.2f (saving £%.2f).\n",
				opp.Metric, opp.ReductionNeeded, opp.Unit, opp.TargetBand,
				targetCosted.TotalCost, costing.Round2(costed.TotalCost-targetCosted.TotalCost))
		}

		fmt.Println("\nTrend:")
		table := newTable()
		for _, point := range trend {
			fmt.Fprintf(table, "  %s\t£%.2f\n", point.Label, point.TotalCost)
		}
		return table.Flush()
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteSiteID, "site-id", "Quick_Quote_Site", "site identifier")
	quoteCmd.Flags().StringVar(&quoteVoltage, "voltage", "LV", "voltage level: LV, HV or EHV")
	quoteCmd.Flags().IntVar(&quoteZone, "zone", 1, "DNO zone 1 to 14")
	quoteCmd.Flags().StringVar(&quoteMeter, "meter", "HH", "meter type: HH or NHH")
	quoteCmd.Flags().Float64Var(&quoteCapacity, "capacity", 0, "agreed capacity in kVA")
	quoteCmd.Flags().Float64Var(&quoteConsumption, "consumption", 0, "annual consumption in kWh")
	addYearFlag(quoteCmd)
	addJSONFlag(quoteCmd)
	rootCmd.AddCommand(quoteCmd)
}
