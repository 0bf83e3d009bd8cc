package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/modules/costing"
	"github.com/aristath/tnuos/internal/modules/forecast"
)

// PortfolioXLSX renders the costed portfolio workbook for one charging
// year: a summary sheet, the per-site breakdown, and the band drop
// opportunity list.
func (g *Generator) PortfolioXLSX(portfolio domain.Portfolio, year int) ([]byte, error) {
	costed := g.calc.Compute(portfolio, year)
	opps := g.analyzer.Find(portfolio, year)

	f := excelize.NewFile()
	summarySheet := "Summary"
	sitesSheet := "Sites"
	oppsSheet := "Opportunities"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(sitesSheet)
	f.NewSheet(oppsSheet)

	_ = f.SetCellValue(summarySheet, "A1", "TNUoS Portfolio Exposure")
	_ = f.SetCellValue(summarySheet, "A3", "Charging Year")
	_ = f.SetCellValue(summarySheet, "B3", forecast.FYLabel(year))
	_ = f.SetCellValue(summarySheet, "A4", "Sites")
	_ = f.SetCellValue(summarySheet, "B4", len(costed))
	_ = f.SetCellValue(summarySheet, "A5", "Locational Cost (GBP)")
	_ = f.SetCellValue(summarySheet, "B5", costing.Round2(costing.LocationalTotal(costed)))
	_ = f.SetCellValue(summarySheet, "A6", "Residual Cost (GBP)")
	_ = f.SetCellValue(summarySheet, "B6", costing.Round2(costing.ResidualTotal(costed)))
	_ = f.SetCellValue(summarySheet, "A7", "Total Cost (GBP)")
	_ = f.SetCellValue(summarySheet, "B7", costing.Round2(costing.Total(costed)))
	_ = f.SetCellValue(summarySheet, "A8", "Band Drop Opportunities")
	_ = f.SetCellValue(summarySheet, "B8", len(opps))

	siteHeaders := []string{"Site ID", "Meter Type", "Voltage", "DNO Zone", "Agreed Capacity (kVA)", "Annual Consumption (kWh)", "TCR Band", "TDR Key", "Locational Rate", "Locational Cost (GBP)", "Residual Rate (GBP/day)", "Residual Cost (GBP)", "Total Cost (GBP)"}
	for i, h := range siteHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sitesSheet, cell, h)
	}
	for i, site := range costed {
		row := i + 2
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("A%d", row), site.SiteID)
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("B%d", row), string(site.MeterType))
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("C%d", row), string(site.VoltageLevel))
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("D%d", row), site.DNOZone)
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("E%d", row), site.AgreedCapacityKVA)
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("F%d", row), site.AnnualConsumptionKWH)
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("G%d", row), site.TCRBand.String())
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("H%d", row), site.TDRKey)
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("I%d", row), site.LocationalRate)
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("J%d", row), site.LocationalCost)
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("K%d", row), site.ResidualRate)
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("L%d", row), site.ResidualCost)
		_ = f.SetCellValue(sitesSheet, fmt.Sprintf("M%d", row), site.TotalCost)
	}

	_ = f.SetCellValue(oppsSheet, "A1", "Site ID")
	_ = f.SetCellValue(oppsSheet, "B1", "Current Band")
	_ = f.SetCellValue(oppsSheet, "C1", "Target Band")
	_ = f.SetCellValue(oppsSheet, "D1", "Metric")
	_ = f.SetCellValue(oppsSheet, "E1", "Current Value")
	_ = f.SetCellValue(oppsSheet, "F1", "Target Value")
	_ = f.SetCellValue(oppsSheet, "G1", "Reduction Needed")
	_ = f.SetCellValue(oppsSheet, "H1", "Reduction %")
	for i, opp := range opps {
		row := i + 2
		_ = f.SetCellValue(oppsSheet, fmt.Sprintf("A%d", row), opp.SiteID)
		_ = f.SetCellValue(oppsSheet, fmt.Sprintf("B%d", row), opp.CurrentBand.String())
		_ = f.SetCellValue(oppsSheet, fmt.Sprintf("C%d", row), opp.TargetBand.String())
		_ = f.SetCellValue(oppsSheet, fmt.Sprintf("D%d", row), fmt.Sprintf("%s (%s)", opp.Metric, opp.Unit))
		_ = f.SetCellValue(oppsSheet, fmt.Sprintf("E%d", row), opp.CurrentValue)
		_ = f.SetCellValue(oppsSheet, fmt.Sprintf("F%d", row), opp.TargetValue)
		_ = f.SetCellValue(oppsSheet, fmt.Sprintf("G%d", row), opp.ReductionNeeded)
		_ = f.SetCellValue(oppsSheet, fmt.Sprintf("H%d", row), opp.ReductionPct)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render portfolio workbook: %w", err)
	}

	g.log.Debug().Int("sites", len(costed)).Int("year", year).Msg("Portfolio workbook rendered")
	return buf.Bytes(), nil
}
