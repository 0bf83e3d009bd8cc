package reports

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/modules/forecast"
)

// RiskPDF renders the executive risk assessment: baseline versus forecast
// exposure, critical-risk sites, and the band drop opportunity list.
// Opportunities are scanned at the baseline year, where action can still
// be taken before the rates land.
func (g *Generator) RiskPDF(portfolio domain.Portfolio, baselineYear, forecastYear int, contract forecast.ContractType) ([]byte, error) {
	report := g.forecaster.Risk(portfolio, baselineYear, forecastYear, contract)
	opps := g.analyzer.Find(portfolio, report.BaselineYear)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 16)
	pdf.AddPage()

	pdf.CellFormat(0, 10, "TNUoS Risk Assessment", "", 0, "C", false, 0, "")
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Portfolio Analytics: Executive Summary")
	pdf.Ln(9)

	increase := report.ForecastTotal - report.BaselineTotal
	increasePct := 0.0
	if report.BaselineTotal > 0 {
		increasePct = increase / report.BaselineTotal * 100
	}

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Baseline Portfolio Cost, %s: GBP %.2f", report.BaselineLabel, report.BaselineTotal))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Forecast Portfolio Cost, %s: GBP %.2f", report.ForecastLabel, report.ForecastTotal))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Net Increase: GBP %.2f (+%.1f%%)", increase, increasePct))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Sites Flagged 'Critical Risk' (>100%% Rise): %d", report.HighRiskCount))
	pdf.Ln(6)
	if report.Shielded {
		pdf.Cell(0, 7, "Contract: fixed - tariff movement shielded until renewal")
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Optimisation Opportunities (Band Drops)")
	pdf.Ln(9)

	pdf.SetFont("Arial", "", 10)
	if len(opps) == 0 {
		pdf.Cell(0, 6, "No TCR band drop opportunity found within a 20% reduction threshold for this portfolio.")
		pdf.Ln(5)
	}
	for _, opp := range opps {
		reduction := strconv.FormatFloat(opp.ReductionNeeded, 'f', -1, 64)
		pdf.Cell(0, 6, fmt.Sprintf("Site: %s | Reduce by %s %s to drop Band.", opp.SiteID, reduction, opp.Unit))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render risk pdf: %w", err)
	}

	g.log.Debug().Int("sites", len(portfolio)).Int("opportunities", len(opps)).Msg("Risk PDF rendered")
	return buf.Bytes(), nil
}
