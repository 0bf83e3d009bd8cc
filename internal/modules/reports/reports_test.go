package reports

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/modules/costing"
	"github.com/aristath/tnuos/internal/modules/forecast"
	"github.com/aristath/tnuos/internal/modules/opportunities"
	"github.com/aristath/tnuos/internal/modules/rates"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	published := time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)
	hh := []rates.HHRate{
		{Year: 2026, Zone: 12, RatePerKW: 10.0, Published: published},
		{Year: 2027, Zone: 12, RatePerKW: 14.5, Published: published},
	}
	residual := []rates.ResidualRate{
		{Year: 2026, Key: "LV3", RatePerDay: 5.0, Published: published},
		{Year: 2027, Key: "LV3", RatePerDay: 7.94, Published: published},
	}
	repo := rates.NewRepository(hh, nil, residual, zerolog.Nop())
	calc := costing.NewCalculator(repo, zerolog.Nop())
	return NewGenerator(
		calc,
		forecast.NewForecaster(calc, zerolog.Nop()),
		opportunities.NewAnalyzer(calc, zerolog.Nop()),
		zerolog.Nop(),
	)
}

func testPortfolio() domain.Portfolio {
	return domain.Portfolio{
		{SiteID: "Leeds_01", MeterType: domain.MeterHalfHourly, VoltageLevel: domain.VoltageLow, DNOZone: 12, AgreedCapacityKVA: 160},
	}
}

func TestRiskPDF(t *testing.T) {
	generator := testGenerator(t)

	pdf, err := generator.RiskPDF(testPortfolio(), 2026, 2027, forecast.ContractPassThrough)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "output should be a PDF document")
}

func TestRiskPDF_EmptyPortfolio(t *testing.T) {
	generator := testGenerator(t)

	pdf, err := generator.RiskPDF(domain.Portfolio{}, 2026, 2027, forecast.ContractPassThrough)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestPortfolioXLSX(t *testing.T) {
	generator := testGenerator(t)

	data, err := generator.PortfolioXLSX(testPortfolio(), 2027)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Sites", "Opportunities"}, f.GetSheetList())

	year, err := f.GetCellValue("Summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "2026/27", year)

	siteID, err := f.GetCellValue("Sites", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Leeds_01", siteID)

	band, err := f.GetCellValue("Sites", "G2")
	require.NoError(t, err)
	assert.Equal(t, "Band 3", band)

	// The 160 kVA site is 10 kVA over the Band 2 ceiling.
	oppSite, err := f.GetCellValue("Opportunities", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Leeds_01", oppSite)
}
