package forecast

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/modules/costing"
	"github.com/aristath/tnuos/internal/modules/rates"
)

var published = time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)

func testForecaster(t *testing.T) *Forecaster {
	t.Helper()
	hh := []rates.HHRate{
		{Year: 2026, Zone: 12, RatePerKW: 10.0, Published: published},
		{Year: 2027, Zone: 12, RatePerKW: 14.5, Published: published},
		{Year: 2026, Zone: 7, RatePerKW: 1.0, Published: published},
		{Year: 2027, Zone: 7, RatePerKW: 2.5, Published: published},
		{Year: 2026, Zone: 9, RatePerKW: 2.0, Published: published},
		{Year: 2027, Zone: 9, RatePerKW: 4.0, Published: published},
		{Year: 2027, Zone: 5, RatePerKW: 8.0, Published: published},
	}
	residual := []rates.ResidualRate{
		{Year: 2026, Key: "LV2", RatePerDay: 2.0, Published: published},
		{Year: 2027, Key: "LV2", RatePerDay: 3.47, Published: published},
	}
	repo := rates.NewRepository(hh, nil, residual, zerolog.Nop())
	return NewForecaster(costing.NewCalculator(repo, zerolog.Nop()), zerolog.Nop())
}

func zoneSite(id string, zone int, capacity float64) domain.Site {
	return domain.Site{
		SiteID:            id,
		MeterType:         domain.MeterHalfHourly,
		VoltageLevel:      domain.VoltageLow,
		DNOZone:           zone,
		AgreedCapacityKVA: capacity,
	}
}

// hvSite has no residual rate in the fixture, leaving only the locational
// charge in play.
func hvSite(id string, zone int, capacity float64) domain.Site {
	return domain.Site{
		SiteID:            id,
		MeterType:         domain.MeterHalfHourly,
		VoltageLevel:      domain.VoltageHigh,
		DNOZone:           zone,
		AgreedCapacityKVA: capacity,
	}
}

func TestFYLabel(t *testing.T) {
	tests := []struct {
		year     int
		expected string
	}{
		{year: 2026, expected: "2025/26"},
		{year: 2027, expected: "2026/27"},
		{year: 2031, expected: "2030/31"},
		{year: 2100, expected: "2099/00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FYLabel(tt.year))
	}
}

func TestTrend(t *testing.T) {
	forecaster := testForecaster(t)
	portfolio := domain.Portfolio{zoneSite("London_HQ_01", 12, 100)}

	points := forecaster.Trend(portfolio, 2026, 2028)
	require.Len(t, points, 3)

	assert.Equal(t, 2026, points[0].Year)
	assert.Equal(t, "2025/26", points[0].Label)
	assert.Equal(t, 1730.00, points[0].TotalCost)

	assert.Equal(t, "2026/27", points[1].Label)
	assert.Equal(t, 2716.55, points[1].TotalCost)

	// No published rates for 2028 in the fixture.
	assert.Equal(t, "2027/28", points[2].Label)
	assert.Equal(t, 0.0, points[2].TotalCost)
}

func TestTrend_DefaultWindow(t *testing.T) {
	forecaster := testForecaster(t)

	points := forecaster.Trend(domain.Portfolio{zoneSite("A", 12, 100)}, 0, 0)
	require.Len(t, points, HorizonYear-BaselineYear+1)
	assert.Equal(t, BaselineYear, points[0].Year)
	assert.Equal(t, HorizonYear, points[len(points)-1].Year)
}

func TestRisk_PassThrough(t *testing.T) {
	forecaster := testForecaster(t)
	portfolio := domain.Portfolio{zoneSite("London_HQ_01", 12, 100)}

	report := forecaster.Risk(portfolio, 2026, 2027, ContractPassThrough)

	assert.Equal(t, 1, report.SiteCount)
	assert.Equal(t, "2025/26", report.BaselineLabel)
	assert.Equal(t, "2026/27", report.ForecastLabel)
	assert.False(t, report.Shielded)
	assert.Equal(t, 1730.00, report.BaselineTotal)
	assert.Equal(t, 2716.55, report.ForecastTotal)
	assert.Equal(t, 986.55, report.Delta)
	assert.Equal(t, 57.03, report.DeltaPct)
	assert.Equal(t, 0, report.HighRiskCount)

	assert.Equal(t, 57.03, report.Stats.MeanChangePct)
	assert.Equal(t, 0.0, report.Stats.StdDevChangePct, "one site has no spread")
	assert.Equal(t, 57.03, report.Stats.MaxChangePct)
	assert.Equal(t, "London_HQ_01", report.Stats.MaxChangeSite)
}

func TestRisk_WaterfallDecomposesDelta(t *testing.T) {
	forecaster := testForecaster(t)
	portfolio := domain.Portfolio{zoneSite("London_HQ_01", 12, 100)}

	report := forecaster.Risk(portfolio, 2026, 2027, ContractPassThrough)

	w := report.Waterfall
	assert.Equal(t, 1730.00, w.Baseline)
	assert.Equal(t, 450.00, w.LocationalDiff)
	assert.Equal(t, 536.55, w.ResidualDiff)
	assert.Equal(t, 2716.55, w.Forecast)
	assert.InDelta(t, w.Forecast, w.Baseline+w.ResidualDiff+w.LocationalDiff, 0.001)
}

func TestRisk_FixedContractShieldsTotals(t *testing.T) {
	forecaster := testForecaster(t)
	portfolio := domain.Portfolio{zoneSite("London_HQ_01", 12, 100)}

	report := forecaster.Risk(portfolio, 2026, 2027, ContractFixed)

	assert.True(t, report.Shielded)
	assert.Equal(t, 1989.50, report.BaselineTotal, "baseline plus the 15% premium")
	assert.Equal(t, 1989.50, report.ForecastTotal)
	assert.Equal(t, 0.0, report.Delta)
	assert.Equal(t, 0.0, report.DeltaPct)

	// The unshielded picture is still reported.
	assert.Equal(t, 1730.00, report.RawBaselineTotal)
	assert.Equal(t, 2716.55, report.RawForecastTotal)
	assert.Equal(t, 57.03, report.Stats.MaxChangePct)
}

func TestRisk_HighRiskAndNewExposure(t *testing.T) {
	forecaster := testForecaster(t)
	portfolio := domain.Portfolio{
		hvSite("Spike_01", 7, 500),      // 500 -> 1250, +150%
		hvSite("Greenfield_01", 5, 500), // 0 -> 4000, new exposure
		hvSite("Double_01", 9, 500),     // 1000 -> 2000, exactly +100%
	}

	report := forecaster.Risk(portfolio, 2026, 2027, ContractPassThrough)

	require.Equal(t, 2, report.HighRiskCount)
	require.Len(t, report.HighRiskSites, 2)

	spike := report.HighRiskSites[0]
	assert.Equal(t, "Spike_01", spike.SiteID)
	assert.Equal(t, 150.0, spike.ChangePct)
	assert.False(t, spike.NewExposure)

	greenfield := report.HighRiskSites[1]
	assert.Equal(t, "Greenfield_01", greenfield.SiteID)
	assert.True(t, greenfield.NewExposure)
	assert.Equal(t, 0.0, greenfield.BaselineCost)
	assert.Equal(t, 4000.0, greenfield.ForecastCost)

	// Exactly doubling is on the threshold, not over it.
	for _, site := range report.HighRiskSites {
		assert.NotEqual(t, "Double_01", site.SiteID)
	}

	// Stats exclude the zero-baseline site.
	assert.Equal(t, 125.0, report.Stats.MeanChangePct)
	assert.Equal(t, 150.0, report.Stats.MaxChangePct)
	assert.Equal(t, "Spike_01", report.Stats.MaxChangeSite)
}

func TestRisk_EmptyPortfolio(t *testing.T) {
	forecaster := testForecaster(t)

	report := forecaster.Risk(domain.Portfolio{}, 2026, 2027, ContractPassThrough)

	assert.Equal(t, 0, report.SiteCount)
	assert.Equal(t, 0.0, report.BaselineTotal)
	assert.Equal(t, 0.0, report.DeltaPct)
	assert.Equal(t, 0, report.HighRiskCount)
	assert.Equal(t, RiskStats{}, report.Stats)
}

func TestRisk_DefaultYears(t *testing.T) {
	forecaster := testForecaster(t)

	report := forecaster.Risk(domain.Portfolio{zoneSite("A", 12, 100)}, 0, 0, ContractPassThrough)

	assert.Equal(t, BaselineYear, report.BaselineYear)
	assert.Equal(t, BaselineYear+1, report.ForecastYear)
}
