package scenarios

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tnuos/internal/domain"
)

func TestSensitivity_GrowthCrossesBandBoundary(t *testing.T) {
	session := NewSession(domain.Portfolio{lvSite("A", 145)}, 2027, testCalculator(t), zerolog.Nop())

	result := session.Sensitivity(5)

	// 145 * 1.05 = 152.25 kVA, not rounded, so the site crosses into Band 3.
	require.Len(t, result.BandChanges, 1)
	assert.Equal(t, "A", result.BandChanges[0].SiteID)
	assert.Equal(t, domain.Band2, result.BandChanges[0].From)
	assert.Equal(t, domain.Band3, result.BandChanges[0].To)
	assert.False(t, result.BandChanges[0].Dropped)
	assert.Greater(t, result.Delta, 0.0)
	assert.False(t, result.MinimalImpact)
}

func TestSensitivity_ContractionDropsBand(t *testing.T) {
	session := NewSession(domain.Portfolio{lvSite("A", 160)}, 2027, testCalculator(t), zerolog.Nop())

	result := session.Sensitivity(-10)

	require.Len(t, result.BandChanges, 1)
	assert.Equal(t, domain.Band3, result.BandChanges[0].From)
	assert.Equal(t, domain.Band2, result.BandChanges[0].To)
	assert.True(t, result.BandChanges[0].Dropped)
	assert.Less(t, result.Delta, 0.0)
}

func TestSensitivity_NoBandChangeWithinHeadroom(t *testing.T) {
	session := NewSession(domain.Portfolio{lvSite("A", 100)}, 2027, testCalculator(t), zerolog.Nop())

	result := session.Sensitivity(5)

	// 105 kVA stays in Band 2; only the locational charge scales.
	assert.Empty(t, result.BandChanges)
	assert.InDelta(t, 62.5, result.Delta, 0.01)
}

func TestSensitivity_MinimalImpactWhenResidualDominates(t *testing.T) {
	// No NHH locational rate in the fixture, so this site's exposure is
	// purely the banded residual charge.
	site := domain.Site{
		SiteID:               "NHH_01",
		MeterType:            domain.MeterNonHalfHourly,
		VoltageLevel:         domain.VoltageLow,
		DNOZone:              12,
		AnnualConsumptionKWH: 35000,
	}
	session := NewSession(domain.Portfolio{site}, 2027, testCalculator(t), zerolog.Nop())

	result := session.Sensitivity(20)

	// 42,000 kWh is still Band 4: same residual rate, zero delta.
	assert.Empty(t, result.BandChanges)
	assert.Equal(t, 0.0, result.Delta)
	assert.True(t, result.MinimalImpact)
}

func TestSensitivity_SmallAdjustmentNeverFlagsMinimalImpact(t *testing.T) {
	site := domain.Site{
		SiteID:               "NHH_01",
		MeterType:            domain.MeterNonHalfHourly,
		VoltageLevel:         domain.VoltageLow,
		DNOZone:              12,
		AnnualConsumptionKWH: 35000,
	}
	session := NewSession(domain.Portfolio{site}, 2027, testCalculator(t), zerolog.Nop())

	result := session.Sensitivity(5)

	assert.Equal(t, 0.0, result.Delta)
	assert.False(t, result.MinimalImpact, "the callout needs a swing above 10%")
}

func TestSensitivity_LeavesWorkingCopyAlone(t *testing.T) {
	session := NewSession(domain.Portfolio{lvSite("A", 100)}, 2027, testCalculator(t), zerolog.Nop())

	_ = session.Sensitivity(25)

	assert.Equal(t, 100.0, session.Current()[0].AgreedCapacityKVA)
	assert.Equal(t, 100.0, session.Baseline()[0].AgreedCapacityKVA)
}
