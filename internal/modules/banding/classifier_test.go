package banding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tnuos/internal/domain"
)

func hhSite(voltage domain.VoltageLevel, capacity float64) domain.Site {
	return domain.Site{SiteID: "S", MeterType: domain.MeterHalfHourly, VoltageLevel: voltage, AgreedCapacityKVA: capacity}
}

func nhhSite(consumption float64) domain.Site {
	return domain.Site{SiteID: "S", MeterType: domain.MeterNonHalfHourly, VoltageLevel: domain.VoltageLow, AnnualConsumptionKWH: consumption}
}

func TestClassify_CapacityBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		voltage  domain.VoltageLevel
		capacity float64
		expected domain.Band
	}{
		{name: "LV on band 1 ceiling", voltage: domain.VoltageLow, capacity: 80, expected: domain.Band1},
		{name: "LV just above band 1 ceiling", voltage: domain.VoltageLow, capacity: 81, expected: domain.Band2},
		{name: "LV on band 2 ceiling", voltage: domain.VoltageLow, capacity: 150, expected: domain.Band2},
		{name: "LV just above band 2 ceiling", voltage: domain.VoltageLow, capacity: 151, expected: domain.Band3},
		{name: "LV on band 3 ceiling", voltage: domain.VoltageLow, capacity: 231, expected: domain.Band3},
		{name: "LV above band 3 ceiling", voltage: domain.VoltageLow, capacity: 232, expected: domain.Band4},
		{name: "HV on band 1 ceiling", voltage: domain.VoltageHigh, capacity: 422, expected: domain.Band1},
		{name: "HV mid band 2", voltage: domain.VoltageHigh, capacity: 500, expected: domain.Band2},
		{name: "HV on band 3 ceiling", voltage: domain.VoltageHigh, capacity: 1800, expected: domain.Band3},
		{name: "HV band 4", voltage: domain.VoltageHigh, capacity: 2500, expected: domain.Band4},
		{name: "EHV on band 1 ceiling", voltage: domain.VoltageExtraHigh, capacity: 5000, expected: domain.Band1},
		{name: "EHV mid band 2", voltage: domain.VoltageExtraHigh, capacity: 6500, expected: domain.Band2},
		{name: "EHV on band 3 ceiling", voltage: domain.VoltageExtraHigh, capacity: 21500, expected: domain.Band3},
		{name: "EHV band 4", voltage: domain.VoltageExtraHigh, capacity: 30000, expected: domain.Band4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(hhSite(tt.voltage, tt.capacity)))
		})
	}
}

func TestClassify_ConsumptionBoundaries(t *testing.T) {
	tests := []struct {
		name        string
		consumption float64
		expected    domain.Band
	}{
		{name: "zero usage", consumption: 0, expected: domain.Band1},
		{name: "on band 1 ceiling", consumption: 3571, expected: domain.Band1},
		{name: "just above band 1 ceiling", consumption: 3572, expected: domain.Band2},
		{name: "on band 2 ceiling", consumption: 12553, expected: domain.Band2},
		{name: "just above band 2 ceiling", consumption: 12554, expected: domain.Band3},
		{name: "on band 3 ceiling", consumption: 25279, expected: domain.Band3},
		{name: "above band 3 ceiling", consumption: 25280, expected: domain.Band4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(nhhSite(tt.consumption)))
		})
	}
}

func TestClassify_HalfHourlyWithoutCapacityUsesConsumption(t *testing.T) {
	site := hhSite(domain.VoltageHigh, 0)
	site.AnnualConsumptionKWH = 20000

	// Band 3 on the consumption scale; the HV capacity scale would say Band 1.
	assert.Equal(t, domain.Band3, Classify(site))
	assert.True(t, UsesConsumption(site))
}

func TestClassify_ConsumptionPathIgnoresVoltage(t *testing.T) {
	site := nhhSite(15000)
	site.VoltageLevel = "MV"

	assert.Equal(t, domain.Band3, Classify(site))
}

func TestClassify_UnknownVoltageIsUnclassified(t *testing.T) {
	tests := []struct {
		name    string
		voltage domain.VoltageLevel
	}{
		{name: "unrecognised code", voltage: "MV"},
		{name: "empty", voltage: ""},
		{name: "garbage", voltage: "132kV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, domain.BandUnclassified, Classify(hhSite(tt.voltage, 500)))
		})
	}
}

func TestClassify_NormalizesInput(t *testing.T) {
	site := domain.Site{SiteID: "S", MeterType: "hh", VoltageLevel: " lv ", AgreedCapacityKVA: 140}
	assert.Equal(t, domain.Band2, Classify(site))
}

func TestMetric(t *testing.T) {
	name, unit, value := Metric(hhSite(domain.VoltageLow, 160))
	assert.Equal(t, domain.MetricCapacity, name)
	assert.Equal(t, domain.UnitKVA, unit)
	assert.Equal(t, 160.0, value)

	name, unit, value = Metric(nhhSite(35000))
	assert.Equal(t, domain.MetricConsumption, name)
	assert.Equal(t, domain.UnitKWH, unit)
	assert.Equal(t, 35000.0, value)
}

func TestDropTarget(t *testing.T) {
	tests := []struct {
		name     string
		site     domain.Site
		band     domain.Band
		expected float64
		ok       bool
	}{
		{name: "LV band 3 drops at band 2 ceiling", site: hhSite(domain.VoltageLow, 160), band: domain.Band3, expected: 150, ok: true},
		{name: "LV band 2 drops at band 1 ceiling", site: hhSite(domain.VoltageLow, 90), band: domain.Band2, expected: 80, ok: true},
		{name: "HV band 4 drops at band 3 ceiling", site: hhSite(domain.VoltageHigh, 2500), band: domain.Band4, expected: 1800, ok: true},
		{name: "EHV band 2 drops at band 1 ceiling", site: hhSite(domain.VoltageExtraHigh, 6500), band: domain.Band2, expected: 5000, ok: true},
		{name: "consumption band 2 drops at band 1 ceiling", site: nhhSite(4000), band: domain.Band2, expected: 3571, ok: true},
		{name: "consumption band 4 drops at band 3 ceiling", site: nhhSite(35000), band: domain.Band4, expected: 25279, ok: true},
		{name: "band 1 has nothing below", site: hhSite(domain.VoltageLow, 50), band: domain.Band1, ok: false},
		{name: "unclassified has no target", site: hhSite("MV", 500), band: domain.BandUnclassified, ok: false},
		{name: "unknown voltage on capacity path", site: hhSite("MV", 500), band: domain.Band2, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, ok := DropTarget(tt.site, tt.band)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, target)
			}
		})
	}
}

func TestClassifySite(t *testing.T) {
	classified := ClassifySite(domain.Site{SiteID: "London_HQ_01", MeterType: "hh", VoltageLevel: "lv", DNOZone: 12, AgreedCapacityKVA: 140})

	assert.Equal(t, domain.Band2, classified.TCRBand)
	assert.Equal(t, "LV2", classified.TDRKey)
	assert.Equal(t, domain.MeterHalfHourly, classified.MeterType)
	assert.Equal(t, domain.VoltageLow, classified.VoltageLevel)
}
