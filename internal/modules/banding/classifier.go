// Package banding provides TCR band classification functionality.
//
// Every metered site falls into one of four Targeted Charging Review
// bands. Half-hourly sites with an agreed capacity are banded on that
// capacity against voltage-specific thresholds; non-half-hourly sites and
// half-hourly sites without an agreed capacity are banded on annual
// consumption against a voltage-independent scale.
package banding

import (
	"github.com/aristath/tnuos/internal/domain"
)

// capacityCeilings holds the inclusive upper bound of Bands 1 to 3 per
// voltage level, in kVA. A capacity above the Band 3 ceiling is Band 4.
// A value sitting exactly on a ceiling belongs to the lower band.
var capacityCeilings = map[domain.VoltageLevel][3]float64{
	domain.VoltageLow:       {80, 150, 231},
	domain.VoltageHigh:      {422, 1000, 1800},
	domain.VoltageExtraHigh: {5000, 12000, 21500},
}

// consumptionCeilings holds the inclusive upper bound of Bands 1 to 3 for
// the consumption path, in kWh per year. The scale is the same at every
// voltage level.
var consumptionCeilings = [3]float64{3571, 12553, 25279}

// UsesConsumption reports whether a site is banded on annual consumption
// rather than agreed capacity: every non-half-hourly meter, plus
// half-hourly meters with no agreed capacity.
func UsesConsumption(site domain.Site) bool {
	if site.MeterType == domain.MeterNonHalfHourly {
		return true
	}
	return site.MeterType == domain.MeterHalfHourly && site.AgreedCapacityKVA == 0
}

// Classify maps a site onto its TCR band. The result depends only on the
// meter type, voltage level, agreed capacity and annual consumption; a
// capacity-banded site with an unrecognised voltage level is Unclassified.
func Classify(site domain.Site) domain.Band {
	site = site.Normalized()

	if UsesConsumption(site) {
		return bandFor(site.AnnualConsumptionKWH, consumptionCeilings)
	}

	ceilings, ok := capacityCeilings[site.VoltageLevel]
	if !ok {
		return domain.BandUnclassified
	}
	return bandFor(site.AgreedCapacityKVA, ceilings)
}

func bandFor(value float64, ceilings [3]float64) domain.Band {
	for i, ceiling := range ceilings {
		if value <= ceiling {
			return domain.Band(i + 1)
		}
	}
	return domain.Band4
}

// Metric returns the name, unit and current value of the charging metric
// that banded the site.
func Metric(site domain.Site) (name, unit string, value float64) {
	site = site.Normalized()
	if UsesConsumption(site) {
		return domain.MetricConsumption, domain.UnitKWH, site.AnnualConsumptionKWH
	}
	return domain.MetricCapacity, domain.UnitKVA, site.AgreedCapacityKVA
}

// DropTarget returns the metric value at which the site would fall into
// the next lower band: the ceiling of the band below, on whichever scale
// banded the site. ok is false when there is no band below (Band 1,
// Unclassified) or the voltage level is unrecognised on the capacity path.
func DropTarget(site domain.Site, band domain.Band) (float64, bool) {
	if band <= domain.Band1 || band > domain.Band4 {
		return 0, false
	}

	site = site.Normalized()
	if UsesConsumption(site) {
		return consumptionCeilings[int(band)-2], true
	}

	ceilings, ok := capacityCeilings[site.VoltageLevel]
	if !ok {
		return 0, false
	}
	return ceilings[int(band)-2], true
}

// ClassifySite normalizes a site and attaches its band and residual
// tariff key.
func ClassifySite(site domain.Site) domain.ClassifiedSite {
	normalized := site.Normalized()
	band := Classify(normalized)
	return domain.ClassifiedSite{
		Site:    normalized,
		TCRBand: band,
		TDRKey:  ResolveKey(normalized, band),
	}
}
