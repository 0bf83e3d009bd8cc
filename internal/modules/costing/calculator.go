// Package costing provides TNUoS cost calculation functionality.
//
// Annual cost per site is the sum of two components. The locational
// charge follows the meter type: half-hourly sites pay the zonal £/kW
// rate on agreed capacity, non-half-hourly sites pay the zonal p/kWh rate
// on annual consumption. The residual charge is the site's banded TDR
// £/day rate annualised over 365 days.
package costing

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/metrics"
	"github.com/aristath/tnuos/internal/modules/banding"
	"github.com/aristath/tnuos/internal/modules/rates"
)

// daysPerYear annualises the TDR daily rate. Charging years are billed as
// flat 365-day years.
const daysPerYear = 365

// Calculator computes TNUoS cost exposure for site portfolios.
type Calculator struct {
	rates *rates.Repository
	log   zerolog.Logger
}

// NewCalculator creates a calculator over a loaded rate repository.
func NewCalculator(repo *rates.Repository, log zerolog.Logger) *Calculator {
	return &Calculator{
		rates: repo,
		log:   log.With().Str("module", "costing").Logger(),
	}
}

// Compute classifies and costs every site for one charging year. The
// result keeps input order and always has one row per input site; a rate
// the tables do not carry contributes zero rather than failing the run.
// An empty or nil portfolio yields an empty result.
func (c *Calculator) Compute(portfolio domain.Portfolio, year int) []domain.CostedSite {
	start := time.Now()

	out := make([]domain.CostedSite, 0, len(portfolio))
	for _, site := range portfolio {
		out = append(out, c.costSite(site, year))
	}

	metrics.ObserveComputation("compute", start, len(portfolio))
	c.log.Debug().Int("sites", len(out)).Int("year", year).Msg("Portfolio costed")
	return out
}

// CostSite classifies and costs a single site for one charging year.
func (c *Calculator) CostSite(site domain.Site, year int) domain.CostedSite {
	start := time.Now()
	costed := c.costSite(site, year)
	metrics.ObserveComputation("cost_site", start, 1)
	return costed
}

func (c *Calculator) costSite(site domain.Site, year int) domain.CostedSite {
	classified := banding.ClassifySite(site)
	costed := domain.CostedSite{ClassifiedSite: classified}

	if classified.TDRKey != "" {
		if rate, ok := c.rates.ResidualRate(year, classified.TDRKey); ok {
			costed.ResidualRate = rate
		}
	}
	costed.ResidualCost = Round2(costed.ResidualRate * daysPerYear)

	switch classified.MeterType {
	case domain.MeterHalfHourly:
		if rate, ok := c.rates.HHRate(year, classified.DNOZone); ok {
			costed.LocationalRate = rate
		}
		costed.LocationalCost = Round2(costed.LocationalRate * classified.AgreedCapacityKVA)
	case domain.MeterNonHalfHourly:
		if rate, ok := c.rates.NHHRate(year, classified.DNOZone); ok {
			costed.LocationalRate = rate
		}
		costed.LocationalCost = Round2(costed.LocationalRate * classified.AnnualConsumptionKWH / 100)
	}

	costed.TotalCost = Round2(costed.LocationalCost + costed.ResidualCost)
	return costed
}

// Total sums the total cost across a costed portfolio.
func Total(costed []domain.CostedSite) float64 {
	var sum float64
	for _, site := range costed {
		sum += site.TotalCost
	}
	return sum
}

// LocationalTotal sums the locational component across a costed portfolio.
func LocationalTotal(costed []domain.CostedSite) float64 {
	var sum float64
	for _, site := range costed {
		sum += site.LocationalCost
	}
	return sum
}

// ResidualTotal sums the residual component across a costed portfolio.
func ResidualTotal(costed []domain.CostedSite) float64 {
	var sum float64
	for _, site := range costed {
		sum += site.ResidualCost
	}
	return sum
}

// Round2 rounds a pound amount to two decimal places, half away from
// zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
