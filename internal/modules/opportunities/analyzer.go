// Package opportunities provides band drop opportunity identification
// functionality.
//
// A site sitting just above a TCR band boundary can buy its way into the
// cheaper band with a modest reduction of its charging metric: a revised
// agreed capacity for half-hourly sites, lower annual consumption for the
// rest. The analyzer flags every site within a bounded margin above a
// boundary and quantifies the reduction needed.
package opportunities

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/metrics"
	"github.com/aristath/tnuos/internal/modules/banding"
	"github.com/aristath/tnuos/internal/modules/costing"
)

// bandDropMargin bounds how far above a boundary a site may sit and still
// be worth flagging: within 20% of the lower band's ceiling. Deeper cuts
// are treated as operationally unrealistic.
const bandDropMargin = 1.2

// Analyzer finds sites that can reach a cheaper TCR band.
type Analyzer struct {
	calc *costing.Calculator
	log  zerolog.Logger
}

// NewAnalyzer creates an analyzer over the given calculator.
func NewAnalyzer(calc *costing.Calculator, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		calc: calc,
		log:  log.With().Str("module", "opportunities").Logger(),
	}
}

// Find costs the portfolio for one charging year and returns an
// opportunity for every site within the drop margin, in portfolio order.
// Band 1 and Unclassified sites are skipped: there is nothing below them
// to drop into.
func (a *Analyzer) Find(portfolio domain.Portfolio, year int) []domain.Opportunity {
	start := time.Now()

	costed := a.calc.Compute(portfolio, year)
	opportunities := make([]domain.Opportunity, 0)
	for _, site := range costed {
		if opp, ok := Check(site.Site, site.TCRBand); ok {
			opportunities = append(opportunities, opp)
		}
	}

	metrics.ObserveComputation("opportunities", start, len(portfolio))
	a.log.Debug().
		Int("sites", len(costed)).
		Int("opportunities", len(opportunities)).
		Int("year", year).
		Msg("Band drop scan complete")
	return opportunities
}

// Check evaluates a single banded site. ok is false when the site has no
// band below it, its voltage level is unrecognised, or the reduction
// required exceeds the drop margin. A site sitting exactly on a boundary
// is already in the cheaper band's reach and is not an opportunity.
func Check(site domain.Site, band domain.Band) (domain.Opportunity, bool) {
	target, ok := banding.DropTarget(site, band)
	if !ok {
		return domain.Opportunity{}, false
	}

	metric, unit, value := banding.Metric(site)
	if value <= target || value > target*bandDropMargin {
		return domain.Opportunity{}, false
	}

	reduction := value - target
	return domain.Opportunity{
		SiteID:          site.SiteID,
		CurrentBand:     band,
		TargetBand:      band - 1,
		Metric:          metric,
		Unit:            unit,
		CurrentValue:    value,
		TargetValue:     target,
		ReductionNeeded: costing.Round2(reduction),
		ReductionPct:    costing.Round2(reduction / value * 100),
	}, true
}
