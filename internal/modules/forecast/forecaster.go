// Package forecast provides multi-year cost projection and risk reporting
// functionality.
//
// The published tariff tables carry forecast rates out to the 2030/31
// charging year. A trend runs the same portfolio through each year in
// turn; a risk report compares two years site by site and flags the
// outliers.
package forecast

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/metrics"
	"github.com/aristath/tnuos/internal/modules/costing"
)

// Charging years covered by the published forecast tables.
const (
	BaselineYear = 2026
	HorizonYear  = 2031
)

// FYLabel formats a charging year as its financial year label:
// 2026 becomes "2025/26".
func FYLabel(year int) string {
	return fmt.Sprintf("%d/%02d", year-1, year%100)
}

// TrendPoint is one year of a portfolio cost trajectory.
type TrendPoint struct {
	Year      int     `json:"year"`
	Label     string  `json:"label"`
	TotalCost float64 `json:"total_cost"`
}

// Forecaster projects portfolio cost across charging years.
type Forecaster struct {
	calc *costing.Calculator
	log  zerolog.Logger
}

// NewForecaster creates a forecaster over the given calculator.
func NewForecaster(calc *costing.Calculator, log zerolog.Logger) *Forecaster {
	return &Forecaster{
		calc: calc,
		log:  log.With().Str("module", "forecast").Logger(),
	}
}

// Trend computes the portfolio total for every charging year from first
// to last inclusive. Each year is an independent stateless run; zero
// bounds select the published forecast window.
func (f *Forecaster) Trend(portfolio domain.Portfolio, first, last int) []TrendPoint {
	if first == 0 {
		first = BaselineYear
	}
	if last == 0 {
		last = HorizonYear
	}

	start := time.Now()
	points := make([]TrendPoint, 0, last-first+1)
	for year := first; year <= last; year++ {
		costed := f.calc.Compute(portfolio, year)
		points = append(points, TrendPoint{
			Year:      year,
			Label:     FYLabel(year),
			TotalCost: costing.Round2(costing.Total(costed)),
		})
	}

	metrics.ObserveComputation("trend", start, len(portfolio))
	f.log.Debug().
		Int("first", first).
		Int("last", last).
		Int("sites", len(portfolio)).
		Msg("Cost trend computed")
	return points
}
