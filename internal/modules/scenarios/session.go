// Package scenarios provides what-if scenario modelling functionality.
//
// A session owns a disposable working copy of a baseline portfolio.
// Scenario operations mutate the working copy and re-cost it; the
// baseline itself is never touched, so a session can always be reset to
// where it started.
package scenarios

import (
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/modules/costing"
)

// DefaultYear is the charging year a session targets unless told
// otherwise.
const DefaultYear = 2027

// ScenarioCapacityOptimization tags costed rows produced by a capacity
// cut run.
const ScenarioCapacityOptimization = "Capacity Optimization"

// Session is a mutable what-if workspace over an immutable baseline.
type Session struct {
	id       string
	year     int
	baseline domain.Portfolio
	current  domain.Portfolio
	calc     *costing.Calculator
	log      zerolog.Logger
}

// NewSession deep-copies the baseline into a fresh session. A zero year
// selects DefaultYear.
func NewSession(baseline domain.Portfolio, year int, calc *costing.Calculator, log zerolog.Logger) *Session {
	if year == 0 {
		year = DefaultYear
	}
	return &Session{
		id:       uuid.NewString(),
		year:     year,
		baseline: baseline.Clone(),
		current:  baseline.Clone(),
		calc:     calc,
		log:      log.With().Str("module", "scenarios").Logger(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Year returns the charging year the session costs against.
func (s *Session) Year() int { return s.year }

// Baseline returns a copy of the untouched baseline portfolio.
func (s *Session) Baseline() domain.Portfolio { return s.baseline.Clone() }

// Current returns a copy of the working portfolio with every scenario
// mutation applied so far.
func (s *Session) Current() domain.Portfolio { return s.current.Clone() }

// Reset discards all scenario mutations and restores the working copy to
// the baseline.
func (s *Session) Reset() {
	s.current = s.baseline.Clone()
	s.log.Debug().Str("session", s.id).Msg("Session reset to baseline")
}

// CapacityOptimization scales every agreed capacity in the working copy
// by (1 - reduction) and re-costs the portfolio. Capacities land on whole
// kVA, matching how a revised connection agreement would be written.
// reduction is a fraction: 0.10 cuts capacities by 10%.
func (s *Session) CapacityOptimization(reduction float64) []domain.CostedSite {
	s.log.Info().
		Str("session", s.id).
		Float64("reduction_pct", reduction*100).
		Msg("Running capacity optimization scenario")

	for i := range s.current {
		scaled := s.current[i].AgreedCapacityKVA * (1 - reduction)
		s.current[i].AgreedCapacityKVA = math.Round(scaled)
	}

	costed := s.calc.Compute(s.current, s.year)
	for i := range costed {
		costed[i].Scenario = ScenarioCapacityOptimization
	}
	return costed
}

// DemandFlexibility returns the annual locational saving from shedding
// the given fraction of half-hourly load across every triad peak. Only
// half-hourly sites carry a capacity-linked locational charge, so only
// they contribute; the portfolio itself is not modified.
func (s *Session) DemandFlexibility(flexFactor float64) float64 {
	baseline := s.calc.Compute(s.baseline, s.year)

	var saving float64
	for _, site := range baseline {
		if site.MeterType == domain.MeterHalfHourly {
			saving += site.LocationalCost * flexFactor
		}
	}

	s.log.Debug().
		Str("session", s.id).
		Float64("flex_factor", flexFactor).
		Float64("saving", saving).
		Msg("Demand flexibility evaluated")
	return saving
}
