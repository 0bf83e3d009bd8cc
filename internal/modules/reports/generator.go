// Package reports provides downloadable report generation functionality:
// an executive risk assessment PDF and a costed portfolio workbook.
package reports

import (
	"github.com/rs/zerolog"

	"github.com/aristath/tnuos/internal/modules/costing"
	"github.com/aristath/tnuos/internal/modules/forecast"
	"github.com/aristath/tnuos/internal/modules/opportunities"
)

// Generator renders portfolio analytics into downloadable documents.
type Generator struct {
	calc       *costing.Calculator
	forecaster *forecast.Forecaster
	analyzer   *opportunities.Analyzer
	log        zerolog.Logger
}

// NewGenerator creates a report generator over the engine services.
func NewGenerator(calc *costing.Calculator, forecaster *forecast.Forecaster, analyzer *opportunities.Analyzer, log zerolog.Logger) *Generator {
	return &Generator{
		calc:       calc,
		forecaster: forecaster,
		analyzer:   analyzer,
		log:        log.With().Str("module", "reports").Logger(),
	}
}
