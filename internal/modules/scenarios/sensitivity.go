package scenarios

import (
	"math"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/modules/costing"
)

// Thresholds for the minimal-impact callout: a swing of more than
// minimalImpactAdjustPct in the inputs that moves the total by less than
// minimalImpactShare of the baseline means the portfolio's exposure is
// dominated by fixed residual charges.
const (
	minimalImpactShare     = 0.01
	minimalImpactAdjustPct = 10.0
)

// BandChange records a site whose TCR band moved under an adjustment.
type BandChange struct {
	SiteID  string      `json:"site_id"`
	From    domain.Band `json:"from"`
	To      domain.Band `json:"to"`
	Dropped bool        `json:"dropped"`
}

// SensitivityResult describes the cost and band impact of scaling a
// portfolio's charging metrics by a percentage.
type SensitivityResult struct {
	AdjustPct     float64      `json:"adjust_pct"`
	BaselineTotal float64      `json:"baseline_total"`
	AdjustedTotal float64      `json:"adjusted_total"`
	Delta         float64      `json:"delta"`
	BandChanges   []BandChange `json:"band_changes,omitempty"`
	MinimalImpact bool         `json:"minimal_impact"`
}

// Sensitivity scales agreed capacity and annual consumption together by
// (1 + adjustPct/100) on a throwaway copy of the baseline and compares
// the result against the unadjusted baseline. The working copy is left
// alone. Scaled capacities keep their fractional part here: the question
// is "what if demand grows 5%", not a renegotiated connection agreement.
func (s *Session) Sensitivity(adjustPct float64) SensitivityResult {
	factor := 1 + adjustPct/100

	adjusted := s.baseline.Clone()
	for i := range adjusted {
		adjusted[i].AgreedCapacityKVA *= factor
		adjusted[i].AnnualConsumptionKWH *= factor
	}

	baseCosted := s.calc.Compute(s.baseline, s.year)
	adjCosted := s.calc.Compute(adjusted, s.year)

	result := SensitivityResult{
		AdjustPct:     adjustPct,
		BaselineTotal: costing.Round2(costing.Total(baseCosted)),
		AdjustedTotal: costing.Round2(costing.Total(adjCosted)),
	}
	result.Delta = costing.Round2(result.AdjustedTotal - result.BaselineTotal)

	for i := range baseCosted {
		from, to := baseCosted[i].TCRBand, adjCosted[i].TCRBand
		if from == to {
			continue
		}
		result.BandChanges = append(result.BandChanges, BandChange{
			SiteID:  baseCosted[i].SiteID,
			From:    from,
			To:      to,
			Dropped: to < from,
		})
	}

	if math.Abs(result.Delta) < result.BaselineTotal*minimalImpactShare &&
		math.Abs(adjustPct) > minimalImpactAdjustPct {
		result.MinimalImpact = true
	}

	s.log.Debug().
		Str("session", s.id).
		Float64("adjust_pct", adjustPct).
		Float64("delta", result.Delta).
		Int("band_changes", len(result.BandChanges)).
		Msg("Sensitivity evaluated")
	return result
}
