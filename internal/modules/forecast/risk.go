package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/metrics"
	"github.com/aristath/tnuos/internal/modules/costing"
)

// fixedContractMarkup is the supplier premium priced into a fixed
// contract in exchange for shielding the customer from tariff movement.
const fixedContractMarkup = 1.15

// highRiskThresholdPct flags a site whose unshielded year-on-year cost
// more than doubles.
const highRiskThresholdPct = 100.0

// ContractType selects how tariff movement reaches the customer.
type ContractType string

const (
	// ContractPassThrough passes tariff changes straight through.
	ContractPassThrough ContractType = "pass_through"
	// ContractFixed freezes the bill at baseline plus the supplier markup.
	ContractFixed ContractType = "fixed"
)

// SiteRisk is one site's movement between the baseline and forecast
// years, always measured on unshielded costs.
type SiteRisk struct {
	SiteID       string  `json:"site_id"`
	BaselineCost float64 `json:"baseline_cost"`
	ForecastCost float64 `json:"forecast_cost"`
	ChangePct    float64 `json:"change_pct"`
	NewExposure  bool    `json:"new_exposure,omitempty"`
}

// RiskStats summarizes the per-site percentage changes. Sites with a zero
// baseline are excluded: their change is undefined, not infinite.
type RiskStats struct {
	MeanChangePct   float64 `json:"mean_change_pct"`
	StdDevChangePct float64 `json:"stddev_change_pct"`
	MaxChangePct    float64 `json:"max_change_pct"`
	MaxChangeSite   string  `json:"max_change_site,omitempty"`
}

// Waterfall decomposes the portfolio movement between the two years into
// its residual and locational parts.
type Waterfall struct {
	Baseline       float64 `json:"baseline"`
	ResidualDiff   float64 `json:"residual_diff"`
	LocationalDiff float64 `json:"locational_diff"`
	Forecast       float64 `json:"forecast"`
}

// RiskReport compares a portfolio across two charging years.
//
// BaselineTotal and ForecastTotal are the customer-facing figures: under
// a fixed contract both freeze at baseline plus markup and the delta is
// zero. The raw totals and everything site-level stay unshielded, because
// the risk being reported is what happens when the contract ends.
type RiskReport struct {
	SiteCount        int          `json:"site_count"`
	BaselineYear     int          `json:"baseline_year"`
	ForecastYear     int          `json:"forecast_year"`
	BaselineLabel    string       `json:"baseline_label"`
	ForecastLabel    string       `json:"forecast_label"`
	Contract         ContractType `json:"contract"`
	Shielded         bool         `json:"shielded"`
	BaselineTotal    float64      `json:"baseline_total"`
	ForecastTotal    float64      `json:"forecast_total"`
	Delta            float64      `json:"delta"`
	DeltaPct         float64      `json:"delta_pct"`
	RawBaselineTotal float64      `json:"raw_baseline_total"`
	RawForecastTotal float64      `json:"raw_forecast_total"`
	HighRiskCount    int          `json:"high_risk_count"`
	HighRiskSites    []SiteRisk   `json:"high_risk_sites,omitempty"`
	Stats            RiskStats    `json:"stats"`
	Waterfall        Waterfall    `json:"waterfall"`
}

// Risk compares the portfolio between two charging years. Zero years
// select the published baseline and the year after it; an unrecognised
// contract type is treated as pass-through.
func (f *Forecaster) Risk(portfolio domain.Portfolio, baselineYear, forecastYear int, contract ContractType) RiskReport {
	if baselineYear == 0 {
		baselineYear = BaselineYear
	}
	if forecastYear == 0 {
		forecastYear = baselineYear + 1
	}

	start := time.Now()
	base := f.calc.Compute(portfolio, baselineYear)
	fore := f.calc.Compute(portfolio, forecastYear)

	rawBase := costing.Total(base)
	rawFore := costing.Total(fore)

	report := RiskReport{
		SiteCount:        len(portfolio),
		BaselineYear:     baselineYear,
		ForecastYear:     forecastYear,
		BaselineLabel:    FYLabel(baselineYear),
		ForecastLabel:    FYLabel(forecastYear),
		Contract:         contract,
		RawBaselineTotal: costing.Round2(rawBase),
		RawForecastTotal: costing.Round2(rawFore),
		Waterfall: Waterfall{
			Baseline:       costing.Round2(rawBase),
			ResidualDiff:   costing.Round2(costing.ResidualTotal(fore) - costing.ResidualTotal(base)),
			LocationalDiff: costing.Round2(costing.LocationalTotal(fore) - costing.LocationalTotal(base)),
			Forecast:       costing.Round2(rawFore),
		},
	}

	if contract == ContractFixed {
		report.Shielded = true
		frozen := costing.Round2(rawBase * fixedContractMarkup)
		report.BaselineTotal = frozen
		report.ForecastTotal = frozen
	} else {
		report.BaselineTotal = costing.Round2(rawBase)
		report.ForecastTotal = costing.Round2(rawFore)
		report.Delta = costing.Round2(rawFore - rawBase)
		if rawBase > 0 {
			report.DeltaPct = costing.Round2((rawFore - rawBase) / rawBase * 100)
		}
	}

	changes := make([]float64, 0, len(base))
	maxPct := math.Inf(-1)
	maxSite := ""
	for i := range base {
		baseCost, foreCost := base[i].TotalCost, fore[i].TotalCost
		risk := SiteRisk{SiteID: base[i].SiteID, BaselineCost: baseCost, ForecastCost: foreCost}

		if baseCost > 0 {
			pct := (foreCost - baseCost) / baseCost * 100
			risk.ChangePct = costing.Round2(pct)
			changes = append(changes, pct)
			if pct > maxPct {
				maxPct = pct
				maxSite = risk.SiteID
			}
			if risk.ChangePct > highRiskThresholdPct {
				report.HighRiskSites = append(report.HighRiskSites, risk)
			}
		} else if foreCost > 0 {
			// Nothing to measure growth against; the whole cost is new.
			risk.NewExposure = true
			report.HighRiskSites = append(report.HighRiskSites, risk)
		}
	}
	report.HighRiskCount = len(report.HighRiskSites)

	if len(changes) > 0 {
		report.Stats.MeanChangePct = costing.Round2(stat.Mean(changes, nil))
		if len(changes) > 1 {
			report.Stats.StdDevChangePct = costing.Round2(stat.StdDev(changes, nil))
		}
		report.Stats.MaxChangePct = costing.Round2(maxPct)
		report.Stats.MaxChangeSite = maxSite
	}

	metrics.ObserveComputation("risk", start, len(portfolio))
	f.log.Debug().
		Int("baseline_year", baselineYear).
		Int("forecast_year", forecastYear).
		Str("contract", string(contract)).
		Int("high_risk", report.HighRiskCount).
		Msg("Risk report computed")
	return report
}
