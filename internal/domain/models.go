// Package domain provides core domain models and types.
package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// MeterType represents a site's settlement metering classification
type MeterType string

const (
	// MeterHalfHourly is half-hourly settled metering
	MeterHalfHourly MeterType = "HH"
	// MeterNonHalfHourly is non-half-hourly settled metering
	MeterNonHalfHourly MeterType = "NHH"
)

// VoltageLevel represents a site's connection voltage
type VoltageLevel string

const (
	VoltageLow       VoltageLevel = "LV"
	VoltageHigh      VoltageLevel = "HV"
	VoltageExtraHigh VoltageLevel = "EHV"
)

// Band represents a TCR charging band. Band 1 is the cheapest tier; the
// zero value means the site could not be classified.
type Band int

const (
	BandUnclassified Band = 0
	Band1            Band = 1
	Band2            Band = 2
	Band3            Band = 3
	Band4            Band = 4
)

// String returns the display form used in tariff tables and reports
// ("Band 3", "Unclassified").
func (b Band) String() string {
	if b < Band1 || b > Band4 {
		return "Unclassified"
	}
	return fmt.Sprintf("Band %d", int(b))
}

// MarshalJSON encodes the band in its display form.
func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON accepts the display form ("Band 3"), "Unclassified", an
// empty string, or a bare band number.
func (b *Band) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" || s == "Unclassified" {
			*b = BandUnclassified
			return nil
		}
		var n int
		if _, err := fmt.Sscanf(s, "Band %d", &n); err == nil && n >= 1 && n <= 4 {
			*b = Band(n)
			return nil
		}
		return fmt.Errorf("invalid band %q", s)
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil || n < 0 || n > 4 {
		return fmt.Errorf("invalid band %s", data)
	}
	*b = Band(n)
	return nil
}

// Metric names and units for the two charging paths.
const (
	MetricCapacity    = "capacity"
	MetricConsumption = "consumption"

	UnitKVA = "kVA"
	UnitKWH = "kWh"
)

// Site is one metered supply point in a portfolio.
type Site struct {
	SiteID               string       `json:"site_id"`
	MeterType            MeterType    `json:"meter_type"`
	VoltageLevel         VoltageLevel `json:"voltage_level"`
	DNOZone              int          `json:"dno_zone"`
	AgreedCapacityKVA    float64      `json:"agreed_capacity_kva"`
	AnnualConsumptionKWH float64      `json:"annual_consumption_kwh"`
}

// Normalized returns a copy with meter type and voltage level trimmed and
// upper-cased, and with NaN, infinite or negative metrics coerced to zero.
// All classification and costing runs on normalized sites; this is the
// single place malformed input is cleaned up.
func (s Site) Normalized() Site {
	s.MeterType = MeterType(strings.ToUpper(strings.TrimSpace(string(s.MeterType))))
	s.VoltageLevel = VoltageLevel(strings.ToUpper(strings.TrimSpace(string(s.VoltageLevel))))
	s.AgreedCapacityKVA = sanitizeMetric(s.AgreedCapacityKVA)
	s.AnnualConsumptionKWH = sanitizeMetric(s.AnnualConsumptionKWH)
	return s
}

func sanitizeMetric(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Portfolio is an ordered collection of sites.
type Portfolio []Site

// Clone returns a deep copy sharing no memory with the original.
func (p Portfolio) Clone() Portfolio {
	if p == nil {
		return nil
	}
	out := make(Portfolio, len(p))
	copy(out, p)
	return out
}

// ClassifiedSite is a site with its TCR band and residual tariff key
// attached.
type ClassifiedSite struct {
	Site
	TCRBand Band   `json:"tcr_band"`
	TDRKey  string `json:"tdr_lookup_key,omitempty"`
}

// CostedSite is a classified site joined against the rate tables for one
// charging year. Costs are in pounds, rounded to two decimal places.
type CostedSite struct {
	ClassifiedSite
	LocationalRate float64 `json:"locational_rate"`
	LocationalCost float64 `json:"locational_cost_pound"`
	ResidualRate   float64 `json:"rate_residual_p_day"`
	ResidualCost   float64 `json:"residual_cost_pound"`
	TotalCost      float64 `json:"total_tnuos_cost"`
	Scenario       string  `json:"scenario,omitempty"`
}

// Opportunity flags a site that can reach a cheaper TCR band with a
// bounded reduction of its charging metric.
type Opportunity struct {
	SiteID          string  `json:"site_id"`
	CurrentBand     Band    `json:"current_band"`
	TargetBand      Band    `json:"target_band"`
	Metric          string  `json:"metric"`
	Unit            string  `json:"unit"`
	CurrentValue    float64 `json:"current_value"`
	TargetValue     float64 `json:"target_value"`
	ReductionNeeded float64 `json:"reduction_needed"`
	ReductionPct    float64 `json:"reduction_pct"`
}
