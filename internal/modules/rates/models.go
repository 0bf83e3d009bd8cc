// Package rates provides published TNUoS tariff table functionality: CSV
// ingestion, forecast deduplication and rate lookups.
package rates

import "time"

// HHRate is one half-hourly demand tariff row: a locational rate in £/kW
// for a charging year and DNO zone.
type HHRate struct {
	Published time.Time
	Year      int
	Zone      int
	RatePerKW float64
}

// NHHRate is one non-half-hourly demand tariff row: a locational rate in
// p/kWh for a charging year and DNO zone.
type NHHRate struct {
	Published   time.Time
	Year        int
	Zone        int
	PencePerKWH float64
}

// ResidualRate is one TDR residual tariff row: a £/day rate for a
// charging year and band key ("LV2", "LV_NoMIC_1").
type ResidualRate struct {
	Published  time.Time
	Key        string
	Year       int
	RatePerDay float64
}
