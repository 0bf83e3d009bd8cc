package rates

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tnuos/internal/metrics"
)

type zoneKey struct {
	Year int
	Zone int
}

type bandKey struct {
	Year int
	Key  string
}

// Repository holds the deduplicated tariff tables in memory. It is
// immutable after construction and safe for concurrent readers.
type Repository struct {
	hh       map[zoneKey]float64
	nhh      map[zoneKey]float64
	residual map[bandKey]float64
	years    []int
	log      zerolog.Logger
}

// NewRepository indexes the supplied tariff rows for lookup. Tariff files
// carry every published forecast revision, so each (year, zone) and
// (year, band key) resolves to the row with the latest publication date;
// rows sharing a publication date resolve to the one appearing later in
// the file.
func NewRepository(hh []HHRate, nhh []NHHRate, residual []ResidualRate, log zerolog.Logger) *Repository {
	r := &Repository{
		hh:       make(map[zoneKey]float64),
		nhh:      make(map[zoneKey]float64),
		residual: make(map[bandKey]float64),
		log:      log.With().Str("module", "rates").Logger(),
	}

	yearSet := make(map[int]struct{})

	hhSeen := make(map[zoneKey]time.Time)
	for _, row := range hh {
		k := zoneKey{Year: row.Year, Zone: row.Zone}
		if prev, ok := hhSeen[k]; ok && row.Published.Before(prev) {
			continue
		}
		hhSeen[k] = row.Published
		r.hh[k] = row.RatePerKW
		yearSet[row.Year] = struct{}{}
	}

	nhhSeen := make(map[zoneKey]time.Time)
	for _, row := range nhh {
		k := zoneKey{Year: row.Year, Zone: row.Zone}
		if prev, ok := nhhSeen[k]; ok && row.Published.Before(prev) {
			continue
		}
		nhhSeen[k] = row.Published
		r.nhh[k] = row.PencePerKWH
		yearSet[row.Year] = struct{}{}
	}

	residualSeen := make(map[bandKey]time.Time)
	for _, row := range residual {
		k := bandKey{Year: row.Year, Key: row.Key}
		if prev, ok := residualSeen[k]; ok && row.Published.Before(prev) {
			continue
		}
		residualSeen[k] = row.Published
		r.residual[k] = row.RatePerDay
		yearSet[row.Year] = struct{}{}
	}

	r.years = make([]int, 0, len(yearSet))
	for year := range yearSet {
		r.years = append(r.years, year)
	}
	sort.Ints(r.years)

	metrics.TariffRowsLoaded.WithLabelValues("hh").Set(float64(len(r.hh)))
	metrics.TariffRowsLoaded.WithLabelValues("nhh").Set(float64(len(r.nhh)))
	metrics.TariffRowsLoaded.WithLabelValues("tdr").Set(float64(len(r.residual)))

	r.log.Info().
		Int("hh_rates", len(r.hh)).
		Int("nhh_rates", len(r.nhh)).
		Int("residual_rates", len(r.residual)).
		Ints("years", r.years).
		Msg("Tariff tables indexed")

	return r
}

// HHRate returns the half-hourly locational rate in £/kW for a charging
// year and DNO zone.
func (r *Repository) HHRate(year, zone int) (float64, bool) {
	rate, ok := r.hh[zoneKey{Year: year, Zone: zone}]
	return rate, ok
}

// NHHRate returns the non-half-hourly locational rate in p/kWh for a
// charging year and DNO zone.
func (r *Repository) NHHRate(year, zone int) (float64, bool) {
	rate, ok := r.nhh[zoneKey{Year: year, Zone: zone}]
	return rate, ok
}

// ResidualRate returns the TDR residual rate in £/day for a charging year
// and band key.
func (r *Repository) ResidualRate(year int, key string) (float64, bool) {
	rate, ok := r.residual[bandKey{Year: year, Key: key}]
	return rate, ok
}

// Years lists every charging year present in any table, ascending.
func (r *Repository) Years() []int {
	out := make([]int, len(r.years))
	copy(out, r.years)
	return out
}
