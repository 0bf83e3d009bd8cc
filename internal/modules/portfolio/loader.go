// Package portfolio provides site portfolio loading and export
// functionality.
package portfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/tnuos/internal/domain"
)

// Columns lists the portfolio CSV columns in template order. Uploads are
// matched by header name, case-insensitively and order-independently.
var Columns = []string{
	"site_id",
	"voltage_level",
	"agreed_capacity_kva",
	"dno_zone",
	"meter_type",
	"annual_consumption_kwh",
}

// Loader parses portfolio CSV uploads.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a portfolio loader.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{log: log.With().Str("module", "portfolio").Logger()}
}

// FromCSV reads a portfolio. Rows without a site id are skipped;
// malformed numeric cells degrade to zero with a warning. Sites come back
// normalized and in file order.
func (l *Loader) FromCSV(r io.Reader) (domain.Portfolio, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read portfolio csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("portfolio csv is empty")
	}

	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range Columns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("portfolio csv is missing column %q", name)
		}
	}

	sites := make(domain.Portfolio, 0, len(rows)-1)
	for n, row := range rows[1:] {
		get := func(name string) string {
			i := idx[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		id := get("site_id")
		if id == "" {
			l.log.Warn().Int("row", n+2).Msg("Skipping portfolio row without site_id")
			continue
		}

		site := domain.Site{
			SiteID:               id,
			MeterType:            domain.MeterType(get("meter_type")),
			VoltageLevel:         domain.VoltageLevel(get("voltage_level")),
			DNOZone:              l.intCell(get("dno_zone"), n+2, "dno_zone"),
			AgreedCapacityKVA:    l.floatCell(get("agreed_capacity_kva"), n+2, "agreed_capacity_kva"),
			AnnualConsumptionKWH: l.floatCell(get("annual_consumption_kwh"), n+2, "annual_consumption_kwh"),
		}
		sites = append(sites, site.Normalized())
	}

	l.log.Info().Int("sites", len(sites)).Msg("Portfolio loaded")
	return sites, nil
}

func (l *Loader) intCell(s string, row int, column string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		l.log.Warn().Int("row", row).Str("column", column).Str("value", s).Msg("Unparseable cell, using zero")
		return 0
	}
	return v
}

func (l *Loader) floatCell(s string, row int, column string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		l.log.Warn().Int("row", row).Str("column", column).Str("value", s).Msg("Unparseable cell, using zero")
		return 0
	}
	return v
}

// ToCSV writes the portfolio in template column order.
func ToCSV(w io.Writer, sites domain.Portfolio) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("write portfolio csv: %w", err)
	}

	for _, s := range sites {
		record := []string{
			s.SiteID,
			string(s.VoltageLevel),
			strconv.FormatFloat(s.AgreedCapacityKVA, 'f', -1, 64),
			strconv.Itoa(s.DNOZone),
			string(s.MeterType),
			strconv.FormatFloat(s.AnnualConsumptionKWH, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write portfolio csv: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
