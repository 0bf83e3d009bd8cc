package rates

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// File names of the published tariff extracts the loader expects to find
// in its data directory.
const (
	HHFileName  = "tnuos_demand_hh.csv"
	NHHFileName = "tnuos_demand_nhh.csv"
	TDRFileName = "tnuos_tdr-tariffs.csv"
)

// residualKeyPattern matches the non-domestic band keys the calculator
// can resolve. Everything else in the TDR file (Domestic, Unmetered, ...)
// is out of scope and dropped at load time.
var residualKeyPattern = regexp.MustCompile(`^(LV|HV|EHV)[1-4]$|^LV_NoMIC_[1-4]$`)

// Load reads the three tariff CSVs from fsys and builds a deduplicated
// repository. A missing file or missing required column is an error;
// malformed rows are skipped with a warning.
func Load(fsys fs.FS, log zerolog.Logger) (*Repository, error) {
	log = log.With().Str("module", "rates").Logger()

	hh, err := loadHH(fsys, log)
	if err != nil {
		return nil, err
	}
	nhh, err := loadNHH(fsys, log)
	if err != nil {
		return nil, err
	}
	residual, err := loadResidual(fsys, log)
	if err != nil {
		return nil, err
	}

	return NewRepository(hh, nhh, residual, log), nil
}

func loadHH(fsys fs.FS, log zerolog.Logger) ([]HHRate, error) {
	header, rows, err := readTable(fsys, HHFileName)
	if err != nil {
		return nil, err
	}

	yearIdx, err := columnIndex(header, HHFileName, "Year_FY")
	if err != nil {
		return nil, err
	}
	zoneIdx, err := columnIndex(header, HHFileName, "Zone_No")
	if err != nil {
		return nil, err
	}
	rateIdx, err := columnIndex(header, HHFileName, "HHTariff(Floored)_£/kW")
	if err != nil {
		return nil, err
	}
	dateIdx, err := columnIndex(header, HHFileName, "Published_Date")
	if err != nil {
		return nil, err
	}

	out := make([]HHRate, 0, len(rows))
	for n, row := range rows {
		year, ok := parseIntCell(row, yearIdx)
		if !ok {
			log.Warn().Str("file", HHFileName).Int("row", n+2).Msg("Skipping row with unparseable year")
			continue
		}
		zone, ok := parseIntCell(row, zoneIdx)
		if !ok {
			log.Warn().Str("file", HHFileName).Int("row", n+2).Msg("Skipping row with unparseable zone")
			continue
		}
		rate, ok := parseFloatCell(row, rateIdx)
		if !ok {
			log.Warn().Str("file", HHFileName).Int("row", n+2).Msg("Skipping row with unparseable rate")
			continue
		}
		published, ok := parseDateCell(row, dateIdx)
		if !ok {
			log.Warn().Str("file", HHFileName).Int("row", n+2).Msg("Skipping row with unparseable publication date")
			continue
		}
		out = append(out, HHRate{Year: year, Zone: zone, RatePerKW: rate, Published: published})
	}
	return out, nil
}

func loadNHH(fsys fs.FS, log zerolog.Logger) ([]NHHRate, error) {
	header, rows, err := readTable(fsys, NHHFileName)
	if err != nil {
		return nil, err
	}

	yearIdx, err := columnIndex(header, NHHFileName, "Year_FY")
	if err != nil {
		return nil, err
	}
	zoneIdx, err := columnIndex(header, NHHFileName, "Zone_No")
	if err != nil {
		return nil, err
	}
	rateIdx, err := columnIndex(header, NHHFileName, "NHHTariff(Floored)_p/kWh")
	if err != nil {
		return nil, err
	}
	dateIdx, err := columnIndex(header, NHHFileName, "Published_Date")
	if err != nil {
		return nil, err
	}

	out := make([]NHHRate, 0, len(rows))
	for n, row := range rows {
		year, ok := parseIntCell(row, yearIdx)
		if !ok {
			log.Warn().Str("file", NHHFileName).Int("row", n+2).Msg("Skipping row with unparseable year")
			continue
		}
		zone, ok := parseIntCell(row, zoneIdx)
		if !ok {
			log.Warn().Str("file", NHHFileName).Int("row", n+2).Msg("Skipping row with unparseable zone")
			continue
		}
		rate, ok := parseFloatCell(row, rateIdx)
		if !ok {
			log.Warn().Str("file", NHHFileName).Int("row", n+2).Msg("Skipping row with unparseable rate")
			continue
		}
		published, ok := parseDateCell(row, dateIdx)
		if !ok {
			log.Warn().Str("file", NHHFileName).Int("row", n+2).Msg("Skipping row with unparseable publication date")
			continue
		}
		out = append(out, NHHRate{Year: year, Zone: zone, PencePerKWH: rate, Published: published})
	}
	return out, nil
}

func loadResidual(fsys fs.FS, log zerolog.Logger) ([]ResidualRate, error) {
	header, rows, err := readTable(fsys, TDRFileName)
	if err != nil {
		return nil, err
	}

	yearIdx, err := columnIndex(header, TDRFileName, "Year_FY")
	if err != nil {
		return nil, err
	}
	keyIdx, err := columnIndex(header, TDRFileName, "TDR Band")
	if err != nil {
		return nil, err
	}
	// The published rate header carries a currency symbol that does not
	// always survive re-encoding, so locate it by substring.
	rateIdx, err := columnContaining(header, TDRFileName, "Tariff")
	if err != nil {
		return nil, err
	}
	dateIdx, err := columnIndex(header, TDRFileName, "Published_Date")
	if err != nil {
		return nil, err
	}

	out := make([]ResidualRate, 0, len(rows))
	ignored := 0
	for n, row := range rows {
		key := cell(row, keyIdx)
		if !residualKeyPattern.MatchString(key) {
			ignored++
			continue
		}
		year, ok := parseIntCell(row, yearIdx)
		if !ok {
			log.Warn().Str("file", TDRFileName).Int("row", n+2).Msg("Skipping row with unparseable year")
			continue
		}
		rate, ok := parseFloatCell(row, rateIdx)
		if !ok {
			log.Warn().Str("file", TDRFileName).Int("row", n+2).Msg("Skipping row with unparseable rate")
			continue
		}
		published, ok := parseDateCell(row, dateIdx)
		if !ok {
			log.Warn().Str("file", TDRFileName).Int("row", n+2).Msg("Skipping row with unparseable publication date")
			continue
		}
		out = append(out, ResidualRate{Year: year, Key: key, RatePerDay: rate, Published: published})
	}

	if ignored > 0 {
		log.Debug().Str("file", TDRFileName).Int("rows", ignored).Msg("Ignored out-of-scope band keys")
	}
	return out, nil
}

func readTable(fsys fs.FS, name string) ([]string, [][]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open tariff file %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read tariff file %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("tariff file %s is empty", name)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	return header, rows[1:], nil
}

func columnIndex(header []string, file, name string) (int, error) {
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("tariff file %s is missing column %q", file, name)
}

func columnContaining(header []string, file, substr string) (int, error) {
	for i, h := range header {
		if strings.Contains(h, substr) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("tariff file %s has no column containing %q", file, substr)
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseIntCell(row []string, idx int) (int, bool) {
	v, err := strconv.Atoi(cell(row, idx))
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFloatCell(row []string, idx int) (float64, bool) {
	v, err := strconv.ParseFloat(cell(row, idx), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// dateLayouts are tried in order. Publication dates are day-first in the
// published files; ISO dates appear in some re-exports.
var dateLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02"}

func parseDateCell(row []string, idx int) (time.Time, bool) {
	s := cell(row, idx)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
