package rates

import (
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tariffFS(hh, nhh, tdr string) fstest.MapFS {
	return fstest.MapFS{
		HHFileName:  &fstest.MapFile{Data: []byte(hh)},
		NHHFileName: &fstest.MapFile{Data: []byte(nhh)},
		TDRFileName: &fstest.MapFile{Data: []byte(tdr)},
	}
}

const (
	validHH = `Year_FY,Zone_No,HHTariff(Floored)_£/kW,Published_Date
2027,12,10.0000,30/08/2024
2027,12,14.5000,28/01/2025
2026,1,-1.2000,28/01/2025
`
	validNHH = `Year_FY,Zone_No,NHHTariff(Floored)_p/kWh,Published_Date
2027,10,1.5000,28/01/2025
2026,10,1.1000,2025-01-28
`
	validTDR = `Year_FY,TDR Band,AllTariff(Floored)_£/day,Published_Date
2027,LV2,3.4700,28/01/2025
2027,LV_NoMIC_3,1.1300,28/01/2025
2027,Domestic Aggregated,0.2100,28/01/2025
2027,Unmetered Supplies,0.1800,28/01/2025
`
)

func TestLoad(t *testing.T) {
	repo, err := Load(tariffFS(validHH, validNHH, validTDR), zerolog.Nop())
	require.NoError(t, err)

	rate, ok := repo.HHRate(2027, 12)
	require.True(t, ok)
	assert.Equal(t, 14.5, rate, "latest published forecast should win")

	rate, ok = repo.HHRate(2026, 1)
	require.True(t, ok)
	assert.Equal(t, -1.2, rate, "negative locational rates are valid")

	rate, ok = repo.NHHRate(2027, 10)
	require.True(t, ok)
	assert.Equal(t, 1.5, rate)

	rate, ok = repo.NHHRate(2026, 10)
	require.True(t, ok)
	assert.Equal(t, 1.1, rate, "ISO publication dates should parse")

	rate, ok = repo.ResidualRate(2027, "LV2")
	require.True(t, ok)
	assert.Equal(t, 3.47, rate)

	assert.Equal(t, []int{2026, 2027}, repo.Years())
}

func TestLoad_DiscardsOutOfScopeBandKeys(t *testing.T) {
	repo, err := Load(tariffFS(validHH, validNHH, validTDR), zerolog.Nop())
	require.NoError(t, err)

	_, ok := repo.ResidualRate(2027, "Domestic Aggregated")
	assert.False(t, ok)
	_, ok = repo.ResidualRate(2027, "Unmetered Supplies")
	assert.False(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	fsys := fstest.MapFS{
		HHFileName: &fstest.MapFile{Data: []byte(validHH)},
	}

	_, err := Load(fsys, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), NHHFileName)
}

func TestLoad_MissingColumn(t *testing.T) {
	badHH := `Year_FY,Zone_No,Published_Date
2027,12,28/01/2025
`
	_, err := Load(tariffFS(badHH, validNHH, validTDR), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HHTariff(Floored)_£/kW")
}

func TestLoad_SkipsMalformedRows(t *testing.T) {
	hh := `Year_FY,Zone_No,HHTariff(Floored)_£/kW,Published_Date
2027,12,14.5000,28/01/2025
not-a-year,12,9.0000,28/01/2025
2027,twelve,9.0000,28/01/2025
2027,13,not-a-rate,28/01/2025
2027,14,9.0000,yesterday
`
	repo, err := Load(tariffFS(hh, validNHH, validTDR), zerolog.Nop())
	require.NoError(t, err)

	rate, ok := repo.HHRate(2027, 12)
	require.True(t, ok)
	assert.Equal(t, 14.5, rate)

	_, ok = repo.HHRate(2027, 13)
	assert.False(t, ok)
	_, ok = repo.HHRate(2027, 14)
	assert.False(t, ok)
}

func TestLoad_RateColumnFoundBySubstring(t *testing.T) {
	// Currency symbol mangled by a re-export; substring match still finds it.
	tdr := `Year_FY,TDR Band,AllTariff(Floored)_?/day,Published_Date
2027,HV3,27.5300,28/01/2025
`
	repo, err := Load(tariffFS(validHH, validNHH, tdr), zerolog.Nop())
	require.NoError(t, err)

	rate, ok := repo.ResidualRate(2027, "HV3")
	require.True(t, ok)
	assert.Equal(t, 27.53, rate)
}
