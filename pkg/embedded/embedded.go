// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
	"io/fs"
)

// Files contains the sample data set compiled into the binary:
// - data/tnuos_demand_hh.csv - half-hourly locational tariffs (£/kW)
// - data/tnuos_demand_nhh.csv - non-half-hourly locational tariffs (p/kWh)
// - data/tnuos_tdr-tariffs.csv - TDR residual tariffs (£/day)
// - data/portfolio_template.csv - the demonstration portfolio
//
// The tariff extracts follow the published NESO file layout, including
// superseded forecast revisions, so the loader's deduplication runs on
// real-shaped data out of the box.
//
//go:embed data
var Files embed.FS

// Data returns the sample data set rooted where the rate loader expects
// its files.
func Data() fs.FS {
	sub, err := fs.Sub(Files, "data")
	if err != nil {
		panic(err)
	}
	return sub
}
