// Package zones carries the GB DNO charging zone geography used by the
// regional exposure views.
package zones

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/modules/costing"
)

//go:embed zones.yaml
var zonesYAML []byte

// Zone is one DNO charging zone centroid.
type Zone struct {
	Zone int     `yaml:"zone" json:"zone"`
	Name string  `yaml:"name" json:"name"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Lon  float64 `yaml:"lon" json:"lon"`
}

var (
	allZones  []Zone
	zoneIndex map[int]Zone
)

func init() {
	var doc struct {
		Zones []Zone `yaml:"zones"`
	}
	if err := yaml.Unmarshal(zonesYAML, &doc); err != nil {
		panic(fmt.Sprintf("zones: corrupt embedded zone table: %v", err))
	}

	allZones = doc.Zones
	sort.Slice(allZones, func(i, j int) bool { return allZones[i].Zone < allZones[j].Zone })

	zoneIndex = make(map[int]Zone, len(allZones))
	for _, z := range allZones {
		zoneIndex[z.Zone] = z
	}
}

// All returns every charging zone, ascending by zone number.
func All() []Zone {
	out := make([]Zone, len(allZones))
	copy(out, allZones)
	return out
}

// Lookup returns the metadata for a zone number. Unknown zones fall back
// to a generic GB centroid so map views never lose a site.
func Lookup(zone int) Zone {
	if z, ok := zoneIndex[zone]; ok {
		return z
	}
	return Zone{Zone: zone, Name: "Unknown", Lat: 54.0, Lon: -2.0}
}

// Exposure is the aggregated cost picture for one zone.
type Exposure struct {
	Zone      int     `json:"zone"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	TotalCost float64 `json:"total_cost"`
	SiteCount int     `json:"site_count"`
}

// AggregateExposure groups costed sites by DNO zone for the regional heat
// map, ascending by zone number.
func AggregateExposure(costed []domain.CostedSite) []Exposure {
	byZone := make(map[int]*Exposure)
	for _, site := range costed {
		e, ok := byZone[site.DNOZone]
		if !ok {
			z := Lookup(site.DNOZone)
			e = &Exposure{Zone: z.Zone, Name: z.Name, Lat: z.Lat, Lon: z.Lon}
			byZone[site.DNOZone] = e
		}
		e.TotalCost += site.TotalCost
		e.SiteCount++
	}

	out := make([]Exposure, 0, len(byZone))
	for _, e := range byZone {
		e.TotalCost = costing.Round2(e.TotalCost)
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Zone < out[j].Zone })
	return out
}
