package banding

import (
	"fmt"

	"github.com/aristath/tnuos/internal/domain"
)

// ResolveKey returns the TDR table key the site's residual tariff is
// published under, or "" for an Unclassified site. Consumption-banded
// sites always key on LV_NoMIC regardless of voltage, because the
// small-usage residual tariff is voltage independent; capacity-banded
// sites key on voltage and band ("HV3").
func ResolveKey(site domain.Site, band domain.Band) string {
	if band < domain.Band1 || band > domain.Band4 {
		return ""
	}

	site = site.Normalized()
	if UsesConsumption(site) {
		return fmt.Sprintf("LV_NoMIC_%d", int(band))
	}
	return fmt.Sprintf("%s%d", site.VoltageLevel, int(band))
}
