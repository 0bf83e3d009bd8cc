package portfolio

import "github.com/aristath/tnuos/internal/domain"

// Sample returns the demonstration portfolio used by the dashboard, docs
// and smoke tests: ten sites spread across voltages, zones and both
// charging paths.
func Sample() domain.Portfolio {
	return domain.Portfolio{
		{SiteID: "London_HQ_01", MeterType: domain.MeterHalfHourly, VoltageLevel: domain.VoltageLow, DNOZone: 12, AgreedCapacityKVA: 140},
		{SiteID: "Manch_Factory_02", MeterType: domain.MeterHalfHourly, VoltageLevel: domain.VoltageHigh, DNOZone: 3, AgreedCapacityKVA: 500},
		{SiteID: "Leeds_Warehouse_03", MeterType: domain.MeterHalfHourly, VoltageLevel: domain.VoltageHigh, DNOZone: 4, AgreedCapacityKVA: 1200},
		{SiteID: "Birm_DataCenter_04", MeterType: domain.MeterHalfHourly, VoltageLevel: domain.VoltageExtraHigh, DNOZone: 13, AgreedCapacityKVA: 6500},
		{SiteID: "Glasgow_Hub_05", MeterType: domain.MeterHalfHourly, VoltageLevel: domain.VoltageLow, DNOZone: 1, AgreedCapacityKVA: 240},
		{SiteID: "Bristol_Office_06", MeterType: domain.MeterHalfHourly, VoltageLevel: domain.VoltageLow, DNOZone: 11, AgreedCapacityKVA: 90},
		{SiteID: "Cardiff_Depot_07", MeterType: domain.MeterHalfHourly, VoltageLevel: domain.VoltageLow, DNOZone: 8, AgreedCapacityKVA: 75},
		{SiteID: "Newcastle_Ind_08", MeterType: domain.MeterHalfHourly, VoltageLevel: domain.VoltageHigh, DNOZone: 5, AgreedCapacityKVA: 2500},
		{SiteID: "Retail_Store_09", MeterType: domain.MeterNonHalfHourly, VoltageLevel: domain.VoltageLow, DNOZone: 2, AnnualConsumptionKWH: 15000},
		{SiteID: "Retail_Store_10", MeterType: domain.MeterNonHalfHourly, VoltageLevel: domain.VoltageLow, DNOZone: 10, AnnualConsumptionKWH: 35000},
	}
}
