package bdc

import (
	"github.com/bobmcallan/bdcwatch/internal/models"
	"github.com/bobmcallan/bdcwatch/internal/sectors"
)

// Aggregate computes sector exposure for the latest reporting period found in
// the given holdings. Two filings loaded for the same entity never mix: only
// the holdings whose PeriodDate equals the lexicographic maximum contribute.
// The result always carries every taxonomy sector, zero percentages included.
func Aggregate(holdings []models.Holding) models.SectorExposure {
	exposure := models.SectorExposure{
		SectorPercentages: make(map[string]float64, len(sectors.Taxonomy())),
	}
	for _, s := range sectors.Taxonomy() {
		exposure.SectorPercentages[string(s)] = 0
	}

	if len(holdings) == 0 {
		return exposure
	}

	// ISO dates compare correctly as strings.
	latest := ""
	for _, h := range holdings {
		if h.PeriodDate > latest {
			latest = h.PeriodDate
		}
	}
	exposure.PeriodDate = latest

	sums := make(map[sectors.Sector]float64)
	total := 0.0
	for _, h := range holdings {
		if h.PeriodDate != latest {
			continue
		}
		sector := resolveSector(h)
		sums[sector] += h.FairValue
		total += h.FairValue
	}
	exposure.TotalFairValue = total

	if total > 0 {
		for sector, sum := range sums {
			exposure.SectorPercentages[string(sector)] = sum / total * 100
		}
	}

	return exposure
}

// resolveSector prefers the sector stored at ingest time; anything outside
// the taxonomy falls back to classifying the raw industry text.
func resolveSector(h models.Holding) sectors.Sector {
	if stored := sectors.Sector(h.IndustrySector); sectors.Valid(stored) {
		return stored
	}
	return sectors.Classify(h.IndustryRaw)
}
