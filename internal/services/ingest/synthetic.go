package ingest

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/bobmcallan/bdcwatch/internal/models"
)

// Synthetic portfolio size bounds.
const (
	syntheticMinCount = 35
	syntheticSpread   = 25
)

// nameFragments feed the synthetic company name generator.
var (
	namePrefixes = []string{
		"Summit", "Cascade", "Pinnacle", "Meridian", "Harbor", "Sterling",
		"Granite", "Beacon", "Crestline", "Ironwood", "Lakeside", "Northway",
		"Redstone", "Silverline", "Victory", "Westbrook", "Atlas", "Clearview",
		"Frontier", "Keystone",
	}
	nameCores = []string{
		"Medical", "Software", "Logistics", "Foods", "Energy", "Industrial",
		"Financial", "Media", "Consumer", "Dental", "Data", "Packaging",
		"Aerospace", "Marketing", "Insurance", "Property", "Staffing",
		"Restaurant", "Telecom", "Equipment",
	}
	nameSuffixes = []string{"Inc.", "LLC", "Holdings, Inc.", "Corp.", "Co.", "LP"}
)

// industryLabels is the pool of free-text industry strings used for
// synthetic rows. Most classify onto the taxonomy; a few land in Other so
// synthetic portfolios look like real extractions.
var industryLabels = []string{
	"Software & IT Services",
	"Application Software",
	"Healthcare Providers & Services",
	"Pharmaceuticals",
	"Commercial & Professional Services",
	"Education Services",
	"Insurance Services",
	"Specialty Finance",
	"Food & Beverage",
	"Restaurants & Leisure",
	"Industrial Machinery",
	"Transportation & Logistics",
	"Chemicals & Plastics",
	"Oil & Gas Services",
	"Power Generation",
	"Broadcasting & Media",
	"Wireless Communications",
	"Real Estate Services",
	"Diversified Conglomerates",
	"Containers & Glass Products",
}

// seedFromCIK derives a stable generator seed so repeated ingestion of the
// same entity produces the same synthetic portfolio.
func seedFromCIK(cik string) int64 {
	h := fnv.New64a()
	h.Write([]byte(cik))
	return int64(h.Sum64())
}

// latestQuarterEnd returns the most recent calendar quarter end on or
// before t, as YYYY-MM-DD.
func latestQuarterEnd(t time.Time) string {
	year := t.Year()
	quarterEnds := []time.Time{
		time.Date(year, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(year, 6, 30, 0, 0, 0, 0, time.UTC),
		time.Date(year, 9, 30, 0, 0, 0, 0, time.UTC),
		time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	latest := time.Date(year-1, 12, 31, 0, 0, 0, 0, time.UTC)
	for _, qe := range quarterEnds {
		if !qe.After(t) {
			latest = qe
		}
	}
	return latest.Format("2006-01-02")
}

// syntheticHoldings generates a representative portfolio from the given
// generator. Output is fully deterministic for a given rng state.
func syntheticHoldings(rng *rand.Rand) []models.RawHolding {
	count := syntheticMinCount + rng.Intn(syntheticSpread)

	holdings := make([]models.RawHolding, 0, count)
	used := make(map[string]bool, count)

	for len(holdings) < count {
		name := fmt.Sprintf("%s %s %s",
			namePrefixes[rng.Intn(len(namePrefixes))],
			nameCores[rng.Intn(len(nameCores))],
			nameSuffixes[rng.Intn(len(nameSuffixes))])
		if used[name] {
			continue
		}
		used[name] = true

		// Fair values in thousands, skewed toward smaller positions the way
		// real schedules are.
		value := float64(500+rng.Intn(4500)) * (1 + rng.Float64()*9)

		holdings = append(holdings, models.RawHolding{
			Company:     name,
			IndustryRaw: industryLabels[rng.Intn(len(industryLabels))],
			FairValue:   float64(int(value*100)) / 100,
		})
	}

	return holdings
}
