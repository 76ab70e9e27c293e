// Package synth generates synthetic unicorn-startup datasets with
// sector-conditioned value distributions. It is the fallback data source
// when every remote fetcher comes back empty, and the primary source for
// large-dataset renders.
//
// The marginal distributions are deliberately non-uniform (a mixture over
// sectors) and valuation/growth are positively correlated by construction:
// both receive the same multiplicative jitter draw per record.
package synth

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/unicornviz/unicornviz/pkg/record"
)

// Sectors is the fixed catalog a synthetic record's sector is drawn from.
var Sectors = []string{
	"Fintech", "Healthtech", "AI/ML", "E-commerce", "SaaS", "Edtech",
	"Gaming", "Aerospace", "Cybersecurity", "Biotech", "Cleantech",
	"Mobility", "Foodtech", "Proptech", "Adtech", "Logistics",
}

// Countries is the fixed catalog a synthetic record's country is drawn from.
var Countries = []string{
	"USA", "China", "India", "UK", "Germany", "Israel", "Canada",
	"Sweden", "Singapore", "Australia", "France", "Netherlands", "South Korea",
}

// sectorRange holds the uniform draw bounds for one sector bucket.
type sectorRange struct {
	valLo, valHi       float64 // valuation, $B
	impactLo, impactHi float64
	growthLo, growthHi float64 // percent
}

// sectorRanges maps sector buckets to their base ranges. Sectors not listed
// fall back to defaultRange.
var sectorRanges = map[string]sectorRange{
	"AI/ML":      {1, 300, 70, 95, 200, 2000},
	"Fintech":    {1, 150, 40, 80, 100, 800},
	"Healthtech": {0.5, 100, 60, 90, 80, 500},
	"Biotech":    {0.5, 100, 60, 90, 80, 500},
	"E-commerce": {1, 200, 30, 70, 150, 1000},
}

var defaultRange = sectorRange{0.5, 80, 20, 70, 50, 400}

// Generate produces count synthetic records with a time-derived seed.
func Generate(count int) record.Dataset {
	return GenerateSeeded(count, time.Now().UnixNano())
}

// GenerateSeeded produces count synthetic records from a fixed seed, so
// tests and cached renders can rely on identical output.
//
// Per record: sector, country, and status are uniform draws from the fixed
// catalogs; (valuation, impact, growth) bases come from the sector's
// ranges; valuation and growth share one multiplicative jitter draw from
// [0.8, 1.2]; the status clamp is applied last so the tier floors always
// hold (Decacorn >= $10B, Hectocorn >= $100B, Soonicorn <= $1B). Impact
// receives an independent additive jitter in [-10, 10] and is clamped to
// [1, 95].
func GenerateSeeded(count int, seed int64) record.Dataset {
	rng := rand.New(rand.NewSource(seed))

	ds := make(record.Dataset, 0, count)
	for i := 0; i < count; i++ {
		sector := Sectors[rng.Intn(len(Sectors))]
		country := Countries[rng.Intn(len(Countries))]
		status := record.Statuses[rng.Intn(len(record.Statuses))]

		rr, ok := sectorRanges[sector]
		if !ok {
			rr = defaultRange
		}
		valBase := uniform(rng, rr.valLo, rr.valHi)
		impactBase := uniform(rng, rr.impactLo, rr.impactHi)
		growthBase := uniform(rng, rr.growthLo, rr.growthHi)

		// One draw for both fields couples valuation and growth.
		jitter := uniform(rng, 0.8, 1.2)

		ds = append(ds, record.Record{
			Name:        fmt.Sprintf("%s Startup %d", sector, i+1),
			Valuation:   status.ClampValuation(valBase * jitter),
			ImpactScore: clamp(impactBase+uniform(rng, -10, 10), 1, 95),
			GrowthRate:  growthBase * jitter,
			Sector:      sector,
			Country:     country,
			FoundedYear: 2010 + rng.Intn(15),
			Status:      status,
			Longitude:   uniform(rng, -180, 180),
			Latitude:    uniform(rng, -90, 90),
		})
	}
	return ds
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
