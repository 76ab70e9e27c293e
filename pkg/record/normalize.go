package record

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// Default fill ranges for missing numeric fields. The fill is a fresh
// uniform draw per record, not an imputation from other rows.
const (
	fillValuationLo, fillValuationHi = 1, 50
	fillImpactLo, fillImpactHi       = 20, 90
	fillGrowthLo, fillGrowthHi       = 50, 200
)

// Normalize converts heterogeneous raw mappings into a Dataset with every
// numeric field populated. Missing valuations draw from [1,50], impact
// scores from [20,90], growth rates from [50,200]; a missing company name
// gets a generated placeholder. Fields the mapping does carry are passed
// through untouched. Normalize never fails and never mutates raws.
func Normalize(raws []Raw) Dataset {
	return normalize(raws, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NormalizeSeeded is Normalize with a caller-controlled seed for the
// random defaults. Useful in tests that exercise the fill path.
func NormalizeSeeded(raws []Raw, seed int64) Dataset {
	return normalize(raws, rand.New(rand.NewSource(seed)))
}

func normalize(raws []Raw, rng *rand.Rand) Dataset {
	ds := make(Dataset, 0, len(raws))
	for i, raw := range raws {
		r := Record{
			Name:   stringField(raw, FieldName, fmt.Sprintf("Company %d", i+1)),
			Sector: stringField(raw, FieldSector, ""),
			Country: stringField(raw, FieldCountry, ""),
		}
		r.Valuation = numField(raw, FieldValuation, func() float64 { return uniform(rng, fillValuationLo, fillValuationHi) })
		r.ImpactScore = numField(raw, FieldImpactScore, func() float64 { return uniform(rng, fillImpactLo, fillImpactHi) })
		r.GrowthRate = numField(raw, FieldGrowthRate, func() float64 { return uniform(rng, fillGrowthLo, fillGrowthHi) })
		if r.Valuation < 0 {
			r.Valuation = 0
		}
		r.FoundedYear = int(numField(raw, FieldFoundedYear, func() float64 { return 0 }))
		if s := Status(stringField(raw, FieldStatus, "")); s.Valid() {
			r.Status = s
		}
		r.Longitude = numField(raw, FieldLongitude, func() float64 { return 0 })
		r.Latitude = numField(raw, FieldLatitude, func() float64 { return 0 })
		ds = append(ds, r)
	}
	return ds
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// stringField extracts a string value, falling back to def when the key is
// absent, empty, or not a string.
func stringField(raw Raw, key, def string) string {
	if v, ok := raw[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

// numField extracts a numeric value, coercing the types JSON decoding and
// upstream payloads produce. fill is only invoked when the field is absent
// or unusable, so present values never consume randomness.
func numField(raw Raw, key string, fill func() float64) float64 {
	v, ok := raw[key]
	if !ok || v == nil {
		return fill()
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return fill()
}
