// Package record defines the normalized data model shared by every layout
// engine: a Record with three guaranteed numeric fields (valuation, impact
// score, growth rate) plus optional descriptive fields.
//
// Upstream sources produce heterogeneous field mappings (Raw). Normalize
// converts them into Records, filling any missing numeric field with a fresh
// uniform-random default rather than failing. This permissive fill keeps the
// dashboard rendering on partial data from best-effort sources.
//
// Records are immutable by convention: every transformation (normalization,
// down-sampling, sorting inside an engine) produces a new slice and never
// touches caller-owned data.
package record

import "fmt"

// Epsilon guards every (max-min) denominator in the layout formulas.
// When all values of a field are identical, the normalized spread collapses
// to zero and the epsilon keeps the division finite.
const Epsilon = 1e-9

// Status classifies a company by valuation tier.
type Status string

// Valuation tiers, ordered by valuation floor.
const (
	StatusSoonicorn Status = "Soonicorn" // approaching $1B
	StatusUnicorn   Status = "Unicorn"   // $1B+
	StatusDecacorn  Status = "Decacorn"  // $10B+
	StatusHectocorn Status = "Hectocorn" // $100B+
)

// Statuses lists all valid status values.
var Statuses = []Status{StatusSoonicorn, StatusUnicorn, StatusDecacorn, StatusHectocorn}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusSoonicorn, StatusUnicorn, StatusDecacorn, StatusHectocorn:
		return true
	}
	return false
}

// ClampValuation applies the status floor (or ceiling for soonicorns) to v.
// Decacorns are worth at least $10B, hectocorns at least $100B, and a
// soonicorn by definition has not crossed $1B yet.
func (s Status) ClampValuation(v float64) float64 {
	switch s {
	case StatusDecacorn:
		return max(10, v)
	case StatusHectocorn:
		return max(100, v)
	case StatusSoonicorn:
		return min(1, v)
	}
	return v
}

// Canonical field keys used by Raw mappings. These match the column names
// emitted by the upstream corpus and fetchers.
const (
	FieldName        = "Company"
	FieldValuation   = "Valuation ($B)"
	FieldImpactScore = "AI Impact Score"
	FieldGrowthRate  = "Growth Rate (%)"
	FieldSector      = "Sector"
	FieldCountry     = "Country"
	FieldFoundedYear = "Founded Year"
	FieldStatus      = "Status"
	FieldLongitude   = "longitude"
	FieldLatitude    = "latitude"
)

// Raw is an arbitrary field mapping from an upstream source, prior to
// normalization. Values may be strings, any numeric type, or absent.
type Raw map[string]any

// Record is one normalized entity (company, event, data point).
// After Normalize, the three numeric fields are always populated.
type Record struct {
	Name        string  `json:"company"`
	Valuation   float64 `json:"valuation_b"`   // billions USD, >= 0
	ImpactScore float64 `json:"impact_score"`  // 0..100 scale
	GrowthRate  float64 `json:"growth_rate"`   // percent
	Sector      string  `json:"sector,omitempty"`
	Country     string  `json:"country,omitempty"`
	FoundedYear int     `json:"founded_year,omitempty"`
	Status      Status  `json:"status,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
}

// HoverLabel renders the marker hover text for r, matching the dashboard's
// per-point tooltip.
func (r Record) HoverLabel() string {
	return fmt.Sprintf("%s | Valuation: $%.1fB | Impact: %.1f | Growth: %.1f%%",
		r.Name, r.Valuation, r.ImpactScore, r.GrowthRate)
}

// Dataset is an ordered sequence of Records for a single render.
// Insertion order is preserved until a layout engine explicitly sorts.
type Dataset []Record

// Valuations returns the valuation column.
func (ds Dataset) Valuations() []float64 {
	return ds.column(func(r Record) float64 { return r.Valuation })
}

// ImpactScores returns the impact-score column.
func (ds Dataset) ImpactScores() []float64 {
	return ds.column(func(r Record) float64 { return r.ImpactScore })
}

// GrowthRates returns the growth-rate column.
func (ds Dataset) GrowthRates() []float64 {
	return ds.column(func(r Record) float64 { return r.GrowthRate })
}

// Labels returns the hover label for every record, in order.
func (ds Dataset) Labels() []string {
	out := make([]string, len(ds))
	for i, r := range ds {
		out[i] = r.HoverLabel()
	}
	return out
}

func (ds Dataset) column(f func(Record) float64) []float64 {
	out := make([]float64, len(ds))
	for i, r := range ds {
		out[i] = f(r)
	}
	return out
}

// MinMax returns the smallest and largest value in vals.
// Returns (0, 0) for an empty slice.
func MinMax(vals []float64) (lo, hi float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Mean returns the arithmetic mean of vals, or 0 for an empty slice.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
