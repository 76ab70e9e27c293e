// Package source acquires raw datasets for the render pipeline.
//
// Every source is best effort: a fetch that fails or comes back empty is
// reported to the caller, which falls back to the next source and
// ultimately to the synthetic generator. The core pipeline never sees a
// network error directly; it only ever sees a dataset.
//
// Available sources:
//   - synthetic: generated in-process (pkg/synth)
//   - static:    the built-in fallback corpus
//   - corpus:    the MongoDB-backed unicorn corpus
//   - live:      combined best-effort remote feeds (crypto, seismic,
//     code-hosting activity, municipal open data)
package source

import (
	"context"

	"github.com/unicornviz/unicornviz/pkg/record"
	"github.com/unicornviz/unicornviz/pkg/synth"
)

// Source names accepted by the dashboard and CLI.
const (
	NameSynthetic = "synthetic"
	NameStatic    = "static"
	NameCorpus    = "corpus"
	NameLive      = "live"
)

// Names lists the selectable source names in presentation order.
func Names() []string {
	return []string{NameSynthetic, NameLive, NameCorpus, NameStatic}
}

// Source produces raw records for one render.
type Source interface {
	// Name returns the source's registry name.
	Name() string

	// Fetch returns up to limit raw records. An empty result with a nil
	// error means the source has nothing; callers fall back.
	Fetch(ctx context.Context, limit int) ([]record.Raw, error)
}

// Synthetic generates records in-process with no external dependency.
type Synthetic struct {
	// Seed fixes the generator when nonzero, for reproducible renders.
	Seed int64
}

// Name implements Source.
func (s *Synthetic) Name() string { return NameSynthetic }

// Fetch generates limit synthetic records.
func (s *Synthetic) Fetch(ctx context.Context, limit int) ([]record.Raw, error) {
	var ds record.Dataset
	if s.Seed != 0 {
		ds = synth.GenerateSeeded(limit, s.Seed)
	} else {
		ds = synth.Generate(limit)
	}
	return rawsFromDataset(ds), nil
}

// Static serves the built-in fallback corpus. It is the terminal
// fallback when the corpus store is unreachable.
type Static struct{}

// Name implements Source.
func (s *Static) Name() string { return NameStatic }

// Fetch returns up to limit rows of the fallback corpus.
func (s *Static) Fetch(ctx context.Context, limit int) ([]record.Raw, error) {
	rows := fallbackCorpus()
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// rawsFromDataset converts normalized records back into raw mappings so
// every source speaks the same output type.
func rawsFromDataset(ds record.Dataset) []record.Raw {
	raws := make([]record.Raw, len(ds))
	for i, r := range ds {
		raws[i] = record.Raw{
			record.FieldName:        r.Name,
			record.FieldValuation:   r.Valuation,
			record.FieldImpactScore: r.ImpactScore,
			record.FieldGrowthRate:  r.GrowthRate,
			record.FieldSector:      r.Sector,
			record.FieldCountry:     r.Country,
			record.FieldFoundedYear: r.FoundedYear,
			record.FieldStatus:      string(r.Status),
			record.FieldLongitude:   r.Longitude,
			record.FieldLatitude:    r.Latitude,
		}
	}
	return raws
}
