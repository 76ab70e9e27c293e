package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/unicornviz/unicornviz/pkg/observability"
	"github.com/unicornviz/unicornviz/pkg/record"
	"github.com/unicornviz/unicornviz/pkg/source"
)

// Fetch acquires raw rows from the named source and normalizes them.
//
// Sources are best effort: when the requested source fails or comes back
// empty, Fetch falls back to the synthetic generator so the caller always
// receives a usable dataset. The returned name identifies the source that
// actually produced the rows.
func Fetch(ctx context.Context, sources map[string]source.Source, opts Options) (record.Dataset, string, error) {
	start := time.Now()
	observability.Pipeline().OnFetchStart(ctx, opts.Source)

	ds, used, err := fetch(ctx, sources, opts)
	observability.Pipeline().OnFetchComplete(ctx, opts.Source, len(ds), time.Since(start), err)
	return ds, used, err
}

func fetch(ctx context.Context, sources map[string]source.Source, opts Options) (record.Dataset, string, error) {
	src, ok := sources[opts.Source]
	if !ok {
		return nil, "", fmt.Errorf("unknown source: %s", opts.Source)
	}
	if opts.Source == source.NameSynthetic && opts.Seed != 0 {
		// Pinned runs bypass the registered generator so the seed applies.
		src = &source.Synthetic{Seed: opts.Seed}
	}

	raws, err := src.Fetch(ctx, opts.Count)
	if err != nil && ctx.Err() != nil {
		return nil, "", ctx.Err()
	}
	if err != nil || len(raws) == 0 {
		if opts.Source == source.NameSynthetic {
			// Nothing left to fall back to.
			return nil, "", fmt.Errorf("fetch from %s: %w", opts.Source, err)
		}
		opts.Logger.Warn("source unavailable, falling back to synthetic data",
			"source", opts.Source, "error", err)
		raws, _ = (&source.Synthetic{Seed: opts.Seed}).Fetch(ctx, opts.Count)
		return normalize(raws, opts), source.NameSynthetic, nil
	}

	return normalize(raws, opts), opts.Source, nil
}

// normalize converts raw rows into the validated dataset, seeding the
// random-fill generator when the run is pinned to a seed.
func normalize(raws []record.Raw, opts Options) record.Dataset {
	if opts.Seed != 0 {
		return record.NormalizeSeeded(raws, opts.Seed)
	}
	return record.Normalize(raws)
}
