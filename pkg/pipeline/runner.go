package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/unicornviz/unicornviz/pkg/cache"
	"github.com/unicornviz/unicornviz/pkg/layout"
	"github.com/unicornviz/unicornviz/pkg/observability"
	"github.com/unicornviz/unicornviz/pkg/record"
	"github.com/unicornviz/unicornviz/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, sources, and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options, provided sources are registered
// before the first Execute call.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	sources map[string]source.Source
}

// cachedDataset is the stored shape of a fetch-stage cache entry. The
// source that produced the rows is kept so fallback information survives
// a cache round trip.
type cachedDataset struct {
	Source  string         `json:"source"`
	Dataset record.Dataset `json:"dataset"`
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
//
// The synthetic, static, and live sources are registered by default;
// use RegisterSource to add others (e.g. the corpus store).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		sources: make(map[string]source.Source),
	}
	r.RegisterSource(&source.Synthetic{})
	r.RegisterSource(&source.Static{})
	r.RegisterSource(source.NewLive(source.WithLiveLogger(logger)))
	return r
}

// RegisterSource makes a source selectable by name, replacing any
// previously registered source with the same name.
func (r *Runner) RegisterSource(s source.Source) {
	r.sources[s.Name()] = s
}

// HasSource reports whether a source with the given name is registered.
func (r *Runner) HasSource(name string) bool {
	_, ok := r.sources[name]
	return ok
}

// Execute runs the complete fetch → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Fetch
	fetchStart := time.Now()
	ds, used, fetchHit, err := r.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Dataset = ds
	result.SourceUsed = used
	result.Stats.FetchTime = time.Since(fetchStart)
	result.Stats.RecordCount = len(ds)
	result.CacheInfo.FetchHit = fetchHit

	// Compute dataset hash for cache keys and server responses
	if data, err := json.Marshal(ds); err == nil {
		result.DatasetHash = cache.Hash(data)
	}

	r.Logger.Info("fetched dataset",
		"source", used,
		"records", len(ds),
		"duration", result.Stats.FetchTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	ps, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.PointSet = ps
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.PointCount = ps.Len()
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"engine", opts.Engine,
		"points", ps.Len(),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, ps, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FetchWithCacheInfo acquires a dataset with caching and returns the
// producing source and cache hit info.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, opts Options) (record.Dataset, string, bool, error) {
	if err := opts.ValidateForFetch(); err != nil {
		return nil, "", false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.DatasetKey(opts.DatasetKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached cachedDataset
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "dataset")
				return cached.Dataset, cached.Source, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "dataset")
	}

	// Fetch
	ds, used, err := Fetch(ctx, r.sources, opts)
	if err != nil {
		return nil, "", false, err
	}

	// Cache the result
	if data, err := json.Marshal(cachedDataset{Source: used, Dataset: ds}); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDataset)
		observability.Cache().OnCacheSet(ctx, "dataset", len(data))
	}

	return ds, used, false, nil
}

// Fetch is a convenience wrapper that calls FetchWithCacheInfo and discards the cache hit info.
func (r *Runner) Fetch(ctx context.Context, opts Options) (record.Dataset, error) {
	ds, _, _, err := r.FetchWithCacheInfo(ctx, opts)
	return ds, err
}

// ComputeLayoutWithCacheInfo computes a point set with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, ds record.Dataset, opts Options) (layout.PointSet, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.PointSet{}, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	dsData, _ := json.Marshal(ds)
	datasetHash := cache.Hash(dsData)
	cacheKey := r.Keyer.PointSetKey(datasetHash, opts.PointSetKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached layout.PointSet
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "pointset")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "pointset")

	// Compute layout
	ps, err := ComputeLayout(ctx, ds, opts)
	if err != nil {
		return layout.PointSet{}, false, err
	}

	// Cache the result
	if data, err := json.Marshal(ps); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLPointSet)
		observability.Cache().OnCacheSet(ctx, "pointset", len(data))
	}

	return ps, false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, ds record.Dataset, opts Options) (layout.PointSet, error) {
	ps, _, err := r.ComputeLayoutWithCacheInfo(ctx, ds, opts)
	return ps, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ps layout.PointSet, ds record.Dataset, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from point set data
	psData, err := json.Marshal(ps)
	if err != nil {
		return nil, false, fmt.Errorf("serialize point set for cache key: %w", err)
	}
	cacheKeyHash := cache.Hash(psData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered, err := RenderFromPointSet(ctx, ps, ds, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, ps layout.PointSet, ds record.Dataset, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, ps, ds, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
