// Package pipeline provides the core visualization pipeline for Unicornviz.
//
// This package implements the complete fetch → layout → render pipeline that
// can be used by CLI, server, and dashboard components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: Acquire raw rows from a data source and normalize them
//  2. Layout: Compute 3D point positions for the chosen engine
//  3. Render: Generate output in various formats (JSON, HTML, CSV)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "synthetic",
//	    Count:   500,
//	    Engine:  "spiral",
//	    Formats: []string{"html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
//
// Run individual stages:
//
//	// Fetch only
//	ds, err := runner.Fetch(ctx, opts)
//
//	// Layout with an existing dataset
//	ps, err := runner.ComputeLayout(ctx, ds, opts)
//
//	// Render with an existing point set
//	artifacts, err := runner.Render(ctx, ps, ds, opts)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/unicornviz/unicornviz/pkg/cache"
	"github.com/unicornviz/unicornviz/pkg/layout"
	"github.com/unicornviz/unicornviz/pkg/record"
	"github.com/unicornviz/unicornviz/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server, and Dashboard
// =============================================================================

const (
	// DefaultCount is the number of records fetched when none is requested.
	DefaultCount = 500

	// MaxCount bounds a single fetch. Engines downsample further, so
	// anything beyond this only burns generator and network time.
	MaxCount = 5000

	// DefaultSource is the data source used when none is requested.
	DefaultSource = source.NameSynthetic

	// DefaultOpacity is the marker opacity applied to rendered figures.
	DefaultOpacity = 0.8
)

// DefaultEngine is the layout engine used when none is requested.
const DefaultEngine = layout.EngineWave

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatCSV  = "csv"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatHTML: true,
	FormatCSV:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Fetch options
	Source  string `json:"source,omitempty"`
	Count   int    `json:"count,omitempty"`
	Seed    int64  `json:"seed,omitempty"` // Fixes the synthetic generator when nonzero
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Engine string `json:"engine,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Opacity    float64  `json:"opacity,omitempty"`
	MarkerSize float64  `json:"marker_size,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the fetched, normalized dataset.
	Dataset record.Dataset

	// DatasetHash is the content hash of the dataset.
	DatasetHash string

	// SourceUsed names the source that actually produced the dataset.
	// It differs from Options.Source when the pipeline fell back.
	SourceUsed string

	// PointSet contains the computed 3D geometry.
	PointSet layout.PointSet

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RecordCount int
	PointCount  int
	FetchTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FetchHit  bool // Whether the dataset came from cache
	LayoutHit bool // Whether the point set came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, html, csv)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that a layout engine name is valid.
func ValidateEngine(engine string) error {
	if !layout.Engine(engine).Valid() {
		return fmt.Errorf("invalid engine: %q (must be one of: %s)", engine, engineNames())
	}
	return nil
}

// ValidateSource checks that a source name is valid.
func ValidateSource(name string) error {
	for _, n := range source.Names() {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("invalid source: %q (must be one of: %s)", name, strings.Join(source.Names(), ", "))
}

func engineNames() string {
	names := make([]string, 0, len(layout.Engines()))
	for _, e := range layout.Engines() {
		names = append(names, string(e))
	}
	return strings.Join(names, ", ")
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFetch checks required fields for fetching.
func (o *Options) ValidateForFetch() error {
	if o.Source == "" {
		o.Source = DefaultSource
	}
	if err := ValidateSource(o.Source); err != nil {
		return err
	}
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if o.Count < 0 {
		return fmt.Errorf("count must be positive, got %d", o.Count)
	}
	if o.Count > MaxCount {
		return fmt.Errorf("count must be at most %d, got %d", MaxCount, o.Count)
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Engine == "" {
		o.Engine = string(DefaultEngine)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateEngine(o.Engine)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Opacity == 0 {
		o.Opacity = DefaultOpacity
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Opacity < 0 || o.Opacity > 1 {
		return fmt.Errorf("opacity must be in (0, 1], got %g", o.Opacity)
	}
	return nil
}

// LayoutEngine returns the engine as its typed form.
func (o *Options) LayoutEngine() layout.Engine {
	return layout.Engine(o.Engine)
}

// WantsFormat reports whether format is among the requested outputs.
func (o *Options) WantsFormat(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// DatasetKeyOpts returns cache key options for the fetch stage.
func (o *Options) DatasetKeyOpts() cache.DatasetKeyOpts {
	return cache.DatasetKeyOpts{
		Source: o.Source,
		Count:  o.Count,
		Seed:   o.Seed,
	}
}

// PointSetKeyOpts returns cache key options for layout computation.
func (o *Options) PointSetKeyOpts() cache.PointSetKeyOpts {
	return cache.PointSetKeyOpts{
		Engine: o.Engine,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Opacity:    o.Opacity,
		MarkerSize: o.MarkerSize,
	}
}
