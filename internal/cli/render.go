package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unicornviz/unicornviz/pkg/cache"
	"github.com/unicornviz/unicornviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	engine     string   // layout engine name
	source     string   // data source name
	count      int      // number of records to fetch
	seed       int64    // generator seed, 0 means time-based
	formats    []string // output formats: "json", "html", "csv"
	output     string   // output file (single format) or base path (multiple)
	opacity    float64  // marker opacity
	markerSize float64  // fixed marker size override, 0 keeps per-engine sizes
	refresh    bool     // bypass the dataset cache
	noCache    bool     // disable caching entirely
}

// newRenderCmd creates the render command for running the full pipeline
// to output files.
//
// Default settings:
//   - engine: wave-surface
//   - source: synthetic
//   - count: 500
//   - format: html
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		engine:  string(pipeline.DefaultEngine),
		source:  pipeline.DefaultSource,
		count:   pipeline.DefaultCount,
		opacity: pipeline.DefaultOpacity,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a 3D visualization to file",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return runRender(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.engine, "engine", "e", opts.engine, "layout engine: wave-surface (default), tunnel, ripple-bubbles, undulating-wave, spiral")
	cmd.Flags().StringVarP(&opts.source, "source", "s", opts.source, "data source: synthetic (default), live, corpus, static")
	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, "number of records to fetch")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "generator seed (0 = time-based)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): html (default), json, csv (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Float64Var(&opts.opacity, "opacity", opts.opacity, "marker opacity in (0, 1]")
	cmd.Flags().Float64Var(&opts.markerSize, "marker-size", 0, "fixed marker size (0 = per-engine sizing)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the dataset cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching entirely")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["html"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatHTML}
	}
	return strings.Split(s, ",")
}

// runRender executes the pipeline and writes each artifact to a file.
func runRender(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	c, err := renderCache(opts.noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(c, nil, logger)
	defer runner.Close()

	result, err := runner.Execute(ctx, pipeline.Options{
		Engine:     opts.engine,
		Source:     opts.source,
		Count:      opts.count,
		Seed:       opts.seed,
		Formats:    opts.formats,
		Opacity:    opts.opacity,
		MarkerSize: opts.markerSize,
		Refresh:    opts.refresh,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	if result.SourceUsed != opts.source {
		printWarning("Source %q unavailable, used synthetic data instead", opts.source)
	}

	for _, format := range opts.formats {
		path := opts.output
		switch {
		case path == "":
			path = "unicorns." + format
		case len(opts.formats) > 1:
			path = fmt.Sprintf("%s.%s", strings.TrimSuffix(path, "."+format), format)
		}
		out, err := openOutput(path)
		if err != nil {
			return err
		}
		if _, err := out.Write(result.Artifacts[format]); err != nil {
			out.Close()
			return err
		}
		out.Close()
		printFile(path)
	}

	prog.done(fmt.Sprintf("Rendered %s", opts.engine))
	printStats(result.Stats.RecordCount, result.Stats.PointCount, result.CacheInfo.RenderHit)
	return nil
}

// renderCache builds the cache used by one-shot renders: the file cache
// under the user cache dir, or nothing with --no-cache.
func renderCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}
