package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/unicornviz/unicornviz/pkg/layout"
	"github.com/unicornviz/unicornviz/pkg/observability"
	"github.com/unicornviz/unicornviz/pkg/record"
	"github.com/unicornviz/unicornviz/pkg/scene"
)

// RenderFromPointSet generates output artifacts in the requested formats.
//
// JSON and HTML render the assembled figure; CSV exports the dataset the
// figure was computed from, which is why the dataset travels alongside
// the point set.
func RenderFromPointSet(ctx context.Context, ps layout.PointSet, ds record.Dataset, opts Options) (map[string][]byte, error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts, err := render(ps, ds, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(ps layout.PointSet, ds record.Dataset, opts Options) (map[string][]byte, error) {
	fig := scene.Assemble(ps,
		scene.WithOpacity(opts.Opacity),
		scene.WithMarkerSize(opts.MarkerSize),
	)

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = scene.MarshalFigure(fig)
		case FormatHTML:
			data, err = scene.RenderHTML(fig)
		case FormatCSV:
			data, err = scene.RenderCSV(ds)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
