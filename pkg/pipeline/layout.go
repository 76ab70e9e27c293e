package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/unicornviz/unicornviz/pkg/layout"
	"github.com/unicornviz/unicornviz/pkg/observability"
	"github.com/unicornviz/unicornviz/pkg/record"
)

// ComputeLayout runs the configured engine over a dataset.
//
// The engine downsamples datasets larger than its point cap, so the
// returned point set may be smaller than the input. An empty dataset
// yields the engine's sentinel point set rather than an error.
func ComputeLayout(ctx context.Context, ds record.Dataset, opts Options) (layout.PointSet, error) {
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Engine, len(ds))

	ps, err := layout.Compute(opts.LayoutEngine(), ds)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Engine, time.Since(start), err)
	if err != nil {
		return layout.PointSet{}, fmt.Errorf("compute %s layout: %w", opts.Engine, err)
	}
	return ps, nil
}
