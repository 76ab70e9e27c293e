package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/unicornviz/unicornviz/pkg/cache"
	"github.com/unicornviz/unicornviz/pkg/layout"
	"github.com/unicornviz/unicornviz/pkg/record"
	"github.com/unicornviz/unicornviz/pkg/source"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func testRunner(t *testing.T) *Runner {
	t.Helper()
	r := NewRunner(nil, nil, testLogger())
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Source != DefaultSource {
		t.Errorf("source = %q, want %q", opts.Source, DefaultSource)
	}
	if opts.Count != DefaultCount {
		t.Errorf("count = %d, want %d", opts.Count, DefaultCount)
	}
	if opts.Engine != string(DefaultEngine) {
		t.Errorf("engine = %q, want %q", opts.Engine, DefaultEngine)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("formats = %v, want [json]", opts.Formats)
	}
	if opts.Opacity != DefaultOpacity {
		t.Errorf("opacity = %g, want %g", opts.Opacity, DefaultOpacity)
	}

	// Idempotent: a second call leaves everything untouched.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
}

func TestOptionsValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"bad engine", Options{Engine: "mercator"}, "invalid engine"},
		{"bad source", Options{Source: "clipboard"}, "invalid source"},
		{"bad format", Options{Formats: []string{"xlsx"}}, "invalid format"},
		{"negative count", Options{Count: -5}, "count must be positive"},
		{"huge count", Options{Count: MaxCount + 1}, "count must be at most"},
		{"bad opacity", Options{Opacity: 1.5}, "opacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestRunnerExecute(t *testing.T) {
	r := testRunner(t)

	result, err := r.Execute(context.Background(), Options{
		Source:  source.NameSynthetic,
		Count:   100,
		Seed:    42,
		Engine:  string(layout.EngineTunnel),
		Formats: []string{FormatJSON, FormatCSV},
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.Stats.RecordCount != 100 {
		t.Errorf("record count = %d, want 100", result.Stats.RecordCount)
	}
	if result.Stats.PointCount != 100 {
		t.Errorf("point count = %d, want 100", result.Stats.PointCount)
	}
	if result.SourceUsed != source.NameSynthetic {
		t.Errorf("source used = %q", result.SourceUsed)
	}
	if result.DatasetHash == "" {
		t.Error("dataset hash should be set")
	}

	// Every point must stay inside the tunnel envelope.
	for i, z := range result.PointSet.Z {
		if z < 0 || z > 100 {
			t.Fatalf("point %d: z = %g outside [0, 100]", i, z)
		}
	}

	for _, format := range []string{FormatJSON, FormatCSV} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}
}

func TestRunnerCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, testLogger())
	defer r.Close()

	opts := Options{
		Source:  source.NameSynthetic,
		Count:   50,
		Seed:    7,
		Engine:  string(layout.EngineSpiral),
		Formats: []string{FormatJSON},
	}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.FetchHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run should not hit the cache")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.FetchHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit every stage: %+v", second.CacheInfo)
	}
	if string(first.Artifacts[FormatJSON]) != string(second.Artifacts[FormatJSON]) {
		t.Error("cached artifact should match the original")
	}

	// Refresh bypasses the dataset cache.
	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.FetchHit {
		t.Error("refresh run should not hit the dataset cache")
	}
}

// failingSource always errors, for fallback tests.
type failingSource struct{ name string }

func (s *failingSource) Name() string { return s.name }

func (s *failingSource) Fetch(ctx context.Context, limit int) ([]record.Raw, error) {
	return nil, errors.New("feed is down")
}

func TestFetchFallsBackToSynthetic(t *testing.T) {
	r := testRunner(t)
	r.RegisterSource(&failingSource{name: source.NameLive})

	ds, used, hit, err := r.FetchWithCacheInfo(context.Background(), Options{
		Source: source.NameLive,
		Count:  80,
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("unexpected cache hit with a null cache")
	}
	if used != source.NameSynthetic {
		t.Errorf("source used = %q, want synthetic fallback", used)
	}
	if len(ds) != 80 {
		t.Errorf("fallback dataset has %d records, want 80", len(ds))
	}
}

func TestFetchUnknownSource(t *testing.T) {
	// Bypass Options validation to exercise the registry check.
	_, _, err := fetch(context.Background(), map[string]source.Source{}, Options{
		Source: source.NameStatic,
		Count:  10,
		Logger: testLogger(),
	})
	if err == nil || !strings.Contains(err.Error(), "unknown source") {
		t.Errorf("error = %v, want unknown source", err)
	}
}

func TestExecuteEmptyDatasetYieldsSentinel(t *testing.T) {
	r := testRunner(t)

	ps, err := r.ComputeLayout(context.Background(), record.Dataset{}, Options{
		Engine: string(layout.EngineRipple),
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !ps.Sentinel {
		t.Error("empty dataset should produce the sentinel point set")
	}
}

func TestRefreshState(t *testing.T) {
	now := time.Now()
	s := NewRefreshState(now)

	if s.AutoRefresh {
		t.Error("auto refresh should start off")
	}
	if s.Due(now.Add(time.Hour)) {
		t.Error("refresh never due while auto refresh is off")
	}

	s = s.Toggle()
	if !s.AutoRefresh {
		t.Error("Toggle should enable auto refresh")
	}
	if s.Due(now.Add(s.Interval - time.Second)) {
		t.Error("refresh not due before the interval elapses")
	}
	if !s.Due(now.Add(s.Interval)) {
		t.Error("refresh due once the interval elapses")
	}

	later := now.Add(time.Minute)
	s = s.Touch(later)
	if s.LastRefresh != later {
		t.Error("Touch should record the refresh time")
	}
	if s.Due(later.Add(time.Second)) {
		t.Error("refresh not due right after a touch")
	}
}
