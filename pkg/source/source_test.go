package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/unicornviz/unicornviz/pkg/cache"
	"github.com/unicornviz/unicornviz/pkg/record"
)

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSyntheticFetch(t *testing.T) {
	ctx := context.Background()
	s := &Synthetic{Seed: 7}

	raws, err := s.Fetch(ctx, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 50 {
		t.Fatalf("Fetch returned %d rows, want 50", len(raws))
	}

	again, _ := s.Fetch(ctx, 50)
	if raws[0][record.FieldName] != again[0][record.FieldName] {
		t.Error("seeded synthetic source must be deterministic")
	}
}

func TestStaticFetch(t *testing.T) {
	ctx := context.Background()
	s := &Static{}

	raws, err := s.Fetch(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) == 0 {
		t.Fatal("static source must always have rows")
	}

	capped, _ := s.Fetch(ctx, 2)
	if len(capped) != 2 {
		t.Errorf("limit 2 returned %d rows", len(capped))
	}

	// Static rows must survive normalization untouched.
	ds := record.Normalize(raws)
	if len(ds) != len(raws) {
		t.Errorf("normalization dropped %d static rows", len(raws)-len(ds))
	}
}

func TestCryptoMarketsFetch(t *testing.T) {
	srv := jsonServer(t, `[
		{"name": "Bitcoin", "market_cap": 1200000000000, "price_change_percentage_24h": 2.5},
		{"name": "Ethereum", "market_cap": 400000000000, "price_change_percentage_24h": -1.0}
	]`)
	s := &CryptoMarkets{URL: srv.URL, Client: srv.Client()}

	raws, err := s.Fetch(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d rows, want 2", len(raws))
	}
	if raws[0][record.FieldName] != "Bitcoin" {
		t.Errorf("name = %v", raws[0][record.FieldName])
	}
	if v := raws[0][record.FieldValuation].(float64); v != 1200 {
		t.Errorf("valuation = %v, want 1200 (market cap in billions)", v)
	}
	if g := raws[0][record.FieldGrowthRate].(float64); g != 125 {
		t.Errorf("growth = %v, want 125", g)
	}
	if _, ok := raws[0][record.FieldImpactScore]; ok {
		t.Error("impact score should be absent, left for the record model to fill")
	}
}

func TestEarthquakesFetch(t *testing.T) {
	srv := jsonServer(t, `{"features": [
		{"properties": {"mag": 5.0, "place": "10km N of Somewhere"},
		 "geometry": {"coordinates": [-122.5, 37.8, 10.0]}}
	]}`)
	s := &Earthquakes{URL: srv.URL, Client: srv.Client()}

	raws, err := s.Fetch(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 1 {
		t.Fatalf("got %d rows, want 1", len(raws))
	}
	r := raws[0]
	if v := r[record.FieldValuation].(float64); v != 10 {
		t.Errorf("valuation = %v, want 10", v)
	}
	if i := r[record.FieldImpactScore].(float64); i != 95 {
		t.Errorf("impact = %v, want 95 (capped)", i)
	}
	if g := r[record.FieldGrowthRate].(float64); g != 250 {
		t.Errorf("growth = %v, want 250", g)
	}
	if lon := r[record.FieldLongitude].(float64); lon != -122.5 {
		t.Errorf("longitude = %v", lon)
	}
}

func TestCodeEventsFetch(t *testing.T) {
	srv := jsonServer(t, `[{"repo": {"name": "golang/go"}}, {"repo": {"name": "torvalds/linux"}}]`)
	s := &CodeEvents{URL: srv.URL, Client: srv.Client()}

	raws, err := s.Fetch(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 1 {
		t.Fatalf("limit 1 returned %d rows", len(raws))
	}
	if raws[0][record.FieldName] != "GitHub golang/go" {
		t.Errorf("name = %v", raws[0][record.FieldName])
	}
}

func TestCivicRequestsFetch(t *testing.T) {
	srv := jsonServer(t, `[
		{"complaint_type": "Noise", "borough": "BROOKLYN", "longitude": "-73.9", "latitude": "40.7"},
		{"complaint_type": "Heat", "borough": "QUEENS"}
	]`)
	s := &CivicRequests{URL: srv.URL, Client: srv.Client()}

	raws, err := s.Fetch(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d rows, want 2", len(raws))
	}
	if raws[0][record.FieldName] != "NYC Noise" {
		t.Errorf("name = %v", raws[0][record.FieldName])
	}
	if _, ok := raws[1][record.FieldLongitude]; ok {
		t.Error("missing coordinates should stay absent")
	}

	// String coordinates must coerce during normalization.
	ds := record.Normalize(raws[:1])
	if len(ds) != 1 || ds[0].Longitude != -73.9 {
		t.Errorf("normalized longitude = %+v", ds)
	}
}

func TestFetchClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	s := &CryptoMarkets{URL: srv.URL, Client: srv.Client()}
	_, err := s.Fetch(context.Background(), 0)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !errors.Is(err, cache.ErrNetwork) {
		t.Errorf("error should wrap the network sentinel: %v", err)
	}
	if cache.IsRetryable(err) {
		t.Error("client errors must not be retryable")
	}
}

// stubFeed lets the combined-source tests control feed behavior.
type stubFeed struct {
	name string
	rows []record.Raw
	err  error
}

func (f *stubFeed) Name() string { return f.name }

func (f *stubFeed) Fetch(ctx context.Context, limit int) ([]record.Raw, error) {
	if f.err != nil {
		return nil, f.err
	}
	rows := f.rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func manyRows(n int) []record.Raw {
	rows := make([]record.Raw, n)
	for i := range rows {
		rows[i] = record.Raw{record.FieldName: "row"}
	}
	return rows
}

func TestLiveSkipsFailedFeeds(t *testing.T) {
	l := NewLive(
		WithFeeds(
			&stubFeed{name: "broken", err: errors.New("boom")},
			&stubFeed{name: "ok", rows: manyRows(150)},
		),
		WithLiveLogger(log.NewWithOptions(io.Discard, log.Options{})),
	)

	raws, err := l.Fetch(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 150 {
		t.Errorf("got %d rows, want 150 from the healthy feed", len(raws))
	}
}

func TestLiveTopsUpWhenSparse(t *testing.T) {
	l := NewLive(
		WithFeeds(&stubFeed{name: "tiny", rows: manyRows(10)}),
		WithLiveLogger(log.NewWithOptions(io.Discard, log.Options{})),
	)

	raws, err := l.Fetch(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != minLiveRows {
		t.Errorf("sparse live fetch returned %d rows, want %d", len(raws), minLiveRows)
	}
}

func TestLiveHonorsLimit(t *testing.T) {
	l := NewLive(
		WithFeeds(
			&stubFeed{name: "a", rows: manyRows(300)},
			&stubFeed{name: "b", rows: manyRows(300)},
		),
		WithLiveLogger(log.NewWithOptions(io.Discard, log.Options{})),
	)

	raws, err := l.Fetch(context.Background(), 120)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 120 {
		t.Errorf("limit 120 returned %d rows", len(raws))
	}
}
