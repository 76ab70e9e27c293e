package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/unicornviz/unicornviz/pkg/config"
	"github.com/unicornviz/unicornviz/pkg/pipeline"
	"github.com/unicornviz/unicornviz/pkg/record"
	"github.com/unicornviz/unicornviz/pkg/source"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	t.Cleanup(func() { _ = runner.Close() })
	return New(runner, config.Default(), logger)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, testServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/healthz")
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("response should carry a request ID")
	}

	// A caller-supplied ID is echoed back.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "test-id-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "test-id-123" {
		t.Errorf("request ID = %q, want test-id-123", got)
	}
}

func TestFigureEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/figure?engine=spiral&count=50&seed=42")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Unicornviz-Source"); got != source.NameSynthetic {
		t.Errorf("source header = %q", got)
	}
	if rec.Header().Get("X-Unicornviz-Fallback") != "" {
		t.Error("no fallback expected for the synthetic source")
	}

	var fig struct {
		Data []struct {
			Type string `json:"type"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &fig); err != nil {
		t.Fatal(err)
	}
	if len(fig.Data) == 0 {
		t.Error("figure should contain traces")
	}
}

func TestFigureHTMLFormat(t *testing.T) {
	rec := get(t, testServer(t), "/api/figure?engine=spiral&count=50&format=html")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "Plotly.newPlot") {
		t.Error("html figure should embed a plotly call")
	}
}

func TestFigureRejectsBadParams(t *testing.T) {
	s := testServer(t)
	tests := []struct {
		path string
		want string
	}{
		{"/api/figure?engine=mercator", "invalid engine"},
		{"/api/figure?format=pdf", "invalid format"},
		{"/api/figure?count=banana", "invalid count"},
		{"/api/figure?count=999999", "count must be at most"},
		{"/api/figure?opacity=nope", "invalid opacity"},
		{"/api/figure?source=clipboard", "invalid source"},
	}
	for _, tt := range tests {
		rec := get(t, s, tt.path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.path, rec.Code)
			continue
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Errorf("%s: invalid error envelope: %v", tt.path, err)
			continue
		}
		if !strings.Contains(body.Error, tt.want) {
			t.Errorf("%s: error = %q, want substring %q", tt.path, body.Error, tt.want)
		}
	}
}

func TestDatasetCSVEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/dataset.csv?count=20&seed=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 21 {
		t.Errorf("csv has %d lines, want header + 20 rows", len(lines))
	}
	if !strings.Contains(lines[0], record.FieldName) {
		t.Errorf("header = %q", lines[0])
	}
}

func TestEnginesEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/engines")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Engines []engineInfo `json:"engines"`
		Default string       `json:"default"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Engines) != 5 {
		t.Errorf("got %d engines, want 5", len(body.Engines))
	}
	for _, e := range body.Engines {
		if e.Title == "" || e.Cap <= 0 {
			t.Errorf("engine %q missing title or cap: %+v", e.Name, e)
		}
	}
}

func TestSourcesEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/sources")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Sources []string `json:"sources"`
		Default string   `json:"default"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	// The corpus store is not registered by default.
	want := map[string]bool{
		source.NameSynthetic: true,
		source.NameLive:      true,
		source.NameStatic:    true,
	}
	if len(body.Sources) != len(want) {
		t.Errorf("sources = %v", body.Sources)
	}
	for _, name := range body.Sources {
		if !want[name] {
			t.Errorf("unexpected source %q", name)
		}
	}
}

// failingSource always errors, to exercise the fallback headers.
type failingSource struct{}

func (failingSource) Name() string { return source.NameLive }

func (failingSource) Fetch(ctx context.Context, limit int) ([]record.Raw, error) {
	return nil, errors.New("feeds unreachable")
}

func TestFallbackHeaders(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	defer runner.Close()
	runner.RegisterSource(failingSource{})
	s := New(runner, config.Default(), logger)

	rec := get(t, s, "/api/figure?source=live&count=50")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Unicornviz-Source"); got != source.NameSynthetic {
		t.Errorf("source header = %q, want synthetic", got)
	}
	if rec.Header().Get("X-Unicornviz-Fallback") != "true" {
		t.Error("fallback header should be set")
	}
}

func TestDashboardServesHTML(t *testing.T) {
	rec := get(t, testServer(t), "/?engine=tunnel&count=30&seed=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<html") || !strings.Contains(body, "Plotly.newPlot") {
		t.Error("dashboard page should embed the plot")
	}
}
