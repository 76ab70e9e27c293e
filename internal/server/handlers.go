package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/unicornviz/unicornviz/pkg/layout"
	"github.com/unicornviz/unicornviz/pkg/pipeline"
	"github.com/unicornviz/unicornviz/pkg/source"
)

// Response headers describing where the data actually came from. When
// every upstream source fails the pipeline falls back to synthetic data;
// clients can detect that without parsing the body.
const (
	sourceHeader   = "X-Unicornviz-Source"
	fallbackHeader = "X-Unicornviz-Fallback"
)

// errorResponse is the JSON error envelope for API endpoints.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: fmt.Sprintf(format, args...)})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// optionsFromQuery builds pipeline options from the configured defaults
// and the request's query parameters.
func (s *Server) optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.PipelineOptions()
	q := r.URL.Query()

	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("source"); v != "" {
		opts.Source = v
	}
	if v := q.Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid count: %q", v)
		}
		opts.Count = n
	}
	if v := q.Get("opacity"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid opacity: %q", v)
		}
		opts.Opacity = f
	}
	if v := q.Get("marker_size"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid marker_size: %q", v)
		}
		opts.MarkerSize = f
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid seed: %q", v)
		}
		opts.Seed = n
	}
	if q.Get("refresh") == "true" || q.Get("refresh") == "1" {
		opts.Refresh = true
	}

	opts.Logger = s.logger
	return opts, nil
}

// execute runs the pipeline for one format and writes the source headers.
func (s *Server) execute(w http.ResponseWriter, r *http.Request, format string) (*pipeline.Result, bool) {
	opts, err := s.optionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return nil, false
	}
	opts.Formats = []string{format}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return nil, false
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "pipeline: %v", err)
		return nil, false
	}

	w.Header().Set(sourceHeader, result.SourceUsed)
	if result.SourceUsed != opts.Source {
		w.Header().Set(fallbackHeader, "true")
	}
	return result, true
}

// handleDashboard serves the interactive plot page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	result, ok := s.execute(w, r, pipeline.FormatHTML)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(result.Artifacts[pipeline.FormatHTML])
}

// handleFigure serves the assembled figure, as JSON by default or as a
// standalone HTML page with format=html.
func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	contentType := "application/json"
	switch format {
	case "", pipeline.FormatJSON:
		format = pipeline.FormatJSON
	case pipeline.FormatHTML:
		contentType = "text/html; charset=utf-8"
	default:
		writeError(w, http.StatusBadRequest, "invalid format: %q (must be json or html)", format)
		return
	}

	result, ok := s.execute(w, r, format)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(result.Artifacts[format])
}

// handleDatasetCSV exports the fetched dataset.
func (s *Server) handleDatasetCSV(w http.ResponseWriter, r *http.Request) {
	result, ok := s.execute(w, r, pipeline.FormatCSV)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="unicorn_startup_data.csv"`)
	_, _ = w.Write(result.Artifacts[pipeline.FormatCSV])
}

// engineInfo describes one layout engine for API consumers.
type engineInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Cap   int    `json:"cap"`
}

// handleEngines lists the available layout engines.
func (s *Server) handleEngines(w http.ResponseWriter, r *http.Request) {
	engines := make([]engineInfo, 0, len(layout.Engines()))
	for _, e := range layout.Engines() {
		engines = append(engines, engineInfo{
			Name:  string(e),
			Title: e.Title(),
			Cap:   e.Cap(),
		})
	}
	writeJSON(w, map[string]any{
		"engines": engines,
		"default": s.cfg.Defaults.Engine,
	})
}

// handleSources lists the registered data sources.
func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(source.Names()))
	for _, name := range source.Names() {
		if s.runner.HasSource(name) {
			names = append(names, name)
		}
	}
	writeJSON(w, map[string]any{
		"sources": names,
		"default": s.cfg.Defaults.Source,
	})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
