package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/userreport/internal/core"
	"github.com/JonMunkholm/userreport/internal/logging"
	"github.com/JonMunkholm/userreport/internal/report"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

// ReportsResponse is the body of GET /reports.
type ReportsResponse struct {
	Operations []string `json:"operations"`
	MinAge     int      `json:"min_age"`
	TopN       int      `json:"top_n"`
}

// handleSummaryPage renders the summary as HTML.
func (s *Server) handleSummaryPage(w http.ResponseWriter, r *http.Request) {
	if len(s.records) == 0 {
		respondError(w, r, core.ErrNoRecords, "")
		return
	}
	templ.Handler(report.SummaryPage(s.records, s.paramsFor(r))).ServeHTTP(w, r)
}

// handleHealth reports liveness and the size of the loaded sequence.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, HealthResponse{Status: "ok", Records: len(s.records)})
}

// handleListReports lists the available operations and default parameters.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, ReportsResponse{
		Operations: report.Names(),
		MinAge:     s.params.MinAge,
		TopN:       s.params.TopN,
	})
}

// handleReport renders one operation as text, byte-identical to the
// command line output.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "op")

	op, err := report.ParseOperation(name)
	if err != nil {
		respondError(w, r, err, report.UnknownMessage(name))
		return
	}
	if len(s.records) == 0 {
		respondError(w, r, core.ErrNoRecords, "")
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, op, s.records, s.paramsFor(r)); err != nil {
		respondError(w, r, fmt.Errorf("render %s: %w", op, err), "")
		return
	}

	logging.FromContext(r.Context()).Debug("report rendered", "op", op, "bytes", buf.Len())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}

// paramsFor applies the min_age and top query parameters over the server
// defaults.
func (s *Server) paramsFor(r *http.Request) report.Params {
	p := s.params
	p.MinAge = parseIntParam(r, "min_age", p.MinAge)
	p.TopN = parseIntParam(r, "top", p.TopN)
	return p
}

// parseIntParam parses a non-negative integer query parameter with a
// default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}
