// Package dashboard serves the read-only web dashboard over the reports
// directory. It renders summary cards and statistics tables and exposes the
// raw artifacts over a small JSON API.
package dashboard

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/instrsim/instrsim/model"
	"github.com/instrsim/instrsim/report"
)

// Server is the dashboard HTTP server. It holds no state beyond the reports
// directory path; every request re-reads the artifacts so a rerun shows up
// on refresh.
type Server struct {
	logger     zerolog.Logger
	reportsDir string
	router     *mux.Router
	tmpl       *template.Template
}

// New builds the dashboard server over the given reports directory.
func New(logger zerolog.Logger, reportsDir string) *Server {
	s := &Server{
		logger:     logger,
		reportsDir: reportsDir,
		tmpl:       template.Must(template.New("index").Funcs(templateFuncs).Parse(indexHTML)),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/tests", s.handleListTests).Methods(http.MethodGet)
	r.HandleFunc("/api/tests/{type}", s.handleTest).Methods(http.MethodGet)
	r.HandleFunc("/api/tests/{type}/data", s.handleTestData).Methods(http.MethodGet)
	r.PathPrefix("/reports/").Handler(
		http.StripPrefix("/reports/", http.FileServer(http.Dir(reportsDir))))
	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Listen finds a free port starting at startPort, trying up to attempts
// consecutive ports. This mirrors the station dashboards, which share hosts
// and cannot assume their default port is free.
func Listen(host string, startPort, attempts int) (net.Listener, int, error) {
	for port := startPort; port < startPort+attempts; port++ {
		l, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err == nil {
			return l, port, nil
		}
	}
	return nil, 0, fmt.Errorf("no free port in range %d-%d", startPort, startPort+attempts-1)
}

// Serve blocks serving HTTP on the listener.
func (s *Server) Serve(l net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv.Serve(l)
}

type indexData struct {
	Entries     []report.Entry
	GeneratedAt time.Time
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := report.LoadEntries(s.logger, s.reportsDir)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load report entries")
		http.Error(w, "failed to load reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, indexData{Entries: entries, GeneratedAt: time.Now()}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render dashboard")
	}
}

func (s *Server) handleListTests(w http.ResponseWriter, r *http.Request) {
	entries, err := report.LoadEntries(s.logger, s.reportsDir)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	summaries := make([]model.Summary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, e.Summary)
	}
	s.writeJSON(w, summaries)
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	_, entry, ok := s.lookupEntry(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, struct {
		Summary   model.Summary    `json:"summary"`
		Artifacts []model.Artifact `json:"artifacts"`
	}{Summary: entry.Summary, Artifacts: entry.Artifacts})
}

func (s *Server) handleTestData(w http.ResponseWriter, r *http.Request) {
	t, _, ok := s.lookupEntry(w, r)
	if !ok {
		return
	}

	rows := 20
	if v := r.URL.Query().Get("rows"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid rows parameter %q", v))
			return
		}
		rows = parsed
	}

	header, data, err := report.ReadDataHead(s.reportsDir, t, rows)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, struct {
		Header []string   `json:"header"`
		Rows   [][]string `json:"rows"`
	}{Header: header, Rows: data})
}

func (s *Server) lookupEntry(w http.ResponseWriter, r *http.Request) (model.TestType, *report.Entry, bool) {
	t, err := model.ParseTestType(mux.Vars(r)["type"])
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return "", nil, false
	}
	entry, err := report.LoadEntry(s.logger, s.reportsDir, t)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return "", nil, false
	}
	if entry == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("no report for test type %s", t))
		return "", nil, false
	}
	return t, entry, true
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
