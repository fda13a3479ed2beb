// Package server exposes stored seasons over a read-only JSON API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/pable/go-nhl-metrics/internal/analysis"
	"github.com/pable/go-nhl-metrics/internal/logger"
	"github.com/pable/go-nhl-metrics/internal/metrics"
	"github.com/pable/go-nhl-metrics/internal/model"
)

// Store is the subset of storage the server reads from.
type Store interface {
	LatestSeason() (string, error)
	GetSkaterRecords(seasonID string) ([]model.PlayerRecord, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server holds the handler dependencies.
type Server struct {
	store    Store
	defaults analysis.Options
	metrics  *metrics.Manager
	log      logger.Logger
}

// New returns a Server. defaults supplies the analysis options that query
// parameters do not override.
func New(store Store, defaults analysis.Options, m *metrics.Manager, log logger.Logger) *Server {
	return &Server{store: store, defaults: defaults, metrics: m, log: log.Named("server")}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analysis", s.instrument("/api/analysis", s.handleAnalysis))
	mux.HandleFunc("/api/shooting", s.instrument("/api/shooting", s.handleShooting))
	mux.HandleFunc("/healthz", s.instrument("/healthz", s.handleHealth))
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// AnalysisResponse is the body of GET /api/analysis.
type AnalysisResponse struct {
	Season string `json:"season"`
	Seed   int64  `json:"seed"`
	*analysis.Result
}

// ShootingResponse is the body of GET /api/shooting.
type ShootingResponse struct {
	Season string `json:"season"`
	*analysis.ShootingResult
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	opts := s.defaults
	opts.Rand = nil
	if v := q.Get("k"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil || k < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "k must be a positive integer"})
			return
		}
		opts.Clusters = k
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "seed must be an integer"})
			return
		}
		opts.Seed = seed
	}

	season, records, err := s.load(q.Get("season"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	start := time.Now()
	res, err := analysis.Run(records, opts)
	if err != nil {
		s.metrics.ObserveFailure(s.fail(w, r, err))
		return
	}
	s.metrics.ObserveAnalysis(time.Since(start), res.Players, res.Clusters.Iterations)
	writeJSON(w, http.StatusOK, AnalysisResponse{Season: season, Seed: opts.Seed, Result: res})
}

func (s *Server) handleShooting(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, records, err := s.load(r.URL.Query().Get("season"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := analysis.Shooting(records, s.defaults.MinGamesPlayed)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ShootingResponse{Season: season, ShootingResult: res})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// load resolves the season (latest stored when empty) and its records.
func (s *Server) load(season string) (string, []model.PlayerRecord, error) {
	if season == "" {
		latest, err := s.store.LatestSeason()
		if err != nil {
			return "", nil, err
		}
		season = latest
	}
	records, err := s.store.GetSkaterRecords(season)
	if err != nil {
		return season, nil, err
	}
	return season, records, nil
}

// fail maps data-shape errors to 422 and everything else to 500, and returns
// the matching run result label. No partial result is ever written.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) string {
	if analysis.IsDataError(err) || errors.Is(err, analysis.ErrUnknownFeature) {
		s.log.Warn(r.Context(), "analysis unavailable", logger.String("path", r.URL.Path), logger.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "analysis unavailable"})
		return metrics.ResultUnavailable
	}
	s.log.Error(r.Context(), "request failed", logger.String("path", r.URL.Path), logger.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	return metrics.ResultError
}

func (s *Server) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.metrics.ObserveRequest(path, rw.statusCode)
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
