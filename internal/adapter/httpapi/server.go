// Package httpapi exposes the archive client's query surface over HTTP,
// together with health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/pipeline"
	"github.com/jgrothe/dwd-archive/internal/service"
)

// Queryer is the service surface the API depends on.
type Queryer interface {
	Discover(f service.DatasetFilter) []domain.Combination
	Stations(ctx context.Context, c domain.Combination, q service.StationQuery) (domain.StationTable, error)
	Observations(ctx context.Context, c domain.Combination, q service.ObservationQuery) (pipeline.Result, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the query API over HTTP.
type Server struct {
	httpServer *http.Server
	queryer    Queryer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the v1 query routes plus /healthz,
// /readyz, and /metrics.
func NewServer(addr string, queryer Queryer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 5 * time.Minute, // observation fetches download many files
			IdleTimeout:  60 * time.Second,
		},
		queryer: queryer,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/datasets", s.handleDatasets)
	mux.HandleFunc("GET /v1/stations", s.handleStations)
	mux.HandleFunc("GET /v1/observations", s.handleObservations)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.queryer.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	filter, err := parseDatasetFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"datasets": s.queryer.Discover(filter)})
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	c, err := parseCombination(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	q, err := parseStationQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}

	table, err := s.queryer.Stations(r.Context(), c, q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleObservations(w http.ResponseWriter, r *http.Request) {
	c, err := parseCombination(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	q, err := parseObservationQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}

	result, err := s.queryer.Observations(r.Context(), c, q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	failed := make([]map[string]any, 0, len(result.Failed))
	for _, f := range result.Failed {
		failed = append(failed, map[string]any{
			"filename":   f.Ref.Filename,
			"station_id": f.Ref.StationID,
			"url":        f.Ref.URL,
			"reason":     f.Reason(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"table":  result.Table,
		"failed": failed,
	})
}

// writeError maps the domain error taxonomy onto HTTP statuses: caller errors
// are 4xx, archive-side problems 502, everything else 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalid     *domain.InvalidCombinationError
		unknown     *domain.UnknownStationError
		unavailable *domain.RemoteUnavailableError
	)
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, errorBody(err))
	case errors.As(err, &unknown):
		writeJSON(w, http.StatusNotFound, errorBody(err))
	case errors.As(err, &unavailable):
		writeJSON(w, http.StatusBadGateway, errorBody(err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorBody(err))
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(err))
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
