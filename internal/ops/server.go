// Package ops hosts the operational HTTP server: probe endpoints for
// Kubernetes, Prometheus scraping, and a read-only view of data source
// health for operators.
package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
)

const handlerTimeout = 3 * time.Second

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the operational routes.
type Server struct {
	router chi.Router
	pinger Pinger
	q      db.Querier
	logger *zap.Logger
}

// NewServer builds the ops Server. The querier backs the source status
// endpoint; the pinger backs readiness.
func NewServer(pinger Pinger, q db.Querier, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		pinger: pinger,
		q:      q,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/api/sources", s.listSources)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Warn("readiness ping failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// sourceStatus is the operator-facing view of one data source row.
type sourceStatus struct {
	Name                    string     `json:"name"`
	Status                  *string    `json:"status"`
	LastAttemptAt           *time.Time `json:"last_attempt_at"`
	LastSuccessfulAttemptAt *time.Time `json:"last_successful_attempt_at"`
}

func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	rows, err := s.q.Query(ctx, `
		SELECT name, data_status, last_attempt_at, last_successful_attempt_at
		FROM data_sources
		ORDER BY name`)
	if err != nil {
		s.logger.Error("list sources failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list sources")
		return
	}
	defer rows.Close()

	sources := []sourceStatus{}
	for rows.Next() {
		var status sourceStatus
		if err := rows.Scan(&status.Name, &status.Status, &status.LastAttemptAt, &status.LastSuccessfulAttemptAt); err != nil {
			s.logger.Error("scan source row failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list sources")
			return
		}
		sources = append(sources, status)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("list sources failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list sources")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sources": sources})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Debug("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("panic", rec))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
