package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/arllen133/recipes/errors"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

// handleReady handles GET /ready. The server is ready once started and while
// the database answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	if !ready {
		WriteError(w, r, http.StatusServiceUnavailable, apperrors.ErrCodeUnavailable,
			"service is initializing", true, nil)
		return
	}

	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			slog.WarnContext(r.Context(), "readiness ping failed", "error", err)
			WriteError(w, r, http.StatusServiceUnavailable, apperrors.ErrCodeUnavailable,
				"database unreachable", true, map[string]any{"cause": err.Error()})
			return
		}
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
	})
}
