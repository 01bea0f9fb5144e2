// Package api provides the HTTP server for Life OS: habit tracking,
// stats, the nightly review, and backup import/export over REST.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lifeos-sh/lifeos/internal/app/review"
	"github.com/lifeos-sh/lifeos/internal/domain"
	"github.com/lifeos-sh/lifeos/internal/infra/sqlite"
)

// Version is the API version string reported by /api/version.
const Version = "0.1.0"

// Server is the Life OS HTTP API server.
type Server struct {
	store          *sqlite.DB
	reviews        *review.Service
	clock          domain.Clock
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(store *sqlite.DB, reviews *review.Service, clock domain.Clock) *Server {
	return &Server{store: store, reviews: reviews, clock: clock}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": Version})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", s.handleProfile)
		r.Get("/stats", s.handleStats)
		r.Get("/ranks", s.handleRanks)

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", s.handleListHabits)
			r.Post("/", s.handleCreateHabit)
			r.Post("/{id}/archive", s.handleArchiveHabit)
			r.Post("/{id}/log", s.handleLogHabit)
			r.Get("/{id}/stats", s.handleHabitStats)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleCreateTask)
			r.Post("/{id}/toggle", s.handleToggleTask)
		})

		r.Post("/review", s.handleReview)
		r.Post("/recalculate", s.handleRecalculate)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
