// Package server exposes the watcher's latest run over a small HTTP API,
// for dashboards and quick curl checks. It reads the scanner's in-memory
// state; it never triggers a scan itself.
package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/seatwatch/internal/scan"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	scanner *scan.Scanner
	log     *slog.Logger
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(scanner *scan.Scanner, log *slog.Logger) *Server {
	s := &Server{
		scanner: scanner,
		log:     log,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/api/v1/schedule", s.handleSchedule)
	s.router.Get("/api/v1/openings", s.handleOpenings)
	s.router.Get("/api/v1/full", s.handleFull)
	s.router.Get("/api/v1/alerts", s.handleAlerts)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/watch", s.handleWatch)
}
