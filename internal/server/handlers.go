package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/claude/seatwatch/internal/schedule"
	"github.com/claude/seatwatch/internal/state"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionsOrEmpty(s.scanner.Snapshot()))
}

func (s *Server) handleOpenings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionsOrEmpty(s.scanner.Openings()))
}

func (s *Server) handleFull(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionsOrEmpty(s.scanner.FullSessions()))
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	alerts, err := s.scanner.RecentAlerts(r.Context(), limit)
	if err != nil {
		s.log.Error("alert history query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if alerts == nil {
		alerts = []state.AlertRecord{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, ok := s.scanner.LastRun()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no completed run yet"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	terms := s.scanner.WatchTerms()
	if terms == nil {
		terms = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"terms": terms, "watch_all": len(terms) == 0})
}

// sessionsOrEmpty keeps JSON output a list, never null.
func sessionsOrEmpty(sessions []schedule.Session) []schedule.Session {
	if sessions == nil {
		return []schedule.Session{}
	}
	return sessions
}
