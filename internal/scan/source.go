package scan

import (
	"context"

	"github.com/claude/seatwatch/internal/schedule"
	"github.com/claude/seatwatch/internal/state"
)

// The Scanner doubles as the data source for the status API and the MCP
// server: everything below reads the latest completed run.

// Snapshot returns the latest canonical session set, in (date, start)
// order.
func (s *Scanner) Snapshot() []schedule.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]schedule.Session(nil), s.lastSnapshot...)
}

// Openings returns the latest snapshot's sessions with available seats.
func (s *Scanner) Openings() []schedule.Session {
	var out []schedule.Session
	for _, sess := range s.Snapshot() {
		if sess.Status == schedule.StatusOpen {
			out = append(out, sess)
		}
	}
	return out
}

// FullSessions returns the latest snapshot's full sessions.
func (s *Scanner) FullSessions() []schedule.Session {
	var out []schedule.Session
	for _, sess := range s.Snapshot() {
		if sess.Status == schedule.StatusFull {
			out = append(out, sess)
		}
	}
	return out
}

// LastRun returns the latest run's stats, or false before the first run
// completes.
func (s *Scanner) LastRun() (Stats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastStats == nil {
		return Stats{}, false
	}
	return *s.lastStats, true
}

// RecentAlerts returns alert history from the store when it keeps one,
// falling back to the latest run's alerts.
func (s *Scanner) RecentAlerts(ctx context.Context, limit int) ([]state.AlertRecord, error) {
	if alertLog, ok := s.cfg.Store.(state.AlertLog); ok {
		return alertLog.RecentAlerts(ctx, limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []state.AlertRecord
	for _, a := range s.lastAlerts {
		if limit > 0 && len(out) >= limit {
			break
		}
		rec := state.AlertRecord{
			Name:           a.Session.Name,
			Date:           a.Session.Date.String(),
			StartTime:      a.Session.Start,
			EndTime:        a.Session.End,
			RemainingSeats: a.Session.RemainingSeats,
		}
		if s.lastStats != nil {
			rec.RunID = s.lastStats.RunID
			rec.CreatedAt = s.lastStats.StartedAt
		}
		out = append(out, rec)
	}
	return out, nil
}

// WatchTerms returns the configured watch filter terms; empty means
// everything is watched.
func (s *Scanner) WatchTerms() []string {
	return s.cfg.Filter.Terms()
}
