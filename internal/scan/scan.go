// Package scan orchestrates one watcher run: fetch → extract → dedup →
// filter → diff → notify → persist. The run is single-threaded and
// synchronous; a degraded capture produces "no alerts this run", never a
// crash of the surrounding automation.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/seatwatch/internal/extract"
	"github.com/claude/seatwatch/internal/fetch"
	"github.com/claude/seatwatch/internal/notify"
	"github.com/claude/seatwatch/internal/schedule"
	"github.com/claude/seatwatch/internal/state"
	"github.com/google/uuid"
)

// Stats summarizes one run.
type Stats struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`

	Chunks    int `json:"chunks"`
	Extracted int `json:"extracted"` // records before dedup
	Sessions  int `json:"sessions"`  // canonical snapshot size
	Watched   int `json:"watched"`
	FullNow   int `json:"full_now"`
	Alerts    int `json:"alerts"`

	// NoSessions is set when a non-empty capture produced zero sessions,
	// the signal that the upstream page format may have changed.
	NoSessions bool `json:"no_sessions"`
}

// Config wires a Scanner's collaborators.
type Config struct {
	Fetcher   fetch.Fetcher
	Extractor extract.Extractor
	Store     state.Store
	Notifier  notify.Notifier // optional
	Filter    schedule.WatchFilter
	Retention schedule.RetentionPolicy
	Now       func() time.Time // defaults to time.Now
	Log       *slog.Logger
}

// Scanner runs scans and retains the latest run's results for the status
// API and MCP tools.
type Scanner struct {
	cfg Config

	mu           sync.Mutex
	lastSnapshot []schedule.Session
	lastAlerts   []schedule.Alert
	lastStats    *Stats
}

// New creates a Scanner. Retention defaults to wholesale replacement and
// the clock to time.Now.
func New(cfg Config) *Scanner {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Retention == "" {
		cfg.Retention = schedule.RetentionReplace
	}
	return &Scanner{cfg: cfg}
}

// Run performs one scan. Fetch and persistence failures are returned;
// parse misses and notification failures only degrade the run.
func (s *Scanner) Run(ctx context.Context) (*Stats, error) {
	now := s.cfg.Now()
	stats := &Stats{
		RunID:     uuid.NewString()[:8],
		StartedAt: now,
	}
	log := s.cfg.Log.With("run_id", stats.RunID)
	log.Info("scan starting")

	chunks, err := s.cfg.Fetcher.Fetch(ctx)
	if err != nil {
		return stats, fmt.Errorf("fetching schedule: %w", err)
	}

	var buffer schedule.CaptureBuffer
	for _, c := range chunks {
		buffer.Add(c)
	}
	stats.Chunks = buffer.Len()

	// Captures are extracted in chronological order; dedup's
	// last-write-wins depends on it.
	var extracted []schedule.Session
	for _, chunk := range buffer.Chunks() {
		sessions, err := s.cfg.Extractor.Extract(chunk, now)
		if err != nil {
			log.Warn("chunk extraction failed, skipping", "error", err)
			continue
		}
		extracted = append(extracted, sessions...)
	}
	stats.Extracted = len(extracted)

	snapshot := schedule.Deduplicate(extracted)
	stats.Sessions = len(snapshot)

	if len(snapshot) == 0 && buffer.NonEmpty() {
		stats.NoSessions = true
		log.Warn("no sessions extracted from non-empty capture; page format may have changed",
			"chunks", stats.Chunks)
	}

	s.logDayStats(log, snapshot)

	watched := s.cfg.Filter.Apply(snapshot)
	stats.Watched = len(watched)

	previous, err := s.cfg.Store.Load(ctx)
	if err != nil {
		log.Warn("loading state failed, treating as empty", "error", err)
		previous = nil
	}

	result := schedule.Diff(watched, previous, s.cfg.Retention, now)
	stats.Alerts = len(result.Alerts)
	stats.FullNow = len(result.NewFullSet)

	for _, alert := range result.Alerts {
		log.Info("seat freed",
			"class", alert.Session.Name,
			"date", alert.Session.Date.String(),
			"time", alert.Session.TimeRange(),
			"seats", alert.Session.RemainingSeats)
		if s.cfg.Notifier != nil {
			if err := s.cfg.Notifier.Notify(ctx, alert); err != nil {
				log.Warn("alert delivery incomplete", "class", alert.Session.Name, "error", err)
			}
		}
	}

	if alertLog, ok := s.cfg.Store.(state.AlertLog); ok && len(result.Alerts) > 0 {
		if err := alertLog.RecordAlerts(ctx, stats.RunID, result.Alerts); err != nil {
			log.Warn("recording alert history failed", "error", err)
		}
	}

	if err := s.cfg.Store.Save(ctx, result.NewFullSet); err != nil {
		return stats, fmt.Errorf("saving state: %w", err)
	}

	stats.Duration = time.Since(now).String()
	s.mu.Lock()
	s.lastSnapshot = snapshot
	s.lastAlerts = result.Alerts
	s.lastStats = stats
	s.mu.Unlock()

	log.Info("scan complete",
		"sessions", stats.Sessions,
		"watched", stats.Watched,
		"full", stats.FullNow,
		"alerts", stats.Alerts,
		"duration", stats.Duration)
	return stats, nil
}

// logDayStats mirrors the per-day summary the operator scans in the logs:
// how many sessions each day, how many full.
func (s *Scanner) logDayStats(log *slog.Logger, snapshot []schedule.Session) {
	type dayStat struct {
		total int
		full  int
	}
	stats := map[string]*dayStat{}
	var order []string

	for _, sess := range snapshot {
		key := sess.Date.String()
		if stats[key] == nil {
			stats[key] = &dayStat{}
			order = append(order, key)
		}
		stats[key].total++
		if sess.Status == schedule.StatusFull {
			stats[key].full++
		}
	}

	for _, day := range order {
		log.Info("day summary", "date", day, "sessions", stats[day].total, "full", stats[day].full)
	}
}
