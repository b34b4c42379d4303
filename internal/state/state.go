// Package state persists the watched full-set between runs.
//
// The full-set is the only durable state: read at the start of a run,
// replaced wholesale at the end. A fresh start is always safe: with an
// empty previous set no session can alert, so read failures degrade to
// empty instead of propagating.
package state

import (
	"context"
	"time"

	"github.com/claude/seatwatch/internal/schedule"
)

// Store is the durable full-set store.
type Store interface {
	// Load returns the previous run's full-set. Missing or corrupt state
	// yields an empty set and no error.
	Load(ctx context.Context) ([]schedule.Session, error)
	// Save replaces the persisted full-set wholesale.
	Save(ctx context.Context, full []schedule.Session) error
	Close() error
}

// AlertRecord is one historical full→open alert, kept by stores that
// implement AlertLog for the status and MCP surfaces.
type AlertRecord struct {
	RunID          string    `json:"run_id"`
	Name           string    `json:"name"`
	Date           string    `json:"date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	RemainingSeats int       `json:"remaining_seats"`
	CreatedAt      time.Time `json:"created_at"`
}

// AlertLog is optionally implemented by stores that keep alert history.
type AlertLog interface {
	RecordAlerts(ctx context.Context, runID string, alerts []schedule.Alert) error
	RecentAlerts(ctx context.Context, limit int) ([]AlertRecord, error)
}
