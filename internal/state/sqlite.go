package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/seatwatch/internal/schedule"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the full-set in a local SQLite file and additionally
// records alert history for the status API and MCP tools.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenSQLite opens (or creates) the state database at the given path.
func OpenSQLite(path string, log *slog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS full_sessions (
		name            TEXT NOT NULL,
		date            TEXT NOT NULL,
		start_time      TEXT NOT NULL,
		end_time        TEXT NOT NULL DEFAULT '',
		remaining_seats INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (name, date, start_time)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating full_sessions table: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS alerts (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id          TEXT NOT NULL,
		name            TEXT NOT NULL,
		date            TEXT NOT NULL,
		start_time      TEXT NOT NULL,
		end_time        TEXT NOT NULL DEFAULT '',
		remaining_seats INTEGER NOT NULL DEFAULT 0,
		created_at      TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating alerts table: %w", err)
	}

	return &SQLiteStore{db: db, log: log}, nil
}

// Load reads the persisted full-set. Query failure degrades to empty.
func (s *SQLiteStore) Load(ctx context.Context) ([]schedule.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, date, start_time, end_time, remaining_seats FROM full_sessions`)
	if err != nil {
		s.log.Warn("state query failed, starting fresh", "error", err)
		return nil, nil
	}
	defer rows.Close()

	var full []schedule.Session
	for rows.Next() {
		var sess schedule.Session
		var date string
		if err := rows.Scan(&sess.Name, &date, &sess.Start, &sess.End, &sess.RemainingSeats); err != nil {
			s.log.Warn("state row corrupt, skipping", "error", err)
			continue
		}
		d, err := schedule.ParseDate(date)
		if err != nil {
			s.log.Warn("state row corrupt, skipping", "error", err)
			continue
		}
		sess.Date = d
		sess.Status = schedule.StatusFull
		full = append(full, sess)
	}
	return full, rows.Err()
}

// Save replaces the persisted full-set in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, full []schedule.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting state tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM full_sessions`); err != nil {
		return fmt.Errorf("clearing full_sessions: %w", err)
	}
	for _, sess := range full {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO full_sessions (name, date, start_time, end_time, remaining_seats)
			 VALUES (?, ?, ?, ?, ?)`,
			sess.Name, sess.Date.String(), sess.Start, sess.End, sess.RemainingSeats)
		if err != nil {
			return fmt.Errorf("inserting full session: %w", err)
		}
	}
	return tx.Commit()
}

// RecordAlerts appends this run's alerts to the history table.
func (s *SQLiteStore) RecordAlerts(ctx context.Context, runID string, alerts []schedule.Alert) error {
	for _, a := range alerts {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO alerts (run_id, name, date, start_time, end_time, remaining_seats)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, a.Session.Name, a.Session.Date.String(), a.Session.Start,
			a.Session.End, a.Session.RemainingSeats)
		if err != nil {
			return fmt.Errorf("recording alert: %w", err)
		}
	}
	return nil
}

// RecentAlerts returns the newest alerts first.
func (s *SQLiteStore) RecentAlerts(ctx context.Context, limit int) ([]AlertRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, name, date, start_time, end_time, remaining_seats, created_at
		 FROM alerts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var out []AlertRecord
	for rows.Next() {
		var rec AlertRecord
		if err := rows.Scan(&rec.RunID, &rec.Name, &rec.Date, &rec.StartTime,
			&rec.EndTime, &rec.RemainingSeats, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
