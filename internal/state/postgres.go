package state

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/seatwatch/internal/schedule"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the full-set and alert history in Postgres, for
// deployments where several tools share the watcher's data.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgres connects a pooled Postgres store.
func NewPostgres(ctx context.Context, dsn string, log *slog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresStore{pool: pool, log: log}, nil
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Load reads the persisted full-set. Query failure degrades to empty.
func (s *PostgresStore) Load(ctx context.Context) ([]schedule.Session, error) {
	rows, err := s.pool.Query(ctx,
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
func (s *PostgresStore) Save(ctx context.Context, full []schedule.Session) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting state tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM full_sessions`); err != nil {
		return fmt.Errorf("clearing full_sessions: %w", err)
	}
	for _, sess := range full {
		_, err := tx.Exec(ctx,
			`INSERT INTO full_sessions (name, date, start_time, end_time, remaining_seats)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT DO NOTHING`,
			sess.Name, sess.Date.String(), sess.Start, sess.End, sess.RemainingSeats)
		if err != nil {
			return fmt.Errorf("inserting full session: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// RecordAlerts appends this run's alerts to the history table.
func (s *PostgresStore) RecordAlerts(ctx context.Context, runID string, alerts []schedule.Alert) error {
	for _, a := range alerts {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO alerts (run_id, name, date, start_time, end_time, remaining_seats)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			runID, a.Session.Name, a.Session.Date.String(), a.Session.Start,
			a.Session.End, a.Session.RemainingSeats)
		if err != nil {
			return fmt.Errorf("recording alert: %w", err)
		}
	}
	return nil
}

// RecentAlerts returns the newest alerts first.
func (s *PostgresStore) RecentAlerts(ctx context.Context, limit int) ([]AlertRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT run_id, name, date, start_time, end_time, remaining_seats, created_at
		 FROM alerts ORDER BY id DESC LIMIT $1`, limit)
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

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
