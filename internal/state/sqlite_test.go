package state

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/claude/seatwatch/internal/schedule"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "seatwatch.db"), slog.Default())
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	full := []schedule.Session{
		fullSession("Yoga", "12/02", "18:00"),
		fullSession("Pilates", "13/02", "19:15"),
	}
	if err := s.Save(ctx, full); err != nil {
		t.Fatalf("save error: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded = %d sessions, want 2", len(loaded))
	}
	for _, sess := range loaded {
		if sess.Status != schedule.StatusFull {
			t.Errorf("status = %s, want FULL", sess.Status)
		}
	}
}

// TestSQLiteStoreSaveReplacesWholesale: old entries never survive a save.
func TestSQLiteStoreSaveReplacesWholesale(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	if err := s.Save(ctx, []schedule.Session{fullSession("Yoga", "12/02", "18:00")}); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if err := s.Save(ctx, []schedule.Session{fullSession("Pilates", "13/02", "19:15")}); err != nil {
		t.Fatalf("save error: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "Pilates" {
		t.Errorf("loaded = %+v, want Pilates only", loaded)
	}
}

func TestSQLiteStoreAlertLog(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	d, _ := schedule.ParseDate("12/02")
	alerts := []schedule.Alert{{
		Session: schedule.Session{
			Name: "Yoga", Date: d, Start: "18:00", End: "19:00",
			RemainingSeats: 3, Status: schedule.StatusOpen,
		},
		FormerlyFull: true,
	}}
	if err := s.RecordAlerts(ctx, "run-1", alerts); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if err := s.RecordAlerts(ctx, "run-2", alerts); err != nil {
		t.Fatalf("record error: %v", err)
	}

	recent, err := s.RecentAlerts(ctx, 1)
	if err != nil {
		t.Fatalf("recent error: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("recent = %d records, want 1 (limit)", len(recent))
	}
	// Newest first.
	if recent[0].RunID != "run-2" {
		t.Errorf("run_id = %q, want run-2", recent[0].RunID)
	}
	if recent[0].Name != "Yoga" || recent[0].RemainingSeats != 3 {
		t.Errorf("record = %+v, want Yoga with 3 seats", recent[0])
	}
}
