package scan

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/seatwatch/internal/extract"
	"github.com/claude/seatwatch/internal/fetch"
	"github.com/claude/seatwatch/internal/schedule"
	"github.com/claude/seatwatch/internal/state"
)

var scanNow = time.Date(2024, time.June, 20, 9, 0, 0, 0, time.UTC)

const fullCapture = `20 ven.
19h15 - 20h00 #### Yoga Vinyasa Complet
20h15 - 21h00 #### Cross Training 2 places restantes
`

const freedCapture = `20 ven.
19h15 - 20h00 #### Yoga Vinyasa 3 places restantes
20h15 - 21h00 #### Cross Training 2 places restantes
`

// capturing records alerts delivered through the notifier.
type capturing struct{ alerts []schedule.Alert }

func (c *capturing) Notify(_ context.Context, a schedule.Alert) error {
	c.alerts = append(c.alerts, a)
	return nil
}

func newTestScanner(t *testing.T, raw string, notifier *capturing, store state.Store) *Scanner {
	t.Helper()
	log := slog.Default()
	cfg := Config{
		Fetcher:   fetch.Static{Chunks: []string{raw}},
		Extractor: extract.NewMarkdown(log),
		Store:     store,
		Now:       func() time.Time { return scanNow },
		Log:       log,
	}
	if notifier != nil {
		cfg.Notifier = notifier
	}
	return New(cfg)
}

// TestRunAcrossTwoScans drives the whole pipeline: the first run records
// the full session, the second alerts when it frees up.
func TestRunAcrossTwoScans(t *testing.T) {
	store := state.NewFileStore(filepath.Join(t.TempDir(), "state.json"), slog.Default())
	notifier := &capturing{}
	ctx := context.Background()

	stats, err := newTestScanner(t, fullCapture, notifier, store).Run(ctx)
	if err != nil {
		t.Fatalf("first run error: %v", err)
	}
	if stats.Sessions != 2 || stats.FullNow != 1 || stats.Alerts != 0 {
		t.Errorf("first run = %+v, want 2 sessions, 1 full, 0 alerts", stats)
	}

	stats, err = newTestScanner(t, freedCapture, notifier, store).Run(ctx)
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if stats.Alerts != 1 {
		t.Fatalf("second run alerts = %d, want 1", stats.Alerts)
	}
	if len(notifier.alerts) != 1 || notifier.alerts[0].Session.Name != "Yoga Vinyasa" {
		t.Errorf("delivered = %+v, want one Yoga Vinyasa alert", notifier.alerts)
	}
	if stats.FullNow != 0 {
		t.Errorf("full now = %d, want 0", stats.FullNow)
	}
}

// TestRunZeroExtractionWarns: a non-empty capture with no recognizable
// sessions completes the run and flags the format-change signal.
func TestRunZeroExtractionWarns(t *testing.T) {
	store := state.NewFileStore(filepath.Join(t.TempDir(), "state.json"), slog.Default())
	s := newTestScanner(t, "page moved, nothing recognizable here", nil, store)

	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !stats.NoSessions {
		t.Error("NoSessions = false, want the warning flag set")
	}

	// The run still persisted an (empty) state.
	loaded, _ := store.Load(context.Background())
	if len(loaded) != 0 {
		t.Errorf("persisted = %d sessions, want 0", len(loaded))
	}
}

// TestRunOverlappingChunks: duplicated captures collapse, and the later
// chunk's observation wins.
func TestRunOverlappingChunks(t *testing.T) {
	store := state.NewFileStore(filepath.Join(t.TempDir(), "state.json"), slog.Default())
	log := slog.Default()
	s := New(Config{
		Fetcher:   fetch.Static{Chunks: []string{fullCapture, freedCapture}},
		Extractor: extract.NewMarkdown(log),
		Store:     store,
		Now:       func() time.Time { return scanNow },
		Log:       log,
	})

	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if stats.Extracted != 4 || stats.Sessions != 2 {
		t.Errorf("stats = %+v, want 4 extracted collapsing to 2", stats)
	}
	// Second chunk saw Yoga open, so nothing is full.
	if stats.FullNow != 0 {
		t.Errorf("full now = %d, want 0 (later capture wins)", stats.FullNow)
	}
}

// TestRunWatchFilter: unwatched transitions neither alert nor persist.
func TestRunWatchFilter(t *testing.T) {
	store := state.NewFileStore(filepath.Join(t.TempDir(), "state.json"), slog.Default())
	log := slog.Default()
	ctx := context.Background()

	run := func(raw string, notifier *capturing) *Stats {
		s := New(Config{
			Fetcher:   fetch.Static{Chunks: []string{raw}},
			Extractor: extract.NewMarkdown(log),
			Store:     store,
			Notifier:  notifier,
			Filter:    schedule.NewWatchFilter([]string{"cross"}),
			Now:       func() time.Time { return scanNow },
			Log:       log,
		})
		stats, err := s.Run(ctx)
		if err != nil {
			t.Fatalf("run error: %v", err)
		}
		return stats
	}

	notifier := &capturing{}
	run(fullCapture, notifier) // Yoga full but unwatched
	stats := run(freedCapture, notifier)

	if stats.Alerts != 0 || len(notifier.alerts) != 0 {
		t.Errorf("alerts = %d, want 0 for unwatched class", stats.Alerts)
	}
	if stats.Watched != 1 {
		t.Errorf("watched = %d, want 1", stats.Watched)
	}
}

// TestScannerDataSource: the latest run feeds the status surfaces.
func TestScannerDataSource(t *testing.T) {
	store := state.NewFileStore(filepath.Join(t.TempDir(), "state.json"), slog.Default())
	s := newTestScanner(t, fullCapture, nil, store)

	if _, ok := s.LastRun(); ok {
		t.Error("LastRun before any run = ok, want false")
	}

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("run error: %v", err)
	}

	if got := len(s.Snapshot()); got != 2 {
		t.Errorf("snapshot = %d sessions, want 2", got)
	}
	if got := len(s.Openings()); got != 1 {
		t.Errorf("openings = %d, want 1", got)
	}
	if got := len(s.FullSessions()); got != 1 {
		t.Errorf("full = %d, want 1", got)
	}
	if _, ok := s.LastRun(); !ok {
		t.Error("LastRun after a run = not ok, want stats")
	}
}
