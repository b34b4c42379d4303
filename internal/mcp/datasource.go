package mcp

import (
	"context"

	"github.com/claude/seatwatch/internal/scan"
	"github.com/claude/seatwatch/internal/schedule"
	"github.com/claude/seatwatch/internal/state"
)

// DataSource abstracts the schedule data behind MCP tools. Both Local (an
// in-process scanner) and HTTPClient (a remote watcher's REST API) satisfy
// this interface.
type DataSource interface {
	Schedule(ctx context.Context) ([]schedule.Session, error)
	Openings(ctx context.Context) ([]schedule.Session, error)
	FullSessions(ctx context.Context) ([]schedule.Session, error)
	RecentAlerts(ctx context.Context, limit int) ([]state.AlertRecord, error)
	// LastRun returns nil when no run has completed yet.
	LastRun(ctx context.Context) (*scan.Stats, error)
	WatchTerms(ctx context.Context) ([]string, error)
}

// ScanTrigger is the optional extension for sources that can start a scan.
// The run_scan tool is only registered when the source supports it.
type ScanTrigger interface {
	TriggerScan(ctx context.Context) (*scan.Stats, error)
}

// Local serves MCP tools from an in-process scanner.
type Local struct {
	Scanner *scan.Scanner
}

// Compile-time checks: Local satisfies DataSource and ScanTrigger.
var (
	_ DataSource  = Local{}
	_ ScanTrigger = Local{}
)

func (l Local) Schedule(context.Context) ([]schedule.Session, error) {
	return l.Scanner.Snapshot(), nil
}

func (l Local) Openings(context.Context) ([]schedule.Session, error) {
	return l.Scanner.Openings(), nil
}

func (l Local) FullSessions(context.Context) ([]schedule.Session, error) {
	return l.Scanner.FullSessions(), nil
}

func (l Local) RecentAlerts(ctx context.Context, limit int) ([]state.AlertRecord, error) {
	return l.Scanner.RecentAlerts(ctx, limit)
}

func (l Local) LastRun(context.Context) (*scan.Stats, error) {
	stats, ok := l.Scanner.LastRun()
	if !ok {
		return nil, nil
	}
	return &stats, nil
}

func (l Local) WatchTerms(context.Context) ([]string, error) {
	return l.Scanner.WatchTerms(), nil
}

func (l Local) TriggerScan(ctx context.Context) (*scan.Stats, error) {
	return l.Scanner.Run(ctx)
}
