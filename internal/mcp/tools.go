package mcp

import (
	"context"

	"github.com/claude/seatwatch/internal/schedule"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetSchedule = mcp.NewTool("get_schedule",
	mcp.WithDescription("Retrieve the full class schedule from the latest scan. Each session has a name, date (DD/MM), start/end time, remaining seats, and an open/full status."),
	mcp.WithString("class", mcp.Description("Filter by class name (case-insensitive substring, e.g. 'yoga')")),
)

var toolGetOpenings = mcp.NewTool("get_openings",
	mcp.WithDescription("List sessions that currently have seats available."),
	mcp.WithString("class", mcp.Description("Filter by class name (case-insensitive substring)")),
)

var toolGetFullSessions = mcp.NewTool("get_full_sessions",
	mcp.WithDescription("List sessions that are currently full. These are the sessions the watcher will alert on when a seat frees up."),
	mcp.WithString("class", mcp.Description("Filter by class name (case-insensitive substring)")),
)

var toolGetRecentAlerts = mcp.NewTool("get_recent_alerts",
	mcp.WithDescription("Retrieve recent freed-seat alerts, newest first."),
	mcp.WithNumber("limit", mcp.Description("Max alerts to return (default: 20)")),
)

var toolGetWatchFilter = mcp.NewTool("get_watch_filter",
	mcp.WithDescription("Show which class names the watcher is restricted to. An empty filter means every class is watched."),
)

var toolRunScan = mcp.NewTool("run_scan",
	mcp.WithDescription("Fetch the schedule page now, diff it against the persisted state, and send any alerts. Returns the run's stats."),
)

// --- Tool handlers ---

// filterByClass narrows sessions to those matching a name substring.
func filterByClass(sessions []schedule.Session, class string) []schedule.Session {
	if class == "" {
		return sessions
	}
	return schedule.NewWatchFilter([]string{class}).Apply(sessions)
}

func (h *handlers) getSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.Schedule(ctx)
	if err != nil {
		h.log.Error("mcp get_schedule", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return sessionsResult(filterByClass(sessions, req.GetString("class", "")))
}

func (h *handlers) getOpenings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.Openings(ctx)
	if err != nil {
		h.log.Error("mcp get_openings", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return sessionsResult(filterByClass(sessions, req.GetString("class", "")))
}

func (h *handlers) getFullSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.FullSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_full_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return sessionsResult(filterByClass(sessions, req.GetString("class", "")))
}

func (h *handlers) getRecentAlerts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	if limit < 1 {
		return mcp.NewToolResultError("limit must be a positive integer"), nil
	}

	alerts, err := h.ds.RecentAlerts(ctx, limit)
	if err != nil {
		h.log.Error("mcp get_recent_alerts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"count":  len(alerts),
		"alerts": alerts,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWatchFilter(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	terms, err := h.ds.WatchTerms(ctx)
	if err != nil {
		h.log.Error("mcp get_watch_filter", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if terms == nil {
		terms = []string{}
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"terms":     terms,
		"watch_all": len(terms) == 0,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) runScan(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.trigger.TriggerScan(ctx)
	if err != nil {
		h.log.Error("mcp run_scan", "error", err)
		return mcp.NewToolResultError("scan failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func sessionsResult(sessions []schedule.Session) (*mcp.CallToolResult, error) {
	if sessions == nil {
		sessions = []schedule.Session{}
	}
	result, err := mcp.NewToolResultJSON(map[string]any{
		"count":    len(sessions),
		"sessions": sessions,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
