// Package mcp exposes the watcher's schedule data to LLM clients over the
// Model Context Protocol. Tools read from a DataSource, which is either the
// in-process scanner or a remote watcher reached through its REST API.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
// run_scan is only available when the data source can trigger scans.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("SeatWatch", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("SeatWatch gym schedule watcher. Query the latest scanned class schedule, sessions with open seats, full sessions, and the history of freed-seat alerts. Dates are DD/MM, times HH:MM."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetSchedule, Handler: h.getSchedule},
		server.ServerTool{Tool: toolGetOpenings, Handler: h.getOpenings},
		server.ServerTool{Tool: toolGetFullSessions, Handler: h.getFullSessions},
		server.ServerTool{Tool: toolGetRecentAlerts, Handler: h.getRecentAlerts},
		server.ServerTool{Tool: toolGetWatchFilter, Handler: h.getWatchFilter},
	)

	if trigger, ok := ds.(ScanTrigger); ok {
		h.trigger = trigger
		s.AddTools(server.ServerTool{Tool: toolRunScan, Handler: h.runScan})
	}

	s.AddResources(
		server.ServerResource{Resource: resSchedule, Handler: h.scheduleResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds      DataSource
	trigger ScanTrigger // nil when the source cannot scan
	log     *slog.Logger
}

// --- Resource definitions ---

var resSchedule = mcp.NewResource(
	"seatwatch://schedule",
	"Class Schedule",
	mcp.WithResourceDescription("Latest scanned class schedule with watch filter and last run stats"),
	mcp.WithMIMEType("application/json"),
)
