package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) scheduleResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := h.ds.Schedule(ctx)
	if err != nil {
		return nil, err
	}

	terms, err := h.ds.WatchTerms(ctx)
	if err != nil {
		h.log.Warn("schedule resource: watch terms failed", "error", err)
	}

	payload := map[string]any{
		"sessions":    sessions,
		"watch_terms": terms,
	}

	stats, err := h.ds.LastRun(ctx)
	if err != nil {
		h.log.Warn("schedule resource: last run failed", "error", err)
	} else if stats != nil {
		payload["last_run"] = stats
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
