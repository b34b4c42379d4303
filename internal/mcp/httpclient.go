package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/seatwatch/internal/scan"
	"github.com/claude/seatwatch/internal/schedule"
	"github.com/claude/seatwatch/internal/state"
)

// HTTPClient implements DataSource by calling a running watcher's REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but the
// watcher lives on another machine (reached over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("httpclient: read body: %w", err)
	}

	return body, resp.StatusCode, nil
}

func (c *HTTPClient) getSessions(ctx context.Context, path string) ([]schedule.Session, error) {
	body, status, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, status, body)
	}

	var sessions []schedule.Session
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return sessions, nil
}

func (c *HTTPClient) Schedule(ctx context.Context) ([]schedule.Session, error) {
	return c.getSessions(ctx, "/api/v1/schedule")
}

func (c *HTTPClient) Openings(ctx context.Context) ([]schedule.Session, error) {
	return c.getSessions(ctx, "/api/v1/openings")
}

func (c *HTTPClient) FullSessions(ctx context.Context) ([]schedule.Session, error) {
	return c.getSessions(ctx, "/api/v1/full")
}

func (c *HTTPClient) RecentAlerts(ctx context.Context, limit int) ([]state.AlertRecord, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, status, err := c.get(ctx, "/api/v1/alerts", params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: /api/v1/alerts returned %d: %s", status, body)
	}

	var alerts []state.AlertRecord
	if err := json.Unmarshal(body, &alerts); err != nil {
		return nil, fmt.Errorf("httpclient: decode alerts: %w", err)
	}
	return alerts, nil
}

// LastRun maps the API's 404 ("no completed run yet") to a nil Stats.
func (c *HTTPClient) LastRun(ctx context.Context) (*scan.Stats, error) {
	body, status, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: /api/v1/stats returned %d: %s", status, body)
	}

	var stats scan.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}

func (c *HTTPClient) WatchTerms(ctx context.Context) ([]string, error) {
	body, status, err := c.get(ctx, "/api/v1/watch", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: /api/v1/watch returned %d: %s", status, body)
	}

	var watch struct {
		Terms []string `json:"terms"`
	}
	if err := json.Unmarshal(body, &watch); err != nil {
		return nil, fmt.Errorf("httpclient: decode watch filter: %w", err)
	}
	return watch.Terms, nil
}
