package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/seatwatch/internal/schedule"
)

// FileStore keeps the full-set in a single JSON file, the lightest
// backend for cron-driven runs.
type FileStore struct {
	path string
	log  *slog.Logger
}

// NewFileStore creates a JSON file store at the given path.
func NewFileStore(path string, log *slog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load reads the persisted full-set. A missing file is a fresh start;
// corrupt content is logged and treated the same way.
func (s *FileStore) Load(_ context.Context) ([]schedule.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		s.log.Warn("state file unreadable, starting fresh", "path", s.path, "error", err)
		return nil, nil
	}

	var full []schedule.Session
	if err := json.Unmarshal(data, &full); err != nil {
		s.log.Warn("state file corrupt, starting fresh", "path", s.path, "error", err)
		return nil, nil
	}
	return full, nil
}

// Save writes the new full-set, creating parent directories as needed.
func (s *FileStore) Save(_ context.Context, full []schedule.Session) error {
	if full == nil {
		full = []schedule.Session{}
	}
	data, err := json.MarshalIndent(full, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating state dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }
