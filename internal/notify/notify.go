// Package notify delivers full→open alerts to the configured channels.
// The diff engine produces structured payloads; each notifier owns its
// channel-specific formatting.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/claude/seatwatch/internal/schedule"
)

// Notifier delivers one alert over one channel.
type Notifier interface {
	Notify(ctx context.Context, alert schedule.Alert) error
}

// Multi fans an alert out to every channel. A failing channel is logged
// and does not block the others; the joined error is informational.
type Multi struct {
	notifiers []Notifier
	log       *slog.Logger
}

// NewMulti builds a fan-out notifier.
func NewMulti(log *slog.Logger, notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers, log: log}
}

// Notify sends the alert to all channels.
func (m *Multi) Notify(ctx context.Context, alert schedule.Alert) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, alert); err != nil {
			m.log.Warn("notification failed", "class", alert.Session.Name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
