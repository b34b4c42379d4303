package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/seatwatch/internal/schedule"
)

func testAlert() schedule.Alert {
	d, _ := schedule.ParseDate("12/02")
	return schedule.Alert{
		Session: schedule.Session{
			Name: "Yoga", Date: d, Start: "18:00", End: "19:00",
			RemainingSeats: 3, Status: schedule.StatusOpen,
		},
		FormerlyFull: true,
	}
}

func TestWhatsAppNotify(t *testing.T) {
	var got whatsAppMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
	}))
	defer srv.Close()

	n := NewWhatsApp(srv.URL, "chat-123", "https://www.ucpa.com/sport-station/nantes/fitness")
	if err := n.Notify(context.Background(), testAlert()); err != nil {
		t.Fatalf("notify error: %v", err)
	}

	if got.ChatID != "chat-123" {
		t.Errorf("chatId = %q, want chat-123", got.ChatID)
	}
	for _, want := range []string{"Yoga", "12/02", "18:00 - 19:00", "3 places"} {
		if !strings.Contains(got.Message, want) {
			t.Errorf("message %q missing %q", got.Message, want)
		}
	}
}

func TestWhatsAppNotifyNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWhatsApp(srv.URL, "chat-123", "")
	if err := n.Notify(context.Background(), testAlert()); err == nil {
		t.Error("notify succeeded on 502, want error")
	}
}

// failing is a notifier that always errors, for fan-out tests.
type failing struct{}

func (failing) Notify(context.Context, schedule.Alert) error {
	return context.DeadlineExceeded
}

// recording counts deliveries.
type recording struct{ count int }

func (r *recording) Notify(context.Context, schedule.Alert) error {
	r.count++
	return nil
}

// TestMultiContinuesPastFailure: one dead channel must not silence the
// others.
func TestMultiContinuesPastFailure(t *testing.T) {
	rec := &recording{}
	m := NewMulti(slog.Default(), failing{}, rec)

	err := m.Notify(context.Background(), testAlert())
	if err == nil {
		t.Error("joined error = nil, want the channel failure surfaced")
	}
	if rec.count != 1 {
		t.Errorf("second channel deliveries = %d, want 1", rec.count)
	}
}
