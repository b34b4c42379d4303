package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/claude/seatwatch/internal/schedule"
)

// WhatsApp posts alerts to a Green-API style webhook
// (sendMessage endpoint with chatId + message).
type WhatsApp struct {
	client  *http.Client
	apiURL  string
	chatID  string
	pageURL string
}

// NewWhatsApp builds a WhatsApp webhook notifier. pageURL is appended to
// the message so the recipient can book in one tap.
func NewWhatsApp(apiURL, chatID, pageURL string) *WhatsApp {
	return &WhatsApp{
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  apiURL,
		chatID:  chatID,
		pageURL: pageURL,
	}
}

type whatsAppMessage struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

// Notify sends one alert as a WhatsApp markdown message.
func (w *WhatsApp) Notify(ctx context.Context, alert schedule.Alert) error {
	s := alert.Session
	msg := fmt.Sprintf("🚨 *PLACE LIBRE !*\n\n🏋️ *%s*\n📅 %s\n⏰ %s\n🔥 %d places!\n🔗 %s",
		s.Name, s.Date, s.TimeRange(), s.RemainingSeats, w.pageURL)

	body, err := json.Marshal(whatsAppMessage{ChatID: w.chatID, Message: msg})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
