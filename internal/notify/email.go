package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/claude/seatwatch/internal/schedule"
)

// Email sends alerts over SMTP with STARTTLS (Gmail-style submission).
type Email struct {
	host      string
	port      int
	sender    string
	password  string
	receivers []string
	pageURL   string
}

// NewEmail builds an SMTP notifier.
func NewEmail(host string, port int, sender, password string, receivers []string, pageURL string) *Email {
	return &Email{
		host:      host,
		port:      port,
		sender:    sender,
		password:  password,
		receivers: receivers,
		pageURL:   pageURL,
	}
}

// Notify sends one alert as a plain-text email to all receivers.
func (e *Email) Notify(_ context.Context, alert schedule.Alert) error {
	s := alert.Session
	subject := fmt.Sprintf("🚨 Place libre : %s", s.Name)
	body := fmt.Sprintf("PLACE LIBRE !\n\n%s\n%s %s\n%d places restantes\n%s\n",
		s.Name, s.Date, s.TimeRange(), s.RemainingSeats, e.pageURL)

	msg := strings.Join([]string{
		"From: " + e.sender,
		"To: " + strings.Join(e.receivers, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.sender, e.password, e.host)
	if err := smtp.SendMail(addr, auth, e.sender, e.receivers, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail via %s: %w", addr, err)
	}
	return nil
}
