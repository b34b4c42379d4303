package extract

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/claude/seatwatch/internal/schedule"
)

// HTML extracts sessions straight from the rendered planning DOM, for
// fetchers that return page HTML instead of reader-rendered text. Same
// contract and same tolerance as Markdown: a day column or session card
// that does not match the expected shape yields nothing.
type HTML struct {
	log *slog.Logger
}

// NewHTML creates the HTML extraction strategy.
func NewHTML(log *slog.Logger) *HTML {
	return &HTML{log: log}
}

// Extract walks day columns (.schedule-day) and their session cards
// (.session-card). Unparseable input degrades to zero sessions.
func (x *HTML) Extract(raw string, now time.Time) ([]schedule.Session, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		x.log.Warn("unparseable HTML capture", "error", err)
		return nil, nil
	}

	var sessions []schedule.Session
	skipped := 0

	doc.Find(".schedule-day").Each(func(_ int, day *goquery.Selection) {
		header := day.Find(".schedule-day__date").First().Text()
		m := dayMarkerRe.FindStringSubmatch(header)
		if m == nil {
			skipped++
			return
		}
		dayNum, err := strconv.Atoi(m[1])
		if err != nil || dayNum < 1 || dayNum > 31 {
			skipped++
			return
		}
		date := schedule.ResolveDay(dayNum, now)

		day.Find(".session-card").Each(func(_ int, card *goquery.Selection) {
			tm := timeRangeRe.FindStringSubmatch(card.Find(".session-card__time").First().Text())
			if tm == nil {
				skipped++
				return
			}
			tr := normalizeTimeRange(tm)

			availability := card.Find(".session-card__availability").First().Text()
			seats, status, ok := classify(availability)
			if !ok {
				skipped++
				return
			}

			name := strings.TrimSpace(card.Find(".session-card__name").First().Text())
			sessions = append(sessions, schedule.Session{
				Name:           name,
				Date:           date,
				Start:          tr.start,
				End:            tr.end,
				RemainingSeats: seats,
				Status:         status,
			})
		})
	})

	if skipped > 0 {
		x.log.Debug("cards without availability signal dropped", "count", skipped)
	}
	return sessions, nil
}
