package extract

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/claude/seatwatch/internal/schedule"
)

// Markdown extracts sessions from reader-rendered page text (the Jina
// style markdown dump of the planning table). This is the canonical
// strategy.
//
// Two-phase segmentation: split the chunk on day markers ("20 ven."),
// then within each day block split on time-range tokens; the text
// between a time token and the next one is that session's detail block.
type Markdown struct {
	log *slog.Logger
}

// NewMarkdown creates the markdown extraction strategy.
func NewMarkdown(log *slog.Logger) *Markdown {
	return &Markdown{log: log}
}

// Extract parses one raw chunk. It never returns an error; a malformed
// day or detail block contributes zero sessions and is counted.
func (x *Markdown) Extract(raw string, now time.Time) ([]schedule.Session, error) {
	var sessions []schedule.Session
	skipped := 0

	markers := dayMarkerRe.FindAllStringSubmatchIndex(raw, -1)
	for i, m := range markers {
		day, err := strconv.Atoi(raw[m[2]:m[3]])
		if err != nil || day < 1 || day > 31 {
			skipped++
			continue
		}
		date := schedule.ResolveDay(day, now)

		// Day content runs to the next marker; text before the first
		// marker is page furniture and is never reached.
		end := len(raw)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		daySessions, dropped := x.extractDay(raw[m[1]:end], date)
		sessions = append(sessions, daySessions...)
		skipped += dropped
	}

	if skipped > 0 {
		x.log.Debug("detail blocks without availability signal dropped", "count", skipped)
	}
	return sessions, nil
}

func (x *Markdown) extractDay(content string, date schedule.Date) ([]schedule.Session, int) {
	var sessions []schedule.Session
	skipped := 0

	times := timeRangeRe.FindAllStringSubmatchIndex(content, -1)
	for i, tm := range times {
		tr := normalizeTimeRange(submatches(content, tm))

		end := len(content)
		if i+1 < len(times) {
			end = times[i+1][0]
		}
		block := content[tm[1]:end]

		seats, status, ok := classify(block)
		if !ok {
			skipped++
			continue
		}
		sessions = append(sessions, schedule.Session{
			Name:           sessionName(block),
			Date:           date,
			Start:          tr.start,
			End:            tr.end,
			RemainingSeats: seats,
			Status:         status,
		})
	}
	return sessions, skipped
}

// submatches materializes FindAllStringSubmatchIndex groups as strings.
func submatches(s string, idx []int) []string {
	out := make([]string, 0, len(idx)/2)
	for i := 0; i < len(idx); i += 2 {
		if idx[i] < 0 {
			out = append(out, "")
			continue
		}
		out = append(out, s[idx[i]:idx[i+1]])
	}
	return out
}
