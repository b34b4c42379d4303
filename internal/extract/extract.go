// Package extract turns raw scraped schedule text into session records.
//
// The source site renders the weekly planning client-side and is
// inconsistently formatted, so extraction is deliberately conservative:
// anything that does not match the expected shape contributes zero
// sessions instead of an error. Two strategies share one contract: a
// regex grammar over reader-rendered text (the canonical path) and a
// goquery walk over raw HTML.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/claude/seatwatch/internal/schedule"
)

// Extractor is the common contract of all extraction strategies.
// Implementations never fail on malformed input; an unparseable block
// simply contributes no sessions.
type Extractor interface {
	Extract(raw string, now time.Time) ([]schedule.Session, error)
}

var (
	// dayMarkerRe matches a day-block header: "20 ven." / "03 Sam."
	dayMarkerRe = regexp.MustCompile(`(?i)(\d{2})\s+(?:lun\.|mar\.|mer\.|jeu\.|ven\.|sam\.|dim\.)`)

	// timeRangeRe matches "19h15 - 20h00" and "19:15 - 20:00". The site
	// mixes both hour separators.
	timeRangeRe = regexp.MustCompile(`(\d{1,2})[h:](\d{2})\s*-\s*(\d{1,2})[h:](\d{2})`)

	// seatsRe matches "3 places restantes" / "1 place restante"
	seatsRe = regexp.MustCompile(`(?i)(\d+)\s*place(?:s)?\s+restante(?:s)?`)

	// fullRe matches the full-class marker
	fullRe = regexp.MustCompile(`(?i)\bcomplet\b`)

	// linkRe strips reservation/action links: [Réserver](https://...)
	linkRe = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)

	// furnitureRe strips heading hashes and bullet prefixes from a name line
	furnitureRe = regexp.MustCompile(`^[#*\-•>\s]+`)
)

// timeRange holds one normalized HH:MM pair.
type timeRange struct {
	start string
	end   string
}

func normalizeTimeRange(m []string) timeRange {
	sh, _ := strconv.Atoi(m[1])
	sm, _ := strconv.Atoi(m[2])
	eh, _ := strconv.Atoi(m[3])
	em, _ := strconv.Atoi(m[4])
	return timeRange{
		start: fmt.Sprintf("%02d:%02d", sh, sm),
		end:   fmt.Sprintf("%02d:%02d", eh, em),
	}
}

// classify decides a detail block's availability. The absence of both a
// seat count and the full marker means the text did not match the
// expected shape; such blocks are dropped, never guessed.
func classify(block string) (seats int, status schedule.Status, ok bool) {
	if m := seatsRe.FindStringSubmatch(block); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n > 0 {
			return n, schedule.StatusOpen, true
		}
		// "0 places restantes" is a full class spelled differently.
		return 0, schedule.StatusFull, true
	}
	if fullRe.MatchString(block) {
		return 0, schedule.StatusFull, true
	}
	return 0, "", false
}

// sessionName extracts the class title from a detail block: the first
// non-empty line, with link markup, heading furniture and the
// availability tail stripped. Whatever remains is kept as-is; name
// plausibility is a display concern.
func sessionName(block string) string {
	for _, line := range strings.Split(block, "\n") {
		line = linkRe.ReplaceAllString(line, "")
		line = furnitureRe.ReplaceAllString(line, "")
		if loc := seatsRe.FindStringIndex(line); loc != nil {
			line = line[:loc[0]]
		}
		if loc := fullRe.FindStringIndex(line); loc != nil {
			line = line[:loc[0]]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
