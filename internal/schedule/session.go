package schedule

import (
	"sort"
	"strings"
)

// Status is whether a session currently has bookable seats.
type Status string

const (
	StatusOpen Status = "OPEN"
	StatusFull Status = "FULL"
)

// Session is one bookable time slot for a named class on a specific date.
// Immutable once built by an extractor.
type Session struct {
	Name           string `json:"name"`
	Date           Date   `json:"date"`
	Start          string `json:"start_time"` // canonical HH:MM
	End            string `json:"end_time"`   // canonical HH:MM, descriptive only
	RemainingSeats int    `json:"remaining_seats"`
	Status         Status `json:"status"`
}

// Identity is the stable key of a session slot: name (case-folded), date
// and start time. End time, seat count and status never participate.
type Identity struct {
	Name  string
	Date  string
	Start string
}

// Identity returns the slot key. Name is folded for comparison only; the
// Session keeps the display casing.
func (s Session) Identity() Identity {
	return Identity{
		Name:  strings.ToLower(strings.TrimSpace(s.Name)),
		Date:  s.Date.String(),
		Start: s.Start,
	}
}

// TimeRange renders the slot times the way the source site shows them.
func (s Session) TimeRange() string {
	if s.End == "" {
		return s.Start
	}
	return s.Start + " - " + s.End
}

// Sort orders sessions chronologically by (date, start time), the order
// used for every user-facing listing.
func Sort(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date.before(sessions[j].Date)
		}
		return sessions[i].Start < sessions[j].Start
	})
}
