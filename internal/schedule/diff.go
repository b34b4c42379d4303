package schedule

import (
	"fmt"
	"time"
)

// RetentionPolicy controls what happens to previously-full sessions that
// were not re-observed in the current snapshot.
type RetentionPolicy string

const (
	// RetentionReplace discards unseen entries wholesale. Past sessions
	// garbage-collect themselves, at the price of a missed alert if a
	// scrape transiently drops a session.
	RetentionReplace RetentionPolicy = "replace"

	// RetentionRetainFuture carries forward unseen entries whose date has
	// not passed yet, so a single bad capture cannot eat a pending alert.
	RetentionRetainFuture RetentionPolicy = "retain-future"
)

// ParseRetentionPolicy validates a configured policy name.
func ParseRetentionPolicy(s string) (RetentionPolicy, error) {
	switch RetentionPolicy(s) {
	case RetentionReplace, RetentionRetainFuture:
		return RetentionPolicy(s), nil
	case "":
		return RetentionReplace, nil
	}
	return "", fmt.Errorf("unknown retention policy %q", s)
}

// Alert is one full→open transition: a session recorded as full in the
// previous run, observed with availability now.
type Alert struct {
	Session      Session `json:"session"`
	FormerlyFull bool    `json:"formerly_full"` // always true, by construction
}

// DiffResult carries the two outputs of a diff pass. The engine does no
// I/O; persisting NewFullSet and sending Alerts is the caller's job.
type DiffResult struct {
	Alerts     []Alert
	NewFullSet []Session
}

// Diff compares the current watched snapshot against the previous run's
// full-set. An open session alerts iff its identity was in the previous
// full-set. The new full-set is the current snapshot's FULL sessions;
// under RetentionRetainFuture it also keeps unseen previous entries whose
// date is still today or later.
func Diff(current, previousFull []Session, policy RetentionPolicy, now time.Time) DiffResult {
	prev := make(map[Identity]Session, len(previousFull))
	for _, p := range previousFull {
		prev[p.Identity()] = p
	}

	var result DiffResult
	seen := make(map[Identity]bool, len(current))

	for _, s := range current {
		seen[s.Identity()] = true
		switch s.Status {
		case StatusOpen:
			if _, wasFull := prev[s.Identity()]; wasFull {
				result.Alerts = append(result.Alerts, Alert{Session: s, FormerlyFull: true})
			}
		case StatusFull:
			result.NewFullSet = append(result.NewFullSet, s)
		}
	}

	if policy == RetentionRetainFuture {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		for _, p := range previousFull {
			if seen[p.Identity()] {
				continue
			}
			if !p.Date.Resolve(now).Before(today) {
				result.NewFullSet = append(result.NewFullSet, p)
			}
		}
		Sort(result.NewFullSet)
	}

	return result
}
