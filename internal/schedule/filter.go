package schedule

import "strings"

// WatchFilter selects the class names eligible for alerting and
// persistence. Matching is case-folded substring containment; an empty
// filter watches everything.
type WatchFilter struct {
	terms []string
}

// NewWatchFilter folds and trims the configured terms, dropping blanks.
func NewWatchFilter(terms []string) WatchFilter {
	var folded []string
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			folded = append(folded, t)
		}
	}
	return WatchFilter{terms: folded}
}

// Matches reports whether a class name is watched.
func (f WatchFilter) Matches(name string) bool {
	if len(f.terms) == 0 {
		return true
	}
	name = strings.ToLower(name)
	for _, t := range f.terms {
		if strings.Contains(name, t) {
			return true
		}
	}
	return false
}

// Terms returns the folded filter terms; empty means watch everything.
func (f WatchFilter) Terms() []string {
	return f.terms
}

// Apply keeps only watched sessions, preserving order.
func (f WatchFilter) Apply(sessions []Session) []Session {
	if len(f.terms) == 0 {
		return sessions
	}
	var out []Session
	for _, s := range sessions {
		if f.Matches(s.Name) {
			out = append(out, s)
		}
	}
	return out
}
