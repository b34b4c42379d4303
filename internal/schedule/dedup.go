package schedule

// Deduplicate collapses sessions drawn from overlapping captures into one
// record per identity. Later records overwrite earlier ones for the same
// slot: when a seat count changed between two scroll captures seconds
// apart, the later observation is closer to ground truth for the run.
// Output is sorted by (date, start time).
func Deduplicate(sessions []Session) []Session {
	index := make(map[Identity]int, len(sessions))
	out := make([]Session, 0, len(sessions))

	for _, s := range sessions {
		id := s.Identity()
		if pos, seen := index[id]; seen {
			out[pos] = s
			continue
		}
		index[id] = len(out)
		out = append(out, s)
	}

	Sort(out)
	return out
}
