package schedule

import (
	"reflect"
	"testing"
)

func session(name, date, start string, seats int, status Status) Session {
	d, _ := ParseDate(date)
	return Session{Name: name, Date: d, Start: start, End: "", RemainingSeats: seats, Status: status}
}

// TestDeduplicateIdempotent verifies that feeding the same capture twice
// yields the same canonical set as feeding it once.
func TestDeduplicateIdempotent(t *testing.T) {
	capture := []Session{
		session("Yoga", "12/02", "18:00", 0, StatusFull),
		session("Pilates", "12/02", "19:15", 3, StatusOpen),
	}

	once := Deduplicate(capture)
	twice := Deduplicate(append(append([]Session{}, capture...), capture...))

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("dedup not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
	if len(twice) != 2 {
		t.Errorf("len = %d, want 2", len(twice))
	}
}

// TestDeduplicateIdentityFoldsName verifies that records differing only in
// name casing (and in seat count) collapse to one slot.
func TestDeduplicateIdentityFoldsName(t *testing.T) {
	out := Deduplicate([]Session{
		session("Body Pump", "12/02", "18:00", 0, StatusFull),
		session("BODY PUMP", "12/02", "18:00", 2, StatusOpen),
	})

	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	// Last write wins: the later capture's observation is kept.
	if out[0].Status != StatusOpen || out[0].RemainingSeats != 2 {
		t.Errorf("kept %+v, want the later OPEN/2 record", out[0])
	}
	// Display casing comes from the kept record, untouched.
	if out[0].Name != "BODY PUMP" {
		t.Errorf("name = %q, want BODY PUMP", out[0].Name)
	}
}

// TestDeduplicateLastWriteWinsAcrossChunks covers the conflicting-status
// collision: OPEN then FULL within one run resolves to FULL, not an error.
func TestDeduplicateLastWriteWinsAcrossChunks(t *testing.T) {
	out := Deduplicate([]Session{
		session("Hyrox", "14/02", "12:30", 1, StatusOpen),
		session("Hyrox", "14/02", "12:30", 0, StatusFull),
	})
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].Status != StatusFull {
		t.Errorf("status = %s, want FULL (later capture)", out[0].Status)
	}
}

// TestDeduplicateSortsOutput verifies chronological (date, start) order.
func TestDeduplicateSortsOutput(t *testing.T) {
	out := Deduplicate([]Session{
		session("Crossfit", "14/02", "09:00", 1, StatusOpen),
		session("Yoga", "12/02", "19:15", 1, StatusOpen),
		session("Pilates", "12/02", "08:00", 1, StatusOpen),
	})

	var got []string
	for _, s := range out {
		got = append(got, s.Name)
	}
	want := []string{"Pilates", "Yoga", "Crossfit"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

// TestDistinctStartTimesStayDistinct: same class and day at two times is
// two slots.
func TestDistinctStartTimesStayDistinct(t *testing.T) {
	out := Deduplicate([]Session{
		session("Yoga", "12/02", "18:00", 0, StatusFull),
		session("Yoga", "12/02", "19:15", 0, StatusFull),
	})
	if len(out) != 2 {
		t.Errorf("len = %d, want 2", len(out))
	}
}
