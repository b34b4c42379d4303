package extract

import (
	"log/slog"
	"testing"
	"time"

	"github.com/claude/seatwatch/internal/schedule"
)

const sampleCapture = `
UCPA Sport Station - Planning fitness
[Accueil](https://www.ucpa.com/) [Se connecter](https://www.ucpa.com/login)

20 ven.

*   19h15 - 20h00 #### Yoga Vinyasa 3 places restantes [Réserver](https://www.ucpa.com/resa/812)
*   20h15 - 21h00 #### Cross Training Complet

21 sam.

10:00 - 10:45 #### Pilates 1 place restante
11h00 - 11h45 #### Body Pump
Complet
12h00 - 12h45 #### Stretching doux
`

var extractNow = time.Date(2024, time.June, 20, 9, 0, 0, 0, time.UTC)

// TestMarkdownExtract walks the canonical grammar end to end: day
// segmentation, both time separators, inline and next-line availability,
// link stripping, and the silent drop of a signal-less block.
func TestMarkdownExtract(t *testing.T) {
	x := NewMarkdown(slog.Default())
	sessions, err := x.Extract(sampleCapture, extractNow)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}

	// "Stretching doux" has neither a seat count nor the full marker;
	// it is dropped, not guessed.
	if len(sessions) != 4 {
		t.Fatalf("sessions = %d, want 4: %+v", len(sessions), sessions)
	}

	yoga := sessions[0]
	if yoga.Name != "Yoga Vinyasa" {
		t.Errorf("name = %q, want Yoga Vinyasa (links and seats stripped)", yoga.Name)
	}
	if yoga.Date.String() != "20/06" {
		t.Errorf("date = %s, want 20/06", yoga.Date)
	}
	if yoga.Start != "19:15" || yoga.End != "20:00" {
		t.Errorf("time = %s-%s, want 19:15-20:00", yoga.Start, yoga.End)
	}
	if yoga.Status != schedule.StatusOpen || yoga.RemainingSeats != 3 {
		t.Errorf("availability = %s/%d, want OPEN/3", yoga.Status, yoga.RemainingSeats)
	}

	cross := sessions[1]
	if cross.Name != "Cross Training" {
		t.Errorf("name = %q, want Cross Training (full marker stripped)", cross.Name)
	}
	if cross.Status != schedule.StatusFull || cross.RemainingSeats != 0 {
		t.Errorf("availability = %s/%d, want FULL/0", cross.Status, cross.RemainingSeats)
	}

	pilates := sessions[2]
	if pilates.Date.String() != "21/06" {
		t.Errorf("date = %s, want 21/06", pilates.Date)
	}
	if pilates.Start != "10:00" {
		t.Errorf("start = %s, want 10:00 (colon separator)", pilates.Start)
	}
	if pilates.Status != schedule.StatusOpen || pilates.RemainingSeats != 1 {
		t.Errorf("availability = %s/%d, want OPEN/1 (singular form)", pilates.Status, pilates.RemainingSeats)
	}

	pump := sessions[3]
	if pump.Name != "Body Pump" {
		t.Errorf("name = %q, want Body Pump", pump.Name)
	}
	if pump.Status != schedule.StatusFull {
		t.Errorf("status = %s, want FULL (marker on following line)", pump.Status)
	}
}

// TestMarkdownExtractMonthRollover: late in January, the week view
// already shows early February.
func TestMarkdownExtractMonthRollover(t *testing.T) {
	now := time.Date(2024, time.January, 28, 9, 0, 0, 0, time.UTC)
	raw := "03 sam.\n18h00 - 19h00 #### Yoga Complet\n"

	sessions, _ := NewMarkdown(slog.Default()).Extract(raw, now)
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(sessions))
	}
	if got := sessions[0].Date.String(); got != "03/02" {
		t.Errorf("date = %s, want 03/02", got)
	}
}

// TestMarkdownExtractMalformedInput: garbage never raises, it yields
// nothing.
func TestMarkdownExtractMalformedInput(t *testing.T) {
	x := NewMarkdown(slog.Default())
	for _, raw := range []string{
		"",
		"no markers at all",
		"12 ven.\nno sessions in this day",
		"navigation header only\n99 zzz.",
	} {
		sessions, err := x.Extract(raw, extractNow)
		if err != nil {
			t.Errorf("Extract(%q) error: %v", raw, err)
		}
		if len(sessions) != 0 {
			t.Errorf("Extract(%q) = %d sessions, want 0", raw, len(sessions))
		}
	}
}

// TestMarkdownExtractZeroSeatsMeansFull: "0 places restantes" is a full
// class spelled without the marker token.
func TestMarkdownExtractZeroSeatsMeansFull(t *testing.T) {
	raw := "20 jeu.\n12h30 - 13h15 #### Hyrox 0 places restantes\n"
	sessions, _ := NewMarkdown(slog.Default()).Extract(raw, extractNow)
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(sessions))
	}
	if sessions[0].Status != schedule.StatusFull {
		t.Errorf("status = %s, want FULL", sessions[0].Status)
	}
}
