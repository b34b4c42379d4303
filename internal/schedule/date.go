package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// MonthRolloverDay is the day-of-month threshold for the end-of-month
// heuristic: a day number smaller than today only means "next month" when
// today is already past this day. Near short-month boundaries the
// heuristic can misfire; it matches the source site's one-week window.
const MonthRolloverDay = 20

// Date is a calendar day. Year is inferred at extraction time and omitted
// from the serialized form; the schedule only ever shows a one-week
// window, so DD/MM is the identity the site exposes.
type Date struct {
	Day   int
	Month int
	Year  int
}

// ResolveDay turns a bare day-of-month from a day-block marker into a
// concrete Date using the caller's clock. The month defaults to the
// current one and rolls into the next month (and, past December, the next
// year) when the day number is behind today late in the month.
func ResolveDay(day int, now time.Time) Date {
	month := int(now.Month())
	year := now.Year()
	if day < now.Day() && now.Day() > MonthRolloverDay {
		month = month%12 + 1
		if month == 1 {
			year++
		}
	}
	return Date{Day: day, Month: month, Year: year}
}

// String renders the DD/MM identity form.
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d", d.Day, d.Month)
}

// Resolve returns the date at midnight local time. A zero Year (a date
// loaded from persisted state) infers the year from now: a month more
// than one behind the clock means the slot is in the next year.
func (d Date) Resolve(now time.Time) time.Time {
	year := d.Year
	if year == 0 {
		year = now.Year()
		if d.Month < int(now.Month())-1 {
			year++
		}
	}
	return time.Date(year, time.Month(d.Month), d.Day, 0, 0, 0, 0, now.Location())
}

// before compares day-in-year only; two Dates produced by the same
// extraction run share a consistent year basis.
func (d Date) before(o Date) bool {
	if d.Year != o.Year && d.Year != 0 && o.Year != 0 {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// MarshalJSON serializes as "DD/MM", the round-trippable identity form.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses "DD/MM". Year stays zero and is re-inferred when
// the date is next resolved against a clock.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDate parses the DD/MM identity form.
func ParseDate(s string) (Date, error) {
	var d Date
	if _, err := fmt.Sscanf(s, "%d/%d", &d.Day, &d.Month); err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	if d.Day < 1 || d.Day > 31 || d.Month < 1 || d.Month > 12 {
		return Date{}, fmt.Errorf("parsing date %q: out of range", s)
	}
	return d, nil
}
