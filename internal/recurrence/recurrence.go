package recurrence

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is a simple repeat rule for events and bills.
type Frequency string

const (
	None     Frequency = "none"
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
	Yearly   Frequency = "yearly"
)

var frequencies = map[Frequency]bool{
	None:     true,
	Daily:    true,
	Weekly:   true,
	Biweekly: true,
	Monthly:  true,
	Yearly:   true,
}

// Parse parses a frequency string. The empty string means None.
func Parse(s string) (Frequency, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	f := Frequency(s)
	if !frequencies[f] {
		return None, fmt.Errorf("unknown frequency: %q", s)
	}
	return f, nil
}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return frequencies[f]
}

// Describe returns a human-readable description of the frequency.
func (f Frequency) Describe() string {
	switch f {
	case Daily:
		return "Repeats daily"
	case Weekly:
		return "Repeats weekly"
	case Biweekly:
		return "Repeats every 2 weeks"
	case Monthly:
		return "Repeats monthly"
	case Yearly:
		return "Repeats yearly"
	}
	return ""
}

// Occurrence is a single generated occurrence of a recurring event.
type Occurrence struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampToMonth builds a date in the given month at the given day of month,
// clamping the day to the month's last day instead of rolling over. Day 31
// in February yields February 28/29, never March.
func ClampToMonth(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// next returns the occurrence start strictly following cur. base carries the
// day-of-month anchor for monthly rules, so "monthly on the 31st" clamps in
// short months and snaps back to the 31st afterwards.
func next(f Frequency, base, cur time.Time) time.Time {
	switch f {
	case Daily:
		return cur.AddDate(0, 0, 1)
	case Weekly:
		return cur.AddDate(0, 0, 7)
	case Biweekly:
		return cur.AddDate(0, 0, 14)
	case Monthly:
		// Advance the month by hand: AddDate on a clamped Jan 31 would
		// roll Feb 28 + 1 month math into March.
		month := cur.Month() + 1
		year := cur.Year()
		if month > time.December {
			month = time.January
			year++
		}
		day := base.Day()
		clamped := ClampToMonth(year, month, day, base.Location())
		return time.Date(clamped.Year(), clamped.Month(), clamped.Day(),
			base.Hour(), base.Minute(), base.Second(), 0, base.Location())
	case Yearly:
		return cur.AddDate(1, 0, 0)
	}
	return time.Time{}
}

// NextAfter returns the first occurrence of the rule anchored at start that
// begins after the given instant. Returns the zero time for None.
func NextAfter(f Frequency, start, after time.Time) time.Time {
	if f == None || !f.Valid() {
		return time.Time{}
	}
	cur := start
	for !cur.After(after) {
		cur = next(f, start, cur)
	}
	return cur
}

// Expand generates occurrences of a recurring event within
// [rangeStart, rangeEnd). eventStart/eventEnd define the first occurrence
// and its duration. A None frequency yields at most the single original
// occurrence.
func Expand(f Frequency, eventStart, eventEnd, rangeStart, rangeEnd time.Time) []Occurrence {
	duration := eventEnd.Sub(eventStart)
	var out []Occurrence

	if f == None || !f.Valid() {
		if eventStart.Before(rangeEnd) && eventEnd.After(rangeStart) {
			out = append(out, Occurrence{Start: eventStart, End: eventEnd})
		}
		return out
	}

	// Safety limit against pathological ranges
	const maxOccurrences = 1000

	cur := eventStart
	for i := 0; i < maxOccurrences; i++ {
		if !cur.Before(rangeEnd) {
			break
		}
		end := cur.Add(duration)
		if cur.Before(rangeEnd) && end.After(rangeStart) {
			out = append(out, Occurrence{Start: cur, End: end})
		}
		cur = next(f, eventStart, cur)
	}
	return out
}
