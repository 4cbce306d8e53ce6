package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a range's end is not after its start.
var ErrInvalidRange = errors.New("end time must be after start time")

// Range is a half-open time interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange builds a Range, rejecting end <= start.
func NewRange(start, end time.Time) (Range, error) {
	if !end.After(start) {
		return Range{}, ErrInvalidRange
	}
	return Range{Start: start, End: end}, nil
}

// Minutes returns the range's duration in whole minutes.
func (r Range) Minutes() int {
	return int(r.End.Sub(r.Start) / time.Minute)
}

// Overlaps reports whether two half-open ranges intersect.
func (r Range) Overlaps(o Range) bool {
	return r.Start.Before(o.End) && r.End.After(o.Start)
}

// Contains reports whether the instant falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// FormatCountdown renders the time until target as the dashboard shows it:
// "Started" once the target is in the past, "<N> days" beyond 24 hours,
// "<N> hrs" from one hour up to and including exactly 24 hours, and
// "<N> mins" below that. The unit suffix never changes with N, so exactly
// 25 hours renders as "1 days".
func FormatCountdown(target, now time.Time) string {
	diff := target.Sub(now)
	if diff <= 0 {
		return "Started"
	}
	switch {
	case diff > 24*time.Hour:
		return fmt.Sprintf("%d days", int(diff/(24*time.Hour)))
	case diff >= time.Hour:
		return fmt.Sprintf("%d hrs", int(diff/time.Hour))
	default:
		mins := int(diff / time.Minute)
		if mins < 1 {
			mins = 1
		}
		return fmt.Sprintf("%d mins", mins)
	}
}
