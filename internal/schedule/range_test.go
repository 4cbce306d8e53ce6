package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestNewRangeRejectsBackwards(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	_, err := NewRange(start, start.Add(-time.Hour))
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}
}

func TestNewRangeRejectsEqual(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	_, err := NewRange(start, start)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}
}

func TestRangeMinutes(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	r, err := NewRange(start, start.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("new range: %v", err)
	}
	if r.Minutes() != 90 {
		t.Errorf("minutes = %d, want 90", r.Minutes())
	}
}

func TestRangeOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	a, _ := NewRange(base, base.Add(time.Hour))
	b, _ := NewRange(base.Add(30*time.Minute), base.Add(2*time.Hour))
	if !a.Overlaps(b) {
		t.Error("expected overlap")
	}

	// Touching ranges do not overlap (half-open intervals)
	c, _ := NewRange(base.Add(time.Hour), base.Add(2*time.Hour))
	if a.Overlaps(c) {
		t.Error("adjacent ranges should not overlap")
	}
}

func TestFormatCountdownStarted(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if got := FormatCountdown(now.Add(-time.Minute), now); got != "Started" {
		t.Errorf("got %q, want %q", got, "Started")
	}
	if got := FormatCountdown(now, now); got != "Started" {
		t.Errorf("got %q, want %q", got, "Started")
	}
}

func TestFormatCountdownDays(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if got := FormatCountdown(now.Add(49*time.Hour), now); got != "2 days" {
		t.Errorf("got %q, want %q", got, "2 days")
	}
	if got := FormatCountdown(now.Add(25*time.Hour), now); got != "1 days" {
		t.Errorf("got %q, want %q", got, "1 days")
	}
}

func TestFormatCountdownExactDayBoundary(t *testing.T) {
	// Exactly 24h0m is not "> 24h", so it renders in hours.
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if got := FormatCountdown(now.Add(24*time.Hour), now); got != "24 hrs" {
		t.Errorf("got %q, want %q", got, "24 hrs")
	}
}

func TestFormatCountdownHours(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if got := FormatCountdown(now.Add(time.Hour), now); got != "1 hrs" {
		t.Errorf("got %q, want %q", got, "1 hrs")
	}
	if got := FormatCountdown(now.Add(90*time.Minute), now); got != "1 hrs" {
		t.Errorf("got %q, want %q", got, "1 hrs")
	}
}

func TestFormatCountdownMinutes(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if got := FormatCountdown(now.Add(45*time.Minute), now); got != "45 mins" {
		t.Errorf("got %q, want %q", got, "45 mins")
	}
	// Sub-minute countdowns round up to 1
	if got := FormatCountdown(now.Add(20*time.Second), now); got != "1 mins" {
		t.Errorf("got %q, want %q", got, "1 mins")
	}
}
