package recurrence

import (
	"testing"
	"time"
)

func TestParseKnownFrequencies(t *testing.T) {
	for _, s := range []string{"none", "daily", "weekly", "biweekly", "monthly", "yearly"} {
		f, err := Parse(s)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", s, err)
		}
		if string(f) != s {
			t.Errorf("Parse(%q) = %q", s, f)
		}
	}
}

func TestParseEmptyMeansNone(t *testing.T) {
	f, err := Parse("")
	if err != nil {
		t.Fatalf("Parse empty: %v", err)
	}
	if f != None {
		t.Errorf("f = %q, want %q", f, None)
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := Parse("fortnightly"); err == nil {
		t.Error("expected error for unknown frequency")
	}
}

func TestExpandNone(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	occ := Expand(None, start, end, start.AddDate(0, 0, -7), start.AddDate(0, 0, 7))
	if len(occ) != 1 {
		t.Fatalf("len = %d, want 1", len(occ))
	}
	if !occ[0].Start.Equal(start) {
		t.Errorf("start = %v, want %v", occ[0].Start, start)
	}
}

func TestExpandNoneOutsideRange(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	occ := Expand(None, start, end, start.AddDate(0, 1, 0), start.AddDate(0, 2, 0))
	if len(occ) != 0 {
		t.Errorf("len = %d, want 0", len(occ))
	}
}

func TestExpandWeekly(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) // Monday
	end := start.Add(time.Hour)
	rangeStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	occ := Expand(Weekly, start, end, rangeStart, rangeEnd)
	if len(occ) != 5 {
		t.Fatalf("len = %d, want 5", len(occ))
	}
	for i, o := range occ {
		want := start.AddDate(0, 0, 7*i)
		if !o.Start.Equal(want) {
			t.Errorf("occ[%d].Start = %v, want %v", i, o.Start, want)
		}
		if o.End.Sub(o.Start) != time.Hour {
			t.Errorf("occ[%d] duration = %v, want 1h", i, o.End.Sub(o.Start))
		}
	}
}

func TestExpandBiweekly(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	rangeEnd := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	occ := Expand(Biweekly, start, end, start, rangeEnd)
	if len(occ) != 3 {
		t.Fatalf("len = %d, want 3", len(occ))
	}
	if got := occ[1].Start; !got.Equal(start.AddDate(0, 0, 14)) {
		t.Errorf("occ[1].Start = %v", got)
	}
}

func TestExpandMonthlyClampsShortMonths(t *testing.T) {
	// Anchored on Jan 31: February clamps to its last day, March snaps
	// back to the 31st.
	start := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	rangeEnd := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	occ := Expand(Monthly, start, end, start, rangeEnd)
	if len(occ) != 4 {
		t.Fatalf("len = %d, want 4", len(occ))
	}
	wantDays := []struct {
		month time.Month
		day   int
	}{
		{time.January, 31},
		{time.February, 28},
		{time.March, 31},
		{time.April, 30},
	}
	for i, w := range wantDays {
		if occ[i].Start.Month() != w.month || occ[i].Start.Day() != w.day {
			t.Errorf("occ[%d] = %v, want %v %d", i, occ[i].Start, w.month, w.day)
		}
	}
}

func TestNextAfter(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	after := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	got := NextAfter(Weekly, start, after)
	want := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextAfter = %v, want %v", got, want)
	}
}

func TestNextAfterNone(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if got := NextAfter(None, start, start); !got.IsZero() {
		t.Errorf("NextAfter(None) = %v, want zero", got)
	}
}

func TestClampToMonth(t *testing.T) {
	got := ClampToMonth(2026, time.February, 31, time.UTC)
	want := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ClampToMonth = %v, want %v", got, want)
	}

	// Leap year
	got = ClampToMonth(2028, time.February, 30, time.UTC)
	if got.Day() != 29 {
		t.Errorf("leap year day = %d, want 29", got.Day())
	}
}

func TestDaysInMonth(t *testing.T) {
	if d := DaysInMonth(2026, time.April); d != 30 {
		t.Errorf("April = %d, want 30", d)
	}
	if d := DaysInMonth(2028, time.February); d != 29 {
		t.Errorf("Feb 2028 = %d, want 29", d)
	}
}
