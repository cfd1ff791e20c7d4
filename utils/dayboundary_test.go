package utils

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return ts
}

func TestCustomDayStartAfterHour(t *testing.T) {
	now := mustTime(t, "2024-03-11T06:00:00")
	start := CustomDayStart(now, 5)
	want := mustTime(t, "2024-03-11T05:00:00")
	if !start.Equal(want) {
		t.Fatalf("start = %v, want %v", start, want)
	}
}

func TestCustomDayStartBeforeHourRollsBack(t *testing.T) {
	// 02:30 belongs to the previous day's bucket when the day starts at 05:00.
	now := mustTime(t, "2024-03-11T02:30:00")
	start := CustomDayStart(now, 5)
	want := mustTime(t, "2024-03-10T05:00:00")
	if !start.Equal(want) {
		t.Fatalf("start = %v, want %v", start, want)
	}
}

func TestCustomDayStartExactlyAtHour(t *testing.T) {
	now := mustTime(t, "2024-03-11T05:00:00")
	start := CustomDayStart(now, 5)
	if !start.Equal(now) {
		t.Fatalf("start = %v, want %v", start, now)
	}
}

func TestCustomDayContainsT(t *testing.T) {
	cases := []string{
		"2024-03-11T00:00:00",
		"2024-03-11T04:59:59",
		"2024-03-11T05:00:00",
		"2024-03-11T12:00:00",
		"2024-03-11T23:59:59",
	}
	for _, raw := range cases {
		now := mustTime(t, raw)
		start := CustomDayStart(now, 5)
		end := CustomDayEnd(now, 5)
		if now.Before(start) || !now.Before(end) {
			t.Errorf("%s not inside [%v, %v)", raw, start, end)
		}
		if end.Sub(start) != 24*time.Hour {
			t.Errorf("%s: day width = %v, want 24h", raw, end.Sub(start))
		}
	}
}

func TestCustomDayMidnightHourZero(t *testing.T) {
	now := mustTime(t, "2024-03-11T00:30:00")
	start := CustomDayStart(now, 0)
	want := mustTime(t, "2024-03-11T00:00:00")
	if !start.Equal(want) {
		t.Fatalf("hour=0 start = %v, want %v", start, want)
	}
}

func TestBoundariesForContiguous(t *testing.T) {
	now := mustTime(t, "2024-03-11T14:00:00")
	today := BoundariesFor(now, 0, 5)
	yesterday := BoundariesFor(now, 1, 5)

	if !yesterday.End.Equal(today.Start) {
		t.Fatalf("days not contiguous: yesterday ends %v, today starts %v", yesterday.End, today.Start)
	}
	if !yesterday.Start.Equal(mustTime(t, "2024-03-10T05:00:00")) {
		t.Fatalf("yesterday start = %v", yesterday.Start)
	}
}

func TestBoundariesForEarlyMorning(t *testing.T) {
	// At 02:00 on the 11th the current custom day is still the 10th, so
	// "yesterday" is the 9th.
	now := mustTime(t, "2024-03-11T02:00:00")
	yesterday := BoundariesFor(now, 1, 5)
	if !yesterday.Start.Equal(mustTime(t, "2024-03-09T05:00:00")) {
		t.Fatalf("yesterday start = %v", yesterday.Start)
	}
}

func TestDayKey(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"2024-03-11T06:00:00", "2024-03-11"},
		{"2024-03-11T04:59:59", "2024-03-10"},
		{"2024-03-11T05:00:00", "2024-03-11"},
		{"2024-01-01T01:00:00", "2023-12-31"},
	}
	for _, c := range cases {
		if got := DayKey(mustTime(t, c.raw), 5); got != c.want {
			t.Errorf("DayKey(%s) = %s, want %s", c.raw, got, c.want)
		}
	}
}
