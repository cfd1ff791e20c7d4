package utils

import "time"

// Day math for the "custom day": a 24 hour accounting period that starts at a
// configured hour instead of midnight. With hour=5, everything between 00:00
// and 05:00 still belongs to the previous day's bucket. Boundaries are
// computed in local wall-clock time; a DST transition day may therefore be 23
// or 25 wall-clock hours long, which is an accepted approximation.

// Boundaries is a half-open interval [Start, End) covering one custom day.
type Boundaries struct {
	Start time.Time
	End   time.Time
}

// CustomDayStart returns the start instant of the custom day containing t.
// The result is always <= t and > t-24h.
func CustomDayStart(t time.Time, hour int) time.Time {
	start := time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
	if t.Before(start) {
		start = start.AddDate(0, 0, -1)
	}
	return start
}

// CustomDayEnd returns the end instant (exclusive) of the custom day containing t.
func CustomDayEnd(t time.Time, hour int) time.Time {
	return CustomDayStart(t, hour).Add(24 * time.Hour)
}

// BoundariesFor returns the custom-day interval daysAgo days before the one
// containing now. daysAgo=0 is the current day, daysAgo=1 the previous one.
func BoundariesFor(now time.Time, daysAgo int, hour int) Boundaries {
	ref := now.Add(-time.Duration(daysAgo) * 24 * time.Hour)
	start := CustomDayStart(ref, hour)
	return Boundaries{Start: start, End: start.Add(24 * time.Hour)}
}

// DayKey returns the calendar date string ("2006-01-02") of the custom day
// containing t. This is the canonical key stored in streak and carry-over rows.
func DayKey(t time.Time, hour int) string {
	return CustomDayStart(t, hour).Format("2006-01-02")
}
