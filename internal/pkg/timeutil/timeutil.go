package timeutil

import (
	"fmt"
	"time"
)

// MinutesBetween returns the whole minutes elapsed from start to end.
// Partial minutes are truncated.
func MinutesBetween(start, end time.Time) int {
	return int(end.Sub(start).Minutes())
}

// FormatMinutes formats a minute count as "H:MM", e.g. 480 -> "8:00".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// DayOf truncates t to its calendar day in UTC.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthRange returns the first day of yearMonth ("2006-01") and the first
// day of the following month.
func MonthRange(yearMonth string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid year-month %q: %w", yearMonth, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}
