package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinutesBetween(t *testing.T) {
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 480, MinutesBetween(start, start.Add(8*time.Hour)))
	assert.Equal(t, 0, MinutesBetween(start, start))
	// Partial minutes truncate.
	assert.Equal(t, 1, MinutesBetween(start, start.Add(119*time.Second)))
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{60, "1:00"},
		{75, "1:15"},
		{480, "8:00"},
		{615, "10:15"},
		{-10, "0:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.minutes))
	}
}

func TestDayOf(t *testing.T) {
	got := DayOf(time.Date(2026, 4, 1, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestMonthRange(t *testing.T) {
	start, end, err := MonthRange("2026-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), end)

	// December rolls over the year.
	start, end, err = MonthRange("2026-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), start)

	_, _, err = MonthRange("2026/04")
	assert.Error(t, err)
}
