package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "勤務外", StatusNotWorking.Label())
	assert.Equal(t, "出勤中", StatusWorking.Label())
	assert.Equal(t, "休憩中", StatusOnBreak.Label())
	assert.Equal(t, "退勤済", StatusFinished.Label())
	assert.Equal(t, "不明", Status("bogus").Label())
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"not_working", "working", "on_break", "finished"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, string(status))
	}

	_, err := ParseStatus("WORKING")
	assert.Error(t, err)
}

func TestTotalBreakMinutes(t *testing.T) {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	end1 := base.Add(45 * time.Minute)
	end2 := base.Add(3*time.Hour + 30*time.Minute)

	breaks := []BreakInterval{
		{StartTime: base, EndTime: &end1},
		{StartTime: base.Add(3 * time.Hour), EndTime: &end2},
		{StartTime: base.Add(5 * time.Hour)}, // still open
	}

	assert.Equal(t, 75, TotalBreakMinutes(breaks))
	assert.Equal(t, 0, TotalBreakMinutes(nil))
}

func TestWorkedMinutes(t *testing.T) {
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(9 * time.Hour)
	breakEnd := start.Add(4 * time.Hour)

	att := Attendance{StartTime: &start, EndTime: &end}
	breaks := []BreakInterval{
		{StartTime: start.Add(3 * time.Hour), EndTime: &breakEnd},
	}

	worked := att.WorkedMinutes(breaks)
	require.NotNil(t, worked)
	assert.Equal(t, 480, *worked)

	assert.Nil(t, Attendance{StartTime: &start}.WorkedMinutes(nil))
	assert.Nil(t, Attendance{}.WorkedMinutes(nil))
}

func TestBreakIntervalIsOpen(t *testing.T) {
	now := time.Now()
	assert.True(t, BreakInterval{StartTime: now}.IsOpen())
	assert.False(t, BreakInterval{StartTime: now, EndTime: &now}.IsOpen())
}
