package attendance

import (
	"time"

	"github.com/timecardhq/timecard-backend-go/internal/pkg/timeutil"
)

type Attendance struct {
	ID        string
	UserID    string
	Date      time.Time
	StartTime *time.Time
	EndTime   *time.Time
	Status    Status
	Remarks   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	UserName *string
}

type BreakInterval struct {
	ID           string
	AttendanceID string
	StartTime    time.Time
	EndTime      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOpen reports whether the break has not been ended yet.
func (b BreakInterval) IsOpen() bool {
	return b.EndTime == nil
}

// TotalBreakMinutes sums the whole minutes of all closed breaks.
// Open breaks are ignored.
func TotalBreakMinutes(breaks []BreakInterval) int {
	total := 0
	for _, b := range breaks {
		if b.EndTime == nil {
			continue
		}
		total += timeutil.MinutesBetween(b.StartTime, *b.EndTime)
	}
	return total
}

// WorkedMinutes returns the attendance span minus closed break time.
// It is nil unless both start and end time are set.
func (a Attendance) WorkedMinutes(breaks []BreakInterval) *int {
	if a.StartTime == nil || a.EndTime == nil {
		return nil
	}
	worked := timeutil.MinutesBetween(*a.StartTime, *a.EndTime) - TotalBreakMinutes(breaks)
	return &worked
}
