package attendance

import (
	"context"
)

// AttendanceService defines the clock-in/out and break lifecycle.
//
// The acting user is always passed explicitly; services never read identity
// from ambient state.
type AttendanceService interface {
	// ClockIn opens today's attendance record for the user.
	ClockIn(ctx context.Context, userID string) (AttendanceResponse, error)

	// ClockOut finishes today's record. Fails while a break is open.
	ClockOut(ctx context.Context, userID string) (AttendanceResponse, error)

	// StartBreak opens a break interval and moves the record to on_break.
	StartBreak(ctx context.Context, userID string) (AttendanceResponse, error)

	// EndBreak closes the open break interval and moves back to working.
	EndBreak(ctx context.Context, userID string) (AttendanceResponse, error)

	// CurrentStatus returns not_working when the user has no record today.
	CurrentStatus(ctx context.Context, userID string) (StatusResponse, error)

	// GetAttendance returns one record with its breaks.
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// GetMonthlyAttendances returns the user's records for yearMonth
	// ("2006-01"), one entry per recorded day.
	GetMonthlyAttendances(ctx context.Context, userID string, yearMonth string) ([]AttendanceResponse, error)

	// GetAttendancesForDate returns all users' records for one day.
	GetAttendancesForDate(ctx context.Context, date string) ([]AttendanceResponse, error)
}
