package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
// Records are unique per (user_id, date); Create must surface a violation
// of that constraint as ErrDuplicateRecord so callers can retry as update.
type AttendanceRepository interface {
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// Update applies the non-nil fields of params to an existing record.
	Update(ctx context.Context, params UpdateAttendanceParams) error

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate returns nil when the user has no record for the day.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// ListByUserAndDateRange returns records with start <= date < end,
	// ordered by date ascending.
	ListByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]Attendance, error)

	// ListByDate returns all users' records for one day with user names
	// resolved, ordered by user name.
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)
}

// BreakRepository defines data access for break intervals.
type BreakRepository interface {
	Create(ctx context.Context, interval BreakInterval) (BreakInterval, error)

	// Close sets the end time of an open interval.
	Close(ctx context.Context, id string, endTime time.Time) error

	ListByAttendanceID(ctx context.Context, attendanceID string) ([]BreakInterval, error)

	// GetOpenByAttendanceID returns nil when no interval is open.
	GetOpenByAttendanceID(ctx context.Context, attendanceID string) (*BreakInterval, error)

	// DeleteByAttendanceID removes all intervals of an attendance record.
	// Used when an approved correction replaces the break list.
	DeleteByAttendanceID(ctx context.Context, attendanceID string) error
}
