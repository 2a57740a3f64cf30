package attendance

import "errors"

// Attendance domain errors
var (
	// Clock-in/out errors
	ErrAlreadyClockedIn  = errors.New("you have already clocked in today")
	ErrNoClockInRecord   = errors.New("you have not clocked in yet")
	ErrAlreadyClockedOut = errors.New("you have already clocked out")
	ErrOnBreak           = errors.New("you must end your break before clocking out")

	// Break errors
	ErrNotWorking  = errors.New("you can only start a break while working")
	ErrNotOnBreak  = errors.New("you are not on break")
	ErrNoOpenBreak = errors.New("no open break interval found")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrDuplicateRecord    = errors.New("attendance record already exists for this day")
)
