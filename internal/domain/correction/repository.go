package correction

import (
	"context"
)

// CorrectionRequestRepository defines data access for correction requests
// and their proposed break intervals.
type CorrectionRequestRepository interface {
	Create(ctx context.Context, req CorrectionRequest) (CorrectionRequest, error)

	CreateBreak(ctx context.Context, b CorrectionBreak) (CorrectionBreak, error)

	GetByID(ctx context.Context, id string) (CorrectionRequest, error)

	ListBreaks(ctx context.Context, requestID string) ([]CorrectionBreak, error)

	// HasPendingByAttendanceID reports whether a pending request exists for
	// the attendance record. Enforces the one-pending-per-record rule.
	HasPendingByAttendanceID(ctx context.Context, attendanceID string) (bool, error)

	// ListByUserAndStatus returns the user's requests in the given status,
	// newest first.
	ListByUserAndStatus(ctx context.Context, userID string, status RequestStatus) ([]CorrectionRequest, error)

	// ListByStatus returns all users' requests in the given status, newest
	// first. Administrator views only.
	ListByStatus(ctx context.Context, status RequestStatus) ([]CorrectionRequest, error)

	// Update applies the non-nil fields of params to an existing request.
	Update(ctx context.Context, params UpdateCorrectionParams) error
}
