package correction

import "errors"

// Correction request domain errors
var (
	ErrRequestNotFound         = errors.New("correction request not found")
	ErrDuplicatePendingRequest = errors.New("a pending correction request already exists for this attendance record")
	ErrNotPending              = errors.New("correction request has already been approved")
)
