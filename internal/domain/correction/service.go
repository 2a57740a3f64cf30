package correction

import (
	"context"

	"github.com/timecardhq/timecard-backend-go/internal/domain/attendance"
)

// CorrectionService defines the correction-request approval workflow.
//
// Authorization is the caller's responsibility: handlers confirm the acting
// identity is the requester or an administrator before invoking Submit,
// Approve or the list operations.
type CorrectionService interface {
	// Submit creates a pending request for one of the user's attendance
	// records. At most one pending request may exist per record.
	Submit(ctx context.Context, req SubmitCorrectionRequest) (CorrectionResponse, error)

	// Approve applies the request's non-empty fields onto the attendance
	// record and marks the request approved. Terminal; not reentrant.
	Approve(ctx context.Context, requestID string, adminID string) (CorrectionResponse, error)

	ListPendingForUser(ctx context.Context, userID string) ([]CorrectionResponse, error)
	ListApprovedForUser(ctx context.Context, userID string) ([]CorrectionResponse, error)

	// Administrator views across all users.
	ListAllPending(ctx context.Context) ([]CorrectionResponse, error)
	ListAllApproved(ctx context.Context) ([]CorrectionResponse, error)

	// GetDetail resolves the request together with its attendance record
	// and requester identity.
	GetDetail(ctx context.Context, requestID string) (CorrectionDetailResponse, error)
}

type CorrectionDetailResponse struct {
	Request    CorrectionResponse            `json:"request"`
	Attendance attendance.AttendanceResponse `json:"attendance"`
}
