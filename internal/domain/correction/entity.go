package correction

import "time"

// RequestStatus is the correction request lifecycle state. There is no
// rejected state; a request stays pending until an administrator approves it.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
)

var statusLabels = map[RequestStatus]string{
	StatusPending:  "承認待ち",
	StatusApproved: "承認済み",
}

// Label returns the display label for the status, with a fallback for
// unrecognized values.
func (s RequestStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "不明"
}

type CorrectionRequest struct {
	ID                 string
	AttendanceID       string
	UserID             string
	RequestedStartTime *time.Time
	RequestedEndTime   *time.Time
	RequestedRemarks   string
	Status             RequestStatus
	ApprovedBy         *string
	ApprovedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// DTO
	UserName       *string
	AttendanceDate *time.Time
}

// CorrectionBreak is a proposed break interval owned by a correction
// request. On approval the owning request's breaks replace the attendance
// record's break list.
type CorrectionBreak struct {
	ID                  string
	CorrectionRequestID string
	RequestedStartTime  time.Time
	RequestedEndTime    *time.Time
}
