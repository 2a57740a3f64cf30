package correction

import (
	"time"

	"github.com/timecardhq/timecard-backend-go/internal/pkg/validator"
)

// UpdateCorrectionParams carries a partial update; only non-nil fields are
// written.
type UpdateCorrectionParams struct {
	ID         string
	Status     *RequestStatus
	ApprovedBy *string
	ApprovedAt *time.Time
}

// BreakEntry is one proposed break on a submission, times in "15:04".
// Entries with both fields empty are skipped.
type BreakEntry struct {
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

// IsEmpty reports whether both fields are absent or blank.
func (b BreakEntry) IsEmpty() bool {
	return (b.StartTime == nil || validator.IsEmpty(*b.StartTime)) &&
		(b.EndTime == nil || validator.IsEmpty(*b.EndTime))
}

type SubmitCorrectionRequest struct {
	AttendanceID string       `json:"attendance_id"`
	UserID       string       `json:"-"`
	StartTime    *string      `json:"start_time,omitempty"` // "15:04"
	EndTime      *string      `json:"end_time,omitempty"`   // "15:04"
	Remarks      string       `json:"remarks"`
	Breaks       []BreakEntry `json:"breaks,omitempty"`
}

func (r *SubmitCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	}

	if validator.IsEmpty(r.Remarks) {
		errs = append(errs, validator.ValidationError{
			Field:   "remarks",
			Message: "remarks are required",
		})
	}

	var start, end *time.Time
	if r.StartTime != nil && !validator.IsEmpty(*r.StartTime) {
		t, ok := validator.IsValidClockTime(*r.StartTime)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_time",
				Message: "start_time must be in HH:MM format",
			})
		} else {
			start = &t
		}
	}
	if r.EndTime != nil && !validator.IsEmpty(*r.EndTime) {
		t, ok := validator.IsValidClockTime(*r.EndTime)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_time",
				Message: "end_time must be in HH:MM format",
			})
		} else {
			end = &t
		}
	}
	if start != nil && end != nil && !end.After(*start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be after start_time",
		})
	}

	openBreaks := 0
	for _, b := range r.Breaks {
		if b.IsEmpty() {
			continue
		}
		if b.StartTime == nil || validator.IsEmpty(*b.StartTime) {
			errs = append(errs, validator.ValidationError{
				Field:   "breaks",
				Message: "break start_time is required when an end_time is given",
			})
			continue
		}
		bs, ok := validator.IsValidClockTime(*b.StartTime)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "breaks",
				Message: "break start_time must be in HH:MM format",
			})
			continue
		}
		if b.EndTime == nil || validator.IsEmpty(*b.EndTime) {
			// An attendance record may carry at most one open break.
			openBreaks++
			if openBreaks == 2 {
				errs = append(errs, validator.ValidationError{
					Field:   "breaks",
					Message: "at most one break may be left without an end_time",
				})
			}
			continue
		}
		be, ok := validator.IsValidClockTime(*b.EndTime)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "breaks",
				Message: "break end_time must be in HH:MM format",
			})
			continue
		}
		if !be.After(bs) {
			errs = append(errs, validator.ValidationError{
				Field:   "breaks",
				Message: "break end_time must be after break start_time",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CorrectionBreakResponse struct {
	ID        string  `json:"id"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time,omitempty"`
}

type CorrectionResponse struct {
	ID                 string                    `json:"id"`
	AttendanceID       string                    `json:"attendance_id"`
	UserID             string                    `json:"user_id"`
	UserName           *string                   `json:"user_name,omitempty"`
	Date               *string                   `json:"date,omitempty"`
	RequestedStartTime *string                   `json:"requested_start_time,omitempty"`
	RequestedEndTime   *string                   `json:"requested_end_time,omitempty"`
	RequestedRemarks   string                    `json:"requested_remarks"`
	Status             string                    `json:"status"`
	StatusLabel        string                    `json:"status_label"`
	ApprovedBy         *string                   `json:"approved_by,omitempty"`
	ApprovedAt         *string                   `json:"approved_at,omitempty"`
	CreatedAt          string                    `json:"created_at"`
	Breaks             []CorrectionBreakResponse `json:"breaks,omitempty"`
}
