package attendance

import (
	"time"
)

// UpdateAttendanceParams carries a partial update; only non-nil fields are
// written. Status changes always travel together with the time fields that
// justify them.
type UpdateAttendanceParams struct {
	ID        string
	StartTime *time.Time
	EndTime   *time.Time
	Status    *Status
	Remarks   *string
}

type BreakResponse struct {
	ID        string  `json:"id"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time,omitempty"`
}

type AttendanceResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	UserName      *string         `json:"user_name,omitempty"`
	Date          string          `json:"date"`
	StartTime     *string         `json:"start_time,omitempty"`
	EndTime       *string         `json:"end_time,omitempty"`
	Status        string          `json:"status"`
	StatusLabel   string          `json:"status_label"`
	Remarks       string          `json:"remarks"`
	Breaks        []BreakResponse `json:"breaks"`
	BreakMinutes  int             `json:"break_minutes"`
	BreakTime     string          `json:"break_time"`
	WorkedMinutes *int            `json:"worked_minutes,omitempty"`
	WorkedTime    *string         `json:"worked_time,omitempty"`
}

type StatusResponse struct {
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
}
