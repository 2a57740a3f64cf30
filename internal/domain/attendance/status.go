package attendance

import "fmt"

// Status is the persisted attendance lifecycle state. It is derived from
// the presence of start/end times and break activity, but stored explicitly
// and kept in sync on every write path.
type Status string

const (
	StatusNotWorking Status = "not_working"
	StatusWorking    Status = "working"
	StatusOnBreak    Status = "on_break"
	StatusFinished   Status = "finished"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNotWorking, StatusWorking, StatusOnBreak, StatusFinished:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown attendance status %q", s)
}

const labelUnknown = "不明"

var statusLabels = map[Status]string{
	StatusNotWorking: "勤務外",
	StatusWorking:    "出勤中",
	StatusOnBreak:    "休憩中",
	StatusFinished:   "退勤済",
}

// Label returns the display label for the status. Unrecognized values get
// a fallback label instead of an error.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return labelUnknown
}
