// Package mocks provides hand-written in-memory implementations of the
// repository interfaces for service tests. They mirror the behavior the
// PostgreSQL repositories promise, including the sentinel errors.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/timecardhq/timecard-backend-go/internal/domain/attendance"
	"github.com/timecardhq/timecard-backend-go/internal/domain/correction"
	"github.com/timecardhq/timecard-backend-go/internal/domain/user"
)

// TxManager runs the callback directly. Services only rely on the callback
// being executed once with a usable context.
type TxManager struct {
	Calls int
}

func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

type AttendanceRepository struct {
	Records map[string]*attendance.Attendance
	nextID  int
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{Records: make(map[string]*attendance.Attendance)}
}

func (r *AttendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	for _, existing := range r.Records {
		if existing.UserID == att.UserID && existing.Date.Equal(att.Date) {
			return attendance.Attendance{}, attendance.ErrDuplicateRecord
		}
	}
	r.nextID++
	att.ID = fmt.Sprintf("att-%d", r.nextID)
	stored := att
	r.Records[att.ID] = &stored
	return att, nil
}

func (r *AttendanceRepository) Update(ctx context.Context, params attendance.UpdateAttendanceParams) error {
	att, ok := r.Records[params.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	if params.StartTime != nil {
		att.StartTime = params.StartTime
	}
	if params.EndTime != nil {
		att.EndTime = params.EndTime
	}
	if params.Status != nil {
		att.Status = *params.Status
	}
	if params.Remarks != nil {
		att.Remarks = *params.Remarks
	}
	return nil
}

func (r *AttendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	att, ok := r.Records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return *att, nil
}

func (r *AttendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	for _, att := range r.Records {
		if att.UserID == userID && att.Date.Equal(date) {
			copied := *att
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *AttendanceRepository) ListByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]attendance.Attendance, error) {
	var result []attendance.Attendance
	for _, att := range r.Records {
		if att.UserID == userID && !att.Date.Before(start) && att.Date.Before(end) {
			result = append(result, *att)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (r *AttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	var result []attendance.Attendance
	for _, att := range r.Records {
		if att.Date.Equal(date) {
			result = append(result, *att)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		ni, nj := "", ""
		if result[i].UserName != nil {
			ni = *result[i].UserName
		}
		if result[j].UserName != nil {
			nj = *result[j].UserName
		}
		return ni < nj
	})
	return result, nil
}

type BreakRepository struct {
	Intervals map[string]*attendance.BreakInterval
	nextID    int
}

func NewBreakRepository() *BreakRepository {
	return &BreakRepository{Intervals: make(map[string]*attendance.BreakInterval)}
}

func (r *BreakRepository) Create(ctx context.Context, interval attendance.BreakInterval) (attendance.BreakInterval, error) {
	r.nextID++
	interval.ID = fmt.Sprintf("brk-%d", r.nextID)
	stored := interval
	r.Intervals[interval.ID] = &stored
	return interval, nil
}

func (r *BreakRepository) Close(ctx context.Context, id string, endTime time.Time) error {
	interval, ok := r.Intervals[id]
	if !ok {
		return attendance.ErrNoOpenBreak
	}
	interval.EndTime = &endTime
	return nil
}

func (r *BreakRepository) ListByAttendanceID(ctx context.Context, attendanceID string) ([]attendance.BreakInterval, error) {
	var result []attendance.BreakInterval
	for _, interval := range r.Intervals {
		if interval.AttendanceID == attendanceID {
			result = append(result, *interval)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (r *BreakRepository) GetOpenByAttendanceID(ctx context.Context, attendanceID string) (*attendance.BreakInterval, error) {
	for _, interval := range r.Intervals {
		if interval.AttendanceID == attendanceID && interval.EndTime == nil {
			copied := *interval
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *BreakRepository) DeleteByAttendanceID(ctx context.Context, attendanceID string) error {
	for id, interval := range r.Intervals {
		if interval.AttendanceID == attendanceID {
			delete(r.Intervals, id)
		}
	}
	return nil
}

type CorrectionRepository struct {
	Requests map[string]*correction.CorrectionRequest
	Breaks   map[string]*correction.CorrectionBreak
	nextID   int

	// Attendances resolves the date shown on list responses, matching the
	// join the SQL repository performs.
	Attendances *AttendanceRepository
}

func NewCorrectionRepository(attendances *AttendanceRepository) *CorrectionRepository {
	return &CorrectionRepository{
		Requests:    make(map[string]*correction.CorrectionRequest),
		Breaks:      make(map[string]*correction.CorrectionBreak),
		Attendances: attendances,
	}
}

func (r *CorrectionRepository) Create(ctx context.Context, req correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	if req.Status == correction.StatusPending {
		for _, existing := range r.Requests {
			if existing.AttendanceID == req.AttendanceID && existing.Status == correction.StatusPending {
				return correction.CorrectionRequest{}, correction.ErrDuplicatePendingRequest
			}
		}
	}
	r.nextID++
	req.ID = fmt.Sprintf("cor-%d", r.nextID)
	req.CreatedAt = time.Now()
	stored := req
	r.Requests[req.ID] = &stored
	return req, nil
}

func (r *CorrectionRepository) CreateBreak(ctx context.Context, b correction.CorrectionBreak) (correction.CorrectionBreak, error) {
	r.nextID++
	b.ID = fmt.Sprintf("corbrk-%d", r.nextID)
	stored := b
	r.Breaks[b.ID] = &stored
	return b, nil
}

func (r *CorrectionRepository) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	req, ok := r.Requests[id]
	if !ok {
		return correction.CorrectionRequest{}, correction.ErrRequestNotFound
	}
	resolved := *req
	r.resolve(&resolved)
	return resolved, nil
}

func (r *CorrectionRepository) ListBreaks(ctx context.Context, requestID string) ([]correction.CorrectionBreak, error) {
	var result []correction.CorrectionBreak
	for _, b := range r.Breaks {
		if b.CorrectionRequestID == requestID {
			result = append(result, *b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestedStartTime.Before(result[j].RequestedStartTime)
	})
	return result, nil
}

func (r *CorrectionRepository) HasPendingByAttendanceID(ctx context.Context, attendanceID string) (bool, error) {
	for _, req := range r.Requests {
		if req.AttendanceID == attendanceID && req.Status == correction.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *CorrectionRepository) ListByUserAndStatus(ctx context.Context, userID string, status correction.RequestStatus) ([]correction.CorrectionRequest, error) {
	var result []correction.CorrectionRequest
	for _, req := range r.Requests {
		if req.UserID == userID && req.Status == status {
			resolved := *req
			r.resolve(&resolved)
			result = append(result, resolved)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *CorrectionRepository) ListByStatus(ctx context.Context, status correction.RequestStatus) ([]correction.CorrectionRequest, error) {
	var result []correction.CorrectionRequest
	for _, req := range r.Requests {
		if req.Status == status {
			resolved := *req
			r.resolve(&resolved)
			result = append(result, resolved)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *CorrectionRepository) Update(ctx context.Context, params correction.UpdateCorrectionParams) error {
	req, ok := r.Requests[params.ID]
	if !ok {
		return correction.ErrRequestNotFound
	}
	if params.Status != nil {
		req.Status = *params.Status
	}
	if params.ApprovedBy != nil {
		req.ApprovedBy = params.ApprovedBy
	}
	if params.ApprovedAt != nil {
		req.ApprovedAt = params.ApprovedAt
	}
	return nil
}

func (r *CorrectionRepository) resolve(req *correction.CorrectionRequest) {
	if r.Attendances == nil {
		return
	}
	if att, ok := r.Attendances.Records[req.AttendanceID]; ok {
		date := att.Date
		req.AttendanceDate = &date
	}
}

type UserRepository struct {
	Users map[string]*user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{Users: make(map[string]*user.User)}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range r.Users {
		if u.Email == email {
			return *u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.Users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return *u, nil
}

func (r *UserRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	for _, u := range r.Users {
		if u.Email == newUser.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	if newUser.ID == "" {
		newUser.ID = fmt.Sprintf("usr-%d", len(r.Users)+1)
	}
	stored := newUser
	r.Users[newUser.ID] = &stored
	return newUser, nil
}
