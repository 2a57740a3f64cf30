package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timecardhq/timecard-backend-go/internal/domain/attendance"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/clock"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/database"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/timeutil"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	txm database.TxManager
	attendance.AttendanceRepository
	attendance.BreakRepository
	clock clock.Clock
}

// timePtrToClockString safely converts a *time.Time to an "15:04" string.
func timePtrToClockString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("15:04")
	return &format
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := s.clock.Now()
	today := timeutil.DayOf(now)

	existing, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if existing != nil && existing.StartTime != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
	}

	if existing == nil {
		created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
			UserID:    userID,
			Date:      today,
			StartTime: &now,
			Status:    attendance.StatusWorking,
		})
		if err == nil {
			return s.toResponse(ctx, created)
		}
		if !errors.Is(err, attendance.ErrDuplicateRecord) {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
		}

		// A concurrent clock-in won the insert. Re-read and fall through to
		// the update path, which re-checks the start time.
		existing, err = s.AttendanceRepository.GetByUserAndDate(ctx, userID, today)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to re-read today's attendance: %w", err)
		}
		if existing == nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("attendance record vanished after duplicate insert")
		}
		if existing.StartTime != nil {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
		}
	}

	status := attendance.StatusWorking
	if err := s.AttendanceRepository.Update(ctx, attendance.UpdateAttendanceParams{
		ID:        existing.ID,
		StartTime: &now,
		Status:    &status,
	}); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	existing.StartTime = &now
	existing.Status = status
	return s.toResponse(ctx, *existing)
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := s.clock.Now()

	att, err := s.todaysRecord(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if att == nil || att.StartTime == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoClockInRecord
	}
	if att.EndTime != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
	}
	if att.Status == attendance.StatusOnBreak {
		return attendance.AttendanceResponse{}, attendance.ErrOnBreak
	}

	status := attendance.StatusFinished
	if err := s.AttendanceRepository.Update(ctx, attendance.UpdateAttendanceParams{
		ID:      att.ID,
		EndTime: &now,
		Status:  &status,
	}); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	att.EndTime = &now
	att.Status = status
	return s.toResponse(ctx, *att)
}

// StartBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := s.clock.Now()

	att, err := s.todaysRecord(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if att == nil || att.Status != attendance.StatusWorking {
		return attendance.AttendanceResponse{}, attendance.ErrNotWorking
	}

	// The break row and the status change must land together.
	err = s.txm.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.BreakRepository.Create(txCtx, attendance.BreakInterval{
			AttendanceID: att.ID,
			StartTime:    now,
		}); err != nil {
			return fmt.Errorf("failed to create break interval: %w", err)
		}

		status := attendance.StatusOnBreak
		if err := s.AttendanceRepository.Update(txCtx, attendance.UpdateAttendanceParams{
			ID:     att.ID,
			Status: &status,
		}); err != nil {
			return fmt.Errorf("failed to update attendance status: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att.Status = attendance.StatusOnBreak
	return s.toResponse(ctx, *att)
}

// EndBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := s.clock.Now()

	att, err := s.todaysRecord(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if att == nil || att.Status != attendance.StatusOnBreak {
		return attendance.AttendanceResponse{}, attendance.ErrNotOnBreak
	}

	open, err := s.BreakRepository.GetOpenByAttendanceID(ctx, att.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open break interval: %w", err)
	}
	if open == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoOpenBreak
	}

	err = s.txm.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.BreakRepository.Close(txCtx, open.ID, now); err != nil {
			return fmt.Errorf("failed to close break interval: %w", err)
		}

		status := attendance.StatusWorking
		if err := s.AttendanceRepository.Update(txCtx, attendance.UpdateAttendanceParams{
			ID:     att.ID,
			Status: &status,
		}); err != nil {
			return fmt.Errorf("failed to update attendance status: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att.Status = attendance.StatusWorking
	return s.toResponse(ctx, *att)
}

// CurrentStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CurrentStatus(ctx context.Context, userID string) (attendance.StatusResponse, error) {
	att, err := s.todaysRecord(ctx, userID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	status := attendance.StatusNotWorking
	if att != nil {
		status = att.Status
	}

	return attendance.StatusResponse{
		Status:      string(status),
		StatusLabel: status.Label(),
	}, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	att, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return s.toResponse(ctx, att)
}

// GetMonthlyAttendances implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMonthlyAttendances(ctx context.Context, userID string, yearMonth string) ([]attendance.AttendanceResponse, error) {
	if _, ok := validator.IsValidYearMonth(yearMonth); !ok {
		return nil, validator.ValidationErrors{{
			Field:   "year_month",
			Message: "year_month must be in YYYY-MM format",
		}}
	}

	start, end, err := timeutil.MonthRange(yearMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve month range: %w", err)
	}

	attendances, err := s.AttendanceRepository.ListByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly attendances: %w", err)
	}

	return s.toResponses(ctx, attendances)
}

// GetAttendancesForDate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendancesForDate(ctx context.Context, date string) ([]attendance.AttendanceResponse, error) {
	day, ok := validator.IsValidDate(date)
	if !ok {
		return nil, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	attendances, err := s.AttendanceRepository.ListByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances for date: %w", err)
	}

	return s.toResponses(ctx, attendances)
}

func (s *AttendanceServiceImpl) todaysRecord(ctx context.Context, userID string) (*attendance.Attendance, error) {
	today := timeutil.DayOf(s.clock.Now())
	att, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	return att, nil
}

func (s *AttendanceServiceImpl) toResponse(ctx context.Context, att attendance.Attendance) (attendance.AttendanceResponse, error) {
	breaks, err := s.BreakRepository.ListByAttendanceID(ctx, att.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to list break intervals: %w", err)
	}
	return mapAttendanceToResponse(att, breaks), nil
}

func (s *AttendanceServiceImpl) toResponses(ctx context.Context, attendances []attendance.Attendance) ([]attendance.AttendanceResponse, error) {
	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		resp, err := s.toResponse(ctx, att)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// mapAttendanceToResponse converts an Attendance entity and its breaks to
// an AttendanceResponse with derived minute totals.
func mapAttendanceToResponse(att attendance.Attendance, breaks []attendance.BreakInterval) attendance.AttendanceResponse {
	breakResponses := make([]attendance.BreakResponse, 0, len(breaks))
	for _, b := range breaks {
		breakResponses = append(breakResponses, attendance.BreakResponse{
			ID:        b.ID,
			StartTime: b.StartTime.Format("15:04"),
			EndTime:   timePtrToClockString(b.EndTime),
		})
	}

	breakMinutes := attendance.TotalBreakMinutes(breaks)

	var workedTime *string
	workedMinutes := att.WorkedMinutes(breaks)
	if workedMinutes != nil {
		formatted := timeutil.FormatMinutes(*workedMinutes)
		workedTime = &formatted
	}

	return attendance.AttendanceResponse{
		ID:            att.ID,
		UserID:        att.UserID,
		UserName:      att.UserName,
		Date:          att.Date.Format("2006-01-02"),
		StartTime:     timePtrToClockString(att.StartTime),
		EndTime:       timePtrToClockString(att.EndTime),
		Status:        string(att.Status),
		StatusLabel:   att.Status.Label(),
		Remarks:       att.Remarks,
		Breaks:        breakResponses,
		BreakMinutes:  breakMinutes,
		BreakTime:     timeutil.FormatMinutes(breakMinutes),
		WorkedMinutes: workedMinutes,
		WorkedTime:    workedTime,
	}
}

func NewAttendanceService(
	txm database.TxManager,
	attendanceRepo attendance.AttendanceRepository,
	breakRepo attendance.BreakRepository,
	clk clock.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		txm:                  txm,
		AttendanceRepository: attendanceRepo,
		BreakRepository:      breakRepo,
		clock:                clk,
	}
}
