package correction

import (
	"context"
	"fmt"
	"time"

	"github.com/timecardhq/timecard-backend-go/internal/domain/attendance"
	"github.com/timecardhq/timecard-backend-go/internal/domain/correction"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/clock"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/database"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/timeutil"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/validator"
)

type CorrectionServiceImpl struct {
	txm database.TxManager
	correction.CorrectionRequestRepository
	attendanceRepo attendance.AttendanceRepository
	breakRepo      attendance.BreakRepository
	clock          clock.Clock
}

// Submit implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Submit(ctx context.Context, req correction.SubmitCorrectionRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	att, err := s.attendanceRepo.GetByID(ctx, req.AttendanceID)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	hasPending, err := s.HasPendingByAttendanceID(ctx, att.ID)
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to check for pending correction request: %w", err)
	}
	if hasPending {
		return correction.CorrectionResponse{}, correction.ErrDuplicatePendingRequest
	}

	entity := correction.CorrectionRequest{
		AttendanceID:       att.ID,
		UserID:             req.UserID,
		RequestedStartTime: combineClockTime(att.Date, req.StartTime),
		RequestedEndTime:   combineClockTime(att.Date, req.EndTime),
		RequestedRemarks:   req.Remarks,
		Status:             correction.StatusPending,
	}

	var created correction.CorrectionRequest
	var breaks []correction.CorrectionBreak
	err = s.txm.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err = s.CorrectionRequestRepository.Create(txCtx, entity)
		if err != nil {
			return fmt.Errorf("failed to create correction request: %w", err)
		}

		for _, entry := range req.Breaks {
			if entry.IsEmpty() {
				continue
			}
			b, err := s.CorrectionRequestRepository.CreateBreak(txCtx, correction.CorrectionBreak{
				CorrectionRequestID: created.ID,
				RequestedStartTime:  *combineClockTime(att.Date, entry.StartTime),
				RequestedEndTime:    combineClockTime(att.Date, entry.EndTime),
			})
			if err != nil {
				return fmt.Errorf("failed to create correction request break: %w", err)
			}
			breaks = append(breaks, b)
		}
		return nil
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	created.AttendanceDate = &att.Date
	return mapCorrectionToResponse(created, breaks), nil
}

// Approve implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Approve(ctx context.Context, requestID string, adminID string) (correction.CorrectionResponse, error) {
	req, err := s.CorrectionRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	if req.Status != correction.StatusPending {
		return correction.CorrectionResponse{}, correction.ErrNotPending
	}

	breaks, err := s.CorrectionRequestRepository.ListBreaks(ctx, req.ID)
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to list correction request breaks: %w", err)
	}

	att, err := s.attendanceRepo.GetByID(ctx, req.AttendanceID)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	status, err := s.statusAfterCorrection(ctx, att, req, breaks)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	approvedAt := s.clock.Now()

	err = s.txm.WithinTransaction(ctx, func(txCtx context.Context) error {
		remarks := req.RequestedRemarks
		if err := s.attendanceRepo.Update(txCtx, attendance.UpdateAttendanceParams{
			ID:        req.AttendanceID,
			StartTime: req.RequestedStartTime,
			EndTime:   req.RequestedEndTime,
			Status:    &status,
			Remarks:   &remarks,
		}); err != nil {
			return fmt.Errorf("failed to apply correction to attendance: %w", err)
		}

		// Proposed breaks replace the record's break list. A request with no
		// breaks leaves the existing intervals alone.
		if len(breaks) > 0 {
			if err := s.breakRepo.DeleteByAttendanceID(txCtx, req.AttendanceID); err != nil {
				return fmt.Errorf("failed to clear break intervals: %w", err)
			}
			for _, b := range breaks {
				if _, err := s.breakRepo.Create(txCtx, attendance.BreakInterval{
					AttendanceID: req.AttendanceID,
					StartTime:    b.RequestedStartTime,
					EndTime:      b.RequestedEndTime,
				}); err != nil {
					return fmt.Errorf("failed to create break interval: %w", err)
				}
			}
		}

		status := correction.StatusApproved
		if err := s.CorrectionRequestRepository.Update(txCtx, correction.UpdateCorrectionParams{
			ID:         req.ID,
			Status:     &status,
			ApprovedBy: &adminID,
			ApprovedAt: &approvedAt,
		}); err != nil {
			return fmt.Errorf("failed to update correction request: %w", err)
		}
		return nil
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	req.Status = correction.StatusApproved
	req.ApprovedBy = &adminID
	req.ApprovedAt = &approvedAt
	return mapCorrectionToResponse(req, breaks), nil
}

// ListPendingForUser implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListPendingForUser(ctx context.Context, userID string) ([]correction.CorrectionResponse, error) {
	requests, err := s.CorrectionRequestRepository.ListByUserAndStatus(ctx, userID, correction.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending correction requests: %w", err)
	}
	return s.toResponses(ctx, requests)
}

// ListApprovedForUser implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListApprovedForUser(ctx context.Context, userID string) ([]correction.CorrectionResponse, error) {
	requests, err := s.CorrectionRequestRepository.ListByUserAndStatus(ctx, userID, correction.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved correction requests: %w", err)
	}
	return s.toResponses(ctx, requests)
}

// ListAllPending implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListAllPending(ctx context.Context) ([]correction.CorrectionResponse, error) {
	requests, err := s.CorrectionRequestRepository.ListByStatus(ctx, correction.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending correction requests: %w", err)
	}
	return s.toResponses(ctx, requests)
}

// ListAllApproved implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListAllApproved(ctx context.Context) ([]correction.CorrectionResponse, error) {
	requests, err := s.CorrectionRequestRepository.ListByStatus(ctx, correction.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved correction requests: %w", err)
	}
	return s.toResponses(ctx, requests)
}

// GetDetail implements correction.CorrectionService.
func (s *CorrectionServiceImpl) GetDetail(ctx context.Context, requestID string) (correction.CorrectionDetailResponse, error) {
	req, err := s.CorrectionRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return correction.CorrectionDetailResponse{}, err
	}

	breaks, err := s.CorrectionRequestRepository.ListBreaks(ctx, req.ID)
	if err != nil {
		return correction.CorrectionDetailResponse{}, fmt.Errorf("failed to list correction request breaks: %w", err)
	}

	att, err := s.attendanceRepo.GetByID(ctx, req.AttendanceID)
	if err != nil {
		return correction.CorrectionDetailResponse{}, err
	}
	attBreaks, err := s.breakRepo.ListByAttendanceID(ctx, att.ID)
	if err != nil {
		return correction.CorrectionDetailResponse{}, fmt.Errorf("failed to list break intervals: %w", err)
	}

	return correction.CorrectionDetailResponse{
		Request:    mapCorrectionToResponse(req, breaks),
		Attendance: mapAttendanceToResponse(att, attBreaks),
	}, nil
}

// statusAfterCorrection derives the status the attendance record must carry
// once the request's fields and break list are applied. Status is persisted,
// so every write path keeps it in sync with the times that justify it.
func (s *CorrectionServiceImpl) statusAfterCorrection(
	ctx context.Context,
	att attendance.Attendance,
	req correction.CorrectionRequest,
	breaks []correction.CorrectionBreak,
) (attendance.Status, error) {
	startTime := att.StartTime
	if req.RequestedStartTime != nil {
		startTime = req.RequestedStartTime
	}
	endTime := att.EndTime
	if req.RequestedEndTime != nil {
		endTime = req.RequestedEndTime
	}

	hasOpenBreak := false
	if len(breaks) > 0 {
		for _, b := range breaks {
			if b.RequestedEndTime == nil {
				hasOpenBreak = true
			}
		}
	} else {
		intervals, err := s.breakRepo.ListByAttendanceID(ctx, att.ID)
		if err != nil {
			return "", fmt.Errorf("failed to list break intervals: %w", err)
		}
		for _, interval := range intervals {
			if interval.IsOpen() {
				hasOpenBreak = true
			}
		}
	}

	switch {
	case endTime != nil:
		return attendance.StatusFinished, nil
	case hasOpenBreak:
		return attendance.StatusOnBreak, nil
	case startTime != nil:
		return attendance.StatusWorking, nil
	}
	return attendance.StatusNotWorking, nil
}

func (s *CorrectionServiceImpl) toResponses(ctx context.Context, requests []correction.CorrectionRequest) ([]correction.CorrectionResponse, error) {
	responses := make([]correction.CorrectionResponse, 0, len(requests))
	for _, req := range requests {
		breaks, err := s.CorrectionRequestRepository.ListBreaks(ctx, req.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list correction request breaks: %w", err)
		}
		responses = append(responses, mapCorrectionToResponse(req, breaks))
	}
	return responses, nil
}

// combineClockTime merges an "15:04" string with a calendar day. Nil and
// blank inputs stay nil.
func combineClockTime(date time.Time, clockStr *string) *time.Time {
	if clockStr == nil || validator.IsEmpty(*clockStr) {
		return nil
	}
	t, ok := validator.IsValidClockTime(*clockStr)
	if !ok {
		return nil
	}
	combined := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return &combined
}

func timePtrToClockString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("15:04")
	return &format
}

func mapCorrectionToResponse(req correction.CorrectionRequest, breaks []correction.CorrectionBreak) correction.CorrectionResponse {
	breakResponses := make([]correction.CorrectionBreakResponse, 0, len(breaks))
	for _, b := range breaks {
		breakResponses = append(breakResponses, correction.CorrectionBreakResponse{
			ID:        b.ID,
			StartTime: b.RequestedStartTime.Format("15:04"),
			EndTime:   timePtrToClockString(b.RequestedEndTime),
		})
	}

	var date *string
	if req.AttendanceDate != nil {
		formatted := req.AttendanceDate.Format("2006-01-02")
		date = &formatted
	}

	var approvedAt *string
	if req.ApprovedAt != nil {
		formatted := req.ApprovedAt.Format(time.RFC3339)
		approvedAt = &formatted
	}

	return correction.CorrectionResponse{
		ID:                 req.ID,
		AttendanceID:       req.AttendanceID,
		UserID:             req.UserID,
		UserName:           req.UserName,
		Date:               date,
		RequestedStartTime: timePtrToClockString(req.RequestedStartTime),
		RequestedEndTime:   timePtrToClockString(req.RequestedEndTime),
		RequestedRemarks:   req.RequestedRemarks,
		Status:             string(req.Status),
		StatusLabel:        req.Status.Label(),
		ApprovedBy:         req.ApprovedBy,
		ApprovedAt:         approvedAt,
		CreatedAt:          req.CreatedAt.Format(time.RFC3339),
		Breaks:             breakResponses,
	}
}

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

func NewCorrectionService(
	txm database.TxManager,
	correctionRepo correction.CorrectionRequestRepository,
	attendanceRepo attendance.AttendanceRepository,
	breakRepo attendance.BreakRepository,
	clk clock.Clock,
) correction.CorrectionService {
	return &CorrectionServiceImpl{
		txm:                         txm,
		CorrectionRequestRepository: correctionRepo,
		attendanceRepo:              attendanceRepo,
		breakRepo:                   breakRepo,
		clock:                       clk,
	}
}
