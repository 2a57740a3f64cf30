package correction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timecardhq/timecard-backend-go/internal/domain/attendance"
	domain "github.com/timecardhq/timecard-backend-go/internal/domain/correction"
	"github.com/timecardhq/timecard-backend-go/internal/mocks"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/clock"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/validator"
)

type fixture struct {
	svc            domain.CorrectionService
	corrections    *mocks.CorrectionRepository
	attendanceRepo *mocks.AttendanceRepository
	breaks         *mocks.BreakRepository
	clock          *clock.Fixed
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	attendanceRepo := mocks.NewAttendanceRepository()
	breakRepo := mocks.NewBreakRepository()
	correctionRepo := mocks.NewCorrectionRepository(attendanceRepo)
	clk := &clock.Fixed{Time: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)}

	return &fixture{
		svc:            NewCorrectionService(&mocks.TxManager{}, correctionRepo, attendanceRepo, breakRepo, clk),
		corrections:    correctionRepo,
		attendanceRepo: attendanceRepo,
		breaks:         breakRepo,
		clock:          clk,
	}
}

func (f *fixture) seedAttendance(t *testing.T) attendance.Attendance {
	t.Helper()

	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	start := date.Add(9 * time.Hour)
	end := date.Add(18 * time.Hour)
	att, err := f.attendanceRepo.Create(context.Background(), attendance.Attendance{
		UserID:    "user-1",
		Date:      date,
		StartTime: &start,
		EndTime:   &end,
		Status:    attendance.StatusFinished,
	})
	require.NoError(t, err)
	return att
}

func strPtr(s string) *string { return &s }

// racingCorrectionRepo mimics a lost race: the pending check sees nothing,
// leaving the storage-level uniqueness constraint as the arbiter.
type racingCorrectionRepo struct {
	domain.CorrectionRequestRepository
}

func (racingCorrectionRepo) HasPendingByAttendanceID(ctx context.Context, attendanceID string) (bool, error) {
	return false, nil
}

func TestSubmit(t *testing.T) {
	t.Run("creates a pending request with breaks", func(t *testing.T) {
		f := newFixture(t)
		att := f.seedAttendance(t)

		resp, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			StartTime:    strPtr("08:30"),
			EndTime:      strPtr("17:30"),
			Remarks:      "打刻を忘れました",
			Breaks: []domain.BreakEntry{
				{StartTime: strPtr("12:00"), EndTime: strPtr("12:45")},
				{}, // blank rows are skipped
			},
		})
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusPending), resp.Status)
		assert.Equal(t, "承認待ち", resp.StatusLabel)
		require.NotNil(t, resp.RequestedStartTime)
		assert.Equal(t, "08:30", *resp.RequestedStartTime)
		require.NotNil(t, resp.Date)
		assert.Equal(t, "2026-04-01", *resp.Date)
		require.Len(t, resp.Breaks, 1)
		assert.Equal(t, "12:00", resp.Breaks[0].StartTime)
	})

	t.Run("rejects an unknown attendance record", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: "missing",
			UserID:       "user-1",
			Remarks:      "修正お願いします",
		})
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})

	t.Run("rejects a second pending request for the same record", func(t *testing.T) {
		f := newFixture(t)
		att := f.seedAttendance(t)

		_, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			Remarks:      "修正お願いします",
		})
		require.NoError(t, err)

		_, err = f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			Remarks:      "もう一度",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicatePendingRequest)
	})

	t.Run("allows a new request once the previous one is approved", func(t *testing.T) {
		f := newFixture(t)
		att := f.seedAttendance(t)

		resp, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			Remarks:      "修正お願いします",
		})
		require.NoError(t, err)

		_, err = f.svc.Approve(context.Background(), resp.ID, "admin-1")
		require.NoError(t, err)

		_, err = f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			Remarks:      "再修正お願いします",
		})
		assert.NoError(t, err)
	})

	t.Run("rejects more than one break without an end time", func(t *testing.T) {
		f := newFixture(t)
		att := f.seedAttendance(t)

		_, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			Remarks:      "休憩の修正",
			Breaks: []domain.BreakEntry{
				{StartTime: strPtr("12:00")},
				{StartTime: strPtr("15:00")},
			},
		})

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "breaks")
	})

	t.Run("a single break without an end time is allowed", func(t *testing.T) {
		f := newFixture(t)
		att := f.seedAttendance(t)

		resp, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			Remarks:      "休憩の修正",
			Breaks: []domain.BreakEntry{
				{StartTime: strPtr("12:00"), EndTime: strPtr("12:45")},
				{StartTime: strPtr("15:00")},
			},
		})
		require.NoError(t, err)
		require.Len(t, resp.Breaks, 2)
		assert.Nil(t, resp.Breaks[1].EndTime)
	})

	t.Run("the store rejects a duplicate that slips past the pending check", func(t *testing.T) {
		attendanceRepo := mocks.NewAttendanceRepository()
		breakRepo := mocks.NewBreakRepository()
		correctionRepo := racingCorrectionRepo{mocks.NewCorrectionRepository(attendanceRepo)}
		clk := &clock.Fixed{Time: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)}
		svc := NewCorrectionService(&mocks.TxManager{}, correctionRepo, attendanceRepo, breakRepo, clk)

		att, err := attendanceRepo.Create(context.Background(), attendance.Attendance{
			UserID: "user-1",
			Date:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			Status: attendance.StatusFinished,
		})
		require.NoError(t, err)

		_, err = svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			Remarks:      "修正お願いします",
		})
		require.NoError(t, err)

		_, err = svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			Remarks:      "もう一度",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicatePendingRequest)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		f := newFixture(t)
		att := f.seedAttendance(t)

		_, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			StartTime:    strPtr("25:99"),
			Remarks:      "",
		})

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		fields := verrs.ToMap()
		assert.Contains(t, fields, "start_time")
		assert.Contains(t, fields, "remarks")
	})
}

func TestApprove(t *testing.T) {
	t.Run("applies requested fields onto the attendance record", func(t *testing.T) {
		f := newFixture(t)
		att := f.seedAttendance(t)

		resp, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			StartTime:    strPtr("08:30"),
			EndTime:      strPtr("17:30"),
			Remarks:      "実際の勤務時間に修正",
			Breaks: []domain.BreakEntry{
				{StartTime: strPtr("12:00"), EndTime: strPtr("13:00")},
			},
		})
		require.NoError(t, err)

		approved, err := f.svc.Approve(context.Background(), resp.ID, "admin-1")
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusApproved), approved.Status)
		assert.Equal(t, "承認済み", approved.StatusLabel)
		require.NotNil(t, approved.ApprovedBy)
		assert.Equal(t, "admin-1", *approved.ApprovedBy)
		assert.NotNil(t, approved.ApprovedAt)

		updated, err := f.attendanceRepo.GetByID(context.Background(), att.ID)
		require.NoError(t, err)
		assert.Equal(t, "08:30", updated.StartTime.Format("15:04"))
		assert.Equal(t, "17:30", updated.EndTime.Format("15:04"))
		assert.Equal(t, "実際の勤務時間に修正", updated.Remarks)

		intervals, err := f.breaks.ListByAttendanceID(context.Background(), att.ID)
		require.NoError(t, err)
		require.Len(t, intervals, 1)
		assert.Equal(t, "12:00", intervals[0].StartTime.Format("15:04"))
	})

	t.Run("remarks-only request leaves times and breaks alone", func(t *testing.T) {
		f := newFixture(t)
		att := f.seedAttendance(t)
		_, err := f.breaks.Create(context.Background(), attendance.BreakInterval{
			AttendanceID: att.ID,
			StartTime:    att.Date.Add(12 * time.Hour),
		})
		require.NoError(t, err)

		resp, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			Remarks:      "備考のみ修正",
		})
		require.NoError(t, err)

		_, err = f.svc.Approve(context.Background(), resp.ID, "admin-1")
		require.NoError(t, err)

		updated, err := f.attendanceRepo.GetByID(context.Background(), att.ID)
		require.NoError(t, err)
		assert.Equal(t, "09:00", updated.StartTime.Format("15:04"))
		assert.Equal(t, "18:00", updated.EndTime.Format("15:04"))
		assert.Equal(t, "備考のみ修正", updated.Remarks)

		intervals, err := f.breaks.ListByAttendanceID(context.Background(), att.ID)
		require.NoError(t, err)
		assert.Len(t, intervals, 1)
	})

	t.Run("finishes a working record when an end time is applied", func(t *testing.T) {
		f := newFixture(t)

		date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		start := date.Add(9 * time.Hour)
		att, err := f.attendanceRepo.Create(context.Background(), attendance.Attendance{
			UserID:    "user-1",
			Date:      date,
			StartTime: &start,
			Status:    attendance.StatusWorking,
		})
		require.NoError(t, err)

		resp, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			EndTime:      strPtr("18:00"),
			Remarks:      "退勤打刻を忘れました",
		})
		require.NoError(t, err)

		_, err = f.svc.Approve(context.Background(), resp.ID, "admin-1")
		require.NoError(t, err)

		updated, err := f.attendanceRepo.GetByID(context.Background(), att.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.EndTime)
		assert.Equal(t, attendance.StatusFinished, updated.Status)
	})

	t.Run("keeps a working record working when only the start time changes", func(t *testing.T) {
		f := newFixture(t)

		date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		start := date.Add(9 * time.Hour)
		att, err := f.attendanceRepo.Create(context.Background(), attendance.Attendance{
			UserID:    "user-1",
			Date:      date,
			StartTime: &start,
			Status:    attendance.StatusWorking,
		})
		require.NoError(t, err)

		resp, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			StartTime:    strPtr("08:30"),
			Remarks:      "出勤時刻の修正",
		})
		require.NoError(t, err)

		_, err = f.svc.Approve(context.Background(), resp.ID, "admin-1")
		require.NoError(t, err)

		updated, err := f.attendanceRepo.GetByID(context.Background(), att.ID)
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusWorking, updated.Status)
		assert.Nil(t, updated.EndTime)
	})

	t.Run("an applied open break moves the record to on_break", func(t *testing.T) {
		f := newFixture(t)

		date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		start := date.Add(9 * time.Hour)
		att, err := f.attendanceRepo.Create(context.Background(), attendance.Attendance{
			UserID:    "user-1",
			Date:      date,
			StartTime: &start,
			Status:    attendance.StatusWorking,
		})
		require.NoError(t, err)

		resp, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			Remarks:      "休憩の記録漏れ",
			Breaks: []domain.BreakEntry{
				{StartTime: strPtr("12:00")},
			},
		})
		require.NoError(t, err)

		_, err = f.svc.Approve(context.Background(), resp.ID, "admin-1")
		require.NoError(t, err)

		updated, err := f.attendanceRepo.GetByID(context.Background(), att.ID)
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusOnBreak, updated.Status)

		// Exactly one open interval remains, so ending the break stays
		// deterministic.
		intervals, err := f.breaks.ListByAttendanceID(context.Background(), att.ID)
		require.NoError(t, err)
		open := 0
		for _, interval := range intervals {
			if interval.IsOpen() {
				open++
			}
		}
		assert.Equal(t, 1, open)
	})

	t.Run("is not reentrant", func(t *testing.T) {
		f := newFixture(t)
		att := f.seedAttendance(t)

		resp, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
			AttendanceID: att.ID,
			UserID:       "user-1",
			Remarks:      "修正お願いします",
		})
		require.NoError(t, err)

		first, err := f.svc.Approve(context.Background(), resp.ID, "admin-1")
		require.NoError(t, err)

		f.clock.Advance(time.Hour)
		_, err = f.svc.Approve(context.Background(), resp.ID, "admin-2")
		assert.ErrorIs(t, err, domain.ErrNotPending)

		// Approval metadata must be untouched by the failed retry.
		detail, err := f.svc.GetDetail(context.Background(), resp.ID)
		require.NoError(t, err)
		assert.Equal(t, *first.ApprovedBy, *detail.Request.ApprovedBy)
		assert.Equal(t, *first.ApprovedAt, *detail.Request.ApprovedAt)
	})

	t.Run("unknown request fails", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Approve(context.Background(), "missing", "admin-1")
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	})
}

func TestLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	att := f.seedAttendance(t)

	other, err := f.attendanceRepo.Create(ctx, attendance.Attendance{
		UserID: "user-2",
		Date:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status: attendance.StatusFinished,
	})
	require.NoError(t, err)

	mine, err := f.svc.Submit(ctx, domain.SubmitCorrectionRequest{
		AttendanceID: att.ID,
		UserID:       "user-1",
		Remarks:      "修正お願いします",
	})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, domain.SubmitCorrectionRequest{
		AttendanceID: other.ID,
		UserID:       "user-2",
		Remarks:      "修正お願いします",
	})
	require.NoError(t, err)

	pending, err := f.svc.ListPendingForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, mine.ID, pending[0].ID)

	allPending, err := f.svc.ListAllPending(ctx)
	require.NoError(t, err)
	assert.Len(t, allPending, 2)

	approved, err := f.svc.ListApprovedForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, approved)

	_, err = f.svc.Approve(ctx, mine.ID, "admin-1")
	require.NoError(t, err)

	approved, err = f.svc.ListApprovedForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, mine.ID, approved[0].ID)

	allPending, err = f.svc.ListAllPending(ctx)
	require.NoError(t, err)
	assert.Len(t, allPending, 1)

	allApproved, err := f.svc.ListAllApproved(ctx)
	require.NoError(t, err)
	assert.Len(t, allApproved, 1)
}

func TestGetDetail(t *testing.T) {
	f := newFixture(t)
	att := f.seedAttendance(t)

	resp, err := f.svc.Submit(context.Background(), domain.SubmitCorrectionRequest{
		AttendanceID: att.ID,
		UserID:       "user-1",
		StartTime:    strPtr("08:00"),
		Remarks:      "修正お願いします",
	})
	require.NoError(t, err)

	detail, err := f.svc.GetDetail(context.Background(), resp.ID)
	require.NoError(t, err)

	assert.Equal(t, resp.ID, detail.Request.ID)
	assert.Equal(t, att.ID, detail.Attendance.ID)
	assert.Equal(t, "2026-04-01", detail.Attendance.Date)

	_, err = f.svc.GetDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}
