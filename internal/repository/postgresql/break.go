package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/timecardhq/timecard-backend-go/internal/domain/attendance"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/database"
)

type breakRepository struct {
	db *database.DB
}

// Create implements attendance.BreakRepository.
func (b *breakRepository) Create(ctx context.Context, interval attendance.BreakInterval) (attendance.BreakInterval, error) {
	q := GetQuerier(ctx, b.db)

	interval.ID = uuid.NewString()

	query := `
		INSERT INTO break_intervals (
			id, attendance_id, start_time, end_time
		) VALUES (
			$1, $2, $3, $4
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		interval.ID,
		interval.AttendanceID,
		interval.StartTime,
		interval.EndTime,
	).Scan(&interval.CreatedAt, &interval.UpdatedAt)

	if err != nil {
		return attendance.BreakInterval{}, fmt.Errorf("failed to create break interval: %w", err)
	}

	return interval, nil
}

// Close implements attendance.BreakRepository.
func (b *breakRepository) Close(ctx context.Context, id string, endTime time.Time) error {
	q := GetQuerier(ctx, b.db)

	query := `
		UPDATE break_intervals
		SET end_time = $1, updated_at = $2
		WHERE id = $3
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, endTime, time.Now(), id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrNoOpenBreak
		}
		return fmt.Errorf("failed to close break interval: %w", err)
	}

	return nil
}

// ListByAttendanceID implements attendance.BreakRepository.
func (b *breakRepository) ListByAttendanceID(ctx context.Context, attendanceID string) ([]attendance.BreakInterval, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		SELECT id, attendance_id, start_time, end_time, created_at, updated_at
		FROM break_intervals
		WHERE attendance_id = $1
		ORDER BY start_time ASC
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query break intervals: %w", err)
	}
	defer rows.Close()

	var intervals []attendance.BreakInterval
	for rows.Next() {
		var interval attendance.BreakInterval
		err := rows.Scan(
			&interval.ID, &interval.AttendanceID, &interval.StartTime, &interval.EndTime,
			&interval.CreatedAt, &interval.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan break interval: %w", err)
		}
		intervals = append(intervals, interval)
	}

	return intervals, nil
}

// GetOpenByAttendanceID implements attendance.BreakRepository.
func (b *breakRepository) GetOpenByAttendanceID(ctx context.Context, attendanceID string) (*attendance.BreakInterval, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		SELECT id, attendance_id, start_time, end_time, created_at, updated_at
		FROM break_intervals
		WHERE attendance_id = $1
		  AND end_time IS NULL
		LIMIT 1
	`

	var interval attendance.BreakInterval
	err := q.QueryRow(ctx, query, attendanceID).Scan(
		&interval.ID, &interval.AttendanceID, &interval.StartTime, &interval.EndTime,
		&interval.CreatedAt, &interval.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No open break
		}
		return nil, fmt.Errorf("failed to get open break interval: %w", err)
	}

	return &interval, nil
}

// DeleteByAttendanceID implements attendance.BreakRepository.
func (b *breakRepository) DeleteByAttendanceID(ctx context.Context, attendanceID string) error {
	q := GetQuerier(ctx, b.db)

	query := `DELETE FROM break_intervals WHERE attendance_id = $1`

	if _, err := q.Exec(ctx, query, attendanceID); err != nil {
		return fmt.Errorf("failed to delete break intervals: %w", err)
	}

	return nil
}

func NewBreakRepository(db *database.DB) attendance.BreakRepository {
	return &breakRepository{db: db}
}
