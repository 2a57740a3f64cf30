package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/timecardhq/timecard-backend-go/internal/domain/correction"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/database"
)

type correctionRepository struct {
	db *database.DB
}

// Create implements correction.CorrectionRequestRepository.
func (c *correctionRepository) Create(ctx context.Context, req correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, c.db)

	req.ID = uuid.NewString()

	query := `
		INSERT INTO correction_requests (
			id, attendance_id, user_id, requested_start_time, requested_end_time,
			requested_remarks, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID,
		req.AttendanceID,
		req.UserID,
		req.RequestedStartTime,
		req.RequestedEndTime,
		req.RequestedRemarks,
		req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		// The partial unique index on (attendance_id) WHERE status = 'pending'
		// is the arbiter for concurrent submissions.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return correction.CorrectionRequest{}, correction.ErrDuplicatePendingRequest
		}
		return correction.CorrectionRequest{}, fmt.Errorf("failed to create correction request: %w", err)
	}

	return req, nil
}

// CreateBreak implements correction.CorrectionRequestRepository.
func (c *correctionRepository) CreateBreak(ctx context.Context, b correction.CorrectionBreak) (correction.CorrectionBreak, error) {
	q := GetQuerier(ctx, c.db)

	b.ID = uuid.NewString()

	query := `
		INSERT INTO correction_request_breaks (
			id, correction_request_id, requested_start_time, requested_end_time
		) VALUES (
			$1, $2, $3, $4
		) RETURNING id
	`

	var insertedID string
	err := q.QueryRow(ctx, query,
		b.ID,
		b.CorrectionRequestID,
		b.RequestedStartTime,
		b.RequestedEndTime,
	).Scan(&insertedID)

	if err != nil {
		return correction.CorrectionBreak{}, fmt.Errorf("failed to create correction request break: %w", err)
	}

	return b, nil
}

const correctionSelectColumns = `
	c.id, c.attendance_id, c.user_id, c.requested_start_time, c.requested_end_time,
	c.requested_remarks, c.status, c.approved_by, c.approved_at,
	c.created_at, c.updated_at,
	u.name AS user_name,
	a.date AS attendance_date
`

func scanCorrection(row pgx.Row) (correction.CorrectionRequest, error) {
	var req correction.CorrectionRequest
	err := row.Scan(
		&req.ID, &req.AttendanceID, &req.UserID, &req.RequestedStartTime, &req.RequestedEndTime,
		&req.RequestedRemarks, &req.Status, &req.ApprovedBy, &req.ApprovedAt,
		&req.CreatedAt, &req.UpdatedAt,
		&req.UserName,
		&req.AttendanceDate,
	)
	return req, err
}

// GetByID implements correction.CorrectionRequestRepository.
func (c *correctionRepository) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT ` + correctionSelectColumns + `
		FROM correction_requests c
		LEFT JOIN users u ON u.id = c.user_id
		LEFT JOIN attendances a ON a.id = c.attendance_id
		WHERE c.id = $1
	`

	req, err := scanCorrection(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.CorrectionRequest{}, correction.ErrRequestNotFound
		}
		return correction.CorrectionRequest{}, fmt.Errorf("failed to get correction request by ID: %w", err)
	}

	return req, nil
}

// ListBreaks implements correction.CorrectionRequestRepository.
func (c *correctionRepository) ListBreaks(ctx context.Context, requestID string) ([]correction.CorrectionBreak, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT id, correction_request_id, requested_start_time, requested_end_time
		FROM correction_request_breaks
		WHERE correction_request_id = $1
		ORDER BY requested_start_time ASC
	`

	rows, err := q.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query correction request breaks: %w", err)
	}
	defer rows.Close()

	var breaks []correction.CorrectionBreak
	for rows.Next() {
		var b correction.CorrectionBreak
		if err := rows.Scan(&b.ID, &b.CorrectionRequestID, &b.RequestedStartTime, &b.RequestedEndTime); err != nil {
			return nil, fmt.Errorf("failed to scan correction request break: %w", err)
		}
		breaks = append(breaks, b)
	}

	return breaks, nil
}

// HasPendingByAttendanceID implements correction.CorrectionRequestRepository.
func (c *correctionRepository) HasPendingByAttendanceID(ctx context.Context, attendanceID string) (bool, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM correction_requests
			WHERE attendance_id = $1
			  AND status = $2
		)
	`

	var hasPending bool
	if err := q.QueryRow(ctx, query, attendanceID, correction.StatusPending).Scan(&hasPending); err != nil {
		return false, fmt.Errorf("failed to check for pending correction request: %w", err)
	}

	return hasPending, nil
}

// ListByUserAndStatus implements correction.CorrectionRequestRepository.
func (c *correctionRepository) ListByUserAndStatus(ctx context.Context, userID string, status correction.RequestStatus) ([]correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT ` + correctionSelectColumns + `
		FROM correction_requests c
		LEFT JOIN users u ON u.id = c.user_id
		LEFT JOIN attendances a ON a.id = c.attendance_id
		WHERE c.user_id = $1
		  AND c.status = $2
		ORDER BY c.created_at DESC
	`

	return c.queryList(ctx, q, query, userID, status)
}

// ListByStatus implements correction.CorrectionRequestRepository.
func (c *correctionRepository) ListByStatus(ctx context.Context, status correction.RequestStatus) ([]correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT ` + correctionSelectColumns + `
		FROM correction_requests c
		LEFT JOIN users u ON u.id = c.user_id
		LEFT JOIN attendances a ON a.id = c.attendance_id
		WHERE c.status = $1
		ORDER BY c.created_at DESC
	`

	return c.queryList(ctx, q, query, status)
}

func (c *correctionRepository) queryList(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]correction.CorrectionRequest, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query correction requests: %w", err)
	}
	defer rows.Close()

	var requests []correction.CorrectionRequest
	for rows.Next() {
		req, err := scanCorrection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// Update implements correction.CorrectionRequestRepository.
func (c *correctionRepository) Update(ctx context.Context, params correction.UpdateCorrectionParams) error {
	q := GetQuerier(ctx, c.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if params.Status != nil {
		updates = append(updates, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*params.Status))
		argIdx++
	}
	if params.ApprovedBy != nil {
		updates = append(updates, fmt.Sprintf("approved_by = $%d", argIdx))
		args = append(args, params.ApprovedBy)
		argIdx++
	}
	if params.ApprovedAt != nil {
		updates = append(updates, fmt.Sprintf("approved_at = $%d", argIdx))
		args = append(args, params.ApprovedAt)
		argIdx++
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for correction request update")
	}

	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now())
	argIdx++

	args = append(args, params.ID)

	query := "UPDATE correction_requests SET " + strings.Join(updates, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING id", argIdx)

	var updatedID string
	if err := q.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.ErrRequestNotFound
		}
		return fmt.Errorf("failed to update correction request: %w", err)
	}

	return nil
}

func NewCorrectionRepository(db *database.DB) correction.CorrectionRequestRepository {
	return &correctionRepository{db: db}
}
