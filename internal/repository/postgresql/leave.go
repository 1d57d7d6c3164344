package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

const leaveColumns = `
	l.id, l.user_id, l.leave_type, l.start_date, l.end_date, l.is_half_day, l.reason,
	l.status, l.reviewed_by, l.reviewed_at, l.review_note, l.created_at, l.updated_at,
	u.full_name, u.email, u.office_id`

const leaveFrom = `FROM leave_requests l JOIN users u ON u.id = l.user_id`

func scanLeave(row pgx.Row) (leave.Request, error) {
	var l leave.Request
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.LeaveType,
		&l.StartDate,
		&l.EndDate,
		&l.IsHalfDay,
		&l.Reason,
		&l.Status,
		&l.ReviewedBy,
		&l.ReviewedAt,
		&l.ReviewNote,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.UserName,
		&l.UserEmail,
		&l.OfficeID,
	)
	return l, err
}

// Create implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Request) (leave.Request, error) {
	query := `
		INSERT INTO leave_requests (user_id, leave_type, start_date, end_date, is_half_day, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id string
	err := GetQuerier(ctx, r.db).QueryRow(ctx, query,
		l.UserID, l.LeaveType, l.StartDate, l.EndDate, l.IsHalfDay, l.Reason, leave.StatusPending,
	).Scan(&id)
	if err != nil {
		return leave.Request{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	l, err := scanLeave(GetQuerier(ctx, r.db).QueryRow(ctx, `SELECT `+leaveColumns+` `+leaveFrom+` WHERE l.id = $1`, id))
	if err != nil {
		return leave.Request{}, notFound(err, leave.ErrLeaveNotFound)
	}
	return l, nil
}

// List implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Request, int64, error) {
	var c conditions
	if filter.UserID != nil {
		c.add("l.user_id = $%d", *filter.UserID)
	}
	if filter.OfficeID != nil {
		c.add("u.office_id = $%d", *filter.OfficeID)
	}
	if filter.Status != nil {
		c.add("l.status = $%d", *filter.Status)
	}

	q := GetQuerier(ctx, r.db)
	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) `+leaveFrom+` `+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY l.created_at DESC LIMIT %s OFFSET %s`,
		leaveColumns, leaveFrom, c.where(), c.next(filter.Limit), c.next(filter.Offset()))
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// UpdateStatus implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) UpdateStatus(ctx context.Context, l leave.Request) (leave.Request, error) {
	query := `
		UPDATE leave_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3, review_note = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'pending'
	`
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, query, l.Status, l.ReviewedBy, l.ReviewedAt, l.ReviewNote, l.ID)
	if err != nil {
		return leave.Request{}, err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, l.ID); err != nil {
			return leave.Request{}, err
		}
		return leave.Request{}, leave.ErrNotPending
	}
	return r.GetByID(ctx, l.ID)
}

// HasOverlap implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	var exists bool
	err := GetQuerier(ctx, r.db).QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM leave_requests
			WHERE user_id = $1
			  AND status IN ('pending', 'approved')
			  AND start_date <= $3 AND end_date >= $2
		)
	`, userID, start, end).Scan(&exists)
	return exists, err
}

// ApprovedOn implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ApprovedOn(ctx context.Context, date time.Time) (map[string]struct{}, error) {
	rows, err := GetQuerier(ctx, r.db).Query(ctx, `
		SELECT DISTINCT user_id
		FROM leave_requests
		WHERE status = 'approved' AND NOT is_half_day
		  AND start_date <= $1 AND end_date >= $1
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users[id] = struct{}{}
	}
	return users, rows.Err()
}
