package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/resignation"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type resignationRepositoryImpl struct {
	db *database.DB
}

func NewResignationRepository(db *database.DB) resignation.ResignationRepository {
	return &resignationRepositoryImpl{db: db}
}

const resignationColumns = `
	r.id, r.user_id, r.notice_date, r.last_working_day, r.reason, r.status,
	r.reviewed_by, r.reviewed_at, r.review_note, r.created_at, r.updated_at,
	u.full_name, u.email, u.office_id`

const resignationFrom = `FROM resignations r JOIN users u ON u.id = r.user_id`

func scanResignation(row pgx.Row) (resignation.Resignation, error) {
	var res resignation.Resignation
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.NoticeDate,
		&res.LastWorkingDay,
		&res.Reason,
		&res.Status,
		&res.ReviewedBy,
		&res.ReviewedAt,
		&res.ReviewNote,
		&res.CreatedAt,
		&res.UpdatedAt,
		&res.UserName,
		&res.UserEmail,
		&res.OfficeID,
	)
	return res, err
}

// Create implements resignation.ResignationRepository.
func (r *resignationRepositoryImpl) Create(ctx context.Context, res resignation.Resignation) (resignation.Resignation, error) {
	query := `
		INSERT INTO resignations (user_id, notice_date, last_working_day, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id string
	err := GetQuerier(ctx, r.db).QueryRow(ctx, query,
		res.UserID, res.NoticeDate, res.LastWorkingDay, res.Reason, resignation.StatusPending,
	).Scan(&id)
	if err != nil {
		return resignation.Resignation{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID implements resignation.ResignationRepository.
func (r *resignationRepositoryImpl) GetByID(ctx context.Context, id string) (resignation.Resignation, error) {
	res, err := scanResignation(GetQuerier(ctx, r.db).QueryRow(ctx,
		`SELECT `+resignationColumns+` `+resignationFrom+` WHERE r.id = $1`, id))
	if err != nil {
		return resignation.Resignation{}, notFound(err, resignation.ErrResignationNotFound)
	}
	return res, nil
}

// List implements resignation.ResignationRepository.
func (r *resignationRepositoryImpl) List(ctx context.Context, filter resignation.ResignationFilter) ([]resignation.Resignation, int64, error) {
	var c conditions
	if filter.UserID != nil {
		c.add("r.user_id = $%d", *filter.UserID)
	}
	if filter.OfficeID != nil {
		c.add("u.office_id = $%d", *filter.OfficeID)
	}
	if filter.Status != nil {
		c.add("r.status = $%d", *filter.Status)
	}

	q := GetQuerier(ctx, r.db)
	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) `+resignationFrom+` `+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY r.created_at DESC LIMIT %s OFFSET %s`,
		resignationColumns, resignationFrom, c.where(), c.next(filter.Limit), c.next(filter.Offset()))
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []resignation.Resignation
	for rows.Next() {
		res, err := scanResignation(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// UpdateStatus implements resignation.ResignationRepository.
func (r *resignationRepositoryImpl) UpdateStatus(ctx context.Context, res resignation.Resignation) (resignation.Resignation, error) {
	query := `
		UPDATE resignations
		SET status = $1, last_working_day = $2, reviewed_by = $3, reviewed_at = $4,
		    review_note = $5, updated_at = NOW()
		WHERE id = $6 AND status = 'pending'
	`
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, query,
		res.Status, res.LastWorkingDay, res.ReviewedBy, res.ReviewedAt, res.ReviewNote, res.ID)
	if err != nil {
		return resignation.Resignation{}, err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, res.ID); err != nil {
			return resignation.Resignation{}, err
		}
		return resignation.Resignation{}, resignation.ErrNotPending
	}
	return r.GetByID(ctx, res.ID)
}

// HasOpen implements resignation.ResignationRepository.
func (r *resignationRepositoryImpl) HasOpen(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := GetQuerier(ctx, r.db).QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM resignations WHERE user_id = $1 AND status IN ('pending', 'accepted'))
	`, userID).Scan(&exists)
	return exists, err
}

// LatestAccepted implements resignation.ResignationRepository.
func (r *resignationRepositoryImpl) LatestAccepted(ctx context.Context, userID string) (*resignation.Resignation, error) {
	query := `SELECT ` + resignationColumns + ` ` + resignationFrom + `
		WHERE r.user_id = $1 AND r.status = 'accepted'
		ORDER BY r.reviewed_at DESC NULLS LAST
		LIMIT 1`
	res, err := scanResignation(GetQuerier(ctx, r.db).QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}
