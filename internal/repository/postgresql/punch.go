package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchRepositoryImpl struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepositoryImpl{db: db}
}

const punchColumns = `
	p.id, p.device_id, p.biometric_id, p.user_id, p.punch_time, p.punch_type,
	p.status_code, p.verify_type, p.source, p.processed, p.record_hash, p.remarks,
	p.created_at, d.name, u.full_name`

const punchFrom = `
	FROM punch_events p
	LEFT JOIN devices d ON d.id = p.device_id
	LEFT JOIN users u ON u.id = p.user_id`

func scanPunch(row pgx.Row) (punch.Event, error) {
	var e punch.Event
	err := row.Scan(
		&e.ID,
		&e.DeviceID,
		&e.BiometricID,
		&e.UserID,
		&e.PunchTime,
		&e.PunchType,
		&e.StatusCode,
		&e.VerifyType,
		&e.Source,
		&e.Processed,
		&e.RecordHash,
		&e.Remarks,
		&e.CreatedAt,
		&e.DeviceName,
		&e.UserName,
	)
	return e, err
}

func (r *punchRepositoryImpl) queryPunches(ctx context.Context, query string, args ...any) ([]punch.Event, error) {
	rows, err := GetQuerier(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []punch.Event
	for rows.Next() {
		e, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Create implements punch.PunchRepository.
func (r *punchRepositoryImpl) Create(ctx context.Context, e punch.Event) (punch.Event, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO punch_events (
			device_id, biometric_id, user_id, punch_time, punch_type,
			status_code, verify_type, source, processed, record_hash, remarks
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query,
		e.DeviceID,
		e.BiometricID,
		e.UserID,
		e.PunchTime,
		e.PunchType,
		e.StatusCode,
		e.VerifyType,
		e.Source,
		e.Processed,
		e.RecordHash,
		e.Remarks,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return punch.Event{}, err
	}
	return e, nil
}

// ExistsByHash implements punch.PunchRepository.
func (r *punchRepositoryImpl) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	var exists bool
	err := GetQuerier(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM punch_events WHERE record_hash = $1)`, hash,
	).Scan(&exists)
	return exists, err
}

// MarkProcessed implements punch.PunchRepository.
func (r *punchRepositoryImpl) MarkProcessed(ctx context.Context, id string) error {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, `UPDATE punch_events SET processed = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return punch.ErrPunchNotFound
	}
	return nil
}

// List implements punch.PunchRepository.
func (r *punchRepositoryImpl) List(ctx context.Context, filter punch.PunchFilter) ([]punch.Event, int64, error) {
	var c conditions
	if filter.DeviceID != nil {
		c.add("p.device_id = $%d", *filter.DeviceID)
	}
	if filter.From != nil {
		c.add("p.punch_time >= $%d", *filter.From)
	}
	if filter.To != nil {
		c.add("p.punch_time < $%d", *filter.To)
	}

	var total int64
	if err := GetQuerier(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM punch_events p `+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY p.punch_time DESC LIMIT %s OFFSET %s`,
		punchColumns, punchFrom, c.where(), c.next(filter.Limit), c.next(filter.Offset()))
	events, err := r.queryPunches(ctx, query, c.args...)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListForRebuild implements punch.PunchRepository.
func (r *punchRepositoryImpl) ListForRebuild(ctx context.Context, from, to time.Time) ([]punch.Event, error) {
	query := `
		SELECT
			p.id, p.device_id, p.biometric_id, COALESCE(p.user_id, ub.id), p.punch_time, p.punch_type,
			p.status_code, p.verify_type, p.source, p.processed, p.record_hash, p.remarks,
			p.created_at, d.name, COALESCE(u.full_name, ub.full_name)
		FROM punch_events p
		LEFT JOIN devices d ON d.id = p.device_id
		LEFT JOIN users u ON u.id = p.user_id
		LEFT JOIN users ub ON p.user_id IS NULL AND ub.biometric_id = p.biometric_id
		WHERE p.punch_time >= $1 AND p.punch_time < $2
		  AND COALESCE(p.user_id, ub.id) IS NOT NULL
		ORDER BY p.punch_time
	`
	return r.queryPunches(ctx, query, from, to)
}

// CountDuplicates implements punch.PunchRepository.
func (r *punchRepositoryImpl) CountDuplicates(ctx context.Context) (int64, error) {
	var n int64
	err := GetQuerier(ctx, r.db).QueryRow(ctx, `
		SELECT COALESCE(SUM(c - 1), 0)::bigint
		FROM (SELECT COUNT(*) AS c FROM punch_events GROUP BY record_hash HAVING COUNT(*) > 1) dup
	`).Scan(&n)
	return n, err
}

// DeleteDuplicates implements punch.PunchRepository.
func (r *punchRepositoryImpl) DeleteDuplicates(ctx context.Context) (int64, error) {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, `
		DELETE FROM punch_events
		WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY record_hash ORDER BY created_at, id) AS rn
				FROM punch_events
			) ranked
			WHERE rn > 1
		)
	`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
