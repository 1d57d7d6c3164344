package postgresql

import (
	"context"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/office"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type officeRepositoryImpl struct {
	db *database.DB
}

func NewOfficeRepository(db *database.DB) office.OfficeRepository {
	return &officeRepositoryImpl{db: db}
}

const officeColumns = `id, name, address, timezone, late_threshold, half_day_hours, created_at, updated_at`

func scanOffice(row pgx.Row) (office.Office, error) {
	var o office.Office
	err := row.Scan(&o.ID, &o.Name, &o.Address, &o.Timezone, &o.LateThreshold, &o.HalfDayHours, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// Create implements office.OfficeRepository.
func (r *officeRepositoryImpl) Create(ctx context.Context, o office.Office) (office.Office, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO offices (name, address, timezone, late_threshold, half_day_hours)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + officeColumns

	created, err := scanOffice(q.QueryRow(ctx, query, o.Name, o.Address, o.Timezone, o.LateThreshold, o.HalfDayHours))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return office.Office{}, office.ErrOfficeNameExists
		}
		return office.Office{}, err
	}
	return created, nil
}

// GetByID implements office.OfficeRepository.
func (r *officeRepositoryImpl) GetByID(ctx context.Context, id string) (office.Office, error) {
	q := GetQuerier(ctx, r.db)
	o, err := scanOffice(q.QueryRow(ctx, `SELECT `+officeColumns+` FROM offices WHERE id = $1`, id))
	if err != nil {
		return office.Office{}, notFound(err, office.ErrOfficeNotFound)
	}
	return o, nil
}

// List implements office.OfficeRepository.
func (r *officeRepositoryImpl) List(ctx context.Context) ([]office.Office, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+officeColumns+` FROM offices ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offices []office.Office
	for rows.Next() {
		o, err := scanOffice(rows)
		if err != nil {
			return nil, err
		}
		offices = append(offices, o)
	}
	return offices, rows.Err()
}

// Update implements office.OfficeRepository.
func (r *officeRepositoryImpl) Update(ctx context.Context, o office.Office) (office.Office, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE offices
		SET name = $1, address = $2, timezone = $3, late_threshold = $4, half_day_hours = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING ` + officeColumns

	updated, err := scanOffice(q.QueryRow(ctx, query, o.Name, o.Address, o.Timezone, o.LateThreshold, o.HalfDayHours, o.ID))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return office.Office{}, office.ErrOfficeNameExists
		}
		return office.Office{}, notFound(err, office.ErrOfficeNotFound)
	}
	return updated, nil
}

// Delete implements office.OfficeRepository. Offices that still have users
// or devices are refused.
func (r *officeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var inUse bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE office_id = $1)
		    OR EXISTS(SELECT 1 FROM devices WHERE office_id = $1)
	`, id).Scan(&inUse)
	if err != nil {
		return err
	}
	if inUse {
		return office.ErrOfficeInUse
	}

	var tag pgconn.CommandTag
	tag, err = q.Exec(ctx, `DELETE FROM offices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return office.ErrOfficeNotFound
	}
	return nil
}
