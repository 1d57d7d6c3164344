package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/holiday"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

const holidayColumns = `id, date, name, office_id, created_at, updated_at`

func (r *holidayRepositoryImpl) query(ctx context.Context, query string, args ...any) ([]holiday.Holiday, error) {
	rows, err := GetQuerier(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.OfficeID, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO holidays (date, name, office_id)
		VALUES ($1, $2, $3)
		RETURNING ` + holidayColumns

	var created holiday.Holiday
	err := q.QueryRow(ctx, query, h.Date, h.Name, h.OfficeID).Scan(
		&created.ID, &created.Date, &created.Name, &created.OfficeID, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, err
	}
	return created, nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

// List implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) List(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.Holiday, error) {
	var c conditions
	if filter.Year > 0 {
		c.add("EXTRACT(YEAR FROM date) = $%d", filter.Year)
	}
	if filter.OfficeID != nil {
		c.add("(office_id IS NULL OR office_id = $%d)", *filter.OfficeID)
	}
	return r.query(ctx, `SELECT `+holidayColumns+` FROM holidays `+c.where()+` ORDER BY date`, c.args...)
}

// Between implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Between(ctx context.Context, from, to time.Time, officeID *string) ([]holiday.Holiday, error) {
	var c conditions
	c.add("date >= $%d", from)
	c.add("date <= $%d", to)
	if officeID != nil {
		c.add("(office_id IS NULL OR office_id = $%d)", *officeID)
	} else {
		c.raw("office_id IS NULL")
	}
	return r.query(ctx, `SELECT `+holidayColumns+` FROM holidays `+c.where()+` ORDER BY date`, c.args...)
}

// IsHoliday implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) IsHoliday(ctx context.Context, date time.Time, officeID *string) (bool, error) {
	var exists bool
	err := GetQuerier(ctx, r.db).QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM holidays
			WHERE date = $1 AND (office_id IS NULL OR office_id = $2)
		)
	`, date, officeID).Scan(&exists)
	return exists, err
}
