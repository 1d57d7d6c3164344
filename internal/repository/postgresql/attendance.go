package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	a.id, a.user_id, a.date, a.check_in, a.check_out, a.total_hours, a.status,
	a.day_status, a.is_late, a.late_minutes, a.remarks, a.created_at, a.updated_at,
	u.full_name, u.office_id, u.biometric_id`

const attendanceFrom = `FROM attendance_days a JOIN users u ON u.id = a.user_id`

func scanAttendance(row pgx.Row) (attendance.Day, error) {
	var d attendance.Day
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Date,
		&d.CheckIn,
		&d.CheckOut,
		&d.TotalHours,
		&d.Status,
		&d.DayStatus,
		&d.IsLate,
		&d.LateMinutes,
		&d.Remarks,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.UserName,
		&d.OfficeID,
		&d.BiometricID,
	)
	return d, err
}

func (r *attendanceRepositoryImpl) queryDays(ctx context.Context, query string, args ...any) ([]attendance.Day, error) {
	rows, err := GetQuerier(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []attendance.Day
	for rows.Next() {
		d, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Day, error) {
	query := `SELECT ` + attendanceColumns + ` ` + attendanceFrom + ` WHERE a.id = $1`
	d, err := scanAttendance(GetQuerier(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		return attendance.Day{}, notFound(err, attendance.ErrAttendanceNotFound)
	}
	return d, nil
}

// FindByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Day, error) {
	query := `SELECT ` + attendanceColumns + ` ` + attendanceFrom + ` WHERE a.user_id = $1 AND a.date = $2`
	d, err := scanAttendance(GetQuerier(ctx, r.db).QueryRow(ctx, query, userID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// LockUserDate implements attendance.AttendanceRepository. It must run
// inside a transaction; outside one the lock is released immediately.
func (r *attendanceRepositoryImpl) LockUserDate(ctx context.Context, userID string, date time.Time) error {
	key := userID + "|" + date.Format("2006-01-02")
	_, err := GetQuerier(ctx, r.db).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key)
	return err
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, day attendance.Day) (attendance.Day, error) {
	query := `
		INSERT INTO attendance_days (
			user_id, date, check_in, check_out, total_hours, status,
			day_status, is_late, late_minutes, remarks
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, date) DO UPDATE SET
			check_in     = EXCLUDED.check_in,
			check_out    = EXCLUDED.check_out,
			total_hours  = EXCLUDED.total_hours,
			status       = EXCLUDED.status,
			day_status   = EXCLUDED.day_status,
			is_late      = EXCLUDED.is_late,
			late_minutes = EXCLUDED.late_minutes,
			remarks      = EXCLUDED.remarks,
			updated_at   = NOW()
		RETURNING id
	`
	var id string
	err := GetQuerier(ctx, r.db).QueryRow(ctx, query,
		day.UserID,
		day.Date,
		day.CheckIn,
		day.CheckOut,
		day.TotalHours,
		day.Status,
		day.DayStatus,
		day.IsLate,
		day.LateMinutes,
		day.Remarks,
	).Scan(&id)
	if err != nil {
		return attendance.Day{}, err
	}
	return r.GetByID(ctx, id)
}

// CreateIfMissing implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CreateIfMissing(ctx context.Context, day attendance.Day) (bool, error) {
	query := `
		INSERT INTO attendance_days (user_id, date, status, day_status, remarks)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date) DO NOTHING
	`
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, query, day.UserID, day.Date, day.Status, day.DayStatus, day.Remarks)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func attendanceConditions(filter attendance.AttendanceFilter) conditions {
	var c conditions
	if filter.UserID != nil {
		c.add("a.user_id = $%d", *filter.UserID)
	}
	if filter.OfficeID != nil {
		c.add("u.office_id = $%d", *filter.OfficeID)
	}
	if filter.Status != nil {
		c.add("a.status = $%d", *filter.Status)
	}
	if filter.DayStatus != nil {
		c.add("a.day_status = $%d", *filter.DayStatus)
	}
	if filter.IsLate != nil {
		c.add("a.is_late = $%d", *filter.IsLate)
	}
	if filter.From != nil {
		c.add("a.date >= $%d", *filter.From)
	}
	if filter.To != nil {
		c.add("a.date <= $%d", *filter.To)
	}
	return c
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Day, int64, error) {
	c := attendanceConditions(filter)

	var total int64
	countQuery := `SELECT COUNT(*) ` + attendanceFrom + ` ` + c.where()
	if err := GetQuerier(ctx, r.db).QueryRow(ctx, countQuery, c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}
	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY a.date %s, u.full_name LIMIT %s OFFSET %s`,
		attendanceColumns, attendanceFrom, c.where(), order, c.next(filter.Limit), c.next(filter.Offset()))
	days, err := r.queryDays(ctx, query, c.args...)
	if err != nil {
		return nil, 0, err
	}
	return days, total, nil
}

// ListRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListRange(ctx context.Context, from, to time.Time, userID, officeID *string) ([]attendance.Day, error) {
	c := attendanceConditions(attendance.AttendanceFilter{UserID: userID, OfficeID: officeID, From: &from, To: &to})
	query := `SELECT ` + attendanceColumns + ` ` + attendanceFrom + ` ` + c.where() + ` ORDER BY a.date, u.full_name`
	return r.queryDays(ctx, query, c.args...)
}

// CountPresent implements attendance.AttendanceRepository. Rows are present
// when the user checked in, whatever the day status.
func (r *attendanceRepositoryImpl) CountPresent(ctx context.Context, userID string, from, to time.Time) (int, error) {
	var n int
	err := GetQuerier(ctx, r.db).QueryRow(ctx, `
		SELECT COUNT(*)
		FROM attendance_days
		WHERE user_id = $1 AND date >= $2 AND date <= $3 AND status = $4
	`, userID, from, to, attendance.StatusPresent).Scan(&n)
	return n, err
}
