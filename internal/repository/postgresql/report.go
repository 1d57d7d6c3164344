package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// StatusCounts implements report.ReportRepository.
func (r *reportRepositoryImpl) StatusCounts(ctx context.Context, date time.Time, officeID *string) (report.StatusCounts, error) {
	var c conditions
	c.add("a.date = $%d", date)
	if officeID != nil {
		c.add("u.office_id = $%d", *officeID)
	}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE a.status = 'present'),
			COUNT(*) FILTER (WHERE a.status = 'absent'),
			COUNT(*) FILTER (WHERE a.status = 'on_leave'),
			COUNT(*) FILTER (WHERE a.status = 'holiday'),
			COUNT(*) FILTER (WHERE a.status = 'weekend'),
			COUNT(*) FILTER (WHERE a.is_late),
			COUNT(*) FILTER (WHERE a.day_status = 'half_day'),
			COUNT(*) FILTER (WHERE a.day_status = 'in_progress')
		FROM attendance_days a
		JOIN users u ON u.id = a.user_id
		` + c.where()

	var s report.StatusCounts
	err := GetQuerier(ctx, r.db).QueryRow(ctx, query, c.args...).Scan(
		&s.Present,
		&s.Absent,
		&s.OnLeave,
		&s.Holiday,
		&s.Weekend,
		&s.Late,
		&s.HalfDay,
		&s.InProgress,
	)
	return s, err
}

// ActiveEmployees implements report.ReportRepository.
func (r *reportRepositoryImpl) ActiveEmployees(ctx context.Context, officeID *string) (int, error) {
	var c conditions
	c.raw("is_active")
	if officeID != nil {
		c.add("office_id = $%d", *officeID)
	}
	var n int
	err := GetQuerier(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM users `+c.where(), c.args...).Scan(&n)
	return n, err
}

// DeviceStatusCounts implements report.ReportRepository.
func (r *reportRepositoryImpl) DeviceStatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := GetQuerier(ctx, r.db).Query(ctx, `SELECT status, COUNT(*) FROM devices WHERE is_active GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
