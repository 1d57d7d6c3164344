package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryRepositoryImpl struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepositoryImpl{db: db}
}

const salaryColumns = `
	s.id, s.user_id, s.month, s.basic_salary, s.per_day_pay, s.present_days, s.sundays,
	s.holidays, s.extra_days, s.worked_days, s.deduction, s.loan_balance,
	s.previous_month_carry_over, s.gross_salary, s.net_salary, s.final_payable,
	s.status, s.is_attendance_based, s.paid_at, s.paid_by, s.notes, s.created_at,
	s.updated_at, u.full_name, u.email, u.employee_code, u.designation, u.office_id, o.name`

const salaryFrom = `
	FROM salary_records s
	JOIN users u ON u.id = s.user_id
	LEFT JOIN offices o ON o.id = u.office_id`

func scanSalary(row pgx.Row) (salary.Record, error) {
	var r salary.Record
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.Month,
		&r.BasicSalary,
		&r.PerDayPay,
		&r.PresentDays,
		&r.Sundays,
		&r.Holidays,
		&r.ExtraDays,
		&r.WorkedDays,
		&r.Deduction,
		&r.LoanBalance,
		&r.PreviousMonthCarryOver,
		&r.GrossSalary,
		&r.NetSalary,
		&r.FinalPayable,
		&r.Status,
		&r.IsAttendanceBased,
		&r.PaidAt,
		&r.PaidBy,
		&r.Notes,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.UserName,
		&r.UserEmail,
		&r.EmployeeCode,
		&r.Designation,
		&r.OfficeID,
		&r.OfficeName,
	)
	return r, err
}

func (r *salaryRepositoryImpl) queryRecords(ctx context.Context, query string, args ...any) ([]salary.Record, error) {
	rows, err := GetQuerier(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []salary.Record
	for rows.Next() {
		rec, err := scanSalary(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByID implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) GetByID(ctx context.Context, id string) (salary.Record, error) {
	rec, err := scanSalary(GetQuerier(ctx, r.db).QueryRow(ctx, `SELECT `+salaryColumns+` `+salaryFrom+` WHERE s.id = $1`, id))
	if err != nil {
		return salary.Record{}, notFound(err, salary.ErrSalaryNotFound)
	}
	return rec, nil
}

// FindByUserAndMonth implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) FindByUserAndMonth(ctx context.Context, userID string, month time.Time) (*salary.Record, error) {
	query := `SELECT ` + salaryColumns + ` ` + salaryFrom + ` WHERE s.user_id = $1 AND s.month = $2`
	rec, err := scanSalary(GetQuerier(ctx, r.db).QueryRow(ctx, query, userID, month))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Create implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) Create(ctx context.Context, rec salary.Record) (salary.Record, error) {
	query := `
		INSERT INTO salary_records (
			user_id, month, basic_salary, per_day_pay, present_days, sundays, holidays,
			extra_days, worked_days, deduction, loan_balance, previous_month_carry_over,
			gross_salary, net_salary, final_payable, status, is_attendance_based, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`
	var id string
	err := GetQuerier(ctx, r.db).QueryRow(ctx, query,
		rec.UserID,
		rec.Month,
		rec.BasicSalary,
		rec.PerDayPay,
		rec.PresentDays,
		rec.Sundays,
		rec.Holidays,
		rec.ExtraDays,
		rec.WorkedDays,
		rec.Deduction,
		rec.LoanBalance,
		rec.PreviousMonthCarryOver,
		rec.GrossSalary,
		rec.NetSalary,
		rec.FinalPayable,
		rec.Status,
		rec.IsAttendanceBased,
		rec.Notes,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return salary.Record{}, salary.ErrSalaryExists
		}
		return salary.Record{}, err
	}
	return r.GetByID(ctx, id)
}

// Update implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) Update(ctx context.Context, rec salary.Record) (salary.Record, error) {
	query := `
		UPDATE salary_records SET
			basic_salary = $1, per_day_pay = $2, present_days = $3, sundays = $4,
			holidays = $5, extra_days = $6, worked_days = $7, deduction = $8,
			loan_balance = $9, previous_month_carry_over = $10, gross_salary = $11,
			net_salary = $12, final_payable = $13, status = $14, is_attendance_based = $15,
			paid_at = $16, paid_by = $17, notes = $18, updated_at = NOW()
		WHERE id = $19
	`
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, query,
		rec.BasicSalary,
		rec.PerDayPay,
		rec.PresentDays,
		rec.Sundays,
		rec.Holidays,
		rec.ExtraDays,
		rec.WorkedDays,
		rec.Deduction,
		rec.LoanBalance,
		rec.PreviousMonthCarryOver,
		rec.GrossSalary,
		rec.NetSalary,
		rec.FinalPayable,
		rec.Status,
		rec.IsAttendanceBased,
		rec.PaidAt,
		rec.PaidBy,
		rec.Notes,
		rec.ID,
	)
	if err != nil {
		return salary.Record{}, err
	}
	if tag.RowsAffected() == 0 {
		return salary.Record{}, salary.ErrSalaryNotFound
	}
	return r.GetByID(ctx, rec.ID)
}

// List implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) List(ctx context.Context, filter salary.SalaryFilter) ([]salary.Record, int64, error) {
	var c conditions
	if filter.MonthStart != nil {
		c.add("s.month = $%d", *filter.MonthStart)
	}
	if filter.UserID != nil {
		c.add("s.user_id = $%d", *filter.UserID)
	}
	if filter.OfficeID != nil {
		c.add("u.office_id = $%d", *filter.OfficeID)
	}
	if filter.Status != nil {
		c.add("s.status = $%d", *filter.Status)
	}

	var total int64
	if err := GetQuerier(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) `+salaryFrom+` `+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY s.month DESC, u.full_name LIMIT %s OFFSET %s`,
		salaryColumns, salaryFrom, c.where(), c.next(filter.Limit), c.next(filter.Offset()))
	records, err := r.queryRecords(ctx, query, c.args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListMonth implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) ListMonth(ctx context.Context, month time.Time, officeID *string) ([]salary.Record, error) {
	var c conditions
	c.add("s.month = $%d", month)
	if officeID != nil {
		c.add("u.office_id = $%d", *officeID)
	}
	return r.queryRecords(ctx, `SELECT `+salaryColumns+` `+salaryFrom+` `+c.where()+` ORDER BY u.full_name`, c.args...)
}
