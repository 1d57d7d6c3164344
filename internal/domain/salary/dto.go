package salary

import (
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SalaryResponse struct {
	ID                     string          `json:"id"`
	UserID                 string          `json:"user_id"`
	UserName               *string         `json:"user_name,omitempty"`
	EmployeeCode           *string         `json:"employee_code,omitempty"`
	OfficeName             *string         `json:"office_name,omitempty"`
	Month                  string          `json:"month"`
	BasicSalary            decimal.Decimal `json:"basic_salary"`
	PerDayPay              decimal.Decimal `json:"per_day_pay"`
	PresentDays            int             `json:"present_days"`
	Sundays                int             `json:"sundays"`
	Holidays               int             `json:"holidays"`
	ExtraDays              int             `json:"extra_days"`
	WorkedDays             int             `json:"worked_days"`
	Deduction              decimal.Decimal `json:"deduction"`
	LoanBalance            decimal.Decimal `json:"loan_balance"`
	PreviousMonthCarryOver decimal.Decimal `json:"previous_month_carry_over"`
	GrossSalary            decimal.Decimal `json:"gross_salary"`
	NetSalary              decimal.Decimal `json:"net_salary"`
	FinalPayable           decimal.Decimal `json:"final_payable"`
	Status                 string          `json:"status"`
	IsAttendanceBased      bool            `json:"is_attendance_based"`
	PaidAt                 *string         `json:"paid_at,omitempty"`
	PaidBy                 *string         `json:"paid_by,omitempty"`
	Notes                  *string         `json:"notes,omitempty"`
}

func NewSalaryResponse(r Record) SalaryResponse {
	resp := SalaryResponse{
		ID:                     r.ID,
		UserID:                 r.UserID,
		UserName:               r.UserName,
		EmployeeCode:           r.EmployeeCode,
		OfficeName:             r.OfficeName,
		Month:                  r.Month.Format("2006-01"),
		BasicSalary:            r.BasicSalary,
		PerDayPay:              r.PerDayPay,
		PresentDays:            r.PresentDays,
		Sundays:                r.Sundays,
		Holidays:               r.Holidays,
		ExtraDays:              r.ExtraDays,
		WorkedDays:             r.WorkedDays,
		Deduction:              r.Deduction,
		LoanBalance:            r.LoanBalance,
		PreviousMonthCarryOver: r.PreviousMonthCarryOver,
		GrossSalary:            r.GrossSalary,
		NetSalary:              r.NetSalary,
		FinalPayable:           r.FinalPayable,
		Status:                 string(r.Status),
		IsAttendanceBased:      r.IsAttendanceBased,
		PaidBy:                 r.PaidBy,
		Notes:                  r.Notes,
	}
	if r.PaidAt != nil {
		s := r.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &s
	}
	return resp
}

type ListSalaryResponse struct {
	pagination.Meta
	Salaries []SalaryResponse `json:"salaries"`
}

type SalaryFilter struct {
	Month    *string `json:"month,omitempty"`
	UserID   *string `json:"user_id,omitempty"`
	OfficeID *string `json:"office_id,omitempty"`
	Status   *string `json:"status,omitempty"`
	pagination.Params

	MonthStart *time.Time `json:"-"`
}

func (f *SalaryFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)
	if f.Month != nil {
		if m, ok := validator.IsValidMonth(*f.Month); ok {
			f.MonthStart = &m
		} else {
			errs.Add("month", "month must be YYYY-MM")
		}
	}
	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs.Add("user_id", "invalid user_id")
	}
	if f.OfficeID != nil && !validator.IsValidUUID(*f.OfficeID) {
		errs.Add("office_id", "invalid office_id")
	}
	if f.Status != nil && !Status(*f.Status).Valid() {
		errs.Add("status", "status must be pending, paid or hold")
	}
	return errs.Err()
}

// CreateSalaryRequest creates one record by hand. Setting WorkedDays makes
// the record manual; otherwise worked days come from attendance.
type CreateSalaryRequest struct {
	UserID                 string           `json:"user_id"`
	Month                  string           `json:"month"`
	PerDayPay              *decimal.Decimal `json:"per_day_pay,omitempty"`
	WorkedDays             *int             `json:"worked_days,omitempty"`
	Deduction              decimal.Decimal  `json:"deduction"`
	LoanBalance            decimal.Decimal  `json:"loan_balance"`
	PreviousMonthCarryOver decimal.Decimal  `json:"previous_month_carry_over"`
	Notes                  *string          `json:"notes,omitempty"`

	MonthStart time.Time `json:"-"`
}

func (r *CreateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs.Add("user_id", "invalid user_id")
	}
	if m, ok := validator.IsValidMonth(r.Month); ok {
		r.MonthStart = m
	} else {
		errs.Add("month", "month must be YYYY-MM")
	}
	if r.PerDayPay != nil && r.PerDayPay.IsNegative() {
		errs.Add("per_day_pay", "per_day_pay cannot be negative")
	}
	if r.WorkedDays != nil && (*r.WorkedDays < 0 || *r.WorkedDays > 62) {
		errs.Add("worked_days", "worked_days must be between 0 and 62")
	}
	validateAmounts(&errs, &r.Deduction, &r.LoanBalance)

	return errs.Err()
}

type UpdateSalaryRequest struct {
	ID                     string           `json:"-"`
	PerDayPay              *decimal.Decimal `json:"per_day_pay,omitempty"`
	WorkedDays             *int             `json:"worked_days,omitempty"`
	IsAttendanceBased      *bool            `json:"is_attendance_based,omitempty"`
	Deduction              *decimal.Decimal `json:"deduction,omitempty"`
	LoanBalance            *decimal.Decimal `json:"loan_balance,omitempty"`
	PreviousMonthCarryOver *decimal.Decimal `json:"previous_month_carry_over,omitempty"`
	Notes                  *string          `json:"notes,omitempty"`
}

func (r *UpdateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "invalid salary id")
	}
	if r.PerDayPay != nil && r.PerDayPay.IsNegative() {
		errs.Add("per_day_pay", "per_day_pay cannot be negative")
	}
	if r.WorkedDays != nil && (*r.WorkedDays < 0 || *r.WorkedDays > 62) {
		errs.Add("worked_days", "worked_days must be between 0 and 62")
	}
	validateAmounts(&errs, r.Deduction, r.LoanBalance)

	return errs.Err()
}

func validateAmounts(errs *validator.ValidationErrors, deduction, loan *decimal.Decimal) {
	if deduction != nil && deduction.IsNegative() {
		errs.Add("deduction", "deduction cannot be negative")
	}
	if loan != nil && loan.IsNegative() {
		errs.Add("loan_balance", "loan_balance cannot be negative")
	}
}

// CalculateRequest computes attendance-based records for a month in bulk.
type CalculateRequest struct {
	Month    string   `json:"month"`
	OfficeID *string  `json:"office_id,omitempty"`
	UserIDs  []string `json:"user_ids,omitempty"`

	MonthStart time.Time `json:"-"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if m, ok := validator.IsValidMonth(r.Month); ok {
		r.MonthStart = m
	} else {
		errs.Add("month", "month must be YYYY-MM")
	}
	if r.OfficeID != nil && !validator.IsValidUUID(*r.OfficeID) {
		errs.Add("office_id", "invalid office_id")
	}
	for _, id := range r.UserIDs {
		if !validator.IsValidUUID(id) {
			errs.Add("user_ids", "invalid user id "+id)
			break
		}
	}

	return errs.Err()
}

type CalculateResponse struct {
	Month       string `json:"month"`
	Created     int    `json:"created"`
	Updated     int    `json:"updated"`
	SkippedPaid int    `json:"skipped_paid"`
	Failed      int    `json:"failed"`
}

type StatusChangeRequest struct {
	ID    string  `json:"-"`
	Notes *string `json:"notes,omitempty"`
}
