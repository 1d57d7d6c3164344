package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusHold    Status = "hold"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid || s == StatusHold
}

// CanTransition reports whether a record may move from s to next. Paid is
// terminal.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusHold || next == StatusPaid
	case StatusHold:
		return next == StatusPending || next == StatusPaid
	}
	return false
}

// Record is one user's pay for one month. Month is the first day of the
// month.
type Record struct {
	ID                     string
	UserID                 string
	Month                  time.Time
	BasicSalary            decimal.Decimal
	PerDayPay              decimal.Decimal
	PresentDays            int
	Sundays                int
	Holidays               int
	ExtraDays              int
	WorkedDays             int
	Deduction              decimal.Decimal
	LoanBalance            decimal.Decimal
	PreviousMonthCarryOver decimal.Decimal
	GrossSalary            decimal.Decimal
	NetSalary              decimal.Decimal
	FinalPayable           decimal.Decimal
	Status                 Status
	IsAttendanceBased      bool
	PaidAt                 *time.Time
	PaidBy                 *string
	Notes                  *string
	CreatedAt              time.Time
	UpdatedAt              time.Time

	// Join
	UserName     *string
	UserEmail    *string
	EmployeeCode *string
	Designation  *string
	OfficeID     *string
	OfficeName   *string
}

// ApplyAttendance stores month counts and the worked days they produce.
func (r *Record) ApplyAttendance(present, sundays, holidays int) {
	days := DaysInMonth(r.Month.Year(), r.Month.Month())
	r.PresentDays = present
	r.Sundays = sundays
	r.Holidays = holidays
	r.ExtraDays = ExtraDays(days)
	r.WorkedDays = WorkedDays(WorkedDaysInput{
		PresentDays: present,
		Sundays:     sundays,
		Holidays:    holidays,
		DaysInMonth: days,
	})
}

// RecomputePay refreshes gross, net and final payable from the current
// fields.
func (r *Record) RecomputePay() {
	pay := ComputePay(PayInput{
		PerDayPay:   r.PerDayPay,
		WorkedDays:  r.WorkedDays,
		CarryOver:   r.PreviousMonthCarryOver,
		Deduction:   r.Deduction,
		LoanBalance: r.LoanBalance,
	})
	r.GrossSalary = pay.Gross
	r.NetSalary = pay.Net
	r.FinalPayable = pay.FinalPayable
}

func (r Record) IsPaid() bool {
	return r.Status == StatusPaid
}
