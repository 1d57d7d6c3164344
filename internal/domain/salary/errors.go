package salary

import "errors"

var (
	ErrSalaryNotFound    = errors.New("salary record not found")
	ErrSalaryExists      = errors.New("salary record already exists for this month")
	ErrSalaryAlreadyPaid = errors.New("salary record already paid, cannot modify")
	ErrInvalidTransition = errors.New("salary status change not allowed")
	ErrForbidden         = errors.New("you cannot access this salary record")
	ErrMonthNotClosed    = errors.New("salary can only be calculated for the current or a past month")
)
