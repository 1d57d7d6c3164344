package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrForbidden          = errors.New("you cannot access this attendance record")
	ErrCheckOutBeforeIn   = errors.New("check-out must be after check-in")
	ErrCheckOutWithoutIn  = errors.New("check-out requires a check-in")
	ErrPunchInFuture      = errors.New("punch time cannot be in the future")
	ErrUserHasNoBiometric = errors.New("user has no biometric id")
	ErrRangeTooLarge      = errors.New("date range must not exceed 62 days")
	ErrBackfillFuture     = errors.New("absences cannot be backfilled for a future date")
)
