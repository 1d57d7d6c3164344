package resignation

import "errors"

var (
	ErrResignationNotFound = errors.New("resignation not found")
	ErrAlreadyResigned     = errors.New("you already have an open resignation")
	ErrNotPending          = errors.New("resignation has already been processed")
	ErrForbidden           = errors.New("you cannot access this resignation")
	ErrCannotReviewOwn     = errors.New("you cannot review your own resignation")
	ErrLastDayInPast       = errors.New("last working day cannot be in the past")
)
