package leave

import "errors"

var (
	ErrLeaveNotFound    = errors.New("leave request not found")
	ErrOverlappingLeave = errors.New("leave overlaps an existing pending or approved request")
	ErrNotPending       = errors.New("leave request has already been processed")
	ErrForbidden        = errors.New("you cannot access this leave request")
	ErrCannotReviewOwn  = errors.New("you cannot review your own leave request")
)
