package punch

import "errors"

var (
	ErrEmptyPayload  = errors.New("push payload contains no attendance records")
	ErrPunchNotFound = errors.New("punch event not found")
)
