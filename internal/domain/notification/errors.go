package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidStreamToken   = errors.New("invalid or expired stream token")
)
