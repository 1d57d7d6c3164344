package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrEmployeeCodeExists      = errors.New("employee code already in use")
	ErrBiometricIDExists       = errors.New("biometric id already assigned to another user")
	ErrUserInactive            = errors.New("user account is inactive")
	ErrUnauthenticated         = errors.New("authentication required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrCannotDeactivateSelf    = errors.New("you cannot deactivate your own account")
)
