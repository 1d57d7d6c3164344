package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrOAuthDisabled       = errors.New("google login is not configured")
	ErrNoLinkedAccount     = errors.New("no active account for this google email")
)
