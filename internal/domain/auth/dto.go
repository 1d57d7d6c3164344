package auth

import (
	"strings"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	}
	return errs.Err()
}

// SessionTrackingRequest is stored next to each refresh token.
type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken      string            `json:"access_token"`
	RefreshToken     string            `json:"-"`
	RefreshExpiresAt int64             `json:"-"`
	TokenType        string            `json:"token_type"`
	ExpiresAt        int64             `json:"expires_at"`
	User             user.UserResponse `json:"user"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type GoogleLoginResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"-"`
}

type GoogleCallbackRequest struct {
	Code          string
	State         string
	ExpectedState string
	Session       SessionTrackingRequest
}

func (r *GoogleCallbackRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Code) {
		errs.Add("code", "code is required")
	}
	if validator.IsEmpty(r.State) {
		errs.Add("state", "state is required")
	}
	return errs.Err()
}
