package auth

import "context"

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	Refresh(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GoogleLogin(ctx context.Context) (GoogleLoginResponse, error)
	GoogleCallback(ctx context.Context, req GoogleCallbackRequest) (TokenResponse, error)
}
