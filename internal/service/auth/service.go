package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/attendance-hr-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx postgresql.Transactor
	user.UserRepository
	jwt.Service
	postgresql.RefreshTokenRepository
	google oauth.GoogleProvider
}

// NewAuthService wires the auth flows. google may be nil when Google login
// is not configured.
func NewAuthService(tx postgresql.Transactor, userRepository user.UserRepository, jwtService jwt.Service, refreshRepository postgresql.RefreshTokenRepository, google oauth.GoogleProvider) auth.AuthService {
	return &AuthServiceImpl{
		tx:                     tx,
		UserRepository:         userRepository,
		Service:                jwtService,
		RefreshTokenRepository: refreshRepository,
		google:                 google,
	}
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	tokenResponse := auth.TokenResponse{TokenType: "Bearer", User: user.NewUserResponse(u)}

	err := a.tx.InTx(ctx, func(txCtx context.Context) error {
		var err error
		tokenResponse.AccessToken, tokenResponse.ExpiresAt, err = a.Service.GenerateAccessToken(u.ID, u.Email, u.OfficeID, u.Role)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshExpiresAt, err = a.Service.GenerateRefreshToken(u.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		err = a.CreateRefreshToken(txCtx, u.ID, tokenResponse.RefreshToken, tokenResponse.RefreshExpiresAt, session)
		if err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return tokenResponse, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, user.ErrUserInactive
	}

	return a.issueTokens(ctx, userData, session)
}

// Refresh implements auth.AuthService.
func (a *AuthServiceImpl) Refresh(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	// 1. Verify JWT signature and expiry
	token, err := jwtauth.VerifyToken(a.JWTAuth(), req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check token type is "refresh"
	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != jwt.TokenTypeRefresh {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 3. Check DB for revocation/expiry
	userID, err := a.RefreshTokenOwner(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrRefreshTokenRevoked) {
			return auth.AccessTokenResponse{}, err
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}

	// 4. Get user
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !userData.IsActive {
		return auth.AccessTokenResponse{}, user.ErrUserInactive
	}

	// 5. Generate new access token
	resp := auth.AccessTokenResponse{TokenType: "Bearer"}
	resp.AccessToken, resp.ExpiresAt, err = a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.OfficeID, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return resp, nil
}

// Logout implements auth.AuthService. Unknown tokens are ignored so logout
// always succeeds from the client's point of view.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := a.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// GoogleLogin implements auth.AuthService.
func (a *AuthServiceImpl) GoogleLogin(ctx context.Context) (auth.GoogleLoginResponse, error) {
	if a.google == nil {
		return auth.GoogleLoginResponse{}, auth.ErrOAuthDisabled
	}
	state, err := a.google.NewState()
	if err != nil {
		return auth.GoogleLoginResponse{}, fmt.Errorf("failed to create oauth state: %w", err)
	}
	return auth.GoogleLoginResponse{AuthURL: a.google.AuthURL(state), State: state}, nil
}

// GoogleCallback implements auth.AuthService. Google only signs in users
// that already exist; nobody is registered through it.
func (a *AuthServiceImpl) GoogleCallback(ctx context.Context, req auth.GoogleCallbackRequest) (auth.TokenResponse, error) {
	if a.google == nil {
		return auth.TokenResponse{}, auth.ErrOAuthDisabled
	}
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}
	if err := oauth.CheckState(req.ExpectedState, req.State); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	profile, err := a.google.Profile(ctx, req.Code)
	if err != nil {
		if errors.Is(err, oauth.ErrEmailNotVerified) {
			return auth.TokenResponse{}, auth.ErrNoLinkedAccount
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to load google profile: %w", err)
	}

	userData, err := a.UserRepository.GetByEmail(ctx, profile.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrNoLinkedAccount
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, user.ErrUserInactive
	}

	if userData.OAuthProviderID == nil || *userData.OAuthProviderID != profile.GoogleID {
		if err := a.UserRepository.LinkGoogleAccount(ctx, userData.ID, profile.GoogleID); err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to link google account: %w", err)
		}
	}

	return a.issueTokens(ctx, userData, req.Session)
}
