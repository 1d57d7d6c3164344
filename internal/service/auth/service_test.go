package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type noTx struct{}

func (noTx) InTx(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
func (noTx) Savepoint(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeUsers struct {
	user.UserRepository
	users  map[string]user.User
	linked map[string]string
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUsers) LinkGoogleAccount(_ context.Context, userID, googleID string) error {
	f.linked[userID] = googleID
	return nil
}

type fakeRefreshTokens struct {
	owners  map[string]string
	revoked map[string]bool
}

func (f *fakeRefreshTokens) CreateRefreshToken(_ context.Context, userID, token string, _ int64, _ auth.SessionTrackingRequest) error {
	f.owners[token] = userID
	return nil
}

func (f *fakeRefreshTokens) RefreshTokenOwner(_ context.Context, token string) (string, error) {
	owner, ok := f.owners[token]
	if !ok || f.revoked[token] {
		return "", auth.ErrRefreshTokenRevoked
	}
	return owner, nil
}

func (f *fakeRefreshTokens) RevokeRefreshToken(_ context.Context, token string) error {
	f.revoked[token] = true
	return nil
}

func (f *fakeRefreshTokens) RevokeAllForUser(context.Context, string) error { return nil }

type fakeGoogle struct {
	profile oauth.GoogleProfile
}

func (g fakeGoogle) NewState() (string, error)  { return "state-123", nil }
func (g fakeGoogle) AuthURL(state string) string { return "https://accounts.example/auth?state=" + state }
func (g fakeGoogle) Profile(context.Context, string) (oauth.GoogleProfile, error) {
	return g.profile, nil
}

type fixture struct {
	svc    auth.AuthService
	users  *fakeUsers
	tokens *fakeRefreshTokens
}

func newFixture(t *testing.T, google oauth.GoogleProvider) fixture {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)

	users := &fakeUsers{
		users: map[string]user.User{
			"u-1": {ID: "u-1", Email: "asha@example.com", PasswordHash: &hashed, FullName: "Asha", Role: user.RoleHR, IsActive: true},
			"u-2": {ID: "u-2", Email: "gone@example.com", PasswordHash: &hashed, FullName: "Gone", Role: user.RoleEmployee},
		},
		linked: map[string]string{},
	}
	tokens := &fakeRefreshTokens{owners: map[string]string{}, revoked: map[string]bool{}}

	return fixture{
		svc:    NewAuthService(noTx{}, users, jwtService, tokens, google),
		users:  users,
		tokens: tokens,
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, auth.LoginRequest{Email: " Asha@Example.com ", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "u-1", resp.User.ID)
	assert.Equal(t, "u-1", f.tokens.owners[resp.RefreshToken])

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "asha@example.com", Password: "wrong-password"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "gone@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, user.ErrUserInactive)
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, auth.LoginRequest{Email: "asha@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	refreshed, err := f.svc.Refresh(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not accepted as a refresh token.
	_, err = f.svc.Refresh(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
	_, err = f.svc.Refresh(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestGoogleLogin(t *testing.T) {
	ctx := context.Background()

	disabled := newFixture(t, nil)
	_, err := disabled.svc.GoogleLogin(ctx)
	assert.ErrorIs(t, err, auth.ErrOAuthDisabled)

	f := newFixture(t, fakeGoogle{profile: oauth.GoogleProfile{GoogleID: "g-1", Email: "asha@example.com", VerifiedEmail: true}})
	start, err := f.svc.GoogleLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "state-123", start.State)
	assert.Contains(t, start.AuthURL, "state-123")

	_, err = f.svc.GoogleCallback(ctx, auth.GoogleCallbackRequest{Code: "c", State: "other", ExpectedState: "state-123"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	resp, err := f.svc.GoogleCallback(ctx, auth.GoogleCallbackRequest{Code: "c", State: "state-123", ExpectedState: "state-123"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.User.ID)
	assert.Equal(t, "g-1", f.users.linked["u-1"])
}

func TestGoogleCallback_UnknownEmail(t *testing.T) {
	f := newFixture(t, fakeGoogle{profile: oauth.GoogleProfile{GoogleID: "g-9", Email: "stranger@example.com", VerifiedEmail: true}})

	_, err := f.svc.GoogleCallback(context.Background(), auth.GoogleCallbackRequest{Code: "c", State: "s", ExpectedState: "s"})
	assert.ErrorIs(t, err, auth.ErrNoLinkedAccount)
}
