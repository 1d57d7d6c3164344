package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService("test-secret", "1h", "24h", false)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_InvalidDuration(t *testing.T) {
	_, err := NewJWTService("secret", "soon", "24h", false)
	assert.Error(t, err)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newTestService(t)
	office := "office-1"

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "a@example.com", &office, user.RoleHR)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims := decoded.PrivateClaims()
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "hr", claims["role"])
	assert.Equal(t, "office-1", claims["office_id"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestStreamToken_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, expiresIn, err := svc.GenerateStreamToken("user-9")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateStreamToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)
}

func TestValidateStreamToken_RejectsAccessToken(t *testing.T) {
	svc := newTestService(t)

	token, _, err := svc.GenerateAccessToken("user-1", "a@example.com", nil, user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateStreamToken(token)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := newTestService(t)

	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc", time.Now().Add(time.Hour).Unix())
	assert.True(t, svc.IsTokenRevoked("abc"))

	svc.RevokeToken("old", time.Now().Add(-time.Hour).Unix())
	svc.RevokeToken("other", time.Now().Add(time.Hour).Unix())
	assert.False(t, svc.IsTokenRevoked("old"))
}
