package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRequired(t *testing.T) {
	svc, err := jwt.NewJWTService("middleware-test-secret", "1h", "24h", false)
	require.NoError(t, err)

	var seen user.Actor
	h := jwtauth.Verifier(svc.JWTAuth())(AuthRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = user.ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	serve := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/my", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	office := "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	access, _, err := svc.GenerateAccessToken("u1", "asha@example.com", &office, user.RoleManager)
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken("u1")
	require.NoError(t, err)
	stream, _, err := svc.GenerateStreamToken("u1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serve(""))
	assert.Equal(t, http.StatusUnauthorized, serve("not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, serve(refresh), "refresh tokens only work on /auth/refresh")
	assert.Equal(t, http.StatusUnauthorized, serve(stream))

	require.Equal(t, http.StatusNoContent, serve(access))
	assert.Equal(t, "u1", seen.UserID)
	assert.Equal(t, user.RoleManager, seen.Role)
	require.NotNil(t, seen.OfficeID)
	assert.Equal(t, office, *seen.OfficeID)
}
