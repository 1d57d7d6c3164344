package jwt

import (
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeStream  = "stream"
)

type Service interface {
	GenerateAccessToken(userID string, email string, officeID *string, role user.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	GenerateStreamToken(userID string) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	secure     bool
	tokenAuth  *jwtauth.JWTAuth

	mu      sync.RWMutex
	revoked map[string]int64
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService parses the TTLs eagerly so a bad configuration fails at startup.
func NewJWTService(secretKey, accessTTL, refreshTTL string, secureCookie bool) (Service, error) {
	access, err := time.ParseDuration(accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := time.ParseDuration(refreshTTL)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTTL:  access,
		refreshTTL: refresh,
		secure:     secureCookie,
		tokenAuth:  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revoked:    make(map[string]int64),
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, email string, officeID *string, role user.Role) (string, int64, error) {
	expiresAt := time.Now().Add(j.accessTTL).Unix()

	claims := map[string]interface{}{
		"user_id":   userID,
		"email":     email,
		"office_id": nil,
		"role":      string(role),
		"type":      TokenTypeAccess,
		"exp":       expiresAt,
	}
	if officeID != nil {
		claims["office_id"] = *officeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (string, int64, error) {
	expiresAt := time.Now().Add(j.refreshTTL).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"type":    TokenTypeRefresh,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// RevokeToken blacklists an access token until its own expiry. Expired
// entries are pruned on every call.
func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now().Unix()
	for t, exp := range j.revoked {
		if exp <= now {
			delete(j.revoked, t)
		}
	}
	j.revoked[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revoked[token]
	return revoked
}

// GenerateStreamToken issues a five minute token for the notification event
// stream, which browsers open without an Authorization header.
func (j *JWTService) GenerateStreamToken(userID string) (string, int, error) {
	expiresIn := 300
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    TokenTypeStream,
		"exp":     time.Now().Add(time.Duration(expiresIn) * time.Second).Unix(),
	})
	if err != nil {
		return "", 0, err
	}
	return tokenString, expiresIn, nil
}

func (j *JWTService) ValidateStreamToken(tokenString string) (string, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeStream {
		return "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return userID, nil
}
