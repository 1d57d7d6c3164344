package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired runs after jwtauth.Verifier. Refresh and stream tokens share
// the signing key, so only the "type" claim keeps them off the API. The
// caller is attached as a user.Actor for role and office scoping.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token, claims, err := jwtauth.FromContext(ctx)
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if kind, _ := claims["type"].(string); kind != jwt.TokenTypeAccess {
			slog.Debug("Rejected non-access token", "type", kind, "path", r.URL.Path)
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		actor, err := user.ActorFromContext(ctx)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(user.WithActor(ctx, actor)))
	})
}
