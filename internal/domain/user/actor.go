package user

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// Actor is the authenticated caller of a service method.
type Actor struct {
	UserID   string
	Email    string
	Role     Role
	OfficeID *string
}

// SystemActor is used by background jobs and the operator CLI.
var SystemActor = Actor{UserID: "", Role: RoleAdmin}

func (a Actor) IsHR() bool {
	return a.Role == RoleAdmin || a.Role == RoleHR
}

func (a Actor) CanReview() bool {
	return a.IsHR() || a.Role == RoleManager
}

func (a Actor) Can(p Permission) bool {
	return HasPermission(a.Role, p)
}

// OfficeScope returns the office a caller is restricted to. HR and admins
// are unrestricted (nil); managers and employees see their own office.
func (a Actor) OfficeScope() *string {
	if a.IsHR() {
		return nil
	}
	return a.OfficeID
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext prefers an explicitly attached Actor and falls back to
// the verified JWT claims.
func ActorFromContext(ctx context.Context) (Actor, error) {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a, nil
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Actor{}, ErrUnauthenticated
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || !Role(role).Valid() {
		return Actor{}, ErrUnauthenticated
	}

	a := Actor{UserID: userID, Role: Role(role)}
	a.Email, _ = claims["email"].(string)
	if office, ok := claims["office_id"].(string); ok && office != "" {
		a.OfficeID = &office
	}
	return a, nil
}
