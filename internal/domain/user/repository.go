package user

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByBiometricID(ctx context.Context, biometricID string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, u User) (User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	ListActive(ctx context.Context, officeID *string) ([]User, error)
	ListWithoutBiometricID(ctx context.Context, officeID *string) ([]User, error)
	BiometricIDsInUse(ctx context.Context) (map[string]string, error)
	SetBiometricID(ctx context.Context, userID string, biometricID *string) error
	SetRelievingDate(ctx context.Context, userID string, date *time.Time) error
	SetActive(ctx context.Context, userID string, active bool) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	LinkGoogleAccount(ctx context.Context, userID, googleID string) error
}
