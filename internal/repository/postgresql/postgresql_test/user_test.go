package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func createTestUser(t *testing.T, repo user.UserRepository, email string, biometricID *string) user.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashedStr := string(hashed)

	created, err := repo.Create(context.Background(), user.User{
		Email:        email,
		PasswordHash: &hashedStr,
		FullName:     "Test User",
		Role:         user.RoleEmployee,
		BiometricID:  biometricID,
		BasicSalary:  decimal.NewFromInt(30000),
		IsActive:     true,
	})
	require.NoError(t, err)
	return created
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	created := createTestUser(t, repo, "new@example.com", strPtr("101"))
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.BasicSalary.Equal(decimal.NewFromInt(30000)))

	byEmail, err := repo.GetByEmail(ctx, "NEW@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byBio, err := repo.GetByBiometricID(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byBio.ID)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewUserRepository(db)

	_, err := repo.GetByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_DuplicateConstraints(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	createTestUser(t, repo, "a@example.com", strPtr("7"))

	_, err := repo.Create(ctx, user.User{Email: "a@example.com", FullName: "Dup", Role: user.RoleEmployee, IsActive: true})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	_, err = repo.Create(ctx, user.User{Email: "b@example.com", FullName: "Dup", Role: user.RoleEmployee, BiometricID: strPtr("7"), IsActive: true})
	assert.ErrorIs(t, err, user.ErrBiometricIDExists)
}

func TestUserRepository_BiometricAssignment(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	withID := createTestUser(t, repo, "with@example.com", strPtr("1"))
	without := createTestUser(t, repo, "without@example.com", nil)

	missing, err := repo.ListWithoutBiometricID(ctx, nil)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, without.ID, missing[0].ID)

	inUse, err := repo.BiometricIDsInUse(ctx)
	require.NoError(t, err)
	assert.Equal(t, withID.ID, inUse["1"])

	require.NoError(t, repo.SetBiometricID(ctx, without.ID, strPtr("2")))
	got, err := repo.GetByID(ctx, without.ID)
	require.NoError(t, err)
	assert.Equal(t, "2", *got.BiometricID)
}
