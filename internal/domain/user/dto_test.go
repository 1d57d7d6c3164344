package user

import (
	"testing"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		req    CreateUserRequest
		fields []string
	}{
		{
			name: "valid defaults role",
			req:  CreateUserRequest{Email: " Asha@Example.com ", Password: "secret123", FullName: "Asha Rao", BasicSalary: decimal.NewFromInt(30000)},
		},
		{
			name:   "missing everything",
			req:    CreateUserRequest{},
			fields: []string{"email", "password", "full_name"},
		},
		{
			name: "bad biometric and negative salary",
			req: CreateUserRequest{
				Email: "a@example.com", Password: "secret123", FullName: "A",
				BiometricID: strPtr("12 34"), BasicSalary: decimal.NewFromInt(-1),
			},
			fields: []string{"biometric_id", "basic_salary"},
		},
		{
			name:   "unknown role",
			req:    CreateUserRequest{Email: "a@example.com", Password: "secret123", FullName: "A", Role: "owner"},
			fields: []string{"role"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if len(tt.fields) == 0 {
				require.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			for _, f := range tt.fields {
				assert.Contains(t, verrs.ToMap(), f)
			}
		})
	}
}

func TestCreateUserRequest_NormalizesEmailAndRole(t *testing.T) {
	req := CreateUserRequest{Email: " Asha@Example.com ", Password: "secret123", FullName: "Asha"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "asha@example.com", req.Email)
	assert.Equal(t, string(RoleEmployee), req.Role)
}

func TestUser_PerDayPay(t *testing.T) {
	u := User{BasicSalary: decimal.NewFromInt(30000)}
	assert.True(t, decimal.NewFromInt(1000).Equal(u.PerDayPay()))

	u.PerDaySalary = decimal.NewNullDecimal(decimal.NewFromInt(1200))
	assert.True(t, decimal.NewFromInt(1200).Equal(u.PerDayPay()))
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionDeviceManage))
	assert.False(t, HasPermission(RoleHR, PermissionDeviceManage))
	assert.True(t, HasPermission(RoleManager, PermissionLeaveReview))
	assert.False(t, HasPermission(RoleEmployee, PermissionLeaveReview))
	assert.True(t, HasPermission(RoleEmployee, PermissionSalaryViewOwn))
	assert.False(t, HasPermission(Role("owner"), PermissionProfileViewOwn))
}

func TestActor_OfficeScope(t *testing.T) {
	office := "office-1"
	assert.Nil(t, Actor{Role: RoleHR, OfficeID: &office}.OfficeScope())
	assert.Equal(t, &office, Actor{Role: RoleManager, OfficeID: &office}.OfficeScope())
}

func strPtr(s string) *string { return &s }
