package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, device and system management
	RoleHR       Role = "hr"       // Attendance, payroll and documents for every office
	RoleManager  Role = "manager"  // Reviews requests for their own office
	RoleEmployee Role = "employee" // Self service only
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type User struct {
	ID              string
	Email           string
	PasswordHash    *string
	FullName        string
	Role            Role
	OfficeID        *string
	ManagerID       *string
	EmployeeCode    *string
	BiometricID     *string
	Designation     *string
	PhoneNumber     *string
	JoiningDate     *time.Time
	RelievingDate   *time.Time
	BasicSalary     decimal.Decimal
	PerDaySalary    decimal.NullDecimal
	IsActive        bool
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	OfficeName *string
}

// IsHR reports whether the user sees every office.
func (u User) IsHR() bool {
	return u.Role == RoleAdmin || u.Role == RoleHR
}

func (u User) CanReview() bool {
	return u.IsHR() || u.Role == RoleManager
}

// PerDayPay returns the explicit per-day salary or basic / 30.
func (u User) PerDayPay() decimal.Decimal {
	if u.PerDaySalary.Valid {
		return u.PerDaySalary.Decimal
	}
	return u.BasicSalary.Div(decimal.NewFromInt(30)).Round(2)
}
