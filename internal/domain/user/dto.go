package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UserResponse struct {
	ID            string           `json:"id"`
	Email         string           `json:"email"`
	FullName      string           `json:"full_name"`
	Role          string           `json:"role"`
	OfficeID      *string          `json:"office_id,omitempty"`
	OfficeName    *string          `json:"office_name,omitempty"`
	ManagerID     *string          `json:"manager_id,omitempty"`
	EmployeeCode  *string          `json:"employee_code,omitempty"`
	BiometricID   *string          `json:"biometric_id,omitempty"`
	Designation   *string          `json:"designation,omitempty"`
	PhoneNumber   *string          `json:"phone_number,omitempty"`
	JoiningDate   *string          `json:"joining_date,omitempty"`
	RelievingDate *string          `json:"relieving_date,omitempty"`
	BasicSalary   decimal.Decimal  `json:"basic_salary"`
	PerDaySalary  *decimal.Decimal `json:"per_day_salary,omitempty"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     string           `json:"created_at"`
	UpdatedAt     string           `json:"updated_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func NewUserResponse(u User) UserResponse {
	resp := UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		Role:          string(u.Role),
		OfficeID:      u.OfficeID,
		OfficeName:    u.OfficeName,
		ManagerID:     u.ManagerID,
		EmployeeCode:  u.EmployeeCode,
		BiometricID:   u.BiometricID,
		Designation:   u.Designation,
		PhoneNumber:   u.PhoneNumber,
		JoiningDate:   formatDate(u.JoiningDate),
		RelievingDate: formatDate(u.RelievingDate),
		BasicSalary:   u.BasicSalary,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     u.UpdatedAt.Format(time.RFC3339),
	}
	if u.PerDaySalary.Valid {
		v := u.PerDaySalary.Decimal
		resp.PerDaySalary = &v
	}
	return resp
}

type CreateUserRequest struct {
	Email        string           `json:"email"`
	Password     string           `json:"password"`
	FullName     string           `json:"full_name"`
	Role         string           `json:"role"`
	OfficeID     *string          `json:"office_id,omitempty"`
	ManagerID    *string          `json:"manager_id,omitempty"`
	EmployeeCode *string          `json:"employee_code,omitempty"`
	BiometricID  *string          `json:"biometric_id,omitempty"`
	Designation  *string          `json:"designation,omitempty"`
	PhoneNumber  *string          `json:"phone_number,omitempty"`
	JoiningDate  *string          `json:"joining_date,omitempty"`
	BasicSalary  decimal.Decimal  `json:"basic_salary"`
	PerDaySalary *decimal.Decimal `json:"per_day_salary,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}

	if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}

	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	}

	if r.Role == "" {
		r.Role = string(RoleEmployee)
	}
	if !Role(r.Role).Valid() {
		errs.Add("role", "role must be one of admin, hr, manager, employee")
	}

	validateProfile(&errs, r.OfficeID, r.ManagerID, r.BiometricID, r.PhoneNumber, r.JoiningDate)
	validateSalary(&errs, &r.BasicSalary, r.PerDaySalary)

	return errs.Err()
}

type UpdateUserRequest struct {
	ID           string           `json:"-"`
	FullName     *string          `json:"full_name,omitempty"`
	Role         *string          `json:"role,omitempty"`
	OfficeID     *string          `json:"office_id,omitempty"`
	ManagerID    *string          `json:"manager_id,omitempty"`
	EmployeeCode *string          `json:"employee_code,omitempty"`
	BiometricID  *string          `json:"biometric_id,omitempty"`
	Designation  *string          `json:"designation,omitempty"`
	PhoneNumber  *string          `json:"phone_number,omitempty"`
	JoiningDate  *string          `json:"joining_date,omitempty"`
	BasicSalary  *decimal.Decimal `json:"basic_salary,omitempty"`
	PerDaySalary *decimal.Decimal `json:"per_day_salary,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "invalid user id")
	}
	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs.Add("full_name", "full_name cannot be empty")
	}
	if r.Role != nil && !Role(*r.Role).Valid() {
		errs.Add("role", "role must be one of admin, hr, manager, employee")
	}

	validateProfile(&errs, r.OfficeID, r.ManagerID, r.BiometricID, r.PhoneNumber, r.JoiningDate)
	if r.BasicSalary != nil {
		validateSalary(&errs, r.BasicSalary, r.PerDaySalary)
	} else if r.PerDaySalary != nil && r.PerDaySalary.IsNegative() {
		errs.Add("per_day_salary", "per_day_salary cannot be negative")
	}

	return errs.Err()
}

func validateProfile(errs *validator.ValidationErrors, officeID, managerID, biometricID, phone, joining *string) {
	if officeID != nil && !validator.IsValidUUID(*officeID) {
		errs.Add("office_id", "invalid office_id")
	}
	if managerID != nil && !validator.IsValidUUID(*managerID) {
		errs.Add("manager_id", "invalid manager_id")
	}
	if biometricID != nil && !validator.IsValidBiometricID(*biometricID) {
		errs.Add("biometric_id", "biometric_id must be 1-24 letters or digits")
	}
	if phone != nil && !validator.IsValidPhoneNumber(*phone) {
		errs.Add("phone_number", "invalid phone number")
	}
	if joining != nil {
		if _, ok := validator.IsValidDate(*joining); !ok {
			errs.Add("joining_date", "joining_date must be YYYY-MM-DD")
		}
	}
}

func validateSalary(errs *validator.ValidationErrors, basic *decimal.Decimal, perDay *decimal.Decimal) {
	if basic.IsNegative() {
		errs.Add("basic_salary", "basic_salary cannot be negative")
	}
	if perDay != nil && perDay.IsNegative() {
		errs.Add("per_day_salary", "per_day_salary cannot be negative")
	}
}

type UserFilter struct {
	Search   *string `json:"search,omitempty"`
	OfficeID *string `json:"office_id,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	pagination.Params
}

func (f *UserFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)
	if f.OfficeID != nil && !validator.IsValidUUID(*f.OfficeID) {
		errs.Add("office_id", "invalid office_id")
	}
	if f.Role != nil && !Role(*f.Role).Valid() {
		errs.Add("role", "invalid role")
	}
	return errs.Err()
}

type ListUserResponse struct {
	pagination.Meta
	Users []UserResponse `json:"users"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.CurrentPassword) {
		errs.Add("current_password", "current_password is required")
	}
	if len(r.NewPassword) < 8 {
		errs.Add("new_password", "new_password must be at least 8 characters")
	}
	return errs.Err()
}

// AssignBiometricIDsRequest hands out sequential numeric ids to users that
// have none (or to everyone when Overwrite is set).
type AssignBiometricIDsRequest struct {
	OfficeID  *string `json:"office_id,omitempty"`
	StartFrom int     `json:"start_from"`
	Overwrite bool    `json:"overwrite"`
	DryRun    bool    `json:"dry_run"`
}

func (r *AssignBiometricIDsRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.OfficeID != nil && !validator.IsValidUUID(*r.OfficeID) {
		errs.Add("office_id", "invalid office_id")
	}
	if r.StartFrom < 0 {
		errs.Add("start_from", "start_from cannot be negative")
	}
	if r.StartFrom == 0 {
		r.StartFrom = 1001
	}
	return errs.Err()
}

type BiometricAssignment struct {
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name"`
	BiometricID string `json:"biometric_id"`
}

type AssignBiometricIDsResponse struct {
	Assigned []BiometricAssignment `json:"assigned"`
	DryRun   bool                  `json:"dry_run"`
}
