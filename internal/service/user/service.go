package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-hr-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	tx postgresql.Transactor
	user.UserRepository
	refreshTokens postgresql.RefreshTokenRepository
}

func NewUserService(tx postgresql.Transactor, userRepository user.UserRepository, refreshTokens postgresql.RefreshTokenRepository) user.UserService {
	return &UserServiceImpl{
		tx:             tx,
		UserRepository: userRepository,
		refreshTokens:  refreshTokens,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// canSee applies role scoping: HR sees everyone, managers their office and
// employees only themselves.
func canSee(actor user.Actor, u user.User) bool {
	switch {
	case actor.IsHR():
		return true
	case actor.UserID == u.ID:
		return true
	case actor.Role == user.RoleManager:
		return actor.OfficeID != nil && u.OfficeID != nil && *actor.OfficeID == *u.OfficeID
	}
	return false
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := user.User{
		Email:        req.Email,
		PasswordHash: &hashed,
		FullName:     req.FullName,
		Role:         user.Role(req.Role),
		OfficeID:     req.OfficeID,
		ManagerID:    req.ManagerID,
		EmployeeCode: req.EmployeeCode,
		BiometricID:  req.BiometricID,
		Designation:  req.Designation,
		PhoneNumber:  req.PhoneNumber,
		BasicSalary:  req.BasicSalary,
		PerDaySalary: nullDecimal(req.PerDaySalary),
		IsActive:     true,
	}
	if req.JoiningDate != nil {
		d, _ := validator.IsValidDate(*req.JoiningDate)
		newUser.JoiningDate = &d
	}

	created, err := s.UserRepository.Create(ctx, newUser)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user.NewUserResponse(created), nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (user.UserResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return user.UserResponse{}, user.ErrUserNotFound
	}

	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !canSee(actor, u) {
		return user.UserResponse{}, user.ErrUserNotFound
	}
	return user.NewUserResponse(u), nil
}

// Me implements user.UserService.
func (s *UserServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	u, err := s.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Role != nil {
		u.Role = user.Role(*req.Role)
	}
	if req.OfficeID != nil {
		u.OfficeID = req.OfficeID
	}
	if req.ManagerID != nil {
		u.ManagerID = req.ManagerID
	}
	if req.EmployeeCode != nil {
		u.EmployeeCode = req.EmployeeCode
	}
	if req.BiometricID != nil {
		u.BiometricID = req.BiometricID
	}
	if req.Designation != nil {
		u.Designation = req.Designation
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = req.PhoneNumber
	}
	if req.JoiningDate != nil {
		d, _ := validator.IsValidDate(*req.JoiningDate)
		u.JoiningDate = &d
	}
	if req.BasicSalary != nil {
		u.BasicSalary = *req.BasicSalary
	}
	if req.PerDaySalary != nil {
		u.PerDaySalary = nullDecimal(req.PerDaySalary)
	}

	updated, err := s.UserRepository.Update(ctx, u)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}
	return user.NewUserResponse(updated), nil
}

// Deactivate implements user.UserService. Live refresh tokens are revoked
// with the account.
func (s *UserServiceImpl) Deactivate(ctx context.Context, id string) error {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if actor.UserID == id {
		return user.ErrCannotDeactivateSelf
	}
	if !validator.IsValidUUID(id) {
		return user.ErrUserNotFound
	}

	return s.tx.InTx(ctx, func(txCtx context.Context) error {
		if err := s.UserRepository.SetActive(txCtx, id, false); err != nil {
			return err
		}
		if err := s.refreshTokens.RevokeAllForUser(txCtx, id); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		return nil
	})
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.UserFilter) (user.ListUserResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return user.ListUserResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return user.ListUserResponse{}, err
	}
	if !actor.IsHR() {
		if actor.OfficeID == nil {
			return user.ListUserResponse{}, user.ErrInsufficientPermissions
		}
		filter.OfficeID = actor.OfficeID
	}

	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return user.ListUserResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	resp := user.ListUserResponse{Users: make([]user.UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, user.NewUserResponse(u))
	}
	resp.Meta = pagination.NewMeta(filter.Params, total, len(users))
	return resp, nil
}

// ChangePassword implements user.UserService.
func (s *UserServiceImpl) ChangePassword(ctx context.Context, req user.ChangePasswordRequest) error {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if u.PasswordHash == nil || bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		var errs validator.ValidationErrors
		errs.Add("current_password", "current password is incorrect")
		return errs
	}

	hashed, err := hashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.UserRepository.UpdatePassword(ctx, u.ID, hashed)
}

// AssignBiometricIDs implements user.UserService. Ids are numeric strings
// counting up from StartFrom, skipping any already held by another user.
func (s *UserServiceImpl) AssignBiometricIDs(ctx context.Context, req user.AssignBiometricIDsRequest) (user.AssignBiometricIDsResponse, error) {
	if err := req.Validate(); err != nil {
		return user.AssignBiometricIDsResponse{}, err
	}

	var (
		targets []user.User
		err     error
	)
	if req.Overwrite {
		targets, err = s.UserRepository.ListActive(ctx, req.OfficeID)
	} else {
		targets, err = s.UserRepository.ListWithoutBiometricID(ctx, req.OfficeID)
	}
	if err != nil {
		return user.AssignBiometricIDsResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	inUse, err := s.UserRepository.BiometricIDsInUse(ctx)
	if err != nil {
		return user.AssignBiometricIDsResponse{}, fmt.Errorf("failed to load biometric ids: %w", err)
	}
	assigned := PlanBiometricIDs(targets, inUse, req.StartFrom)

	resp := user.AssignBiometricIDsResponse{Assigned: assigned, DryRun: req.DryRun}
	if req.DryRun || len(assigned) == 0 {
		return resp, nil
	}

	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		// Clear first so reshuffled ids never collide on the unique index.
		if req.Overwrite {
			for _, a := range assigned {
				if err := s.UserRepository.SetBiometricID(txCtx, a.UserID, nil); err != nil {
					return err
				}
			}
		}
		for _, a := range assigned {
			id := a.BiometricID
			if err := s.UserRepository.SetBiometricID(txCtx, a.UserID, &id); err != nil {
				if errors.Is(err, user.ErrBiometricIDExists) {
					return fmt.Errorf("biometric id %s for %s: %w", id, a.FullName, err)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return user.AssignBiometricIDsResponse{}, err
	}

	slog.Info("Assigned biometric ids", "count", len(assigned), "overwrite", req.Overwrite)
	return resp, nil
}

// PlanBiometricIDs pairs each target with the next free numeric id. Ids held
// by the targets themselves count as free.
func PlanBiometricIDs(targets []user.User, inUse map[string]string, start int) []user.BiometricAssignment {
	reassigned := make(map[string]struct{}, len(targets))
	for _, u := range targets {
		reassigned[u.ID] = struct{}{}
	}
	taken := func(id string) bool {
		holder, ok := inUse[id]
		if !ok {
			return false
		}
		_, freed := reassigned[holder]
		return !freed
	}

	next := start
	assigned := make([]user.BiometricAssignment, 0, len(targets))
	for _, u := range targets {
		for taken(strconv.Itoa(next)) {
			next++
		}
		assigned = append(assigned, user.BiometricAssignment{
			UserID:      u.ID,
			FullName:    u.FullName,
			BiometricID: strconv.Itoa(next),
		})
		next++
	}
	return assigned
}
