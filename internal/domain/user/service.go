package user

import "context"

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Get(ctx context.Context, id string) (UserResponse, error)
	Me(ctx context.Context) (UserResponse, error)
	Update(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter) (ListUserResponse, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	AssignBiometricIDs(ctx context.Context, req AssignBiometricIDsRequest) (AssignBiometricIDsResponse, error)
}
