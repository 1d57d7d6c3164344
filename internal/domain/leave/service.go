package leave

import "context"

type LeaveService interface {
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	Get(ctx context.Context, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)
	// List is scoped by role like attendance.
	List(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)
	Approve(ctx context.Context, req ReviewRequest) (LeaveResponse, error)
	Reject(ctx context.Context, req ReviewRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, id string) (LeaveResponse, error)
}
