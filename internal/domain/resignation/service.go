package resignation

import "context"

type ResignationService interface {
	Submit(ctx context.Context, req SubmitRequest) (ResignationResponse, error)
	Get(ctx context.Context, id string) (ResignationResponse, error)
	ListMine(ctx context.Context) ([]ResignationResponse, error)
	List(ctx context.Context, filter ResignationFilter) (ListResignationResponse, error)
	// Accept also sets the user's relieving date.
	Accept(ctx context.Context, req ReviewRequest) (ResignationResponse, error)
	Reject(ctx context.Context, req ReviewRequest) (ResignationResponse, error)
	Withdraw(ctx context.Context, id string) (ResignationResponse, error)
}
