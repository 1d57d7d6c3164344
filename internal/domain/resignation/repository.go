package resignation

import "context"

type ResignationRepository interface {
	Create(ctx context.Context, r Resignation) (Resignation, error)
	GetByID(ctx context.Context, id string) (Resignation, error)
	List(ctx context.Context, filter ResignationFilter) ([]Resignation, int64, error)
	// UpdateStatus moves a pending resignation to r.Status.
	UpdateStatus(ctx context.Context, r Resignation) (Resignation, error)
	HasOpen(ctx context.Context, userID string) (bool, error)
	// LatestAccepted returns nil when the user has none.
	LatestAccepted(ctx context.Context, userID string) (*Resignation, error)
}
