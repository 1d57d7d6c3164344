package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, filter LeaveFilter) ([]Request, int64, error)
	// UpdateStatus moves a pending request to r.Status and returns
	// ErrNotPending when it was no longer pending.
	UpdateStatus(ctx context.Context, r Request) (Request, error)
	HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error)
	// ApprovedOn returns the ids of users on approved full-day leave on date.
	ApprovedOn(ctx context.Context, date time.Time) (map[string]struct{}, error)
}
