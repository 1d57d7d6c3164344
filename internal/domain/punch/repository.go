package punch

import (
	"context"
	"time"
)

type PunchRepository interface {
	Create(ctx context.Context, e Event) (Event, error)
	ExistsByHash(ctx context.Context, hash string) (bool, error)
	MarkProcessed(ctx context.Context, id string) error
	List(ctx context.Context, filter PunchFilter) ([]Event, int64, error)

	// ListForRebuild returns punches in [from, to) with a resolvable user,
	// matching unassigned punches by biometric id, ordered by time.
	ListForRebuild(ctx context.Context, from, to time.Time) ([]Event, error)

	// CountDuplicates and DeleteDuplicates work on rows sharing a record
	// hash, keeping the oldest of each group.
	CountDuplicates(ctx context.Context) (int64, error)
	DeleteDuplicates(ctx context.Context) (int64, error)
}
