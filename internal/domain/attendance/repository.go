package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	GetByID(ctx context.Context, id string) (Day, error)

	// FindByUserAndDate returns nil when no row exists.
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Day, error)

	// LockUserDate serialises writers of one (user, date) until the
	// surrounding transaction ends.
	LockUserDate(ctx context.Context, userID string, date time.Time) error

	// Upsert inserts or replaces the row for (UserID, Date).
	Upsert(ctx context.Context, day Day) (Day, error)

	// CreateIfMissing inserts day unless a row already exists and reports
	// whether it inserted.
	CreateIfMissing(ctx context.Context, day Day) (bool, error)

	List(ctx context.Context, filter AttendanceFilter) ([]Day, int64, error)

	// ListRange returns every row in [from, to], optionally narrowed.
	ListRange(ctx context.Context, from, to time.Time, userID, officeID *string) ([]Day, error)

	CountPresent(ctx context.Context, userID string, from, to time.Time) (int, error)
}
