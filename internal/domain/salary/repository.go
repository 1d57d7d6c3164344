package salary

import (
	"context"
	"time"
)

type SalaryRepository interface {
	GetByID(ctx context.Context, id string) (Record, error)
	// FindByUserAndMonth returns nil when no record exists.
	FindByUserAndMonth(ctx context.Context, userID string, month time.Time) (*Record, error)
	Create(ctx context.Context, r Record) (Record, error)
	Update(ctx context.Context, r Record) (Record, error)
	List(ctx context.Context, filter SalaryFilter) ([]Record, int64, error)
	ListMonth(ctx context.Context, month time.Time, officeID *string) ([]Record, error)
}
