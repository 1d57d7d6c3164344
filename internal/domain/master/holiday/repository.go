package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter HolidayFilter) ([]Holiday, error)
	// Between returns holidays in [from, to] that apply to officeID, including
	// company-wide ones.
	Between(ctx context.Context, from, to time.Time, officeID *string) ([]Holiday, error)
	IsHoliday(ctx context.Context, date time.Time, officeID *string) (bool, error)
}
