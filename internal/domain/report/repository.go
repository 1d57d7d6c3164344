package report

import (
	"context"
	"time"
)

type ReportRepository interface {
	StatusCounts(ctx context.Context, date time.Time, officeID *string) (StatusCounts, error)
	ActiveEmployees(ctx context.Context, officeID *string) (int, error)
	DeviceStatusCounts(ctx context.Context) (map[string]int, error)
}
