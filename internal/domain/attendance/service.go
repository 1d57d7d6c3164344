package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	// List is scoped by role: HR sees everyone, managers their office,
	// employees themselves.
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	ListMine(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	Get(ctx context.Context, id string) (AttendanceResponse, error)

	Update(ctx context.Context, req UpdateDayRequest) (AttendanceResponse, error)
	Recalculate(ctx context.Context, req RecalculateRequest) (RecalculateResponse, error)
	RecordManualPunch(ctx context.Context, req ManualPunchRequest) (AttendanceResponse, error)

	// BackfillAbsences writes a row for every active user who has none on date.
	BackfillAbsences(ctx context.Context, date time.Time) (BackfillResult, error)

	// Rebuild replays stored punches in [from, to] into attendance days.
	Rebuild(ctx context.Context, from, to time.Time) (RebuildResult, error)
}
