package salary

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/document"
)

type SalaryService interface {
	List(ctx context.Context, filter SalaryFilter) (ListSalaryResponse, error)
	Get(ctx context.Context, id string) (SalaryResponse, error)
	Create(ctx context.Context, req CreateSalaryRequest) (SalaryResponse, error)
	Update(ctx context.Context, req UpdateSalaryRequest) (SalaryResponse, error)

	Calculate(ctx context.Context, req CalculateRequest) (CalculateResponse, error)
	Recalculate(ctx context.Context, id string) (SalaryResponse, error)

	MarkPaid(ctx context.Context, req StatusChangeRequest) (SalaryResponse, error)
	Hold(ctx context.Context, req StatusChangeRequest) (SalaryResponse, error)
	Release(ctx context.Context, req StatusChangeRequest) (SalaryResponse, error)

	// Slip renders the salary slip, as HTML when PDF rendering fails.
	Slip(ctx context.Context, id string) (document.File, error)

	// CalculatePreviousMonth is run by the scheduler.
	CalculatePreviousMonth(ctx context.Context, now time.Time) (CalculateResponse, error)
}
