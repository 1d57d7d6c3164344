package master

import (
	"context"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/holiday"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/office"
)

// MasterService manages reference data: offices and holidays.
type MasterService interface {
	CreateOffice(ctx context.Context, req office.CreateOfficeRequest) (office.OfficeResponse, error)
	GetOffice(ctx context.Context, id string) (office.OfficeResponse, error)
	ListOffices(ctx context.Context) ([]office.OfficeResponse, error)
	UpdateOffice(ctx context.Context, req office.UpdateOfficeRequest) (office.OfficeResponse, error)
	DeleteOffice(ctx context.Context, id string) error

	CreateHoliday(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error)
	ListHolidays(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error)
	DeleteHoliday(ctx context.Context, id string) error
}
