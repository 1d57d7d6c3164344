package device

import (
	"context"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
)

type DeviceService interface {
	Create(ctx context.Context, req CreateDeviceRequest) (DeviceResponse, error)
	Get(ctx context.Context, id string) (DeviceResponse, error)
	List(ctx context.Context, filter DeviceFilter) ([]DeviceResponse, error)
	Update(ctx context.Context, req UpdateDeviceRequest) (DeviceResponse, error)
	Delete(ctx context.Context, id string) error

	// Sync polls one device now.
	Sync(ctx context.Context, id string) (SyncResult, error)
	ListPunches(ctx context.Context, filter punch.PunchFilter) (punch.ListPunchResponse, error)

	// HandlePush accepts punches pushed by a registered device.
	HandlePush(ctx context.Context, req PushRequest) (PushResponse, error)
}
