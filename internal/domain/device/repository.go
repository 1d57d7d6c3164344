package device

import (
	"context"
	"time"
)

type DeviceRepository interface {
	Create(ctx context.Context, d Device) (Device, error)
	GetByID(ctx context.Context, id string) (Device, error)
	GetBySerial(ctx context.Context, serial string) (Device, error)
	GetByIP(ctx context.Context, ip string) (Device, error)
	List(ctx context.Context, filter DeviceFilter) ([]Device, error)
	ListActive(ctx context.Context) ([]Device, error)
	Update(ctx context.Context, d Device) (Device, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status Status, syncedAt *time.Time, lastError *string) error
}
