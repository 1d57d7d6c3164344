package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
)

type DeviceServiceImpl struct {
	device.DeviceRepository
	punches  punch.PunchRepository
	ingestor punch.Ingestor
	poller   *Poller
	timezone string
}

func NewDeviceService(deviceRepository device.DeviceRepository, punches punch.PunchRepository, ingestor punch.Ingestor, poller *Poller, timezone string) device.DeviceService {
	return &DeviceServiceImpl{
		DeviceRepository: deviceRepository,
		punches:          punches,
		ingestor:         ingestor,
		poller:           poller,
		timezone:         timezone,
	}
}

// Create implements device.DeviceService.
func (s *DeviceServiceImpl) Create(ctx context.Context, req device.CreateDeviceRequest) (device.DeviceResponse, error) {
	if err := req.Validate(); err != nil {
		return device.DeviceResponse{}, err
	}

	created, err := s.DeviceRepository.Create(ctx, device.Device{
		Name:         req.Name,
		Vendor:       device.Vendor(req.Vendor),
		SerialNumber: req.SerialNumber,
		IPAddress:    req.IPAddress,
		Port:         req.Port,
		CommKey:      req.CommKey,
		OfficeID:     req.OfficeID,
		IsActive:     true,
		Status:       device.StatusOffline,
	})
	if err != nil {
		return device.DeviceResponse{}, err
	}

	slog.Info("Device registered", "device_id", created.ID, "serial", created.SerialNumber)
	return device.NewDeviceResponse(created), nil
}

// Get implements device.DeviceService.
func (s *DeviceServiceImpl) Get(ctx context.Context, id string) (device.DeviceResponse, error) {
	d, err := s.DeviceRepository.GetByID(ctx, id)
	if err != nil {
		return device.DeviceResponse{}, err
	}
	return device.NewDeviceResponse(d), nil
}

// List implements device.DeviceService.
func (s *DeviceServiceImpl) List(ctx context.Context, filter device.DeviceFilter) ([]device.DeviceResponse, error) {
	devices, err := s.DeviceRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	resp := make([]device.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		resp = append(resp, device.NewDeviceResponse(d))
	}
	return resp, nil
}

// Update implements device.DeviceService.
func (s *DeviceServiceImpl) Update(ctx context.Context, req device.UpdateDeviceRequest) (device.DeviceResponse, error) {
	if err := req.Validate(); err != nil {
		return device.DeviceResponse{}, err
	}

	d, err := s.DeviceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return device.DeviceResponse{}, err
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.IPAddress != nil {
		d.IPAddress = *req.IPAddress
	}
	if req.Port != nil {
		d.Port = *req.Port
	}
	if req.CommKey != nil {
		d.CommKey = *req.CommKey
	}
	if req.OfficeID != nil {
		d.OfficeID = req.OfficeID
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}

	updated, err := s.DeviceRepository.Update(ctx, d)
	if err != nil {
		return device.DeviceResponse{}, err
	}
	return device.NewDeviceResponse(updated), nil
}

// Delete implements device.DeviceService.
func (s *DeviceServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.DeviceRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Device deleted", "device_id", id)
	return nil
}

// Sync implements device.DeviceService. The device's error is reported in
// the result rather than as a failure of the call.
func (s *DeviceServiceImpl) Sync(ctx context.Context, id string) (device.SyncResult, error) {
	d, err := s.DeviceRepository.GetByID(ctx, id)
	if err != nil {
		return device.SyncResult{}, err
	}
	if !d.IsActive {
		return device.SyncResult{}, device.ErrDeviceInactive
	}

	result, err := s.poller.SyncDevice(ctx, d)
	if errors.Is(err, device.ErrSyncInProgress) {
		return result, err
	}
	return result, nil
}

// ListPunches implements device.DeviceService.
func (s *DeviceServiceImpl) ListPunches(ctx context.Context, filter punch.PunchFilter) (punch.ListPunchResponse, error) {
	if err := filter.Validate(); err != nil {
		return punch.ListPunchResponse{}, err
	}
	if filter.DeviceID != nil {
		if _, err := s.DeviceRepository.GetByID(ctx, *filter.DeviceID); err != nil {
			return punch.ListPunchResponse{}, err
		}
	}

	events, total, err := s.punches.List(ctx, filter)
	if err != nil {
		return punch.ListPunchResponse{}, fmt.Errorf("failed to list punches: %w", err)
	}
	resp := punch.ListPunchResponse{Punches: make([]punch.PunchResponse, 0, len(events))}
	for _, e := range events {
		resp.Punches = append(resp.Punches, punch.NewPunchResponse(e))
	}
	resp.Meta = pagination.NewMeta(filter.Params, total, len(events))
	return resp, nil
}

// identify finds the registered device behind a push, by serial number
// first and by source address second.
func (s *DeviceServiceImpl) identify(ctx context.Context, serial, remoteIP string) (device.Device, error) {
	if serial != "" {
		d, err := s.DeviceRepository.GetBySerial(ctx, serial)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, device.ErrDeviceNotFound) {
			return device.Device{}, err
		}
	}
	if remoteIP != "" {
		d, err := s.DeviceRepository.GetByIP(ctx, remoteIP)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, device.ErrDeviceNotFound) {
			return device.Device{}, err
		}
	}
	return device.Device{}, device.ErrDeviceNotRegistered
}

// HandlePush implements device.DeviceService. Unknown devices are refused;
// registration only happens through the API.
func (s *DeviceServiceImpl) HandlePush(ctx context.Context, req device.PushRequest) (device.PushResponse, error) {
	serial := req.Serial
	if serial == "" && req.Payload != nil {
		// The serial may only be present inside the body.
		peek, _ := punch.ParsePushPayload(req.Payload, time.UTC)
		serial = peek.Serial
	}

	d, err := s.identify(ctx, serial, req.RemoteIP)
	if err != nil {
		slog.Warn("Push from unregistered device refused", "serial", serial, "remote_ip", req.RemoteIP)
		return device.PushResponse{}, err
	}
	if !d.IsActive {
		slog.Warn("Push from inactive device refused", "device_id", d.ID, "serial", serial)
		return device.PushResponse{}, device.ErrDeviceInactive
	}

	loc := d.Location(s.timezone)
	var (
		records []punch.Record
		skipped int
	)
	if req.Payload != nil {
		parsed, err := punch.ParsePushPayload(req.Payload, loc)
		if err != nil {
			return device.PushResponse{}, err
		}
		records, skipped = parsed.Records, parsed.Skipped
	} else {
		records, skipped = punch.ParseADMSAttLog(req.AttLog, loc)
	}

	res, err := s.ingestor.Ingest(ctx, punch.Batch{
		DeviceID: &d.ID,
		Source:   punch.SourcePush,
		Records:  records,
	})
	if err != nil {
		return device.PushResponse{}, err
	}

	now := time.Now()
	if err := s.DeviceRepository.UpdateStatus(ctx, d.ID, device.StatusOnline, &now, nil); err != nil {
		slog.Error("Failed to update device status", "device_id", d.ID, "error", err)
	}

	slog.Info("Device push accepted",
		"device_id", d.ID,
		"received", res.Received,
		"stored", res.Stored,
		"skipped", skipped,
	)
	return device.PushResponse{DeviceID: d.ID, Skipped: skipped, IngestResult: res}, nil
}
