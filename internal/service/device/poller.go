package device

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/config"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/zkteco"
)

// AttendanceReader is one session with a terminal.
type AttendanceReader interface {
	Connect(ctx context.Context) error
	GetAttendance(ctx context.Context) ([]zkteco.Attendance, error)
	Disconnect() error
}

// Dialer opens a reader for a device.
type Dialer func(d device.Device, loc *time.Location) AttendanceReader

// ZKDialer reads devices over the ZK binary protocol.
func ZKDialer(timeout time.Duration) Dialer {
	return func(d device.Device, loc *time.Location) AttendanceReader {
		return zkteco.NewClient(zkteco.Options{
			Address:  zkteco.Address(d.IPAddress, d.Port),
			Password: uint32(d.CommKey),
			Timeout:  timeout,
			Location: loc,
		})
	}
}

// Poller pulls attendance logs from registered devices.
type Poller struct {
	devices  device.DeviceRepository
	ingestor punch.Ingestor
	dedup    *punch.Deduplicator
	dial     Dialer
	cfg      config.DeviceConfig
	timezone string
	now      func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewPoller(devices device.DeviceRepository, ingestor punch.Ingestor, dial Dialer, cfg config.DeviceConfig, timezone string) *Poller {
	return &Poller{
		devices:  devices,
		ingestor: ingestor,
		dedup:    punch.NewDeduplicator(punch.DefaultDedupCapacity),
		dial:     dial,
		cfg:      cfg,
		timezone: timezone,
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
}

func (p *Poller) acquire(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inFlight[id]; busy {
		return false
	}
	p.inFlight[id] = struct{}{}
	return true
}

func (p *Poller) release(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, id)
}

// PollAll syncs every active device in turn. A failing device does not
// stop the others; its error is recorded on the device row.
func (p *Poller) PollAll(ctx context.Context) error {
	devices, err := p.devices.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active devices: %w", err)
	}
	if len(devices) == 0 {
		slog.Debug("No active devices to poll")
		return nil
	}

	var total punch.IngestResult
	for _, d := range devices {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res, err := p.SyncDevice(ctx, d)
		if err != nil {
			slog.Warn("Device poll failed", "device_id", d.ID, "name", d.Name, "error", err)
			continue
		}
		total.Add(res.Ingest)
	}

	slog.Info("Device poll finished",
		"devices", len(devices),
		"received", total.Received,
		"stored", total.Stored,
		"duplicates", total.Duplicates,
		"unknown_users", total.UnknownUsers,
	)
	return nil
}

// SyncDevice reads one device, keeps the records inside the lookback
// window that were not seen before, and ingests them as one batch.
func (p *Poller) SyncDevice(ctx context.Context, d device.Device) (device.SyncResult, error) {
	result := device.SyncResult{DeviceID: d.ID}
	if !p.acquire(d.ID) {
		return result, device.ErrSyncInProgress
	}
	defer p.release(d.ID)

	loc := d.Location(p.timezone)
	records, err := p.read(ctx, d, loc)
	if err != nil {
		return p.fail(ctx, result, device.StatusOffline, err)
	}
	result.Fetched = len(records)

	cutoff := p.now().Add(-p.cfg.PollLookback)
	var (
		fresh  []punch.Record
		hashes []string
	)
	for _, a := range records {
		if p.cfg.PollLookback > 0 && a.Timestamp.Before(cutoff) {
			continue
		}
		result.InWindow++

		rec := punch.Record{
			BiometricID: a.UserID,
			Timestamp:   a.Timestamp,
			StatusCode:  a.PunchState,
			VerifyType:  a.VerifyType,
		}
		hash := rec.Hash(d.ID)
		if p.dedup.Seen(d.ID, hash) {
			continue
		}
		fresh = append(fresh, rec)
		hashes = append(hashes, hash)
	}

	if len(fresh) > 0 {
		res, err := p.ingestor.Ingest(ctx, punch.Batch{
			DeviceID: &d.ID,
			Source:   punch.SourcePoll,
			Records:  fresh,
		})
		if err != nil {
			return p.fail(ctx, result, device.StatusError, err)
		}
		result.Ingest = res
		// Only remembered once the batch is committed.
		for _, h := range hashes {
			p.dedup.Mark(d.ID, h)
		}
	}

	now := p.now()
	if err := p.devices.UpdateStatus(ctx, d.ID, device.StatusOnline, &now, nil); err != nil {
		slog.Error("Failed to update device status", "device_id", d.ID, "error", err)
	}
	result.Status = string(device.StatusOnline)

	slog.Info("Device synced",
		"device_id", d.ID,
		"name", d.Name,
		"fetched", result.Fetched,
		"in_window", result.InWindow,
		"stored", result.Ingest.Stored,
		"applied", result.Ingest.Applied,
	)
	return result, nil
}

func (p *Poller) read(ctx context.Context, d device.Device, loc *time.Location) ([]zkteco.Attendance, error) {
	timeout := p.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	readCtx, cancel := context.WithTimeout(ctx, 3*timeout)
	defer cancel()

	client := p.dial(d, loc)
	if err := client.Connect(readCtx); err != nil {
		return nil, err
	}
	defer func() {
		if err := client.Disconnect(); err != nil {
			slog.Debug("Device disconnect failed", "device_id", d.ID, "error", err)
		}
	}()

	return client.GetAttendance(readCtx)
}

func (p *Poller) fail(ctx context.Context, result device.SyncResult, status device.Status, cause error) (device.SyncResult, error) {
	msg := cause.Error()
	if err := p.devices.UpdateStatus(ctx, result.DeviceID, status, nil, &msg); err != nil {
		slog.Error("Failed to update device status", "device_id", result.DeviceID, "error", err)
	}
	result.Status = string(status)
	result.Error = &msg
	return result, fmt.Errorf("sync device %s: %w", result.DeviceID, cause)
}
