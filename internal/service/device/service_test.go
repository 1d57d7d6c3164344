package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/config"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/zkteco"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusUpdate struct {
	status    device.Status
	synced    bool
	lastError *string
}

type fakeDevices struct {
	device.DeviceRepository
	devices []device.Device
	updates map[string][]statusUpdate
}

func (f *fakeDevices) GetByID(_ context.Context, id string) (device.Device, error) {
	for _, d := range f.devices {
		if d.ID == id {
			return d, nil
		}
	}
	return device.Device{}, device.ErrDeviceNotFound
}

func (f *fakeDevices) GetBySerial(_ context.Context, serial string) (device.Device, error) {
	for _, d := range f.devices {
		if d.SerialNumber == serial {
			return d, nil
		}
	}
	return device.Device{}, device.ErrDeviceNotFound
}

func (f *fakeDevices) GetByIP(_ context.Context, ip string) (device.Device, error) {
	for _, d := range f.devices {
		if d.IPAddress == ip {
			return d, nil
		}
	}
	return device.Device{}, device.ErrDeviceNotFound
}

func (f *fakeDevices) ListActive(context.Context) ([]device.Device, error) {
	var out []device.Device
	for _, d := range f.devices {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDevices) UpdateStatus(_ context.Context, id string, status device.Status, syncedAt *time.Time, lastError *string) error {
	f.updates[id] = append(f.updates[id], statusUpdate{status: status, synced: syncedAt != nil, lastError: lastError})
	return nil
}

type fakeIngestor struct {
	batches []punch.Batch
	err     error
}

func (f *fakeIngestor) Ingest(_ context.Context, b punch.Batch) (punch.IngestResult, error) {
	if f.err != nil {
		return punch.IngestResult{}, f.err
	}
	f.batches = append(f.batches, b)
	return punch.IngestResult{Received: len(b.Records), Stored: len(b.Records), Applied: len(b.Records)}, nil
}

type fakeReader struct {
	records    []zkteco.Attendance
	connectErr error
}

func (f *fakeReader) Connect(context.Context) error { return f.connectErr }

func (f *fakeReader) GetAttendance(context.Context) ([]zkteco.Attendance, error) {
	return f.records, nil
}

func (f *fakeReader) Disconnect() error { return nil }

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newPoller(devices *fakeDevices, ingestor *fakeIngestor, reader *fakeReader) *Poller {
	dial := func(device.Device, *time.Location) AttendanceReader { return reader }
	p := NewPoller(devices, ingestor, dial, config.DeviceConfig{PollLookback: 48 * time.Hour, Timeout: time.Second}, "UTC")
	p.now = func() time.Time { return now }
	return p
}

func gate() device.Device {
	return device.Device{ID: "dev-1", Name: "Gate", SerialNumber: "CQZ1", IPAddress: "10.0.0.5", Port: 4370, IsActive: true}
}

func TestPoller_SyncDevice(t *testing.T) {
	devices := &fakeDevices{devices: []device.Device{gate()}, updates: map[string][]statusUpdate{}}
	ingestor := &fakeIngestor{}
	reader := &fakeReader{records: []zkteco.Attendance{
		{UserID: "1001", Timestamp: now.Add(-72 * time.Hour)},
		{UserID: "1001", Timestamp: now.Add(-3 * time.Hour), PunchState: 0},
		{UserID: "1002", Timestamp: now.Add(-2 * time.Hour), PunchState: 1, VerifyType: 15},
	}}
	p := newPoller(devices, ingestor, reader)

	res, err := p.SyncDevice(context.Background(), gate())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Fetched)
	assert.Equal(t, 2, res.InWindow)
	assert.Equal(t, "online", res.Status)
	require.Len(t, ingestor.batches, 1)

	b := ingestor.batches[0]
	assert.Equal(t, punch.SourcePoll, b.Source)
	assert.Equal(t, "dev-1", *b.DeviceID)
	require.Len(t, b.Records, 2)
	assert.Equal(t, 1, b.Records[1].StatusCode)
	assert.Equal(t, 15, b.Records[1].VerifyType)

	res, err = p.SyncDevice(context.Background(), gate())
	require.NoError(t, err)
	assert.Len(t, ingestor.batches, 1, "already seen records are not sent again")
	assert.Equal(t, 0, res.Ingest.Received)

	require.Len(t, devices.updates["dev-1"], 2)
	assert.Equal(t, device.StatusOnline, devices.updates["dev-1"][0].status)
	assert.True(t, devices.updates["dev-1"][0].synced)
}

func TestPoller_FailedIngestIsRetried(t *testing.T) {
	devices := &fakeDevices{devices: []device.Device{gate()}, updates: map[string][]statusUpdate{}}
	ingestor := &fakeIngestor{err: errors.New("database unavailable")}
	reader := &fakeReader{records: []zkteco.Attendance{{UserID: "1001", Timestamp: now.Add(-time.Hour)}}}
	p := newPoller(devices, ingestor, reader)

	res, err := p.SyncDevice(context.Background(), gate())
	require.Error(t, err)
	assert.Equal(t, "error", res.Status)
	require.NotNil(t, res.Error)
	last := devices.updates["dev-1"][0]
	assert.Equal(t, device.StatusError, last.status)
	assert.False(t, last.synced)

	ingestor.err = nil
	_, err = p.SyncDevice(context.Background(), gate())
	require.NoError(t, err)
	assert.Len(t, ingestor.batches, 1, "records of a rolled back batch are sent again")
}

func TestPoller_Unreachable(t *testing.T) {
	devices := &fakeDevices{devices: []device.Device{gate()}, updates: map[string][]statusUpdate{}}
	reader := &fakeReader{connectErr: errors.New("i/o timeout")}
	p := newPoller(devices, &fakeIngestor{}, reader)

	res, err := p.SyncDevice(context.Background(), gate())
	require.Error(t, err)
	assert.Equal(t, "offline", res.Status)
	assert.Equal(t, device.StatusOffline, devices.updates["dev-1"][0].status)
	assert.Contains(t, *devices.updates["dev-1"][0].lastError, "i/o timeout")

	// PollAll swallows per-device failures.
	assert.NoError(t, p.PollAll(context.Background()))
}

func TestPoller_InFlight(t *testing.T) {
	p := newPoller(&fakeDevices{updates: map[string][]statusUpdate{}}, &fakeIngestor{}, &fakeReader{})
	require.True(t, p.acquire("dev-1"))

	_, err := p.SyncDevice(context.Background(), gate())
	assert.ErrorIs(t, err, device.ErrSyncInProgress)

	p.release("dev-1")
	_, err = p.SyncDevice(context.Background(), gate())
	assert.NoError(t, err)
}

func TestHandlePush(t *testing.T) {
	inactive := gate()
	inactive.ID, inactive.SerialNumber, inactive.IPAddress, inactive.IsActive = "dev-2", "OLD1", "10.0.0.9", false
	devices := &fakeDevices{devices: []device.Device{gate(), inactive}, updates: map[string][]statusUpdate{}}
	ingestor := &fakeIngestor{}
	svc := NewDeviceService(devices, nil, ingestor, nil, "Asia/Kolkata")

	resp, err := svc.HandlePush(context.Background(), device.PushRequest{
		Payload: map[string]any{"SN": "CQZ1", "PIN": "1001", "DateTime": "2024-03-15 09:00:00", "status": "0"},
	})
	require.NoError(t, err)
	assert.Equal(t, "dev-1", resp.DeviceID)
	assert.Equal(t, 1, resp.Stored)
	require.Len(t, ingestor.batches, 1)
	assert.Equal(t, punch.SourcePush, ingestor.batches[0].Source)
	assert.Equal(t, "2024-03-15T03:30:00Z", ingestor.batches[0].Records[0].Timestamp.UTC().Format(time.RFC3339))

	resp, err = svc.HandlePush(context.Background(), device.PushRequest{
		RemoteIP: "10.0.0.5",
		AttLog:   "1002\t2024-03-15 18:00:00\t1\t1\n garbage\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "dev-1", resp.DeviceID, "falls back to the source address")
	assert.Equal(t, 1, resp.Skipped)

	_, err = svc.HandlePush(context.Background(), device.PushRequest{Serial: "NOPE", RemoteIP: "10.9.9.9", AttLog: "1\t2024-03-15 09:00:00"})
	assert.ErrorIs(t, err, device.ErrDeviceNotRegistered)

	_, err = svc.HandlePush(context.Background(), device.PushRequest{Serial: "OLD1", AttLog: "1\t2024-03-15 09:00:00"})
	assert.ErrorIs(t, err, device.ErrDeviceInactive)

	assert.Len(t, ingestor.batches, 2)
}
