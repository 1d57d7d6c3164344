package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type deviceRepositoryImpl struct {
	db *database.DB
}

func NewDeviceRepository(db *database.DB) device.DeviceRepository {
	return &deviceRepositoryImpl{db: db}
}

const deviceColumns = `
	d.id, d.name, d.vendor, d.serial_number, d.ip_address, d.port, d.comm_key,
	d.office_id, d.is_active, d.status, d.last_sync_at, d.last_error,
	d.created_at, d.updated_at, o.name, o.timezone`

const deviceFrom = `FROM devices d LEFT JOIN offices o ON o.id = d.office_id`

func scanDevice(row pgx.Row) (device.Device, error) {
	var d device.Device
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Vendor,
		&d.SerialNumber,
		&d.IPAddress,
		&d.Port,
		&d.CommKey,
		&d.OfficeID,
		&d.IsActive,
		&d.Status,
		&d.LastSyncAt,
		&d.LastError,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.OfficeName,
		&d.OfficeTimezone,
	)
	return d, err
}

func (r *deviceRepositoryImpl) queryDevices(ctx context.Context, query string, args ...any) ([]device.Device, error) {
	rows, err := GetQuerier(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []device.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *deviceRepositoryImpl) getOne(ctx context.Context, clause string, arg any) (device.Device, error) {
	query := `SELECT ` + deviceColumns + ` ` + deviceFrom + ` WHERE ` + clause + ` LIMIT 1`
	d, err := scanDevice(GetQuerier(ctx, r.db).QueryRow(ctx, query, arg))
	if err != nil {
		return device.Device{}, notFound(err, device.ErrDeviceNotFound)
	}
	return d, nil
}

// Create implements device.DeviceRepository.
func (r *deviceRepositoryImpl) Create(ctx context.Context, d device.Device) (device.Device, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO devices (name, vendor, serial_number, ip_address, port, comm_key, office_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query, d.Name, d.Vendor, d.SerialNumber, d.IPAddress, d.Port, d.CommKey, d.OfficeID, d.IsActive).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return device.Device{}, device.ErrSerialNumberExists
		}
		return device.Device{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID implements device.DeviceRepository.
func (r *deviceRepositoryImpl) GetByID(ctx context.Context, id string) (device.Device, error) {
	return r.getOne(ctx, "d.id = $1", id)
}

// GetBySerial implements device.DeviceRepository.
func (r *deviceRepositoryImpl) GetBySerial(ctx context.Context, serial string) (device.Device, error) {
	return r.getOne(ctx, "d.serial_number = $1", serial)
}

// GetByIP implements device.DeviceRepository. Active devices win when
// several share an address.
func (r *deviceRepositoryImpl) GetByIP(ctx context.Context, ip string) (device.Device, error) {
	return r.getOne(ctx, "d.ip_address = $1 ORDER BY d.is_active DESC, d.created_at", ip)
}

// List implements device.DeviceRepository.
func (r *deviceRepositoryImpl) List(ctx context.Context, filter device.DeviceFilter) ([]device.Device, error) {
	var c conditions
	if filter.OfficeID != nil {
		c.add("d.office_id = $%d", *filter.OfficeID)
	}
	if filter.IsActive != nil {
		c.add("d.is_active = $%d", *filter.IsActive)
	}
	return r.queryDevices(ctx, `SELECT `+deviceColumns+` `+deviceFrom+` `+c.where()+` ORDER BY d.name`, c.args...)
}

// ListActive implements device.DeviceRepository.
func (r *deviceRepositoryImpl) ListActive(ctx context.Context) ([]device.Device, error) {
	return r.queryDevices(ctx, `SELECT `+deviceColumns+` `+deviceFrom+` WHERE d.is_active ORDER BY d.name`)
}

// Update implements device.DeviceRepository.
func (r *deviceRepositoryImpl) Update(ctx context.Context, d device.Device) (device.Device, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE devices
		SET name = $1, vendor = $2, serial_number = $3, ip_address = $4, port = $5,
		    comm_key = $6, office_id = $7, is_active = $8, updated_at = NOW()
		WHERE id = $9
	`
	tag, err := q.Exec(ctx, query, d.Name, d.Vendor, d.SerialNumber, d.IPAddress, d.Port, d.CommKey, d.OfficeID, d.IsActive, d.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return device.Device{}, device.ErrSerialNumberExists
		}
		return device.Device{}, err
	}
	if tag.RowsAffected() == 0 {
		return device.Device{}, device.ErrDeviceNotFound
	}
	return r.GetByID(ctx, d.ID)
}

// Delete implements device.DeviceRepository.
func (r *deviceRepositoryImpl) Delete(ctx context.Context, id string) error {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, `DELETE FROM devices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}
	return nil
}

// UpdateStatus implements device.DeviceRepository. A nil syncedAt keeps the
// previous sync time.
func (r *deviceRepositoryImpl) UpdateStatus(ctx context.Context, id string, status device.Status, syncedAt *time.Time, lastError *string) error {
	query := `
		UPDATE devices
		SET status = $1, last_sync_at = COALESCE($2, last_sync_at), last_error = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, query, status, syncedAt, lastError, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}
	return nil
}
