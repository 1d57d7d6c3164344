package device

import (
	"net"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
)

type DeviceResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Vendor       string  `json:"vendor"`
	SerialNumber string  `json:"serial_number"`
	IPAddress    string  `json:"ip_address"`
	Port         int     `json:"port"`
	OfficeID     *string `json:"office_id,omitempty"`
	OfficeName   *string `json:"office_name,omitempty"`
	IsActive     bool    `json:"is_active"`
	Status       string  `json:"status"`
	LastSyncAt   *string `json:"last_sync_at,omitempty"`
	LastError    *string `json:"last_error,omitempty"`
}

func NewDeviceResponse(d Device) DeviceResponse {
	resp := DeviceResponse{
		ID:           d.ID,
		Name:         d.Name,
		Vendor:       string(d.Vendor),
		SerialNumber: d.SerialNumber,
		IPAddress:    d.IPAddress,
		Port:         d.Port,
		OfficeID:     d.OfficeID,
		OfficeName:   d.OfficeName,
		IsActive:     d.IsActive,
		Status:       string(d.Status),
		LastError:    d.LastError,
	}
	if d.LastSyncAt != nil {
		s := d.LastSyncAt.Format(time.RFC3339)
		resp.LastSyncAt = &s
	}
	return resp
}

type CreateDeviceRequest struct {
	Name         string  `json:"name"`
	Vendor       string  `json:"vendor"`
	SerialNumber string  `json:"serial_number"`
	IPAddress    string  `json:"ip_address"`
	Port         int     `json:"port"`
	CommKey      int     `json:"comm_key"`
	OfficeID     *string `json:"office_id,omitempty"`
}

func (r *CreateDeviceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if r.Vendor == "" {
		r.Vendor = string(VendorZKTeco)
	}
	if !Vendor(r.Vendor).Valid() {
		errs.Add("vendor", "vendor must be zkteco or essl")
	}
	if validator.IsEmpty(r.SerialNumber) {
		errs.Add("serial_number", "serial_number is required")
	}
	if net.ParseIP(r.IPAddress) == nil {
		errs.Add("ip_address", "ip_address must be a valid IP address")
	}
	if r.Port == 0 {
		r.Port = 4370
	}
	validateConnection(&errs, r.Port, r.CommKey, r.OfficeID)

	return errs.Err()
}

type UpdateDeviceRequest struct {
	ID        string  `json:"-"`
	Name      *string `json:"name,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
	Port      *int    `json:"port,omitempty"`
	CommKey   *int    `json:"comm_key,omitempty"`
	OfficeID  *string `json:"office_id,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (r *UpdateDeviceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "invalid device id")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name cannot be empty")
	}
	if r.IPAddress != nil && net.ParseIP(*r.IPAddress) == nil {
		errs.Add("ip_address", "ip_address must be a valid IP address")
	}
	port, key := 4370, 0
	if r.Port != nil {
		port = *r.Port
	}
	if r.CommKey != nil {
		key = *r.CommKey
	}
	validateConnection(&errs, port, key, r.OfficeID)

	return errs.Err()
}

func validateConnection(errs *validator.ValidationErrors, port, commKey int, officeID *string) {
	if port < 1 || port > 65535 {
		errs.Add("port", "port must be between 1 and 65535")
	}
	if commKey < 0 || commKey > 999999 {
		errs.Add("comm_key", "comm_key must be between 0 and 999999")
	}
	if officeID != nil && !validator.IsValidUUID(*officeID) {
		errs.Add("office_id", "invalid office_id")
	}
}

type DeviceFilter struct {
	OfficeID *string `json:"office_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// SyncResult reports one poll of one device.
type SyncResult struct {
	DeviceID string             `json:"device_id"`
	Status   string             `json:"status"`
	Fetched  int                `json:"fetched"`
	InWindow int                `json:"in_window"`
	Ingest   punch.IngestResult `json:"ingest"`
	Error    *string            `json:"error,omitempty"`
}

// PushRequest carries a push body. Either Payload (JSON or form fields)
// or AttLog (ADMS text) is set.
type PushRequest struct {
	Serial   string
	RemoteIP string
	Payload  map[string]any
	AttLog   string
}

type PushResponse struct {
	DeviceID string `json:"device_id"`
	Skipped  int    `json:"skipped"`
	punch.IngestResult
}
