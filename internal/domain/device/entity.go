package device

import "time"

type Vendor string

const (
	VendorZKTeco Vendor = "zkteco"
	VendorESSL   Vendor = "essl"
)

func (v Vendor) Valid() bool {
	return v == VendorZKTeco || v == VendorESSL
}

type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusError   Status = "error"
)

// Device is a registered biometric terminal. Only registered devices may
// push punches; nothing is enrolled on first contact.
type Device struct {
	ID           string
	Name         string
	Vendor       Vendor
	SerialNumber string
	IPAddress    string
	Port         int
	CommKey      int
	OfficeID     *string
	IsActive     bool
	Status       Status
	LastSyncAt   *time.Time
	LastError    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	OfficeName     *string
	OfficeTimezone *string
}

// Location returns the zone device clocks run in. ZK devices report local
// wall time without an offset.
func (d Device) Location(fallback string) *time.Location {
	for _, name := range []string{deref(d.OfficeTimezone), fallback} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
