package device

import "errors"

var (
	ErrDeviceNotFound      = errors.New("device not found")
	ErrSerialNumberExists  = errors.New("a device with this serial number already exists")
	ErrDeviceNotRegistered = errors.New("device is not registered")
	ErrDeviceInactive      = errors.New("device is inactive")
	ErrSyncInProgress      = errors.New("device sync already in progress")
)
