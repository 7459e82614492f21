package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when putting a device with an ID that already exists.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrRegistryFrozen is returned when mutating a registry after hand-off.
	ErrRegistryFrozen = errors.New("device: registry is frozen")

	// ErrInvalidDevice is returned when device validation fails.
	ErrInvalidDevice = errors.New("device: invalid")

	// ErrInvalidID is returned when a device ID is empty, too long or uses
	// characters outside the endpoint ID charset.
	ErrInvalidID = errors.New("device: invalid id")

	// ErrInvalidName is returned when a device name is empty or too long.
	ErrInvalidName = errors.New("device: invalid name")

	// ErrNoActions is returned when a device has no registered actions.
	ErrNoActions = errors.New("device: no actions registered")

	// ErrInvalidCamera is returned when camera stream settings are inconsistent.
	ErrInvalidCamera = errors.New("device: invalid camera settings")
)
