package device

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// endpointIDRegex is the voice-assistant endpoint ID character set.
var endpointIDRegex = regexp.MustCompile(`^[A-Za-z0-9 _\-=#;:?@&]+$`)

// idNamespace seeds name-derived device IDs. Changing it changes every
// derived ID, which the voice assistant treats as new devices.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("gray-logic/alexa/device"))

// IDFromName derives a stable device ID from a device name.
// The same name always yields the same ID.
func IDFromName(name string) string {
	return strings.ReplaceAll(uuid.NewSHA1(idNamespace, []byte(name)).String(), "-", "")
}

// Validate checks the device for structural integrity.
// Returns an error describing the first validation failure found.
func (d *Device) Validate() error {
	if d == nil {
		return ErrInvalidDevice
	}

	if err := ValidateID(d.ID); err != nil {
		return err
	}

	if err := ValidateName(d.Name); err != nil {
		return err
	}

	if len(d.bindings) == 0 {
		return fmt.Errorf("%w: %s", ErrNoActions, d.ID)
	}

	for i, t := range d.Types {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: type %d is empty", ErrInvalidDevice, i)
		}
	}

	return d.validateCamera()
}

// validateCamera checks that camera settings use the fixed stream slots and
// that every proxied URL belongs to a configured stream.
func (d *Device) validateCamera() error {
	for key := range d.CameraSettings {
		if slotOf(key, streamKeyPrefix) == 0 {
			return fmt.Errorf("%w: unknown stream slot %q", ErrInvalidCamera, key)
		}
	}
	for key, url := range d.ProxiedURLs {
		slot := slotOf(key, proxyKeyPrefix)
		if slot == 0 {
			return fmt.Errorf("%w: unknown proxy slot %q", ErrInvalidCamera, key)
		}
		if _, ok := d.CameraSettings[StreamKey(slot)]; !ok {
			return fmt.Errorf("%w: proxy %q has no stream in slot %d", ErrInvalidCamera, key, slot)
		}
		if url == "" {
			return fmt.Errorf("%w: proxy %q is empty", ErrInvalidCamera, key)
		}
	}
	return nil
}

// slotOf parses the 1-based slot from key, returning 0 when key does not
// carry prefix or the slot is out of range.
func slotOf(key, prefix string) int {
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > StreamSlotCount {
		return 0
	}
	return n
}

// ValidateID checks if a device ID is usable as a voice-assistant endpoint ID.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidID)
	}
	if len(id) > maxEndpointIDLen {
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidID, maxEndpointIDLen)
	}
	if !endpointIDRegex.MatchString(id) {
		return fmt.Errorf("%w: %q contains unsupported characters", ErrInvalidID, id)
	}
	return nil
}

// ValidateName checks if a device name is valid.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}
