package device

import (
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the device package.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return noopLogger{} }

// Registry is the keyed collection of devices built at startup.
//
// The registry has a single writer during the build phase. Get returns the
// stored *Device so the compiler can mutate it in place. Once Freeze has
// been called every mutation fails and the registry may be read
// concurrently; callers must treat returned devices as read-only from then on.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Device
	order   []string
	frozen  bool
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]*Device),
	}
}

// Exists reports whether a device with id is present.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.devices[id]
	return ok
}

// Get returns the device with id.
// Returns ErrDeviceNotFound if the device does not exist.
func (r *Registry) Get(id string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}
	return d, nil
}

// Put inserts a new device.
// Returns ErrDeviceExists if the ID is taken, ErrRegistryFrozen after Freeze.
func (r *Registry) Put(d *Device) error {
	if d == nil || d.ID == "" {
		return fmt.Errorf("%w: device id is required", ErrInvalidDevice)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistryFrozen
	}
	if _, ok := r.devices[d.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDeviceExists, d.ID)
	}
	r.devices[d.ID] = d
	r.order = append(r.order, d.ID)
	return nil
}

// GetOrCreate returns the device with id, inserting an empty one first if
// it does not exist yet. created reports whether a new device was inserted.
func (r *Registry) GetOrCreate(id string) (d *Device, created bool, err error) {
	if r.Exists(id) {
		d, err = r.Get(id)
		return d, false, err
	}
	d = New(id)
	if err := r.Put(d); err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// All returns a snapshot of every device in insertion order.
func (r *Registry) All() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Device, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.devices[id])
	}
	return out
}

// Count returns the number of devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Stats returns registry statistics for monitoring.
type Stats struct {
	TotalDevices   int            `json:"total_devices"`
	PrimaryDevices int            `json:"primary_devices"`
	AliasDevices   int            `json:"alias_devices"`
	CameraDevices  int            `json:"camera_devices"`
	ByType         map[string]int `json:"by_type"`
	ByAction       map[string]int `json:"by_action"`
}

// GetStats returns current registry statistics.
func (r *Registry) GetStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		TotalDevices: len(r.devices),
		ByType:       make(map[string]int),
		ByAction:     make(map[string]int),
	}

	for _, d := range r.devices {
		if d.AliasOf != "" {
			stats.AliasDevices++
		} else {
			stats.PrimaryDevices++
		}
		if len(d.CameraSettings) > 0 {
			stats.CameraDevices++
		}
		for _, t := range d.Types {
			stats.ByType[t]++
		}
		for _, a := range d.SupportedActions() {
			stats.ByAction[a]++
		}
	}

	return stats
}
