// Package device provides the device model exposed to the voice assistant.
//
// A Device is a virtual device assembled from many configuration entries.
// Devices live in a Registry that is filled once at startup, then frozen
// and handed to the runtime service.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│                           device                                 │
//	│                                                                  │
//	│  ┌────────────────┐   ┌────────────────┐   ┌────────────────┐   │
//	│  │    Registry    │   │     Device     │   │   Validation   │   │
//	│  │ (registry.go)  │──▶│  (types.go)    │   │(validation.go) │   │
//	│  │                │   │  (merge.go)    │   │                │   │
//	│  │ • Exists/Get   │   │ • Merge policy │   │ • ID charset   │   │
//	│  │ • Put/All      │   │ • Bindings     │   │ • Name checks  │   │
//	│  │ • Freeze       │   │ • Aliases      │   │ • Camera slots │   │
//	│  └────────────────┘   └────────────────┘   └────────────────┘   │
//	└──────────────────────────────────────────────────────────────────┘
//
// # Merge policies
//
// Fields absorb values from successive entries according to FieldPolicies:
//
//   - name: set once, explicit names override
//   - description: last write wins, conflicts reported
//   - types: replaced
//   - alias: appended, duplicates kept
//   - icon: appended unless already contained
//   - camera settings, proxied URLs, actions: keyed
//
// # Usage
//
//	registry := device.NewRegistry()
//	d, _, _ := registry.GetOrCreate(device.IDFromName("Kitchen Light"))
//	d.SetName("Kitchen Light", true)
//	d.Register("turnOn", entry)
//	if err := d.Validate(); err != nil {
//	    return err
//	}
//	registry.Freeze()
//
// # Thread Safety
//
// The Registry is guarded by a read-write mutex. Devices themselves are not:
// they are mutated only by the single startup writer and are read-only after
// Freeze.
package device
