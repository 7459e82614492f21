package device

import "strings"

// MergePolicy describes how a field absorbs values from successive
// configuration entries that reference the same device.
type MergePolicy int

// Merge policies.
const (
	// PolicyReplace discards the previous value entirely.
	PolicyReplace MergePolicy = iota
	// PolicyAppend appends every value, duplicates included.
	PolicyAppend
	// PolicyAppendUnique appends a value unless an existing element contains it.
	PolicyAppendUnique
	// PolicySetOnceOverride sets the value when unset, or when the incoming
	// value is explicit.
	PolicySetOnceOverride
	// PolicyLastWriteWins overwrites; conflicting overwrites are reported.
	PolicyLastWriteWins
	// PolicyKeyed is last-write-wins per map key.
	PolicyKeyed
)

// String returns the policy name used in logs.
func (p MergePolicy) String() string {
	switch p {
	case PolicyReplace:
		return "replace"
	case PolicyAppend:
		return "append"
	case PolicyAppendUnique:
		return "append-unique"
	case PolicySetOnceOverride:
		return "set-once-with-override"
	case PolicyLastWriteWins:
		return "last-write-wins"
	case PolicyKeyed:
		return "keyed"
	default:
		return "unknown"
	}
}

// Field names a mergeable Device field.
type Field string

// Mergeable fields.
const (
	FieldName                Field = "name"
	FieldDescription         Field = "description"
	FieldTypes               Field = "types"
	FieldAlias               Field = "alias"
	FieldIcon                Field = "icon"
	FieldRetrievable         Field = "retrievable"
	FieldProactivelyReported Field = "proactively_reported"
	FieldColorValueType      Field = "color_value_type"
	FieldCameraSettings      Field = "camera_settings"
	FieldProxiedURLs         Field = "proxied_urls"
	FieldCameraURI           Field = "camera_uri"
	FieldAuthCred            Field = "camera_auth_cred"
	FieldCameraImageURI      Field = "camera_image_uri"
	FieldThermoConfig        Field = "thermo_config"
	FieldActions             Field = "registered_actions"
)

// FieldPolicies is the merge policy for every mergeable field.
var FieldPolicies = map[Field]MergePolicy{
	FieldName:                PolicySetOnceOverride,
	FieldDescription:         PolicyLastWriteWins,
	FieldTypes:               PolicyReplace,
	FieldAlias:               PolicyAppend,
	FieldIcon:                PolicyAppendUnique,
	FieldRetrievable:         PolicyLastWriteWins,
	FieldProactivelyReported: PolicyLastWriteWins,
	FieldColorValueType:      PolicyLastWriteWins,
	FieldCameraSettings:      PolicyKeyed,
	FieldProxiedURLs:         PolicyKeyed,
	FieldCameraURI:           PolicyLastWriteWins,
	FieldAuthCred:            PolicyLastWriteWins,
	FieldCameraImageURI:      PolicyLastWriteWins,
	FieldThermoConfig:        PolicyLastWriteWins,
	FieldActions:             PolicyKeyed,
}

// Change reports what a setter did. Conflict is true when a non-empty
// previous value was overwritten with a different one.
type Change struct {
	Applied  bool
	Conflict bool
	Previous string
}

// SetName applies the set-once-with-override rule: the name is set when the
// device has none, or when explicit is true.
func (d *Device) SetName(name string, explicit bool) Change {
	if name == "" || (d.Name != "" && !explicit) {
		return Change{Previous: d.Name}
	}
	c := Change{Applied: true, Previous: d.Name, Conflict: d.Name != "" && d.Name != name}
	d.Name = name
	return c
}

// SetDescription overwrites the description.
func (d *Device) SetDescription(descr string) Change {
	c := Change{Applied: true, Previous: d.Description, Conflict: d.Description != "" && d.Description != descr}
	d.Description = descr
	return c
}

// SetTypes replaces the type list.
func (d *Device) SetTypes(types []string) {
	d.Types = copyStrings(types)
}

// AppendAlias appends alternate names. Duplicates are kept.
func (d *Device) AppendAlias(names ...string) {
	d.Alias = append(d.Alias, names...)
}

// AddIcon appends icon unless an existing icon already contains it.
// It reports whether the icon was added.
func (d *Device) AddIcon(icon string) bool {
	for _, existing := range d.Icon {
		if strings.Contains(existing, icon) {
			return false
		}
	}
	d.Icon = append(d.Icon, icon)
	return true
}

// SetCameraStream stores the stream settings for slot.
func (d *Device) SetCameraStream(slot int, stream CameraStream) {
	if d.CameraSettings == nil {
		d.CameraSettings = make(map[string]CameraStream)
	}
	d.CameraSettings[StreamKey(slot)] = stream
}

// SetProxiedURL stores the proxy URL generated for slot.
func (d *Device) SetProxiedURL(slot int, url string) {
	if d.ProxiedURLs == nil {
		d.ProxiedURLs = make(map[string]string)
	}
	d.ProxiedURLs[ProxyKey(slot)] = url
}
