package device

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Camera stream slots. A device carries at most one stream per slot.
const (
	StreamSlotCount  = 3
	streamKeyPrefix  = "alexa_stream_"
	proxyKeyPrefix   = "alexa_proxy_url-"
	cameraURIPrefix  = "Stream"
	maxEndpointIDLen = 256
	maxNameLength    = 128
)

// StreamKey returns the camera settings key for slot (1-based).
func StreamKey(slot int) string {
	return fmt.Sprintf("%s%d", streamKeyPrefix, slot)
}

// ProxyKey returns the proxied URL key for slot (1-based).
func ProxyKey(slot int) string {
	return fmt.Sprintf("%s%d", proxyKeyPrefix, slot)
}

// CameraURIKey returns the camera URI map key holding the upstream for slot.
func CameraURIKey(slot int) string {
	return fmt.Sprintf("%s%d", cameraURIPrefix, slot)
}

// Entry is the configuration entry an action binding points back to.
// It is implemented by item.Item.
type Entry interface {
	ID() string
	Range() (Range, bool)
}

// Binding ties an action name to the configuration entry that declared it.
type Binding struct {
	Action  string `json:"action"`
	EntryID string `json:"entry_id"`
	Entry   Entry  `json:"-"`
}

// Device is one virtual device exposed to the voice assistant.
//
// A Device is assembled incrementally by the compiler from every
// configuration entry that references it. FieldPolicies documents how each
// field merges across entries.
type Device struct {
	// Identity
	ID      string `json:"id"`
	Name    string `json:"name"`
	AliasOf string `json:"alias_of,omitempty"`

	Description string   `json:"description,omitempty"`
	Types       []string `json:"types"`
	Alias       []string `json:"alias,omitempty"`
	Icon        []string `json:"icon,omitempty"`

	Retrievable         bool `json:"retrievable"`
	ProactivelyReported bool `json:"proactively_reported"`

	ColorValueType string `json:"color_value_type,omitempty"`

	// Camera stream controller settings
	CameraSettings map[string]CameraStream `json:"camera_settings,omitempty"`
	ProxiedURLs    map[string]string       `json:"proxied_urls,omitempty"`
	CameraURI      map[string]string       `json:"-"`
	AuthCred       string                  `json:"-"`
	CameraImageURI string                  `json:"camera_image_uri,omitempty"`

	ThermoConfig ThermoModes `json:"thermo_config,omitempty"`

	bindings map[string][]Binding
}

// New creates an empty device with the given ID.
func New(id string) *Device {
	return &Device{
		ID:             id,
		CameraSettings: make(map[string]CameraStream),
		ProxiedURLs:    make(map[string]string),
		bindings:       make(map[string][]Binding),
	}
}

// CameraStream describes one camera stream offered by a device.
// It is decoded from the JSON value of an alexa_stream_N directive.
type CameraStream struct {
	Protocols          []string     `json:"protocols,omitempty"`
	Resolutions        []Resolution `json:"resolutions,omitempty"`
	AuthorizationTypes []string     `json:"authorizationTypes,omitempty"`
	VideoCodecs        []string     `json:"videoCodecs,omitempty"`
	AudioCodecs        []string     `json:"audioCodecs,omitempty"`

	// Raw is the descriptor as configured, fields not listed above included.
	Raw json.RawMessage `json:"-"`
}

// MarshalJSON emits Raw when set so undeclared descriptor fields survive.
func (s CameraStream) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	type plain CameraStream
	return json.Marshal(plain(s))
}

// Resolution is a camera stream resolution in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ThermoModes maps an item value to a thermostat mode name (e.g. "1" -> "HEAT").
type ThermoModes map[string]string

// RangeKind tells which half of a Range is meaningful.
type RangeKind int

// RangeKind values.
const (
	RangeNone RangeKind = iota
	RangeNumeric
	RangeSwitch
)

// String returns the kind name used in logs.
func (k RangeKind) String() string {
	switch k {
	case RangeNumeric:
		return "numeric"
	case RangeSwitch:
		return "switch"
	default:
		return "none"
	}
}

// Range is the value range bound to one configuration entry.
//
// A numeric range maps percentages onto [Min, Max]. A switch range holds
// the values written for on and off. On and Off are booleans when the
// defaults apply and strings when configured.
type Range struct {
	Kind RangeKind
	Min  float64
	Max  float64
	On   any
	Off  any
}

// NumericRange returns a numeric Range.
func NumericRange(lo, hi float64) Range {
	return Range{Kind: RangeNumeric, Min: lo, Max: hi}
}

// SwitchRange returns an on/off marker Range.
func SwitchRange(on, off any) Range {
	return Range{Kind: RangeSwitch, On: on, Off: off}
}

// String formats the range for logs.
func (r Range) String() string {
	switch r.Kind {
	case RangeNumeric:
		return fmt.Sprintf("(%g, %g)", r.Min, r.Max)
	case RangeSwitch:
		return fmt.Sprintf("(%v, %v)", r.On, r.Off)
	default:
		return "()"
	}
}

// Register binds action to entry. Registering the same action for the same
// entry ID twice is a no-op.
func (d *Device) Register(action string, entry Entry) {
	if d.bindings == nil {
		d.bindings = make(map[string][]Binding)
	}
	for _, b := range d.bindings[action] {
		if b.EntryID == entry.ID() {
			return
		}
	}
	d.bindings[action] = append(d.bindings[action], Binding{
		Action:  action,
		EntryID: entry.ID(),
		Entry:   entry,
	})
}

// SupportedActions returns the registered action names, sorted.
func (d *Device) SupportedActions() []string {
	names := make([]string, 0, len(d.bindings))
	for name := range d.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bindings returns the entries bound to action.
func (d *Device) Bindings(action string) []Binding {
	out := make([]Binding, len(d.bindings[action]))
	copy(out, d.bindings[action])
	return out
}

// ValueRange returns the range bound to the first entry registered for
// action that carries one.
func (d *Device) ValueRange(action string) (Range, bool) {
	for _, b := range d.bindings[action] {
		if b.Entry == nil {
			continue
		}
		if r, ok := b.Entry.Range(); ok {
			return r, true
		}
	}
	return Range{}, false
}

// DeepCopy creates a complete independent copy of the Device.
// Bindings are copied but still point at the same configuration entries.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}

	cpy := *d

	cpy.Types = copyStrings(d.Types)
	cpy.Alias = copyStrings(d.Alias)
	cpy.Icon = copyStrings(d.Icon)

	cpy.CameraSettings = make(map[string]CameraStream, len(d.CameraSettings))
	for k, v := range d.CameraSettings {
		cpy.CameraSettings[k] = v.deepCopy()
	}
	cpy.ProxiedURLs = copyStringMap(d.ProxiedURLs)
	cpy.CameraURI = copyStringMap(d.CameraURI)
	if d.ThermoConfig != nil {
		cpy.ThermoConfig = ThermoModes(copyStringMap(d.ThermoConfig))
	}

	cpy.bindings = make(map[string][]Binding, len(d.bindings))
	for action, bs := range d.bindings {
		cpy.bindings[action] = append([]Binding(nil), bs...)
	}

	return &cpy
}

func (s CameraStream) deepCopy() CameraStream {
	return CameraStream{
		Protocols:          copyStrings(s.Protocols),
		Resolutions:        append([]Resolution(nil), s.Resolutions...),
		AuthorizationTypes: copyStrings(s.AuthorizationTypes),
		VideoCodecs:        copyStrings(s.VideoCodecs),
		AudioCodecs:        copyStrings(s.AudioCodecs),
		Raw:                append(json.RawMessage(nil), s.Raw...),
	}
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
