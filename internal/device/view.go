package device

import "sort"

// Summary is the compact listing form of a device.
type Summary struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	AliasOf string   `json:"alias_of,omitempty"`
	Types   []string `json:"types"`
	Actions []string `json:"actions"`
}

// Summary returns the listing form of d.
func (d *Device) Summary() Summary {
	return Summary{
		ID:      d.ID,
		Name:    d.Name,
		AliasOf: d.AliasOf,
		Types:   copyStrings(d.Types),
		Actions: d.SupportedActions(),
	}
}

// ActionView describes one registered action and the entries bound to it.
type ActionView struct {
	Name    string   `json:"name"`
	Entries []string `json:"entries"`
	Range   string   `json:"range,omitempty"`
}

// Detail is the full JSON form of a device, including its action bindings.
// Camera source URIs are reduced to their slot keys; only proxied URLs are
// published.
type Detail struct {
	*Device
	Actions        []ActionView `json:"actions"`
	CameraURISlots []string     `json:"camera_uri_slots,omitempty"`
}

// Detail returns the full form of d. Ranges are rendered as strings.
func (d *Device) Detail() Detail {
	names := d.SupportedActions()
	views := make([]ActionView, 0, len(names))
	for _, name := range names {
		v := ActionView{Name: name}
		for _, b := range d.bindings[name] {
			v.Entries = append(v.Entries, b.EntryID)
		}
		if r, ok := d.ValueRange(name); ok {
			v.Range = r.String()
		}
		views = append(views, v)
	}
	var slots []string
	for key := range d.CameraURI {
		slots = append(slots, key)
	}
	sort.Strings(slots)

	return Detail{Device: d, Actions: views, CameraURISlots: slots}
}
