package device

import "strings"

// CreateAliasDevices returns one device per alias name.
//
// Each alias device copies every capability of d (types, icons, camera
// settings, registered actions) under an ID derived from the alias name.
// Alias devices carry no aliases of their own. Duplicate alias names yield
// duplicate devices with the same ID; inserting them is left to the caller.
func (d *Device) CreateAliasDevices() []*Device {
	out := make([]*Device, 0, len(d.Alias))
	for _, name := range d.Alias {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		alias := d.DeepCopy()
		alias.ID = IDFromName(name)
		alias.Name = name
		alias.Alias = nil
		alias.AliasOf = d.ID
		out = append(out, alias)
	}
	return out
}
