package contracts

import "fmt"

// DeviceInfo contains information about a MIDI input device.
type DeviceInfo struct {
	ID           int    // Index used to select the device.
	Name         string // Device name.
	Manufacturer string // Device manufacturer.
	EntityName   string // Name of the entity to which the device belongs.
}

// String returns the label shown when a human has to pick a device.
func (d DeviceInfo) String() string {
	if d.Manufacturer == "" || d.Manufacturer == d.Name {
		return d.Name
	}
	return fmt.Sprintf("%s (%s)", d.Name, d.Manufacturer)
}
