// Package device offloads the hot shortlist pass of the direct-cut
// classifier to an OCCA device. Kernel sources are instantiated at a fixed
// element order through generated defines and compiled once per
// configuration.
package device

import (
	"fmt"

	"github.com/notargets/gocca"
)

// CreateDevice creates an OCCA device, preferring parallel backends and
// falling back to Serial.
func CreateDevice() *gocca.OCCADevice {
	backends := []string{
		`{"mode": "OpenMP"}`,
		`{"mode": "CUDA", "device_id": 0}`,
		`{"mode": "Serial"}`,
	}

	for _, props := range backends {
		device, err := gocca.NewDevice(props)
		if err == nil {
			fmt.Printf("Created %s Device\n", device.Mode())
			return device
		}
	}

	panic("Failed to create any Device")
}
