// Package probe reports the GPU adapter wgpu-native would pick, without
// opening a host.
//
// The probe talks to wgpu-native through go-webgpu's pure Go FFI and is
// only compiled in with the wgpunative build tag; otherwise Adapter
// returns ErrUnavailable.
package probe

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned when the binary was built without the
	// wgpunative tag.
	ErrUnavailable = errors.New("probe: built without wgpunative support")

	// ErrLibraryNotFound is returned when wgpu-native cannot be loaded.
	ErrLibraryNotFound = errors.New("probe: wgpu-native library not found")

	// ErrNoGPU is returned when no adapter is available.
	ErrNoGPU = errors.New("probe: no GPU adapter available")
)

// Info describes an adapter.
type Info struct {
	Vendor       string
	Architecture string
	Device       string
	Description  string
	Backend      string
	Type         string
	VendorID     uint32
	DeviceID     uint32

	// DeviceOK reports whether a device and queue could be opened on the
	// adapter.
	DeviceOK bool
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%s) backend=%s type=%s vendor=%s [%04x:%04x] device=%t",
		i.Device, i.Description, i.Backend, i.Type, i.Vendor, i.VendorID, i.DeviceID, i.DeviceOK)
}

// Adapter loads wgpu-native, requests a high-performance adapter and tries
// to open a device on it. Every native object is released before return.
func Adapter() (Info, error) { return adapter() }
