//go:build linux

package lightctl

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

// DeviceFactory creates the platform BLE device. A variable so tests can
// inject fakes.
var DeviceFactory = func() (ble.Device, error) {
	return linux.NewDevice()
}
