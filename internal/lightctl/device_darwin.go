//go:build darwin

package lightctl

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/darwin"
)

// DeviceFactory creates the platform BLE device. A variable so tests can
// inject fakes.
var DeviceFactory = func() (ble.Device, error) {
	return darwin.NewDevice()
}
