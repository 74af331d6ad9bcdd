package lightctl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
)

// GATT surface of every known Neewer fixture.
var (
	ServiceUUID     = ble.MustParse("69400001-B5A3-F393-E0A9-E50E24DCCA99")
	ControlCharUUID = ble.MustParse("69400002-B5A3-F393-E0A9-E50E24DCCA99")
	NotifyCharUUID  = ble.MustParse("69400003-B5A3-F393-E0A9-E50E24DCCA99")
)

// ManufacturerID is Neewer's BLE company identifier, used to filter
// advertisements during discovery.
const ManufacturerID = 89

// DefaultConnectTimeout bounds dial + GATT discovery when the caller's
// context has no deadline of its own.
const DefaultConnectTimeout = 30 * time.Second

// bleTransport implements Transport over a live go-ble client.
type bleTransport struct {
	client  ble.Client
	control *ble.Characteristic
	notify  *ble.Characteristic
	logger  *logrus.Logger
}

// Dial connects to a light by address and locates its control and notify
// characteristics. It is the only place this package touches the platform
// BLE stack; everything above works against Transport.
func Dial(ctx context.Context, address string, logger *logrus.Logger) (Transport, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultConnectTimeout)
		defer cancel()
	}

	dev, err := DeviceFactory()
	if err != nil {
		return nil, err
	}
	ble.SetDefaultDevice(dev)

	client, err := ble.Dial(ctx, ble.NewAddr(address))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", address, err)
	}

	profile, err := client.DiscoverProfile(true)
	if err != nil {
		client.CancelConnection()
		return nil, fmt.Errorf("discover GATT profile of %s: %w", address, err)
	}

	t := &bleTransport{client: client, logger: logger}
	for _, svc := range profile.Services {
		if !svc.UUID.Equal(ServiceUUID) {
			continue
		}
		for _, char := range svc.Characteristics {
			switch {
			case char.UUID.Equal(ControlCharUUID):
				t.control = char
			case char.UUID.Equal(NotifyCharUUID):
				t.notify = char
			}
		}
	}
	if t.control == nil || t.notify == nil {
		client.CancelConnection()
		return nil, fmt.Errorf("%s does not expose the Neewer control service", address)
	}
	logger.WithField("address", address).Debug("Connected to light")
	return t, nil
}

// WriteCommand writes one frame to the control characteristic with
// response, matching the reliability the protocol expects.
func (t *bleTransport) WriteCommand(ctx context.Context, frame []byte) error {
	done := make(chan error, 1)
	go func() {
		done <- t.client.WriteCharacteristic(t.control, frame, false)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers handler for notification frames.
func (t *bleTransport) Subscribe(handler func(data []byte)) error {
	return t.client.Subscribe(t.notify, false, func(req []byte) {
		// go-ble reuses the request buffer; hand subscribers their own copy.
		handler(append([]byte(nil), req...))
	})
}

// Close tears the connection down.
func (t *bleTransport) Close() error {
	if t.notify != nil {
		if err := t.client.Unsubscribe(t.notify, false); err != nil {
			t.logger.WithError(err).Debug("Unsubscribe failed during close")
		}
	}
	return t.client.CancelConnection()
}
