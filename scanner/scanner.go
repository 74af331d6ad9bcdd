// Package scanner discovers Neewer lights. It wraps the platform BLE scan
// and keeps only advertisements that carry Neewer's manufacturer ID or a
// name that passes the Neewer gate, resolving each survivor's identity.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cornelk/hashmap"
	blelib "github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
	"github.com/srg/neewerctl/internal/identity"
	"github.com/srg/neewerctl/internal/lightctl"
)

// Light is one discovered Neewer light. IdentityErr is non-nil when the
// light type could not be resolved; the identity is still usable and the
// caller controls the device with conservative capability assumptions.
type Light struct {
	Address     string
	Name        string
	RSSI        int
	Connectable bool
	LastSeen    time.Time
	Identity    identity.Identity
	IdentityErr error
}

// EventType marks if the light was newly discovered or updated.
type EventType int

const (
	EventNew EventType = iota
	EventUpdated
)

// Event reports one discovery or update.
type Event struct {
	Type  EventType
	Light Light
}

// Options configures scanning behavior.
type Options struct {
	Duration        time.Duration
	DuplicateFilter bool
	AllowList       []string
	BlockList       []string
}

// DefaultOptions returns default scanning options.
func DefaultOptions() *Options {
	return &Options{
		Duration:        10 * time.Second,
		DuplicateFilter: true,
	}
}

// eventBuffer bounds the event channel; slow consumers lose events but the
// final snapshot is always complete.
const eventBuffer = 100

// Scanner handles Neewer light discovery.
type Scanner struct {
	lights *hashmap.Map[string, Light]
	events chan Event
	logger *logrus.Logger

	opts *Options
}

// New creates a scanner.
func New(logger *logrus.Logger) *Scanner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scanner{
		events: make(chan Event, eventBuffer),
		logger: logger,
	}
}

// Events delivers discovery events while a scan runs.
func (s *Scanner) Events() <-chan Event {
	return s.events
}

// Scan runs BLE discovery until the duration or ctx expires and returns
// everything found, keyed by address.
func (s *Scanner) Scan(ctx context.Context, opts *Options) (map[string]Light, error) {
	s.lights = hashmap.New[string, Light]()
	if opts == nil {
		opts = DefaultOptions()
	}
	s.opts = opts
	defer func() { s.opts = nil }()

	dev, err := lightctl.DeviceFactory()
	if err != nil {
		return nil, fmt.Errorf("create BLE device: %w", err)
	}
	// Release the adapter so a connection attempt can follow in-process.
	defer func() { _ = dev.Stop() }()

	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	s.logger.WithField("duration", opts.Duration).Info("Scanning for Neewer lights")
	err = dev.Scan(ctx, !opts.DuplicateFilter, s.handleAdvertisement)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	s.logger.WithField("lights", s.lights.Len()).Info("Scan completed")

	found := make(map[string]Light, s.lights.Len())
	s.lights.Range(func(addr string, light Light) bool {
		found[addr] = light
		return true
	})
	return found, nil
}

func (s *Scanner) handleAdvertisement(adv blelib.Advertisement) {
	if !s.shouldInclude(adv) {
		return
	}
	addr := adv.Addr().String()
	name := adv.LocalName()

	light := Light{
		Address:     addr,
		Name:        name,
		RSSI:        adv.RSSI(),
		Connectable: adv.Connectable(),
		LastSeen:    time.Now(),
	}
	light.Identity, light.IdentityErr = identity.Resolve(name, addr)

	_, existing := s.lights.Get(addr)
	s.lights.Set(addr, light)

	event := Event{Type: EventUpdated, Light: light}
	if !existing {
		event.Type = EventNew
		s.logger.WithFields(logrus.Fields{
			"name":    name,
			"address": addr,
			"model":   light.Identity.ProjectName,
			"rssi":    light.RSSI,
		}).Info("Discovered Neewer light")
	}
	select {
	case s.events <- event:
	default:
	}
}

// shouldInclude keeps advertisements that look like Neewer lights and pass
// the allow/block lists.
func (s *Scanner) shouldInclude(adv blelib.Advertisement) bool {
	addr := adv.Addr().String()
	for _, blocked := range s.opts.BlockList {
		if addr == blocked {
			return false
		}
	}
	if len(s.opts.AllowList) > 0 {
		allowed := false
		for _, a := range s.opts.AllowList {
			if addr == a {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}
	return isNeewerAdvertisement(adv.LocalName(), adv.ManufacturerData())
}

// isNeewerAdvertisement accepts a light by manufacturer ID or, failing
// that, by its advertised name. Some fixtures omit manufacturer data from
// connectable advertisements, so either signal suffices.
func isNeewerAdvertisement(name string, manufacturerData []byte) bool {
	if len(manufacturerData) >= 2 {
		companyID := uint16(manufacturerData[0]) | uint16(manufacturerData[1])<<8
		if companyID == lightctl.ManufacturerID {
			return true
		}
	}
	return name != "" && identity.IsNeewerName(name)
}
