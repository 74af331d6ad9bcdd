// Package lightctl drives one Neewer light over an established BLE link.
// It owns the per-device discipline the protocol requires: commands are
// strictly serialized with a quiet interval between transmissions, the
// command dialect is re-selected on every call from capability and MAC
// availability, and inbound notifications are checksum-validated before
// they update state.
package lightctl

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/srg/neewerctl/internal/catalog"
	"github.com/srg/neewerctl/internal/identity"
	"github.com/srg/neewerctl/internal/protocol"
	"github.com/srg/neewerctl/internal/scenes"
)

// CommandDelay is the minimum quiet interval between the end of one
// command transmission and the start of the next, per device. Shorter
// spacing saturates the fixture's BLE controller and it starts dropping
// frames.
const CommandDelay = 15 * time.Millisecond

// sceneChangeBuffer sizes the scene notification channel; hardware emits
// one frame per channel-dial click.
const sceneChangeBuffer = 16

// ErrSceneUnsupported is returned for scene requests on lights whose
// capability record advertises neither effect set.
var ErrSceneUnsupported = errors.New("light does not support scene effects")

// Transport is the thin write/subscribe surface a session drives. The BLE
// implementation lives in this package; tests inject fakes.
type Transport interface {
	// WriteCommand writes one complete frame to the control characteristic.
	WriteCommand(ctx context.Context, frame []byte) error
	// Subscribe delivers raw notification frames to handler until Close.
	Subscribe(handler func(data []byte)) error
	Close() error
}

// State is a snapshot of the light state the session has observed or set.
type State struct {
	On         bool
	Brightness int
	CCT        int
	Hue        int
	Saturation int
	GM         int
	Scene      int
}

// Session controls a single connected light.
type Session struct {
	transport Transport
	id        identity.Identity
	cap       *catalog.LightCapability // nil for unknown light types
	mac       *protocol.MAC            // nil when the platform could not provide one
	logger    *logrus.Logger

	// writeMu serializes transmissions; lastWrite is guarded by it.
	writeMu   sync.Mutex
	lastWrite time.Time
	now       func() time.Time
	sleep     func(time.Duration)

	mu           sync.Mutex
	state        State
	sceneChanges chan protocol.ChannelChange
}

// Options configures a session. Capability and MAC are both optional;
// their absence degrades command selection, never correctness.
type Options struct {
	Transport  Transport
	Identity   identity.Identity
	Capability *catalog.LightCapability
	MAC        *protocol.MAC
	Logger     *logrus.Logger
}

// NewSession wires a session over an established transport.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Session{
		transport:    opts.Transport,
		id:           opts.Identity,
		cap:          opts.Capability,
		mac:          opts.MAC,
		logger:       logger,
		now:          time.Now,
		sleep:        time.Sleep,
		sceneChanges: make(chan protocol.ChannelChange, sceneChangeBuffer),
	}
}

// Start subscribes to notifications and issues the initial state query.
func (s *Session) Start(ctx context.Context) error {
	if err := s.transport.Subscribe(s.handleNotification); err != nil {
		return err
	}
	return s.QueryState(ctx)
}

// Close releases the transport.
func (s *Session) Close() error {
	return s.transport.Close()
}

// Identity returns the resolved identity this session was built for.
func (s *Session) Identity() identity.Identity {
	return s.id
}

// State returns a snapshot of the last known light state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SceneChanges delivers decoded channel-change notifications. The channel
// is buffered; bursts beyond the buffer are dropped, the state snapshot
// always holds the latest value.
func (s *Session) SceneChanges() <-chan protocol.ChannelChange {
	return s.sceneChanges
}

// formatChoice re-evaluates dialect selection. Never cached: the MAC can
// appear or vanish between calls.
func (s *Session) formatChoice() protocol.FormatChoice {
	return protocol.SelectFormat(s.cap.FormatCapability(), s.mac != nil)
}

// QueryState requests the light's current channel; the answer arrives as a
// notification.
func (s *Session) QueryState(ctx context.Context) error {
	return s.send(ctx, protocol.ReadRequest())
}

// SetPower switches the light on or off.
func (s *Session) SetPower(ctx context.Context, on bool) error {
	var frame protocol.Frame
	if s.formatChoice().Power == protocol.DialectMAC {
		if on {
			frame = protocol.PowerOnMAC(*s.mac)
		} else {
			frame = protocol.PowerOffMAC(*s.mac)
		}
	} else {
		if on {
			frame = protocol.PowerOn()
		} else {
			frame = protocol.PowerOff()
		}
	}
	if err := s.send(ctx, frame); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.On = on
	s.mu.Unlock()
	return nil
}

// SetBrightness adjusts brightness alone. CCT-only lights have a dedicated
// command; RGB lights carry brightness inside the color command, so the
// last hue and saturation are re-sent.
func (s *Session) SetBrightness(ctx context.Context, brightness int) error {
	if s.cap != nil && s.cap.SupportRGB {
		state := s.State()
		return s.SetHSI(ctx, state.Hue, state.Saturation, brightness)
	}
	frame, err := protocol.SetBrightness(brightness)
	if err != nil {
		return err
	}
	if err := s.send(ctx, frame); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Brightness = brightness
	s.mu.Unlock()
	return nil
}

// SetCCT sets brightness and color temperature (device units), with a
// green/magenta tint where the light supports it. The tint is the logical
// -50..+50 value and is clamped, not rejected, on the way out.
func (s *Session) SetCCT(ctx context.Context, brightness, cct, gm int) error {
	bounds := s.cap.EffectiveCCTRange()

	if s.cap != nil && s.cap.SupportCCTGM && s.mac != nil {
		frame, err := protocol.SetCCTGM(*s.mac, brightness, cct, bounds.Min, bounds.Max, gm)
		if err != nil {
			return err
		}
		if err := s.send(ctx, frame); err != nil {
			return err
		}
		s.setCCTState(brightness, cct, gm)
		return nil
	}

	// CCT-only hardware takes brightness and temperature as two separate
	// single-field commands.
	if s.cap != nil && !s.cap.SupportRGB {
		bFrame, err := protocol.SetBrightness(brightness)
		if err != nil {
			return err
		}
		cFrame, err := protocol.SetColorTemp(cct, bounds.Min, bounds.Max)
		if err != nil {
			return err
		}
		if err := s.send(ctx, bFrame); err != nil {
			return err
		}
		if err := s.send(ctx, cFrame); err != nil {
			return err
		}
		s.setCCTState(brightness, cct, 0)
		return nil
	}

	frame, err := protocol.SetCCT(brightness, cct, bounds.Min, bounds.Max)
	if err != nil {
		return err
	}
	if err := s.send(ctx, frame); err != nil {
		return err
	}
	s.setCCTState(brightness, cct, 0)
	return nil
}

func (s *Session) setCCTState(brightness, cct, gm int) {
	s.mu.Lock()
	s.state.Brightness = brightness
	s.state.CCT = cct
	s.state.GM = gm
	s.mu.Unlock()
}

// SetHSI sets the RGB engine's hue, saturation, and brightness.
func (s *Session) SetHSI(ctx context.Context, hue, saturation, brightness int) error {
	var (
		frame protocol.Frame
		err   error
	)
	if s.formatChoice().RGB == protocol.DialectMAC {
		frame, err = protocol.SetHSIMAC(*s.mac, hue, saturation, brightness)
	} else {
		frame, err = protocol.SetHSI(hue, saturation, brightness)
	}
	if err != nil {
		return err
	}
	if err := s.send(ctx, frame); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Hue = hue
	s.state.Saturation = saturation
	s.state.Brightness = brightness
	s.mu.Unlock()
	return nil
}

// SetScene starts a scene effect. Lights on the 17-effect set take the
// full parameter map through the scene registry; everything else gets the
// basic brightness+ID command. A 17-effect light without a known MAC falls
// back to the basic command, which only reaches the first nine effects.
func (s *Session) SetScene(ctx context.Context, effectID, brightness int, params map[scenes.Kind]int) error {
	choice := s.formatChoice()
	switch choice.Scene {
	case protocol.SceneNone:
		return ErrSceneUnsupported
	case protocol.SceneAdvanced17:
		if s.mac == nil {
			s.logger.WithField("effect", effectID).Debug("No MAC for advanced scene, using basic command")
			break
		}
		frame, err := scenes.BuildFrame(*s.mac, effectID, params)
		if err != nil {
			return err
		}
		if err := s.send(ctx, frame); err != nil {
			return err
		}
		s.setSceneState(effectID, brightness)
		return nil
	case protocol.SceneBasic9:
	}

	frame, err := protocol.BasicScene(brightness, effectID)
	if err != nil {
		return err
	}
	if err := s.send(ctx, frame); err != nil {
		return err
	}
	s.setSceneState(effectID, brightness)
	return nil
}

func (s *Session) setSceneState(effectID, brightness int) {
	s.mu.Lock()
	s.state.Scene = effectID
	s.state.Brightness = brightness
	s.mu.Unlock()
}

// send transmits one frame under the per-device serialization discipline:
// one command at a time, with at least CommandDelay between the end of one
// write and the start of the next.
func (s *Session) send(ctx context.Context, frame protocol.Frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if wait := CommandDelay - s.now().Sub(s.lastWrite); wait > 0 {
		s.sleep(wait)
	}
	raw := frame.Bytes()
	s.logger.WithFields(logrus.Fields{
		"device": s.id.NickName,
		"tag":    frame.Tag,
		"len":    len(raw),
	}).Debugf("Sending command % x", raw)

	err := s.transport.WriteCommand(ctx, raw)
	s.lastWrite = s.now()
	return err
}

// handleNotification validates and decodes one inbound frame. Corrupt
// frames are logged and discarded; they are never fatal.
func (s *Session) handleNotification(data []byte) {
	change, err := protocol.ParseNotification(data)
	if err != nil {
		s.logger.WithError(err).WithField("device", s.id.NickName).Warnf("Discarding notification % x", data)
		return
	}
	s.mu.Lock()
	s.state.Scene = change.Scene
	s.mu.Unlock()

	select {
	case s.sceneChanges <- change:
	default:
		// Consumer is behind; the state snapshot keeps the latest value.
	}
}
