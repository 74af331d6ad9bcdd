package lightctl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/srg/neewerctl/internal/catalog"
	"github.com/srg/neewerctl/internal/identity"
	"github.com/srg/neewerctl/internal/protocol"
	"github.com/srg/neewerctl/internal/scenes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMAC = protocol.MAC{0xDF, 0x24, 0x33, 0x8A, 0x01, 0x51}

// fakeTransport records written frames and lets tests push notifications.
type fakeTransport struct {
	frames   [][]byte
	handler  func([]byte)
	writeErr error
	closed   bool
}

func (f *fakeTransport) WriteCommand(_ context.Context, frame []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.frames = append(f.frames, append([]byte(nil), frame...))
	return nil
}

func (f *fakeTransport) Subscribe(handler func(data []byte)) error {
	f.handler = handler
	return nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestSession(t *testing.T, cap *catalog.LightCapability, mac *protocol.MAC) (*Session, *fakeTransport) {
	t.Helper()
	transport := &fakeTransport{}
	id, err := identity.Resolve("NEEWER-SL90", "DF:24:33:8A:01:51")
	require.NoError(t, err)
	s := NewSession(Options{
		Transport:  transport,
		Identity:   id,
		Capability: cap,
		MAC:        mac,
		Logger:     quietLogger(),
	})
	// Timing discipline is exercised separately; make sends instantaneous.
	s.sleep = func(time.Duration) {}
	return s, transport
}

func TestStartSubscribesAndQueries(t *testing.T) {
	s, transport := newTestSession(t, nil, nil)
	require.NoError(t, s.Start(context.Background()))
	require.NotNil(t, transport.handler)
	require.Len(t, transport.frames, 1)
	assert.Equal(t, []byte{0x78, 0x84, 0x00, 0xFC}, transport.frames[0])
}

func TestSetPowerLegacyWithoutMAC(t *testing.T) {
	cap := &catalog.LightCapability{Type: 22, NewPowerCommand: true}
	s, transport := newTestSession(t, cap, nil)

	require.NoError(t, s.SetPower(context.Background(), true))
	// Capability wants the new dialect but no MAC is known: legacy wins.
	assert.Equal(t, []byte{0x78, 0x81, 0x01, 0x01, 0xFB}, transport.frames[0])
	assert.True(t, s.State().On)

	require.NoError(t, s.SetPower(context.Background(), false))
	assert.Equal(t, []byte{0x78, 0x81, 0x01, 0x02, 0xFC}, transport.frames[1])
	assert.False(t, s.State().On)
}

func TestSetPowerMACDialect(t *testing.T) {
	cap := &catalog.LightCapability{Type: 22, NewPowerCommand: true}
	mac := testMAC
	s, transport := newTestSession(t, cap, &mac)

	require.NoError(t, s.SetPower(context.Background(), true))
	frame, err := protocol.Decode(transport.frames[0])
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.TagPowerMAC), frame.Tag)
	assert.Equal(t, testMAC[:], frame.Data[:6])
}

func TestSetCCTWithGM(t *testing.T) {
	cap := &catalog.LightCapability{
		Type:         22,
		SupportCCTGM: true,
		CCTRange:     catalog.CCTRange{Min: 27, Max: 65},
	}
	mac := testMAC
	s, transport := newTestSession(t, cap, &mac)

	require.NoError(t, s.SetCCT(context.Background(), 80, 45, -10))
	frame, err := protocol.Decode(transport.frames[0])
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.TagCCTGM), frame.Tag)
	// GM -10 logical is 40 on the wire.
	assert.Equal(t, byte(40), frame.Data[9])

	state := s.State()
	assert.Equal(t, 80, state.Brightness)
	assert.Equal(t, 45, state.CCT)
	assert.Equal(t, -10, state.GM)
}

func TestSetCCTSplitForCCTOnlyLights(t *testing.T) {
	cap := &catalog.LightCapability{Type: 36, CCTRange: catalog.CCTRange{Min: 32, Max: 56}}
	s, transport := newTestSession(t, cap, nil)

	require.NoError(t, s.SetCCT(context.Background(), 40, 53, 0))
	require.Len(t, transport.frames, 2)
	assert.Equal(t, byte(protocol.TagBrightnessOnly), transport.frames[0][1])
	assert.Equal(t, byte(protocol.TagColorTempOnly), transport.frames[1][1])
}

func TestSetCCTPlainForRGBLightWithoutGM(t *testing.T) {
	cap := &catalog.LightCapability{Type: 14, SupportRGB: true, CCTRange: catalog.CCTRange{Min: 25, Max: 85}}
	s, transport := newTestSession(t, cap, nil)

	require.NoError(t, s.SetCCT(context.Background(), 75, 48, 0))
	require.Len(t, transport.frames, 1)
	assert.Equal(t, byte(protocol.TagCCT), transport.frames[0][1])
}

func TestSetCCTValidatesAgainstCapabilityRange(t *testing.T) {
	cap := &catalog.LightCapability{Type: 14, SupportRGB: true, CCTRange: catalog.CCTRange{Min: 25, Max: 85}}
	s, transport := newTestSession(t, cap, nil)

	err := s.SetCCT(context.Background(), 75, 90, 0)
	var verr *protocol.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cct", verr.Field)
	assert.Empty(t, transport.frames, "nothing may reach the wire on validation failure")
}

func TestSetBrightnessDedicatedCommand(t *testing.T) {
	s, transport := newTestSession(t, nil, nil)
	require.NoError(t, s.SetBrightness(context.Background(), 40))
	assert.Equal(t, byte(protocol.TagBrightnessOnly), transport.frames[0][1])
}

func TestSetBrightnessResendsHSIForRGBLights(t *testing.T) {
	cap := &catalog.LightCapability{Type: 14, SupportRGB: true}
	s, transport := newTestSession(t, cap, nil)

	require.NoError(t, s.SetHSI(context.Background(), 300, 90, 100))
	require.NoError(t, s.SetBrightness(context.Background(), 25))

	require.Len(t, transport.frames, 2)
	frame, err := protocol.Decode(transport.frames[1])
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.TagRGBLegacy), frame.Tag)
	assert.Equal(t, []byte{0x2C, 0x01, 90, 25}, frame.Data)
}

func TestSetHSIMACDialect(t *testing.T) {
	cap := &catalog.LightCapability{Type: 14, SupportRGB: true, NewRGBCommand: true}
	mac := testMAC
	s, transport := newTestSession(t, cap, &mac)

	require.NoError(t, s.SetHSI(context.Background(), 180, 100, 50))
	frame, err := protocol.Decode(transport.frames[0])
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.TagRGBMAC), frame.Tag)
}

func TestSetSceneUnsupported(t *testing.T) {
	s, _ := newTestSession(t, &catalog.LightCapability{Type: 1}, nil)
	err := s.SetScene(context.Background(), 1, 100, nil)
	assert.ErrorIs(t, err, ErrSceneUnsupported)

	// Unknown light type is just as conservative.
	s, _ = newTestSession(t, nil, nil)
	assert.ErrorIs(t, s.SetScene(context.Background(), 1, 100, nil), ErrSceneUnsupported)
}

func TestSetSceneBasic(t *testing.T) {
	cap := &catalog.LightCapability{Type: 14, Support9FX: true}
	s, transport := newTestSession(t, cap, nil)

	require.NoError(t, s.SetScene(context.Background(), 3, 100, nil))
	frame, err := protocol.Decode(transport.frames[0])
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.TagSceneBasic), frame.Tag)
	assert.Equal(t, []byte{100, 3}, frame.Data)
	assert.Equal(t, 3, s.State().Scene)
}

func TestSetSceneAdvanced(t *testing.T) {
	cap := &catalog.LightCapability{Type: 22, Support17FX: true}
	mac := testMAC
	s, transport := newTestSession(t, cap, &mac)

	params := map[scenes.Kind]int{
		scenes.KindBrightness: 100,
		scenes.KindCCT:        50,
		scenes.KindSpeed:      5,
	}
	require.NoError(t, s.SetScene(context.Background(), scenes.EffectLightning, 100, params))
	frame, err := protocol.Decode(transport.frames[0])
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.TagSceneAdvanced), frame.Tag)
	assert.Equal(t, byte(protocol.SubTagScene), frame.Data[6])
}

func TestSetSceneAdvancedWithoutMACFallsBackToBasic(t *testing.T) {
	cap := &catalog.LightCapability{Type: 22, Support17FX: true}
	s, transport := newTestSession(t, cap, nil)

	require.NoError(t, s.SetScene(context.Background(), 5, 80, nil))
	frame, err := protocol.Decode(transport.frames[0])
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.TagSceneBasic), frame.Tag)

	// Effects past the basic set are unreachable without a MAC.
	err = s.SetScene(context.Background(), 12, 80, nil)
	var verr *protocol.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSendEnforcesQuietInterval(t *testing.T) {
	s, _ := newTestSession(t, nil, nil)

	current := time.Unix(1000, 0)
	var slept []time.Duration
	s.now = func() time.Time { return current }
	s.sleep = func(d time.Duration) {
		slept = append(slept, d)
		current = current.Add(d)
	}

	ctx := context.Background()
	require.NoError(t, s.QueryState(ctx))
	require.Empty(t, slept, "first command needs no spacing")

	// Immediately following command must wait out the full interval.
	require.NoError(t, s.SetPower(ctx, true))
	require.Len(t, slept, 1)
	assert.Equal(t, CommandDelay, slept[0])

	// After enough wall time has passed no sleep happens.
	current = current.Add(20 * time.Millisecond)
	require.NoError(t, s.SetPower(ctx, false))
	assert.Len(t, slept, 1)
}

func TestWriteErrorPropagates(t *testing.T) {
	s, transport := newTestSession(t, nil, nil)
	transport.writeErr = errors.New("gatt write failed")
	err := s.SetPower(context.Background(), true)
	assert.EqualError(t, err, "gatt write failed")
}

func TestNotificationUpdatesSceneState(t *testing.T) {
	s, transport := newTestSession(t, nil, nil)
	require.NoError(t, s.Start(context.Background()))

	raw := protocol.Encode(protocol.NotificationChannelTag, []byte{2}).Bytes()
	transport.handler(raw)

	assert.Equal(t, 3, s.State().Scene)
	select {
	case change := <-s.SceneChanges():
		assert.Equal(t, 3, change.Scene)
	default:
		t.Fatal("scene change not delivered")
	}
}

func TestCorruptNotificationDiscarded(t *testing.T) {
	s, transport := newTestSession(t, nil, nil)
	require.NoError(t, s.Start(context.Background()))

	raw := protocol.Encode(protocol.NotificationChannelTag, []byte{2}).Bytes()
	raw[3] ^= 0xFF
	transport.handler(raw)

	assert.Equal(t, 0, s.State().Scene)
	select {
	case <-s.SceneChanges():
		t.Fatal("corrupt notification must not reach consumers")
	default:
	}
}

func TestCloseReleasesTransport(t *testing.T) {
	s, transport := newTestSession(t, nil, nil)
	require.NoError(t, s.Close())
	assert.True(t, transport.closed)
}
