package scenes

import (
	"testing"

	"github.com/srg/neewerctl/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMAC = protocol.MAC{0xDF, 0x24, 0x33, 0x8A, 0x01, 0x51}

func TestLookup(t *testing.T) {
	def, err := Lookup(EffectCandlelight)
	require.NoError(t, err)
	assert.Equal(t, "Candlelight", def.Name)
	assert.Equal(t, []Kind{KindBrightnessLow, KindBrightnessHigh, KindCCT, KindGM, KindSpeed, KindSparks}, def.Params)

	for _, bad := range []int{0, -1, 18, 255} {
		_, err := Lookup(bad)
		var uerr *UnknownEffectError
		require.ErrorAs(t, err, &uerr, "effect %d", bad)
		assert.Equal(t, bad, uerr.EffectID)
	}
}

func TestEffectsTableShape(t *testing.T) {
	all := Effects()
	require.Len(t, all, Count)
	for i, def := range all {
		assert.Equal(t, i+1, def.ID, "effects must be ordered by ID")
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.Params)
		for _, kind := range def.Params {
			_, ok := KindBounds(kind)
			assert.Truef(t, ok, "effect %s declares kind %s without bounds", def.Name, kind)
		}
	}
}

func TestBuildFrameLightning(t *testing.T) {
	frame, err := BuildFrame(testMAC, EffectLightning, map[Kind]int{
		KindBrightness: 100,
		KindCCT:        50,
		KindGM:         50,
		KindSpeed:      5,
	})
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.TagSceneAdvanced), frame.Tag)
	want := append(append([]byte{}, testMAC[:]...), protocol.SubTagScene, EffectLightning, 100, 50, 50, 5, 0x00)
	assert.Equal(t, want, frame.Data)
}

func TestBuildFrameHueSerializesLittleEndian(t *testing.T) {
	frame, err := BuildFrame(testMAC, EffectHueFlash, map[Kind]int{
		KindBrightness: 80,
		KindHue:        300,
		KindSaturation: 100,
		KindSpeed:      5,
	})
	require.NoError(t, err)
	want := append(append([]byte{}, testMAC[:]...), protocol.SubTagScene, EffectHueFlash, 80, 0x2C, 0x01, 100, 5, 0x00)
	assert.Equal(t, want, frame.Data)
}

func TestBuildFrameHueLoopTwoWideKinds(t *testing.T) {
	frame, err := BuildFrame(testMAC, EffectHueLoop, map[Kind]int{
		KindBrightness: 100,
		KindHueLow:     0,
		KindHueHigh:    360,
		KindSpeed:      5,
	})
	require.NoError(t, err)
	want := append(append([]byte{}, testMAC[:]...), protocol.SubTagScene, EffectHueLoop, 100, 0x00, 0x00, 0x68, 0x01, 5, 0x00)
	assert.Equal(t, want, frame.Data)
}

func TestBuildFrameCopCarPadding(t *testing.T) {
	frame, err := BuildFrame(testMAC, EffectCopCar, map[Kind]int{
		KindBrightness: 100,
		KindColorMode:  2,
		KindSpeed:      5,
	})
	require.NoError(t, err)
	want := append(append([]byte{}, testMAC[:]...), protocol.SubTagScene, EffectCopCar, 100, 2, 5, 0x00, 0x00)
	assert.Equal(t, want, frame.Data)
}

func TestBuildFrameGMDefaultsToNeutral(t *testing.T) {
	frame, err := BuildFrame(testMAC, EffectTVScreen, map[Kind]int{
		KindBrightness: 100,
		KindCCT:        50,
		KindSpeed:      8,
	})
	require.NoError(t, err)
	// GM omitted: serialized as the neutral wire value 50.
	assert.Equal(t, byte(50), frame.Data[10])
}

func TestBuildFrameMissingParam(t *testing.T) {
	for _, def := range Effects() {
		params := make(map[Kind]int)
		for _, kind := range def.Params {
			bounds := kindBounds[kind]
			params[kind] = bounds.Min
		}
		for _, kind := range def.Params {
			if kind == KindGM {
				continue // GM has a documented default
			}
			broken := make(map[Kind]int, len(params))
			for k, v := range params {
				broken[k] = v
			}
			delete(broken, kind)
			_, err := BuildFrame(testMAC, def.ID, broken)
			var verr *protocol.ValidationError
			require.ErrorAsf(t, err, &verr, "effect %s without %s", def.Name, kind)
			assert.Equal(t, string(kind), verr.Field)
			assert.True(t, verr.Missing)
		}
	}
}

// TestBuildFrameRejectsSpeedEleven covers every effect: speed is 1..10
// everywhere it appears.
func TestBuildFrameRejectsSpeedEleven(t *testing.T) {
	for _, def := range Effects() {
		params := make(map[Kind]int)
		for _, kind := range def.Params {
			params[kind] = kindBounds[kind].Min
		}
		params[KindSpeed] = 11
		_, err := BuildFrame(testMAC, def.ID, params)
		var verr *protocol.ValidationError
		require.ErrorAsf(t, err, &verr, "effect %s", def.Name)
		assert.Equal(t, string(KindSpeed), verr.Field)
		assert.False(t, verr.Missing)
	}
}

func TestBuildFrameRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		effect int
		params map[Kind]int
		field  string
	}{
		{
			name:   "hue over 360",
			effect: EffectHueFlash,
			params: map[Kind]int{KindBrightness: 50, KindHue: 400, KindSaturation: 50, KindSpeed: 5},
			field:  "hue",
		},
		{
			name:   "cct below device floor",
			effect: EffectCCTLoop,
			params: map[Kind]int{KindBrightness: 50, KindCCTLow: 20, KindCCTHigh: 65, KindSpeed: 5},
			field:  "cct_low",
		},
		{
			name:   "color mode over 4",
			effect: EffectParty,
			params: map[Kind]int{KindBrightness: 50, KindColorMode: 5, KindSpeed: 5},
			field:  "color_mode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildFrame(testMAC, tt.effect, tt.params)
			var verr *protocol.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestBuildFrameUnknownEffect(t *testing.T) {
	_, err := BuildFrame(testMAC, 99, nil)
	var uerr *UnknownEffectError
	assert.ErrorAs(t, err, &uerr)
}
