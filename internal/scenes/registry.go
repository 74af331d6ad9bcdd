// Package scenes holds the 17-effect scene registry: which parameters each
// effect takes, in which order they serialize, and their bounds. The basic
// 9-effect command has no parameters beyond brightness and lives in the
// protocol package; everything here targets the MAC-addressed advanced
// scene dialect.
package scenes

import (
	"fmt"

	"github.com/srg/neewerctl/internal/protocol"
)

// Kind names one scene parameter. Kinds serialize as a single byte except
// the hue kinds, which are little-endian two-byte values.
type Kind string

const (
	KindBrightness     Kind = "brightness"
	KindBrightnessLow  Kind = "brightness_low"
	KindBrightnessHigh Kind = "brightness_high"
	KindCCT            Kind = "cct"
	KindCCTLow         Kind = "cct_low"
	KindCCTHigh        Kind = "cct_high"
	KindGM             Kind = "gm"
	KindHue            Kind = "hue"
	KindHueLow         Kind = "hue_low"
	KindHueHigh        Kind = "hue_high"
	KindSaturation     Kind = "saturation"
	KindSpeed          Kind = "speed"
	KindSparks         Kind = "sparks"
	KindColorMode      Kind = "color_mode"
)

// Bounds is the inclusive valid range of one parameter kind.
type Bounds struct {
	Min int
	Max int
}

// kindBounds applies uniformly across effects. GM is in wire units here
// (0..100, 50 neutral), matching what the advanced scene payload carries.
var kindBounds = map[Kind]Bounds{
	KindBrightness:     {Min: 0, Max: 100},
	KindBrightnessLow:  {Min: 0, Max: 100},
	KindBrightnessHigh: {Min: 0, Max: 100},
	KindCCT:            {Min: 27, Max: 65},
	KindCCTLow:         {Min: 27, Max: 65},
	KindCCTHigh:        {Min: 27, Max: 65},
	KindGM:             {Min: 0, Max: 100},
	KindHue:            {Min: 0, Max: 360},
	KindHueLow:         {Min: 0, Max: 360},
	KindHueHigh:        {Min: 0, Max: 360},
	KindSaturation:     {Min: 0, Max: 100},
	KindSpeed:          {Min: 1, Max: 10},
	KindSparks:         {Min: 1, Max: 10},
	KindColorMode:      {Min: 0, Max: 4},
}

// wideKinds serialize as two bytes, little-endian.
var wideKinds = map[Kind]bool{
	KindHue:     true,
	KindHueLow:  true,
	KindHueHigh: true,
}

// neutralGM is the only documented parameter default: an absent GM means no
// tint, which is 50 on the wire.
const neutralGM = 50

// Effect IDs of the advanced 17-effect set.
const (
	EffectLightning     = 0x01
	EffectPaparazzi     = 0x02
	EffectDefectiveBulb = 0x03
	EffectExplosion     = 0x04
	EffectWelding       = 0x05
	EffectCCTFlash      = 0x06
	EffectHueFlash      = 0x07
	EffectCCTPulse      = 0x08
	EffectHuePulse      = 0x09
	EffectCopCar        = 0x0A
	EffectCandlelight   = 0x0B
	EffectHueLoop       = 0x0C
	EffectCCTLoop       = 0x0D
	EffectIntLoop       = 0x0E
	EffectTVScreen      = 0x0F
	EffectFirework      = 0x10
	EffectParty         = 0x11
)

// EffectDefinition describes one advanced effect: its required parameter
// kinds in serialization order and the fixed pad bytes that close its
// payload.
type EffectDefinition struct {
	ID      int
	Name    string
	Params  []Kind
	padding []byte
}

// UnknownEffectError reports a scene ID with no definition.
type UnknownEffectError struct {
	EffectID int
}

func (e *UnknownEffectError) Error() string {
	return fmt.Sprintf("no scene effect with ID %d", e.EffectID)
}

var pad1 = []byte{0x00}
var pad2 = []byte{0x00, 0x00}

// effects is ordered by effect ID; the CLI lists it as-is.
var effects = []EffectDefinition{
	{ID: EffectLightning, Name: "Lightning", Params: []Kind{KindBrightness, KindCCT, KindGM, KindSpeed}, padding: pad1},
	{ID: EffectPaparazzi, Name: "Paparazzi", Params: []Kind{KindBrightness, KindCCT, KindGM, KindSpeed}, padding: pad1},
	{ID: EffectDefectiveBulb, Name: "Defective Bulb", Params: []Kind{KindBrightness, KindCCT, KindGM, KindSpeed}, padding: pad1},
	{ID: EffectExplosion, Name: "Explosion", Params: []Kind{KindBrightness, KindCCT, KindGM, KindSpeed, KindSparks}, padding: pad1},
	{ID: EffectWelding, Name: "Welding", Params: []Kind{KindBrightnessLow, KindBrightnessHigh, KindCCT, KindGM, KindSpeed}, padding: pad1},
	{ID: EffectCCTFlash, Name: "CCT Flash", Params: []Kind{KindBrightness, KindCCT, KindGM, KindSpeed}, padding: pad1},
	{ID: EffectHueFlash, Name: "HUE Flash", Params: []Kind{KindBrightness, KindHue, KindSaturation, KindSpeed}, padding: pad1},
	{ID: EffectCCTPulse, Name: "CCT Pulse", Params: []Kind{KindBrightness, KindCCT, KindGM, KindSpeed}, padding: pad1},
	{ID: EffectHuePulse, Name: "HUE Pulse", Params: []Kind{KindBrightness, KindHue, KindSaturation, KindSpeed}, padding: pad1},
	{ID: EffectCopCar, Name: "Cop Car", Params: []Kind{KindBrightness, KindColorMode, KindSpeed}, padding: pad2},
	{ID: EffectCandlelight, Name: "Candlelight", Params: []Kind{KindBrightnessLow, KindBrightnessHigh, KindCCT, KindGM, KindSpeed, KindSparks}, padding: pad1},
	{ID: EffectHueLoop, Name: "HUE Loop", Params: []Kind{KindBrightness, KindHueLow, KindHueHigh, KindSpeed}, padding: pad1},
	{ID: EffectCCTLoop, Name: "CCT Loop", Params: []Kind{KindBrightness, KindCCTLow, KindCCTHigh, KindSpeed}, padding: pad1},
	{ID: EffectIntLoop, Name: "INT Loop", Params: []Kind{KindBrightnessLow, KindBrightnessHigh, KindHue, KindSpeed}, padding: pad1},
	{ID: EffectTVScreen, Name: "TV Screen", Params: []Kind{KindBrightness, KindCCT, KindGM, KindSpeed}, padding: pad1},
	{ID: EffectFirework, Name: "Firework", Params: []Kind{KindBrightness, KindColorMode, KindSpeed, KindSparks}, padding: pad2},
	{ID: EffectParty, Name: "Party", Params: []Kind{KindBrightness, KindColorMode, KindSpeed}, padding: pad2},
}

// Count is the size of the advanced effect set.
const Count = 17

// Lookup returns the definition for an effect ID.
func Lookup(effectID int) (*EffectDefinition, error) {
	if effectID < EffectLightning || effectID > EffectParty {
		return nil, &UnknownEffectError{EffectID: effectID}
	}
	return &effects[effectID-1], nil
}

// Effects returns all definitions in ID order. The slice is shared;
// callers must not mutate it.
func Effects() []EffectDefinition {
	return effects
}

// KindBounds returns the valid range for a parameter kind.
func KindBounds(kind Kind) (Bounds, bool) {
	b, ok := kindBounds[kind]
	return b, ok
}

// BuildFrame validates params against the effect's definition and encodes
// the advanced scene frame. Every declared kind must be present, except GM
// which defaults to neutral; out-of-range values are rejected with the
// offending kind named.
func BuildFrame(mac protocol.MAC, effectID int, params map[Kind]int) (protocol.Frame, error) {
	def, err := Lookup(effectID)
	if err != nil {
		return protocol.Frame{}, err
	}

	data := make([]byte, 0, 8+len(def.Params)*2+len(def.padding))
	data = append(data, mac[:]...)
	data = append(data, protocol.SubTagScene, byte(effectID))

	for _, kind := range def.Params {
		value, present := params[kind]
		if !present {
			if kind != KindGM {
				return protocol.Frame{}, &protocol.ValidationError{Field: string(kind), Missing: true}
			}
			value = neutralGM
		}
		bounds := kindBounds[kind]
		if value < bounds.Min || value > bounds.Max {
			return protocol.Frame{}, &protocol.ValidationError{Field: string(kind), Value: value, Min: bounds.Min, Max: bounds.Max}
		}
		if wideKinds[kind] {
			data = append(data, byte(value&0xFF), byte(value>>8))
		} else {
			data = append(data, byte(value))
		}
	}
	data = append(data, def.padding...)
	return protocol.Encode(protocol.TagSceneAdvanced, data), nil
}
