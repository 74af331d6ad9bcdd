package protocol

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// MAC is a device hardware address as it appears inside MAC-addressed
// command payloads. Availability is platform-dependent; callers that do not
// have one pass nothing and use the legacy builders instead.
type MAC [6]byte

// ParseMAC normalizes a textual BLE address ("AA:BB:CC:DD:EE:FF",
// "aa-bb-cc-dd-ee-ff" or bare hex) into a MAC. It returns false for
// anything that is not six hex octets; platform handles such as macOS
// CoreBluetooth UUIDs are expected to fail here, and that is a normal
// outcome, not an error.
func ParseMAC(address string) (MAC, bool) {
	var mac MAC
	cleaned := strings.NewReplacer(":", "", "-", "").Replace(strings.TrimSpace(address))
	if len(cleaned) != 12 {
		return mac, false
	}
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return mac, false
	}
	copy(mac[:], raw)
	return mac, true
}

// String renders the MAC in canonical colon-separated uppercase form.
func (m MAC) String() string {
	return strings.ToUpper(fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5]))
}

// ValidationError reports a command parameter outside its documented range,
// or missing entirely. Commands are rejected before any bytes reach the
// device.
type ValidationError struct {
	Field   string
	Value   int
	Min     int
	Max     int
	Missing bool
}

func (e *ValidationError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s: required parameter missing", e.Field)
	}
	return fmt.Sprintf("%s: value %d out of range %d..%d", e.Field, e.Value, e.Min, e.Max)
}

func checkRange(field string, value, min, max int) error {
	if value < min || value > max {
		return &ValidationError{Field: field, Value: value, Min: min, Max: max}
	}
	return nil
}

// Power state data bytes.
const (
	powerOn  = 0x01
	powerOff = 0x02
)

// PowerOn builds the legacy power-on command.
func PowerOn() Frame { return Encode(TagPowerLegacy, []byte{powerOn}) }

// PowerOff builds the legacy power-off command.
func PowerOff() Frame { return Encode(TagPowerLegacy, []byte{powerOff}) }

// PowerOnMAC builds the MAC-addressed power-on command.
func PowerOnMAC(mac MAC) Frame { return powerMAC(mac, powerOn) }

// PowerOffMAC builds the MAC-addressed power-off command.
func PowerOffMAC(mac MAC) Frame { return powerMAC(mac, powerOff) }

func powerMAC(mac MAC, state byte) Frame {
	data := make([]byte, 0, 8)
	data = append(data, mac[:]...)
	data = append(data, SubTagPower, state)
	return Encode(TagPowerMAC, data)
}

// SetBrightness builds the brightness-only command used by CCT-only lights
// (those without an RGB engine). RGB lights carry brightness inside their
// CCT/HSI commands instead.
func SetBrightness(brightness int) (Frame, error) {
	if err := checkRange("brightness", brightness, 0, 100); err != nil {
		return Frame{}, err
	}
	return Encode(TagBrightnessOnly, []byte{byte(brightness)}), nil
}

// SetColorTemp builds the temperature-only command used by CCT-only lights.
// The value is in device units (tens of hundreds of Kelvin, e.g. 32 for
// 3200K); valid bounds come from the light's capability record.
func SetColorTemp(cct, cctMin, cctMax int) (Frame, error) {
	if err := checkRange("cct", cct, cctMin, cctMax); err != nil {
		return Frame{}, err
	}
	return Encode(TagColorTempOnly, []byte{byte(cct)}), nil
}

// SetCCT builds the combined brightness + color temperature command for
// bi-color lights.
func SetCCT(brightness, cct, cctMin, cctMax int) (Frame, error) {
	if err := checkRange("brightness", brightness, 0, 100); err != nil {
		return Frame{}, err
	}
	if err := checkRange("cct", cct, cctMin, cctMax); err != nil {
		return Frame{}, err
	}
	return Encode(TagCCT, []byte{byte(brightness), byte(cct)}), nil
}

// GMToWire converts a logical green/magenta tint (-50..+50, 0 neutral) to
// its wire representation (0..100). Out-of-range values are clamped, not
// rejected; the protocol itself tolerates the full byte range.
func GMToWire(gm int) byte {
	wire := gm + 50
	if wire < 0 {
		wire = 0
	}
	if wire > 100 {
		wire = 100
	}
	return byte(wire)
}

// GMFromWire reverses GMToWire.
func GMFromWire(wire byte) int {
	return int(wire) - 50
}

// SetCCTGM builds the MAC-addressed CCT command with green/magenta tint.
// gm is the logical -50..+50 value and is clamped per GMToWire.
func SetCCTGM(mac MAC, brightness, cct, cctMin, cctMax, gm int) (Frame, error) {
	if err := checkRange("brightness", brightness, 0, 100); err != nil {
		return Frame{}, err
	}
	if err := checkRange("cct", cct, cctMin, cctMax); err != nil {
		return Frame{}, err
	}
	data := make([]byte, 0, 12)
	data = append(data, mac[:]...)
	data = append(data, SubTagCCT, byte(brightness), byte(cct), GMToWire(gm), 0x04)
	return Encode(TagCCTGM, data), nil
}

// SetHSI builds the legacy HSI color command. Hue 0..360 is serialized
// little-endian across two bytes.
func SetHSI(hue, saturation, brightness int) (Frame, error) {
	if err := validateHSI(hue, saturation, brightness); err != nil {
		return Frame{}, err
	}
	return Encode(TagRGBLegacy, []byte{byte(hue & 0xFF), byte(hue >> 8), byte(saturation), byte(brightness)}), nil
}

// SetHSIMAC builds the MAC-addressed HSI color command.
func SetHSIMAC(mac MAC, hue, saturation, brightness int) (Frame, error) {
	if err := validateHSI(hue, saturation, brightness); err != nil {
		return Frame{}, err
	}
	data := make([]byte, 0, 12)
	data = append(data, mac[:]...)
	data = append(data, SubTagRGB, byte(hue&0xFF), byte(hue>>8), byte(saturation), byte(brightness), 0x00)
	return Encode(TagRGBMAC, data), nil
}

func validateHSI(hue, saturation, brightness int) error {
	if err := checkRange("hue", hue, 0, 360); err != nil {
		return err
	}
	if err := checkRange("saturation", saturation, 0, 100); err != nil {
		return err
	}
	return checkRange("brightness", brightness, 0, 100)
}

// BasicScene builds the 9-effect scene command.
func BasicScene(brightness, sceneID int) (Frame, error) {
	if err := checkRange("brightness", brightness, 0, 100); err != nil {
		return Frame{}, err
	}
	if err := checkRange("scene_id", sceneID, 1, 9); err != nil {
		return Frame{}, err
	}
	return Encode(TagSceneBasic, []byte{byte(brightness), byte(sceneID)}), nil
}
