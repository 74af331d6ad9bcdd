// Package protocol implements the Neewer BLE wire protocol: checksummed
// command frames, the command builders for both the legacy and the
// MAC-addressed dialects, and the notification parser.
//
// Every message, outbound or inbound, is a single frame:
//
//	[0x78][tag][len][data...][checksum]
//
// where checksum is the sum of all preceding bytes modulo 256. The package
// is pure: nothing here touches the BLE link or holds mutable state.
package protocol

import "fmt"

// Prefix is the first byte of every Neewer protocol frame.
const Prefix = 0x78

// Command tags.
const (
	TagPowerLegacy    = 0x81 // power on/off, legacy dialect
	TagBrightnessOnly = 0x82 // brightness for CCT-only lights
	TagColorTempOnly  = 0x83 // color temperature for CCT-only lights
	TagReadRequest    = 0x84 // request current state, answered via notify
	TagRGBLegacy      = 0x86 // HSI color, legacy dialect
	TagCCT            = 0x87 // brightness + color temperature
	TagSceneBasic     = 0x88 // 9-effect scene set
	TagPowerMAC       = 0x8D // power on/off, MAC-addressed dialect
	TagRGBMAC         = 0x8F // HSI color, MAC-addressed dialect
	TagCCTGM          = 0x90 // brightness + CCT + green/magenta tint
	TagSceneAdvanced  = 0x91 // 17-effect scene set, MAC-addressed
)

// Sub-tags embedded in MAC-addressed payloads after the MAC bytes.
const (
	SubTagPower = 0x81
	SubTagRGB   = 0x86
	SubTagCCT   = 0x87
	SubTagScene = 0x8B
)

// minFrameLen is prefix + tag + length + checksum with no data bytes.
const minFrameLen = 4

// Frame is one complete checksummed protocol message. Immutable once built;
// Bytes returns a fresh copy of the wire representation.
type Frame struct {
	Tag  byte
	Data []byte
}

// MalformedFrameError reports a byte sequence that is not a protocol frame:
// too short, wrong prefix, or a length byte that disagrees with the actual
// payload size.
type MalformedFrameError struct {
	Reason string
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("malformed frame: %s", e.Reason)
}

// ChecksumError reports a frame whose trailing checksum byte does not match
// the sum of the preceding bytes. Inbound frames failing this check must be
// discarded before any semantic interpretation.
type ChecksumError struct {
	Want byte
	Got  byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("frame checksum mismatch: computed 0x%02x, frame carries 0x%02x", e.Want, e.Got)
}

// Checksum computes the protocol checksum: the sum of all bytes, truncated
// to eight bits.
func Checksum(data []byte) byte {
	var sum int
	for _, b := range data {
		sum += int(b)
	}
	return byte(sum & 0xFF)
}

// Encode builds a frame around the given tag and payload.
func Encode(tag byte, data []byte) Frame {
	return Frame{Tag: tag, Data: append([]byte(nil), data...)}
}

// Bytes returns the full wire representation of the frame, checksum included.
func (f Frame) Bytes() []byte {
	out := make([]byte, 0, len(f.Data)+minFrameLen)
	out = append(out, Prefix, f.Tag, byte(len(f.Data)))
	out = append(out, f.Data...)
	out = append(out, Checksum(out))
	return out
}

// Decode parses and validates a raw frame. It returns a MalformedFrameError
// for structural problems and a ChecksumError for corruption; the caller
// decides whether either is fatal.
func Decode(raw []byte) (Frame, error) {
	if len(raw) < minFrameLen {
		return Frame{}, &MalformedFrameError{Reason: fmt.Sprintf("%d bytes, need at least %d", len(raw), minFrameLen)}
	}
	if raw[0] != Prefix {
		return Frame{}, &MalformedFrameError{Reason: fmt.Sprintf("prefix 0x%02x, want 0x%02x", raw[0], Prefix)}
	}
	if int(raw[2]) != len(raw)-minFrameLen {
		return Frame{}, &MalformedFrameError{Reason: fmt.Sprintf("length byte %d, payload is %d bytes", raw[2], len(raw)-minFrameLen)}
	}
	want := Checksum(raw[:len(raw)-1])
	if got := raw[len(raw)-1]; got != want {
		return Frame{}, &ChecksumError{Want: want, Got: got}
	}
	return Frame{Tag: raw[1], Data: append([]byte(nil), raw[3:len(raw)-1]...)}, nil
}
