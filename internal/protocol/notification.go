package protocol

import "fmt"

// NotificationChannelTag marks a channel/scene change notification.
const NotificationChannelTag = 0x01

// maxSceneChannel caps the scene ID reported by hardware; some firmwares
// report channels past the 17-effect table and those are clamped.
const maxSceneChannel = 17

// ChannelChange is a decoded channel/scene change notification. Scene is
// 1-based; the wire carries a 0-based channel.
type ChannelChange struct {
	Scene int
}

// ReadRequest returns the fixed state-query frame. The light answers with a
// channel-change notification on the notify characteristic; this frame must
// be written once after subscribing.
func ReadRequest() Frame {
	return Encode(TagReadRequest, nil)
}

// ParseNotification decodes an inbound notification frame. Checksum and
// shape failures propagate the codec's errors verbatim; a structurally
// valid frame with an unrecognized tag yields a MalformedFrameError since
// no other notification kinds are documented.
func ParseNotification(raw []byte) (ChannelChange, error) {
	frame, err := Decode(raw)
	if err != nil {
		return ChannelChange{}, err
	}
	if frame.Tag != NotificationChannelTag {
		return ChannelChange{}, &MalformedFrameError{Reason: fmt.Sprintf("unknown notification tag 0x%02x", frame.Tag)}
	}
	if len(frame.Data) != 1 {
		return ChannelChange{}, &MalformedFrameError{Reason: fmt.Sprintf("channel notification carries %d data bytes, want 1", len(frame.Data))}
	}
	scene := int(frame.Data[0]) + 1
	if scene > maxSceneChannel {
		scene = maxSceneChannel
	}
	return ChannelChange{Scene: scene}, nil
}
