package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notifyFrame(channel byte) []byte {
	return Encode(NotificationChannelTag, []byte{channel}).Bytes()
}

func TestParseNotificationChannelChange(t *testing.T) {
	// Wire channels are 0-based, reported scenes 1-based.
	change, err := ParseNotification(notifyFrame(0))
	require.NoError(t, err)
	assert.Equal(t, 1, change.Scene)

	change, err = ParseNotification(notifyFrame(8))
	require.NoError(t, err)
	assert.Equal(t, 9, change.Scene)
}

func TestParseNotificationClampsChannel(t *testing.T) {
	change, err := ParseNotification(notifyFrame(40))
	require.NoError(t, err)
	assert.Equal(t, 17, change.Scene)
}

func TestParseNotificationPropagatesCodecErrors(t *testing.T) {
	raw := notifyFrame(2)
	raw[3] ^= 0x01 // corrupt the channel byte, checksum now stale
	_, err := ParseNotification(raw)
	var cerr *ChecksumError
	assert.ErrorAs(t, err, &cerr)

	_, err = ParseNotification([]byte{0x12, 0x34})
	var merr *MalformedFrameError
	assert.ErrorAs(t, err, &merr)
}

func TestParseNotificationRejectsUnknownTag(t *testing.T) {
	raw := Encode(0x02, []byte{1}).Bytes()
	_, err := ParseNotification(raw)
	var merr *MalformedFrameError
	assert.ErrorAs(t, err, &merr)
}
