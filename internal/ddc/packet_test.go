package ddc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVCPRequestLayout(t *testing.T) {
	msg := getVCPRequest(vcpLuminance)

	require.Len(t, msg, 5)
	assert.Equal(t, byte(hostSourceAddr), msg[0])
	assert.Equal(t, byte(lengthFlag|0x02), msg[1])
	assert.Equal(t, byte(opGetVCP), msg[2])
	assert.Equal(t, byte(vcpLuminance), msg[3])
	assert.Equal(t, checksum(displayAddrW, msg[:4]), msg[4])
}

func TestSetVCPRequestEncodesValue(t *testing.T) {
	msg := setVCPRequest(vcpLuminance, 0x01a4)

	require.Len(t, msg, 7)
	assert.Equal(t, byte(opSetVCP), msg[2])
	assert.Equal(t, byte(0x01), msg[4])
	assert.Equal(t, byte(0xa4), msg[5])
	assert.Equal(t, checksum(displayAddrW, msg[:6]), msg[6])
}

func TestChecksumXOR(t *testing.T) {
	assert.Equal(t, byte(0x6e), checksum(0x6e, nil))
	assert.Equal(t, byte(0x6e^0x51^0x82), checksum(0x6e, []byte{0x51, 0x82}))
}

// buildReply assembles a valid Get VCP reply for tests.
func buildReply(feature byte, max, current uint16, result byte) []byte {
	buf := []byte{
		displayAddrW,
		lengthFlag | 0x08,
		opGetVCPReply,
		result,
		feature,
		0x00, // continuous type
		byte(max >> 8), byte(max),
		byte(current >> 8), byte(current),
	}
	return append(buf, checksum(0x50, buf))
}

func TestParseVCPReply(t *testing.T) {
	buf := buildReply(vcpLuminance, 100, 62, 0)

	reply, err := parseVCPReply(buf)
	require.NoError(t, err)
	assert.Equal(t, byte(vcpLuminance), reply.feature)
	assert.Equal(t, uint16(100), reply.max)
	assert.Equal(t, uint16(62), reply.current)
}

func TestParseVCPReplyErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"short", []byte{0x6e, 0x88}},
		{"missing length flag", func() []byte {
			b := buildReply(vcpLuminance, 100, 50, 0)
			b[1] = 0x08
			return b
		}()},
		{"wrong opcode", func() []byte {
			b := buildReply(vcpLuminance, 100, 50, 0)
			b[2] = 0x01
			b[10] = checksum(0x50, b[:10])
			return b
		}()},
		{"unsupported feature result", buildReply(vcpLuminance, 100, 50, 0x01)},
		{"checksum mismatch", func() []byte {
			b := buildReply(vcpLuminance, 100, 50, 0)
			b[10] ^= 0xff
			return b
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseVCPReply(tt.buf)
			assert.Error(t, err)
		})
	}
}

func TestPercentFromRaw(t *testing.T) {
	pct, err := percentFromRaw(62, 100)
	require.NoError(t, err)
	assert.Equal(t, 62, pct)

	// Wide luminance range scales down.
	pct, err = percentFromRaw(32768, 65535)
	require.NoError(t, err)
	assert.Equal(t, 49, pct) // floor of 49.999...

	_, err = percentFromRaw(10, 0)
	assert.Error(t, err)
}

func TestRawFromPercentRoundTrip(t *testing.T) {
	assert.Equal(t, uint16(0), rawFromPercent(-5, 100))
	assert.Equal(t, uint16(100), rawFromPercent(150, 100))
	assert.Equal(t, uint16(50), rawFromPercent(50, 100))
	assert.Equal(t, uint16(32767), rawFromPercent(50, 65535))
}

func TestSortByBusNumber(t *testing.T) {
	paths := []string{"/dev/i2c-10", "/dev/i2c-2", "/dev/i2c-1"}
	sortByBusNumber(paths)
	assert.Equal(t, []string{"/dev/i2c-1", "/dev/i2c-2", "/dev/i2c-10"}, paths)
}

func TestI2CSlaveRequestNumber(t *testing.T) {
	// linux/i2c-dev.h: #define I2C_SLAVE 0x0703
	assert.Equal(t, 0x0703, i2cSlave)
}
