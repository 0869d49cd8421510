package ddc

import "fmt"

// DDC/CI wire constants. The display answers at 7-bit i2c address 0x37; the
// protocol checksums use the 8-bit forms (address shifted left one).
const (
	displayAddr     = 0x37
	displayAddrW    = displayAddr << 1 // 0x6e, used in checksums
	hostSourceAddr  = 0x51
	lengthFlag      = 0x80

	opGetVCP      = 0x01
	opGetVCPReply = 0x02
	opSetVCP      = 0x03

	// vcpLuminance is the VCP feature code for backlight luminance.
	vcpLuminance = 0x10
)

// checksum XORs the destination address with every payload byte, per the
// DDC/CI message format.
func checksum(dest byte, payload []byte) byte {
	c := dest
	for _, b := range payload {
		c ^= b
	}
	return c
}

// getVCPRequest builds the Get VCP Feature message for a feature code.
// Layout: source, length|0x80, opcode, feature, checksum.
func getVCPRequest(feature byte) []byte {
	msg := []byte{hostSourceAddr, lengthFlag | 0x02, opGetVCP, feature}
	return append(msg, checksum(displayAddrW, msg))
}

// setVCPRequest builds the Set VCP Feature message for a feature code and a
// 16-bit value.
func setVCPRequest(feature byte, value uint16) []byte {
	msg := []byte{
		hostSourceAddr,
		lengthFlag | 0x04,
		opSetVCP,
		feature,
		byte(value >> 8),
		byte(value),
	}
	return append(msg, checksum(displayAddrW, msg))
}

// vcpReply holds the decoded fields of a Get VCP Feature reply.
type vcpReply struct {
	feature byte
	max     uint16
	current uint16
}

// parseVCPReply decodes a Get VCP Feature reply. The buffer starts at the
// source-address byte as returned by a plain i2c read.
//
// Layout: source, length|0x80, 0x02, result, feature, type, maxHi, maxLo,
// curHi, curLo, checksum.
func parseVCPReply(buf []byte) (vcpReply, error) {
	if len(buf) < 11 {
		return vcpReply{}, fmt.Errorf("short VCP reply: %d bytes", len(buf))
	}
	if buf[1]&lengthFlag == 0 {
		return vcpReply{}, fmt.Errorf("VCP reply missing length flag: 0x%02x", buf[1])
	}
	if buf[2] != opGetVCPReply {
		return vcpReply{}, fmt.Errorf("unexpected VCP reply opcode: 0x%02x", buf[2])
	}
	if buf[3] != 0 {
		return vcpReply{}, fmt.Errorf("VCP reply result code: 0x%02x (unsupported feature)", buf[3])
	}

	// Checksum covers the virtual host address 0x50 and all bytes before
	// the checksum byte itself.
	if c := checksum(0x50, buf[:10]); c != buf[10] {
		return vcpReply{}, fmt.Errorf("VCP reply checksum mismatch: got 0x%02x want 0x%02x", buf[10], c)
	}

	return vcpReply{
		feature: buf[4],
		max:     uint16(buf[6])<<8 | uint16(buf[7]),
		current: uint16(buf[8])<<8 | uint16(buf[9]),
	}, nil
}

// percentFromRaw converts a raw luminance value to a 0-100 percentage.
func percentFromRaw(current, max uint16) (int, error) {
	if max == 0 {
		return 0, fmt.Errorf("display reports zero maximum luminance")
	}
	pct := int(uint32(current) * 100 / uint32(max))
	if pct > 100 {
		pct = 100
	}
	return pct, nil
}

// rawFromPercent converts a 0-100 percentage to a raw luminance value.
func rawFromPercent(percent int, max uint16) uint16 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return uint16(uint32(max) * uint32(percent) / 100)
}
