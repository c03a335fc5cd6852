package crc

// CRC-16 in the MSB-first shift-register convention used by radio chip
// packet engines (TI CC1101 and relatives): no reflection, no final XOR.

// Checksum16 computes a CRC-16 over data with the given polynomial and
// initial value.
func Checksum16(data []byte, poly, init uint16) uint16 {
	crc := init

	for _, b := range data {
		crc ^= uint16(b) << 8

		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
	}

	return crc
}

// Append16 appends the big-endian CRC-16 of data to dst and returns the
// extended slice.
func Append16(dst, data []byte, poly, init uint16) []byte {
	crc := Checksum16(data, poly, init)
	return append(dst, byte(crc>>8), byte(crc))
}

// Check16 verifies that the last 2 bytes of data hold the big-endian
// CRC-16 of everything before them.
func Check16(data []byte, poly, init uint16) bool {
	if len(data) < 2 {
		return false
	}

	crc := Checksum16(data[:len(data)-2], poly, init)
	return byte(crc>>8) == data[len(data)-2] && byte(crc) == data[len(data)-1]
}
