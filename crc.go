package png

import "hash/crc32"

// crcOf computes the PNG chunk CRC-32 over a chunk's type and body, per
// the standard ISO 3309 / ITU-T V.42 polynomial PNG mandates (the same
// one hash/crc32.IEEE uses). Decode never verifies this (spec §4.2);
// Encode always emits it.
func crcOf(typ [4]byte, body []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(typ[:])
	h.Write(body)
	return h.Sum32()
}
