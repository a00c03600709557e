package png

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
)

// writeRawChunk appends one length|type|data|crc frame to buf, computing
// a real CRC-32 so fixtures look like genuine PNG streams even though
// the decoder under test never verifies it.
func writeRawChunk(buf *bytes.Buffer, typ string, data []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf.Write(lenBuf[:])
	buf.WriteString(typ)
	buf.Write(data)

	h := crc32.NewIEEE()
	h.Write([]byte(typ))
	h.Write(data)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], h.Sum32())
	buf.Write(crcBuf[:])
}

// ihdrBody builds a 13-byte IHDR body.
func ihdrBody(width, height uint32, bitDepth, colorType byte) []byte {
	buf := make([]byte, 13)
	binary.BigEndian.PutUint32(buf[0:4], width)
	binary.BigEndian.PutUint32(buf[4:8], height)
	buf[8] = bitDepth
	buf[9] = colorType
	return buf
}

// zlibWrap deflates raw with the standard library's zlib writer,
// independent of the codec under test, so decode fixtures come from a
// trustworthy encoder.
func zlibWrap(raw []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(raw)
	zw.Close()
	return buf.Bytes()
}

// buildPNG assembles a minimal, well-formed PNG stream: signature, IHDR,
// optional PLTE/tRNS, a single IDAT holding the zlib-wrapped filtered
// bytes, and IEND.
func buildPNG(width, height uint32, bitDepth, colorType byte, plte, trns, filteredRaw []byte) []byte {
	var buf bytes.Buffer
	buf.Write(pngSignature[:])
	writeRawChunk(&buf, "IHDR", ihdrBody(width, height, bitDepth, colorType))
	if plte != nil {
		writeRawChunk(&buf, "PLTE", plte)
	}
	if trns != nil {
		writeRawChunk(&buf, "tRNS", trns)
	}
	writeRawChunk(&buf, "IDAT", zlibWrap(filteredRaw))
	writeRawChunk(&buf, "IEND", nil)
	return buf.Bytes()
}
