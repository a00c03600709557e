package png

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
)

const (
	zlibHeaderByte0 = 0x78
	zlibHeaderByte1 = 0x01
	adler32Modulus  = 65521
)

// joinIDATs implements §4.5: concatenate every IDAT body in chunk
// order into one buffer.
func joinIDATs(idats [][]byte) []byte {
	total := 0
	for _, b := range idats {
		total += len(b)
	}
	joined := make([]byte, 0, total)
	for _, b := range idats {
		joined = append(joined, b...)
	}
	return joined
}

// inflateFiltered strips the 2-byte zlib header from the joined IDAT
// payload and inflates the remainder, returning the filtered raw image
// bytes. The trailing Adler-32 is not verified, per §4.5.
func inflateFiltered(joined []byte) ([]byte, error) {
	if len(joined) < 2 {
		return nil, newErr(KindTruncated, "joined IDAT payload shorter than the zlib header")
	}
	fr := flate.NewReader(bytes.NewReader(joined[2:]))
	defer fr.Close()
	out, err := io.ReadAll(fr)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, errors.WithStack(newErr(KindInflateError, err.Error()))
	}
	return out, nil
}

// deflateWrapped implements the encode-side zlib container of §4.8:
// two header bytes, a DEFLATE payload, and a big-endian Adler-32
// trailer over the pre-deflate data.
func deflateWrapped(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(zlibHeaderByte0)
	buf.WriteByte(zlibHeaderByte1)

	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, errors.WithStack(newErr(KindDeflateError, err.Error()))
	}
	if _, err := fw.Write(raw); err != nil {
		return nil, errors.WithStack(newErr(KindDeflateError, err.Error()))
	}
	if err := fw.Close(); err != nil {
		return nil, errors.WithStack(newErr(KindDeflateError, err.Error()))
	}

	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], adler32(raw))
	buf.Write(trailer[:])
	return buf.Bytes(), nil
}

// adler32 computes the Adler-32 checksum per §4.8/§8:
// a = 1, b = 0; for each byte x: a = (a+x) mod 65521, b = (b+a) mod 65521;
// checksum = (b << 16) | a.
func adler32(data []byte) uint32 {
	var a, b uint32 = 1, 0
	for _, x := range data {
		a = (a + uint32(x)) % adler32Modulus
		b = (b + a) % adler32Modulus
	}
	return (b << 16) | a
}
