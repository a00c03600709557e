package png

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ChunkType is the 4-ASCII-byte tag that opens every PNG chunk.
type ChunkType [4]byte

func (t ChunkType) String() string { return string(t[:]) }

var (
	chunkIHDR = ChunkType{'I', 'H', 'D', 'R'}
	chunkPLTE = ChunkType{'P', 'L', 'T', 'E'}
	chunkTRNS = ChunkType{'t', 'R', 'N', 'S'}
	chunkIDAT = ChunkType{'I', 'D', 'A', 'T'}
	chunkIEND = ChunkType{'I', 'E', 'N', 'D'}
	chunkTEXT = ChunkType{'t', 'E', 'X', 't'}
	chunkZTXT = ChunkType{'z', 'T', 'X', 't'}
	chunkTIME = ChunkType{'t', 'I', 'M', 'E'}
)

// pngSignature opens every canonical PNG stream.
var pngSignature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// byteReader offers the big-endian primitive reads §4.1 asks for, over
// any io.Reader, failing with Truncated when fewer bytes are available
// than requested. Unlike the teacher's bare r.Read calls (which silently
// accept short reads), every read here goes through io.ReadFull.
type byteReader struct {
	r io.Reader
}

func newByteReader(r io.Reader) *byteReader { return &byteReader{r: r} }

func (b *byteReader) readBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return nil, errors.WithStack(newErr(KindTruncated, "unexpected end of input: "+err.Error()))
	}
	return buf, nil
}

func (b *byteReader) readUint32() (uint32, error) {
	buf, err := b.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

func (b *byteReader) readUint16() (uint16, error) {
	buf, err := b.readBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

func (b *byteReader) readByte() (byte, error) {
	buf, err := b.readBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// byteWriter is the symmetric counterpart used by the encoder.
type byteWriter struct {
	w   io.Writer
	tmp [4]byte
}

func newByteWriter(w io.Writer) *byteWriter { return &byteWriter{w: w} }

func (b *byteWriter) writeUint32(v uint32) error {
	binary.BigEndian.PutUint32(b.tmp[:4], v)
	_, err := b.w.Write(b.tmp[:4])
	return errors.WithStack(err)
}

func (b *byteWriter) writeBytes(p []byte) error {
	_, err := b.w.Write(p)
	return errors.WithStack(err)
}

// rawChunk is a chunk record as framed on the wire: length|type|data|crc.
type rawChunk struct {
	typ  ChunkType
	data []byte
	crc  uint32
}

// readSignature consumes and validates the 8-byte PNG signature.
func readSignature(br *byteReader) error {
	got, err := br.readBytes(8)
	if err != nil {
		return err
	}
	for i := range pngSignature {
		if got[i] != pngSignature[i] {
			return newErr(KindBadSignature, "first 8 bytes are not the PNG signature")
		}
	}
	return nil
}

// nextChunk implements §4.2: read length, type, body, crc. The CRC is
// not verified on decode, matching the teacher and spec.md's reference
// behavior — only the framing is enforced: the body is read with
// io.ReadFull, so it is exactly `length` bytes or the read fails with
// Truncated. Typed parsers check their own body sizes (IHDR must be 13
// bytes, grayscale/RGB tRNS 2/6 bytes).
func nextChunk(br *byteReader) (*rawChunk, error) {
	length, err := br.readUint32()
	if err != nil {
		return nil, err
	}
	if length > 0x7fffffff {
		return nil, newErr(KindChunkLengthMismatch, "chunk length exceeds 2^31-1")
	}
	typBytes, err := br.readBytes(4)
	if err != nil {
		return nil, err
	}
	var typ ChunkType
	copy(typ[:], typBytes)
	data, err := br.readBytes(int(length))
	if err != nil {
		return nil, err
	}
	crc, err := br.readUint32()
	if err != nil {
		return nil, err
	}
	return &rawChunk{typ: typ, data: data, crc: crc}, nil
}

// writeChunk emits one framed chunk: length|type|data|crc, computing the
// CRC itself (encode always writes a correct trailer).
func writeChunk(bw *byteWriter, typ ChunkType, body []byte) error {
	if err := bw.writeUint32(uint32(len(body))); err != nil {
		return err
	}
	if err := bw.writeBytes(typ[:]); err != nil {
		return err
	}
	if len(body) > 0 {
		if err := bw.writeBytes(body); err != nil {
			return err
		}
	}
	crc := crcOf(typ, body)
	return bw.writeUint32(crc)
}
