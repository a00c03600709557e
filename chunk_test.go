package png

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSignatureOK(t *testing.T) {
	br := newByteReader(bytes.NewReader(pngSignature[:]))
	require.NoError(t, readSignature(br))
}

func TestReadSignatureBad(t *testing.T) {
	bad := append([]byte(nil), pngSignature[:]...)
	bad[0] = 0x00
	br := newByteReader(bytes.NewReader(bad))
	err := readSignature(br)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindBadSignature, e.Kind)
}

func TestReadSignatureTruncated(t *testing.T) {
	br := newByteReader(bytes.NewReader(pngSignature[:4]))
	err := readSignature(br)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindTruncated, e.Kind)
}

func TestNextChunkRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	bw := newByteWriter(&buf)
	require.NoError(t, writeChunk(bw, chunkIHDR, []byte("hello")))

	br := newByteReader(&buf)
	c, err := nextChunk(br)
	require.NoError(t, err)
	assert.Equal(t, chunkIHDR, c.typ)
	assert.Equal(t, []byte("hello"), c.data)
}

func TestNextChunkTruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	// Declare a body of 10 bytes but only supply the type and 2 bytes.
	bw := newByteWriter(&buf)
	require.NoError(t, bw.writeUint32(10))
	require.NoError(t, bw.writeBytes([]byte("IDAT")))
	require.NoError(t, bw.writeBytes([]byte{1, 2}))

	br := newByteReader(&buf)
	_, err := nextChunk(br)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindTruncated, e.Kind)
}

func TestNextChunkOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	bw := newByteWriter(&buf)
	require.NoError(t, bw.writeUint32(0x80000000))
	br := newByteReader(&buf)
	_, err := nextChunk(br)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindChunkLengthMismatch, e.Kind)
}
