package png

import "github.com/pkg/errors"

// Kind classifies why a decode or encode operation failed.
type Kind int

const (
	_ Kind = iota
	KindBadSignature
	KindTruncated
	KindChunkLengthMismatch
	KindBadHeader
	KindBadPalette
	KindMissingPalette
	KindMissingData
	KindBadTransparency
	KindBadFilter
	KindBadBitDepth
	KindUnsupportedColorType
	KindUnsupportedMode
	KindPaletteMiss
	KindInflateError
	KindDeflateError
	KindUnsupportedInterlace
	KindCorruptChunk
)

func (k Kind) String() string {
	switch k {
	case KindBadSignature:
		return "BadSignature"
	case KindTruncated:
		return "Truncated"
	case KindChunkLengthMismatch:
		return "ChunkLengthMismatch"
	case KindBadHeader:
		return "BadHeader"
	case KindBadPalette:
		return "BadPalette"
	case KindMissingPalette:
		return "MissingPalette"
	case KindMissingData:
		return "MissingData"
	case KindBadTransparency:
		return "BadTransparency"
	case KindBadFilter:
		return "BadFilter"
	case KindBadBitDepth:
		return "BadBitDepth"
	case KindUnsupportedColorType:
		return "UnsupportedColorType"
	case KindUnsupportedMode:
		return "UnsupportedMode"
	case KindPaletteMiss:
		return "PaletteMiss"
	case KindInflateError:
		return "InflateError"
	case KindDeflateError:
		return "DeflateError"
	case KindUnsupportedInterlace:
		return "UnsupportedInterlace"
	case KindCorruptChunk:
		return "CorruptChunk"
	default:
		return "Unknown"
	}
}

// Error is the codec's error type. Kind lets callers branch on failure
// category without string matching; Msg carries the human-readable detail.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Msg
}

func newErr(k Kind, msg string) error {
	return errors.WithStack(&Error{Kind: k, Msg: msg})
}

// AsError reports whether err (or one it wraps) is a *Error, and returns it.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
