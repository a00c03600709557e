// Package png implements a minimal PNG codec: it decodes a PNG byte
// stream into a dense 8-bit-per-channel RGBA pixel buffer, and encodes
// such a buffer back into a PNG byte stream. It does not implement
// Adam7 interlacing, 16-bit output fidelity, ancillary chunk writing
// beyond tRNS, or color management.
package png

import "io"

// DecodeOptions configures Decode.
type DecodeOptions struct {
	// Parallel enables the row-stripe concurrent unpack driver (§5).
	Parallel bool
	// DegreeOfParallelism bounds the worker pool when Parallel is set;
	// <= 0 defaults to the host's available parallelism.
	DegreeOfParallelism int
	// KeepAncillaryChunks retains skipped chunk bytes on Decoded.Ancillary
	// instead of discarding them (SPEC_FULL.md §4).
	KeepAncillaryChunks bool
}

// RawChunk is a skipped ancillary chunk's type and raw body, retained
// only when DecodeOptions.KeepAncillaryChunks is set.
type RawChunk struct {
	Type string
	Data []byte
}

// Decoded is the result of a successful Decode: a dense row-major
// RGBA8 buffer plus its dimensions (§6).
type Decoded struct {
	Pix    []byte
	Width  int
	Height int

	Ancillary []RawChunk
}

// Decode reads a canonical PNG stream from r and produces an RGBA8
// pixel buffer. It drives the chunk state machine of §4.9:
// ExpectSignature -> ExpectIHDR -> Body -> Done.
func Decode(r io.Reader, opts DecodeOptions) (*Decoded, error) {
	br := newByteReader(r)
	if err := readSignature(br); err != nil {
		return nil, err
	}

	first, err := nextChunk(br)
	if err != nil {
		return nil, err
	}
	if first.typ != chunkIHDR {
		return nil, newErr(KindBadHeader, "first chunk must be IHDR")
	}
	header, err := parseIHDR(first.data)
	if err != nil {
		return nil, err
	}

	var (
		pal       Palette
		trns      *Transparency
		idats     [][]byte
		ancillary []RawChunk
		seenPLTE  bool
		seenIDAT  bool
		done      bool
	)

	for !done {
		c, err := nextChunk(br)
		if err != nil {
			return nil, err
		}
		switch c.typ {
		case chunkIHDR:
			return nil, newErr(KindBadHeader, "duplicate IHDR chunk")
		case chunkPLTE:
			if seenPLTE {
				return nil, newErr(KindBadPalette, "duplicate PLTE chunk")
			}
			if seenIDAT {
				return nil, newErr(KindBadPalette, "PLTE chunk appears after IDAT")
			}
			p, err := parsePLTE(c.data, header.ColorType)
			if err != nil {
				return nil, err
			}
			pal = p
			seenPLTE = true
		case chunkTRNS:
			t, err := parseTRNS(c.data, header.ColorType, seenPLTE)
			if err != nil {
				return nil, err
			}
			trns = t
		case chunkIDAT:
			idats = append(idats, c.data)
			seenIDAT = true
		case chunkIEND:
			done = true
		default:
			if seenIDAT {
				logger().Debug().Str("chunk", c.typ.String()).
					Msg("non-IDAT chunk seen after IDAT started; treating as soft error per §3 invariants")
			}
			if opts.KeepAncillaryChunks {
				ancillary = append(ancillary, RawChunk{Type: c.typ.String(), Data: c.data})
			}
		}
	}

	if header.ColorType == ColorIndexed && !seenPLTE {
		return nil, newErr(KindMissingPalette, "indexed color type requires a PLTE chunk")
	}
	if len(idats) == 0 {
		return nil, newErr(KindMissingData, "no IDAT chunk found before IEND")
	}

	joined := joinIDATs(idats)
	filtered, err := inflateFiltered(joined)
	if err != nil {
		return nil, err
	}

	var pix []byte
	if opts.Parallel {
		pix, err = decodeParallel(header, filtered, pal, trns, opts.DegreeOfParallelism)
	} else {
		pix, err = unpackImage(header, filtered, pal, trns)
	}
	if err != nil {
		return nil, err
	}

	return &Decoded{
		Pix:       pix,
		Width:     int(header.Width),
		Height:    int(header.Height),
		Ancillary: ancillary,
	}, nil
}

// Encode writes pix (width*height*4 bytes, RGBA8 or ABGR8 if
// opts.Invert is set) to w as a well-formed PNG stream: signature,
// IHDR, optional PLTE+tRNS (indexed mode), a single IDAT chunk holding
// the whole zlib stream, IEND (§6).
func Encode(w io.Writer, pix []byte, width, height int, opts EncodeOptions) error {
	if width <= 0 || height <= 0 {
		return newErr(KindBadHeader, "width and height must be positive")
	}
	if len(pix) != width*height*4 {
		return newErr(KindBadHeader, "pixel buffer length does not match width*height*4")
	}

	ct, bitDepth, pal, trnsAlpha, filtered, err := packImage(pix, width, height, opts)
	if err != nil {
		return err
	}

	wrapped, err := deflateWrapped(filtered)
	if err != nil {
		return err
	}

	bw := newByteWriter(w)
	if err := bw.writeBytes(pngSignature[:]); err != nil {
		return err
	}

	h := &Header{Width: int32(width), Height: int32(height), BitDepth: bitDepth, ColorType: ct}
	if err := writeChunk(bw, chunkIHDR, encodeIHDR(h)); err != nil {
		return err
	}

	if ct == ColorIndexed {
		if err := writeChunk(bw, chunkPLTE, buildPLTEBody(pal)); err != nil {
			return err
		}
		if trnsBody := buildTRNSBody(trnsAlpha); len(trnsBody) > 0 {
			if err := writeChunk(bw, chunkTRNS, trnsBody); err != nil {
				return err
			}
		}
	}

	if err := writeChunk(bw, chunkIDAT, wrapped); err != nil {
		return err
	}
	return writeChunk(bw, chunkIEND, nil)
}
