package png

import (
	"strings"
	"time"
)

// TextEntry is one tEXt/zTXt keyword/text pair. zTXt's compressed
// payload is not decompressed here — callers needing the text itself
// should inflate Text with the same flate reader used for IDAT data.
type TextEntry struct {
	Keyword   string
	Text      string
	Compressed bool
}

const nullSeparator = "\x00"

// ParseTextChunks best-effort parses tEXt and zTXt entries out of a
// Decoded's retained ancillary chunks (SPEC_FULL.md §4; requires
// DecodeOptions.KeepAncillaryChunks). It never participates in the
// mandatory decode path — a malformed text chunk is simply skipped,
// mirroring the teacher's TEXT/ZTXT chunk types in chunk.go.
func ParseTextChunks(ancillary []RawChunk) []TextEntry {
	var out []TextEntry
	for _, c := range ancillary {
		switch c.Type {
		case chunkTEXT.String():
			if e, ok := parseTEXT(c.Data); ok {
				out = append(out, e)
			}
		case chunkZTXT.String():
			if e, ok := parseZTXT(c.Data); ok {
				out = append(out, e)
			}
		}
	}
	return out
}

func parseTEXT(data []byte) (TextEntry, bool) {
	parts := strings.SplitN(string(data), nullSeparator, 2)
	if len(parts) != 2 {
		return TextEntry{}, false
	}
	return TextEntry{Keyword: parts[0], Text: parts[1]}, true
}

func parseZTXT(data []byte) (TextEntry, bool) {
	parts := strings.SplitN(string(data), nullSeparator, 2)
	if len(parts) != 2 || len(parts[1]) < 1 {
		return TextEntry{}, false
	}
	// parts[1][0] is the compression method byte; the remainder is the
	// compressed text, left compressed here (see TextEntry doc comment).
	return TextEntry{Keyword: parts[0], Text: parts[1][1:], Compressed: true}, true
}

// ParseTimeChunk best-effort parses a tIME chunk's last-modified
// timestamp out of a Decoded's retained ancillary chunks.
func ParseTimeChunk(ancillary []RawChunk) (time.Time, bool) {
	for _, c := range ancillary {
		if c.Type != chunkTIME.String() || len(c.Data) != 7 {
			continue
		}
		d := c.Data
		year := int(d[0])<<8 | int(d[1])
		return time.Date(year, time.Month(d[2]), int(d[3]), int(d[4]), int(d[5]), int(d[6]), 0, time.UTC), true
	}
	return time.Time{}, false
}
