package png

import "fmt"

// OutputMode selects the encoder's output color type (§4.8: only these
// three combinations are supported; anything else fails fast).
type OutputMode int

const (
	OutputRGBA8 OutputMode = iota
	OutputRGB8
	OutputIndexed8
)

// FilterMode selects how the packer chooses a per-row filter.
type FilterMode int

const (
	// FilterAdaptive tries filters 1..=4 per row and keeps the one
	// minimizing the unsigned byte-value sum (§4.8). Filter 0 (None) is
	// intentionally never tried, matching the reference heuristic.
	FilterAdaptive FilterMode = iota
	// FilterFixed applies EncodeOptions.FixedFilter to every row.
	FilterFixed
)

// EncodeOptions configures the packer.
type EncodeOptions struct {
	Mode       OutputMode
	FilterMode FilterMode
	// FixedFilter is required when FilterMode == FilterFixed.
	FixedFilter *uint8
	// Invert declares the source pixel buffer as ABGR instead of RGBA.
	Invert bool

	// Indexed-mode only:
	BitDepth                uint8 // 0 => choose automatically
	MaxPaletteSize          int   // 0 => no caller-imposed cap (still <= 256)
	ReduceUnindexableImages bool
	EmitTRNS                bool
}

// rgbaAt reads pixel idx from a tightly-packed RGBA8 (or ABGR8, if
// invert is set) buffer, always returning it in canonical R,G,B,A order.
func rgbaAt(pix []byte, idx int, invert bool) (r, g, b, a byte) {
	o := idx * 4
	if !invert {
		return pix[o], pix[o+1], pix[o+2], pix[o+3]
	}
	return pix[o+3], pix[o+2], pix[o+1], pix[o]
}

// packImage is the single encode-side entry point: it produces the
// header fields, palette/transparency (indexed mode only), and the
// fully filtered scanline stream ready for zlib wrapping.
func packImage(pix []byte, width, height int, opts EncodeOptions) (ct ColorType, bitDepth uint8, pal Palette, trnsAlpha []byte, filtered []byte, err error) {
	switch opts.Mode {
	case OutputRGBA8:
		filtered, err = packTrueColor(pix, width, height, 4, opts)
		return ColorRGBA, 8, nil, nil, filtered, err
	case OutputRGB8:
		filtered, err = packTrueColor(pix, width, height, 3, opts)
		return ColorRGB, 8, nil, nil, filtered, err
	case OutputIndexed8:
		return packIndexed(pix, width, height, opts)
	default:
		return 0, 0, nil, nil, nil, newErr(KindUnsupportedMode, fmt.Sprintf("unsupported output mode %d", opts.Mode))
	}
}

// packTrueColor builds the RGBA8/RGB8 filtered scanline stream (§4.8).
// Two alternating row buffers hold the current and previous raw rows,
// mirroring the cr/pr pattern in rmamba-image/png/writer.go.
func packTrueColor(pix []byte, width, height, spp int, opts EncodeOptions) ([]byte, error) {
	rowBytes := width * spp
	stride := 1 + rowBytes
	out := make([]byte, stride*height)

	rows := [2][]byte{make([]byte, rowBytes), make([]byte, rowBytes)}
	var scratch [5][]byte
	for i := 0; i <= 4; i++ {
		scratch[i] = make([]byte, rowBytes)
	}

	for y := 0; y < height; y++ {
		cur := rows[y%2]
		var prev []byte
		if y > 0 {
			prev = rows[(y+1)%2]
		}

		for x := 0; x < width; x++ {
			r, g, b, a := rgbaAt(pix, y*width+x, opts.Invert)
			o := x * spp
			cur[o], cur[o+1], cur[o+2] = r, g, b
			if spp == 4 {
				cur[o+3] = a
			}
		}

		ft, filteredRow, err := chooseFilter(cur, prev, spp, scratch, opts)
		if err != nil {
			return nil, err
		}

		rowOff := y * stride
		out[rowOff] = ft
		copy(out[rowOff+1:rowOff+1+rowBytes], filteredRow)
	}
	return out, nil
}

// chooseFilter implements §4.8's adaptive/fixed filter selection.
func chooseFilter(cur, prev []byte, unit int, scratch [5][]byte, opts EncodeOptions) (uint8, []byte, error) {
	if opts.FilterMode == FilterFixed {
		if opts.FixedFilter == nil {
			return 0, nil, newErr(KindUnsupportedMode, "fixed filter mode requires FixedFilter to be set")
		}
		ft := *opts.FixedFilter
		if ft > filterPaeth {
			return 0, nil, newErr(KindBadFilter, "fixed filter type byte not in 0..=4")
		}
		applyFilter(ft, cur, prev, unit, scratch[ft])
		return ft, scratch[ft], nil
	}

	best := -1
	var bestFt uint8
	for _, ft := range []uint8{filterSub, filterUp, filterAverage, filterPaeth} {
		applyFilter(ft, cur, prev, unit, scratch[ft])
		sum := rowUnsignedSum(scratch[ft])
		if best == -1 || sum < best {
			best = sum
			bestFt = ft
		}
	}
	return bestFt, scratch[bestFt], nil
}

// rgba8 is a hashable RGBA color used as a palette-construction key.
type rgba8 struct{ r, g, b, a byte }

// packIndexed implements §4.8's Indexed8 path: palette construction,
// optional nearest-color reduction, and true sub-byte packing (this
// codec's Open-Questions decision to go beyond the teacher's
// always-8-bpp limitation; see SPEC_FULL.md §6).
func packIndexed(pix []byte, width, height int, opts EncodeOptions) (ColorType, uint8, Palette, []byte, []byte, error) {
	npix := width * height
	order := make([]rgba8, 0, 256)
	seen := make(map[rgba8]int)
	for i := 0; i < npix; i++ {
		r, g, b, a := rgbaAt(pix, i, opts.Invert)
		c := rgba8{r, g, b, a}
		if _, ok := seen[c]; !ok {
			seen[c] = len(order)
			order = append(order, c)
		}
	}

	bitDepth := opts.BitDepth
	if bitDepth == 0 {
		bitDepth = autoBitDepth(len(order))
	}

	limit := 1 << uint(bitDepth)
	if limit > 256 {
		limit = 256
	}
	if opts.MaxPaletteSize > 0 && opts.MaxPaletteSize < limit {
		limit = opts.MaxPaletteSize
	}

	kept := order
	var mapping map[rgba8]rgba8
	if len(order) > limit {
		if !opts.ReduceUnindexableImages {
			return 0, 0, nil, nil, nil, newErr(KindUnsupportedMode,
				fmt.Sprintf("palette has %d colors, exceeds limit %d and reduction is disabled", len(order), limit))
		}
		kept, mapping = reducePalette(order, limit)
	}

	colorIdx := make(map[rgba8]int, len(kept))
	pal := make(Palette, len(kept))
	trnsAlpha := make([]byte, len(kept))
	anyAlpha := false
	for i, c := range kept {
		colorIdx[c] = i
		pal[i] = RGB{R: c.r, G: c.g, B: c.b}
		trnsAlpha[i] = c.a
		if c.a != 255 {
			anyAlpha = true
		}
	}

	rowBytes := (width*int(bitDepth) + 7) / 8
	stride := 1 + rowBytes
	out := make([]byte, stride*height)
	indices := make([]uint8, width)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := rgbaAt(pix, y*width+x, opts.Invert)
			c := rgba8{r, g, b, a}
			idx, ok := colorIdx[c]
			if !ok {
				if repl, ok2 := mapping[c]; ok2 {
					idx, ok = colorIdx[repl]
				}
				if !ok {
					return 0, 0, nil, nil, nil, newErr(KindPaletteMiss,
						fmt.Sprintf("pixel (%d,%d) color has no palette representative", x, y))
				}
			}
			indices[x] = uint8(idx)
		}
		// The source's indexed path always emits filter type None;
		// preserved here as the reference behavior (§4.8).
		rowOff := y * stride
		out[rowOff] = filterNone
		copy(out[rowOff+1:rowOff+1+rowBytes], packSamplesMSB(indices, int(bitDepth)))
	}

	var emittedTRNS []byte
	if opts.EmitTRNS && anyAlpha {
		emittedTRNS = trnsAlpha
	}
	return ColorIndexed, bitDepth, pal, emittedTRNS, out, nil
}

// autoBitDepth picks the smallest of {1,2,4,8} that fits n palette
// entries (§4.8).
func autoBitDepth(n int) uint8 {
	switch {
	case n <= 2:
		return 1
	case n <= 4:
		return 2
	case n <= 16:
		return 4
	default:
		return 8
	}
}

// packSamplesMSB is the encode-side inverse of sampleAt: it packs
// bitDepth-wide values MSB-first into bytes.
func packSamplesMSB(values []uint8, bitDepth int) []byte {
	rowBytes := (len(values)*bitDepth + 7) / 8
	out := make([]byte, rowBytes)
	mask := byte((1 << uint(bitDepth)) - 1)
	for i, v := range values {
		bitPos := i * bitDepth
		byteIdx := bitPos / 8
		shift := 8 - bitDepth - (bitPos % 8)
		out[byteIdx] |= (v & mask) << uint(shift)
	}
	return out
}

// sqDist is the squared Euclidean distance between two RGBA colors.
func sqDist(a, b rgba8) int {
	dr := int(a.r) - int(b.r)
	dg := int(a.g) - int(b.g)
	db := int(a.b) - int(b.b)
	da := int(a.a) - int(b.a)
	return dr*dr + dg*dg + db*db + da*da
}

// reducePalette implements §4.8's nearest-color palette reduction:
// repeatedly merge the two closest colors, dropping one and recording
// where it was merged to, until at most `limit` colors remain. O(P^2)
// per removal, O(P^3) total overall — acceptable for P <= 256 (§9).
func reducePalette(colors []rgba8, limit int) ([]rgba8, map[rgba8]rgba8) {
	kept := append([]rgba8(nil), colors...)
	mapping := make(map[rgba8]rgba8)

	for len(kept) > limit {
		bi, bj, best := -1, -1, -1
		for i := 0; i < len(kept); i++ {
			for j := i + 1; j < len(kept); j++ {
				d := sqDist(kept[i], kept[j])
				if best == -1 || d < best {
					best, bi, bj = d, i, j
				}
			}
		}
		dropped := kept[bj]
		keptColor := kept[bi]
		mapping[dropped] = keptColor
		for k, v := range mapping {
			if v == dropped {
				mapping[k] = keptColor
			}
		}
		kept = append(kept[:bj], kept[bj+1:]...)
	}
	return kept, mapping
}
