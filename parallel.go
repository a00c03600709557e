package png

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// decodeParallel implements §5's optional row-stripe parallel unpack.
// Stripes are delimited by rows whose filter type is None or Sub —
// rows that, by construction, do not reference the previous scanline —
// so each stripe can be inverted independently. degree bounds the
// worker pool; <= 0 defaults to the host's available parallelism.
func decodeParallel(h *Header, data []byte, pal Palette, trns *Transparency, degree int) ([]byte, error) {
	if degree <= 0 {
		degree = runtime.GOMAXPROCS(0)
	}
	width, height := int(h.Width), int(h.Height)
	stride := 1 + h.rowBytes()
	if len(data) < height*stride {
		return nil, newErr(KindTruncated, "filtered data is shorter than width/height imply")
	}

	boundaries := stripeBoundaries(data, stride, height)

	out := make([]byte, width*height*4)
	g := new(errgroup.Group)
	g.SetLimit(degree)
	for i := 0; i < len(boundaries)-1; i++ {
		from, to := boundaries[i], boundaries[i+1]
		g.Go(func() error {
			return decodeRows(h, data, from, to, pal, trns, out)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// stripeBoundaries returns the row indices that open each independent
// stripe: row 0 always opens the first stripe, and every later row
// whose filter type is None or Sub opens a new one. The returned slice
// is terminated with `height` as a sentinel so callers can walk
// consecutive pairs.
func stripeBoundaries(data []byte, stride, height int) []int {
	boundaries := make([]int, 0, height+1)
	boundaries = append(boundaries, 0)
	for y := 1; y < height; y++ {
		ft := data[y*stride]
		if ft == filterNone || ft == filterSub {
			boundaries = append(boundaries, y)
		}
	}
	boundaries = append(boundaries, height)
	return boundaries
}
