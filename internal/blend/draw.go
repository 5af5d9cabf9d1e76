package blend

import "github.com/gogpu/paint/internal/image"

// Draw combines src onto dst pixel by pixel using mode.
//
// src is anchored at the origin of dst without scaling. Pixels of src that
// fall outside dst are dropped and pixels of dst not covered by src are left
// untouched, so a source with stale dimensions still lands at the top-left.
func Draw(dst, src *image.ImageBuf, mode Mode) {
	DrawRows(dst, src, mode, 0, dst.Height())
}

// DrawRows is Draw restricted to rows [y0, y1) of dst. Calls on disjoint
// row ranges may run concurrently.
func DrawRows(dst, src *image.ImageBuf, mode Mode, y0, y1 int) {
	fn := FuncFor(mode)

	w := min(dst.Width(), src.Width())
	y1 = min(y1, dst.Height(), src.Height())
	n := w * image.BytesPerPixel

	for y := max(y0, 0); y < y1; y++ {
		d := dst.RowBytes(y)[:n]
		s := src.RowBytes(y)[:n]
		for i := 0; i < n; i += image.BytesPerPixel {
			d[i], d[i+1], d[i+2], d[i+3] = fn(
				s[i], s[i+1], s[i+2], s[i+3],
				d[i], d[i+1], d[i+2], d[i+3],
			)
		}
	}
}
