package paint

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/paint/internal/blend"
	intImage "github.com/gogpu/paint/internal/image"
	"github.com/gogpu/paint/internal/parallel"
)

// parallelThreshold is the pixel count from which a compositor with
// workers blends layers in row bands.
const parallelThreshold = 256 * 256

// Compositor flattens layers into a single pixmap.
//
// Each layer is copied into a pooled scratch buffer sized to the layer's own
// pixels, drawn onto the output with the layer's blend mode, and the scratch
// buffer is cleared before the next layer. Stored layer pixels are only read.
//
// A compositor created by NewCompositor runs on the calling goroutine. One
// created by NewParallelCompositor owns a worker pool and splits large
// frames into disjoint row bands; the output is identical.
//
// Thread safety: Composite may be called concurrently; the scratch pool is
// synchronized.
type Compositor struct {
	pool    *intImage.Pool
	workers *parallel.WorkerPool
	logger  *slog.Logger
}

// NewCompositor creates a serial compositor. A nil logger uses the package
// logger.
func NewCompositor(logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = Logger()
	}
	return &Compositor{pool: intImage.NewPool(4), logger: logger}
}

// NewParallelCompositor creates a compositor that blends frames of at least
// 256x256 pixels on its own pool of workers goroutines. Workers below 2 give
// a serial compositor. Close releases the pool.
func NewParallelCompositor(logger *slog.Logger, workers int) *Compositor {
	c := NewCompositor(logger)
	if workers > 1 {
		c.workers = parallel.NewWorkerPool(workers)
	}
	return c
}

// Close stops the worker pool, if any. A closed compositor keeps working
// serially.
func (c *Compositor) Close() {
	if c.workers != nil {
		c.workers.Close()
	}
}

// Composite draws layers back to front (index 0 first) onto a transparent
// width x height pixmap. A layer whose pixels have other dimensions is drawn
// at its own size anchored at the origin.
func (c *Compositor) Composite(layers []Layer, width, height int) (*Pixmap, error) {
	out, err := NewPixmap(width, height)
	if err != nil {
		return nil, err
	}

	for i, layer := range layers {
		switch l := layer.(type) {
		case *ImageLayer:
			c.drawLayer(out.buf, l)
		case *GroupLayer:
			// Headers carry no pixels.
		default:
			return nil, fmt.Errorf("%w: layer %d has unknown type %T", ErrCorruptRecord, i, layer)
		}
	}

	c.logger.Debug("paint: composite", "width", width, "height", height, "layers", len(layers))
	return out, nil
}

func (c *Compositor) drawLayer(dst *intImage.ImageBuf, l *ImageLayer) {
	src := l.pixels.buf
	scratch := c.pool.Get(src.Width(), src.Height())
	scratch.CopyFrom(src)

	if c.workers != nil && dst.Width()*dst.Height() >= parallelThreshold {
		c.workers.Rows(dst.Height(), func(y0, y1 int) {
			blend.DrawRows(dst, scratch, l.blendMode, y0, y1)
		})
	} else {
		blend.Draw(dst, scratch, l.blendMode)
	}

	c.pool.Put(scratch)
}
