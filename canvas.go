package paint

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/gogpu/paint/internal/cache"
	intImage "github.com/gogpu/paint/internal/image"
)

// Default canvas size used by hosts that do not specify one.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// compositeCacheSize is the number of flattened states a canvas keeps.
const compositeCacheSize = 4

// Canvas is a layered raster document with a live editing surface and a
// bounded undo history.
//
// Every mutating operation that succeeds appends exactly one history record.
// Edits made on the surface reach the bound layer only through Apply, Bind,
// EndStroke or an operation that rebinds.
//
// Thread safety: Canvas is not safe for concurrent use. Hosts that serve
// several goroutines serialize access, see package host.
type Canvas struct {
	width  int
	height int

	stack      *LayerStack
	binder     *Binder
	history    *History
	compositor *Compositor

	brush  Brush
	stroke *stroke
	zoom   float64

	// state identifies the current stack content; records carry the state
	// they were encoded from.
	state      uint64
	serials    uint64
	composites *cache.Cache[uint64, *Pixmap]

	logger *slog.Logger
}

// New creates an empty canvas of the given size and records it as the first
// history entry. Returns ErrInvalidDimension if either size is non-positive.
func New(width, height int, opts ...Option) (*Canvas, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}

	binder, err := NewBinder(width, height)
	if err != nil {
		return nil, err
	}

	c := &Canvas{
		width:      width,
		height:     height,
		stack:      NewLayerStack(),
		binder:     binder,
		history:    NewHistory(o.historyCapacity),
		compositor: NewParallelCompositor(logger, o.workers),
		brush:      o.brush,
		zoom:       1,
		composites: cache.New[uint64, *Pixmap](compositeCacheSize),
		logger:     logger,
	}
	c.Save()

	logger.Info("paint: canvas created", "width", width, "height", height)
	return c, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Resize changes the canvas size. Pending edits are published first, then
// the surface is reallocated and reloaded from the bound layer, anchored at
// the origin. Stored layers keep their pixels until they are next published.
// Returns false, with no history record, for invalid or unchanged sizes.
func (c *Canvas) Resize(width, height int) bool {
	if !intImage.ValidDimensions(width, height) || (width == c.width && height == c.height) {
		return false
	}

	c.publish()
	c.binder.Resize(width, height)
	c.width, c.height = width, height
	c.binder.reload(c.stack)
	c.stroke = nil

	c.logger.Debug("paint: resize", "width", width, "height", height)
	c.Save()
	return true
}

// AddImage inserts a transparent canvas-sized image layer directly above the
// bound layer, or at the bottom when nothing is bound, and binds it.
// An empty name is replaced with "Layer N".
func (c *Canvas) AddImage(name string, mode BlendMode) (int, error) {
	pixels, err := NewPixmap(c.width, c.height)
	if err != nil {
		return -1, err
	}
	if name == "" {
		name = fmt.Sprintf("Layer %d", c.stack.Len()+1)
	}
	layer, err := NewImageLayer(name, mode, pixels)
	if err != nil {
		return -1, err
	}

	index, err := c.insertAndBind(layer)
	if err != nil {
		return -1, err
	}
	c.Save()
	return index, nil
}

// insertAndBind publishes pending edits, inserts layer above the bound index
// and binds it. It does not save.
func (c *Canvas) insertAndBind(layer Layer) (int, error) {
	c.publish()

	index, err := c.insertAt(c.binder.Index()+1, layer)
	if err != nil {
		return -1, err
	}
	if err := c.binder.Bind(c.stack, index); err != nil {
		return -1, err
	}
	c.stroke = nil
	return index, nil
}

// AddLayerAt inserts a copy of layer at index without changing which layer
// is bound. Image layers must match the canvas size.
func (c *Canvas) AddLayerAt(index int, layer Layer) (int, error) {
	if layer == nil {
		return -1, fmt.Errorf("paint: add nil layer at %d", index)
	}
	if img, ok := layer.(*ImageLayer); ok {
		if w, h := img.pixels.Size(); w != c.width || h != c.height {
			return -1, fmt.Errorf("%w: layer %dx%d on canvas %dx%d", ErrSizeMismatch, w, h, c.width, c.height)
		}
	}

	at, err := c.insertAt(index, layer.Clone())
	if err != nil {
		c.logger.Warn("paint: add layer rejected", "index", index, "err", err)
		return -1, err
	}
	c.Save()
	return at, nil
}

// insertAt inserts into the stack and keeps the binder on the same layer.
func (c *Canvas) insertAt(index int, layer Layer) (int, error) {
	bound := c.binder.Index()
	index, err := c.stack.InsertAt(index, layer)
	if err != nil {
		return -1, err
	}
	if bound >= 0 && index <= bound {
		c.binder.retarget(bound + 1)
	}
	return index, nil
}

// RemoveLayer removes the bound layer. Returns ErrIndexOutOfRange when
// nothing is bound.
func (c *Canvas) RemoveLayer() (int, error) {
	return c.RemoveLayerAt(c.binder.Index())
}

// RemoveLayerAt removes the layer at index. Removing the bound layer binds
// the layer that takes its place, or the new top layer.
func (c *Canvas) RemoveLayerAt(index int) (int, error) {
	c.publish()

	if _, err := c.stack.RemoveAt(index); err != nil {
		c.logger.Warn("paint: remove layer rejected", "index", index, "err", err)
		return -1, err
	}

	switch bound := c.binder.Index(); {
	case bound == index:
		c.binder.release()
		c.stroke = nil
		next := min(index, c.stack.Len()-1)
		_ = c.binder.Bind(c.stack, next) // next is -1 or in range
	case bound > index:
		c.binder.retarget(bound - 1)
	}

	c.Save()
	return index, nil
}

// MoveLayer moves the layer at from to index to. The binder follows the
// layer it is bound to.
func (c *Canvas) MoveLayer(from, to int) error {
	if from == to {
		if _, err := c.stack.At(from); err != nil {
			return err
		}
		return nil
	}

	bound := c.binder.Index()
	if err := c.stack.Move(from, to); err != nil {
		c.logger.Warn("paint: move layer rejected", "from", from, "to", to, "err", err)
		return err
	}

	switch {
	case bound == from:
		c.binder.retarget(to)
	case from < bound && to >= bound:
		c.binder.retarget(bound - 1)
	case from > bound && to <= bound && bound >= 0:
		c.binder.retarget(bound + 1)
	}

	c.Save()
	return nil
}

// SetLayerBlendMode changes the blend mode of the image layer at index.
func (c *Canvas) SetLayerBlendMode(index int, mode BlendMode) error {
	layer, err := c.stack.At(index)
	if err != nil {
		return err
	}
	img, ok := layer.(*ImageLayer)
	if !ok {
		return fmt.Errorf("%w: layer %d has no pixels", ErrIndexOutOfRange, index)
	}
	img.SetBlendMode(mode)
	c.Save()
	return nil
}

// AddGroup adds a named group over [start, start+length).
func (c *Canvas) AddGroup(name string, start, length int) error {
	if err := c.stack.AddGroup(name, start, length); err != nil {
		return err
	}
	c.Save()
	return nil
}

// Bind publishes pending edits and exposes the layer at index on the
// surface. Index -1 unbinds. Binding does not create a history record.
func (c *Canvas) Bind(index int) error {
	if index != c.binder.Index() {
		c.stroke = nil
	}
	c.publish()
	if err := c.binder.Bind(c.stack, index); err != nil {
		c.logger.Warn("paint: bind rejected", "index", index, "err", err)
		return err
	}
	c.logger.Debug("paint: bind", "index", index)
	return nil
}

// BoundIndex returns the bound layer index, or -1.
func (c *Canvas) BoundIndex() int {
	return c.binder.Index()
}

// Surface returns the live editing surface. Writes to it become part of
// the bound layer on the next Apply.
func (c *Canvas) Surface() *Pixmap {
	return c.binder.Surface()
}

// Apply publishes the surface into the bound layer and saves.
func (c *Canvas) Apply() bool {
	published := c.publish()
	c.Save()
	return published
}

// publish copies the surface into the bound layer.
func (c *Canvas) publish() bool {
	if !c.binder.Apply(c.stack) {
		return false
	}
	c.touch()
	return true
}

// touch gives the stack content a new identity.
func (c *Canvas) touch() {
	c.serials++
	c.state = c.serials
}

// Save appends a record of the current state to the history, dropping any
// redo records.
func (c *Canvas) Save() {
	c.touch()
	c.history.Save(c.Encode())
	c.logger.Debug("paint: save", "position", c.history.Position(), "records", c.history.Len())
}

// Undo restores the previous record. Returns false when there is none.
// A corrupt record is an internal invariant violation and panics with an
// error wrapping ErrCorruptRecord.
func (c *Canvas) Undo() bool {
	rec, ok := c.history.Undo()
	if !ok {
		return false
	}
	c.restore(rec)
	c.logger.Debug("paint: undo", "position", c.history.Position())
	return true
}

// Redo restores the next record. Returns false when there is none.
func (c *Canvas) Redo() bool {
	rec, ok := c.history.Redo()
	if !ok {
		return false
	}
	c.restore(rec)
	c.logger.Debug("paint: redo", "position", c.history.Position())
	return true
}

func (c *Canvas) restore(rec Record) {
	if err := c.decode(rec, true); err != nil {
		c.logger.Error("paint: restore failed", "err", err)
		panic(err)
	}
}

// Encode returns a deep snapshot of the canvas.
func (c *Canvas) Encode() Record {
	return Record{
		Width:      c.width,
		Height:     c.height,
		Layers:     cloneLayers(c.stack.layers),
		Groups:     slices.Clone(c.stack.groups),
		BoundIndex: c.binder.Index(),
		state:      c.state,
	}
}

// Decode replaces the canvas state with a copy of rec and rebinds the
// recorded index. Unpublished surface edits are discarded. The history is
// not touched.
func (c *Canvas) Decode(rec Record) error {
	return c.decode(rec, false)
}

// decode restores rec. Records from the canvas's own history keep their
// state identity so cached composites stay valid.
func (c *Canvas) decode(rec Record, own bool) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	rec = rec.Clone()

	c.binder.release()
	c.stroke = nil
	c.width, c.height = rec.Width, rec.Height
	c.binder.Resize(rec.Width, rec.Height)
	c.stack = &LayerStack{layers: rec.Layers, groups: rec.Groups}
	if own && rec.state != 0 {
		c.state = rec.state
	} else {
		c.touch()
	}

	return c.binder.Bind(c.stack, rec.BoundIndex)
}

// Composite flattens the layer stack. Surface edits that were not applied
// are not included. The result belongs to the caller.
func (c *Canvas) Composite() (*Pixmap, error) {
	if out, ok := c.composites.Get(c.state); ok {
		return out.Clone(), nil
	}
	out, err := c.compositor.Composite(c.stack.layers, c.width, c.height)
	if err != nil {
		return nil, err
	}
	c.composites.Set(c.state, out.Clone())
	return out, nil
}

// Len returns the number of layers.
func (c *Canvas) Len() int {
	return c.stack.Len()
}

// Layer returns a copy of the layer at index.
func (c *Canvas) Layer(index int) (Layer, error) {
	l, err := c.stack.At(index)
	if err != nil {
		return nil, err
	}
	return l.Clone(), nil
}

// Layers returns copies of all layers in paint order.
func (c *Canvas) Layers() []Layer {
	return cloneLayers(c.stack.layers)
}

// Groups returns the groups in creation order.
func (c *Canvas) Groups() []Group {
	return c.stack.Groups()
}

// GroupsContaining returns the groups whose range includes index.
func (c *Canvas) GroupsContaining(index int) []Group {
	return c.stack.GroupsContaining(index)
}

// Close releases the compositing workers started by WithWorkers. The canvas
// remains usable and composites serially afterwards.
func (c *Canvas) Close() {
	c.compositor.Close()
}

// History exposes the undo log for inspection.
func (c *Canvas) History() *History {
	return c.history
}
