package paint

import "fmt"

// Binder owns the live editing surface and tracks which layer, if any, the
// surface currently exposes. It has two states: unbound (Index() == -1) and
// bound to an index of a LayerStack.
//
// Edits made on the surface reach the bound layer only when they are
// published by Apply or by the next Bind.
type Binder struct {
	surface *Pixmap
	index   int
}

// NewBinder creates an unbound binder with a transparent surface.
func NewBinder(width, height int) (*Binder, error) {
	surface, err := NewPixmap(width, height)
	if err != nil {
		return nil, err
	}
	return &Binder{surface: surface, index: -1}, nil
}

// Index returns the bound index, or -1 when unbound.
func (b *Binder) Index() int {
	return b.index
}

// Surface returns the live editing surface.
func (b *Binder) Surface() *Pixmap {
	return b.surface
}

// Apply publishes the surface into the bound image layer. It reports
// whether anything was published.
func (b *Binder) Apply(stack *LayerStack) bool {
	if b.index < 0 {
		return false
	}
	layer, err := stack.At(b.index)
	if err != nil {
		return false
	}
	img, ok := layer.(*ImageLayer)
	if !ok {
		return false
	}
	img.pixels = b.surface.Clone()
	return true
}

// Bind publishes pending edits, then exposes the layer at index. Binding the
// already bound index only publishes. An index outside [0, stack.Len())
// leaves the binder unbound with a cleared surface; indexes other than -1
// also return ErrIndexOutOfRange.
func (b *Binder) Bind(stack *LayerStack, index int) error {
	b.Apply(stack)

	if index == b.index && index >= 0 && index < stack.Len() {
		return nil
	}

	if _, err := stack.At(index); err != nil {
		b.release()
		if index == -1 {
			return nil
		}
		return fmt.Errorf("bind: %w", err)
	}

	b.index = index
	b.reload(stack)
	return nil
}

// reload replaces the surface content with the bound layer's pixels,
// anchored at the origin.
func (b *Binder) reload(stack *LayerStack) {
	b.surface.Clear()
	layer, err := stack.At(b.index)
	if err != nil {
		return
	}
	if img, ok := layer.(*ImageLayer); ok {
		b.surface.buf.CopyFrom(img.pixels.buf)
	}
}

// Resize resizes the surface, discarding its content.
func (b *Binder) Resize(width, height int) bool {
	return b.surface.Resize(width, height)
}

// retarget follows the bound layer to a new index after the stack was
// reordered around it. The surface is left as is.
func (b *Binder) retarget(index int) {
	b.index = index
}

// release forgets the binding without publishing and clears the surface.
func (b *Binder) release() {
	b.index = -1
	b.surface.Clear()
}
