package paint

import (
	"fmt"
	"slices"
)

// LayerStack is the ordered list of layers, bottom first, together with the
// groups laid over it. Index 0 is painted first.
//
// Thread safety: LayerStack is not safe for concurrent access.
type LayerStack struct {
	layers []Layer
	groups []Group
}

// NewLayerStack creates an empty stack.
func NewLayerStack() *LayerStack {
	return &LayerStack{layers: make([]Layer, 0, 4)}
}

// Len returns the number of layers.
func (s *LayerStack) Len() int {
	return len(s.layers)
}

// At returns the layer at index without copying it.
func (s *LayerStack) At(index int) (Layer, error) {
	if index < 0 || index >= len(s.layers) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(s.layers))
	}
	return s.layers[index], nil
}

// Layers returns the layers in paint order. The slice is a copy; the layers
// are not.
func (s *LayerStack) Layers() []Layer {
	return slices.Clone(s.layers)
}

// InsertAt inserts layer at index, which must lie in [0, Len()], and shifts
// the groups. Returns index, or -1 with ErrIndexOutOfRange.
func (s *LayerStack) InsertAt(index int, layer Layer) (int, error) {
	if index < 0 || index > len(s.layers) {
		return -1, fmt.Errorf("%w: insert at %d not in [0, %d]", ErrIndexOutOfRange, index, len(s.layers))
	}
	if layer == nil {
		return -1, fmt.Errorf("paint: insert nil layer at %d", index)
	}
	s.layers = slices.Insert(s.layers, index, layer)
	s.shiftGroups(index, 1)
	return index, nil
}

// RemoveAt removes the layer at index, which must lie in [0, Len()), and
// shifts the groups. Returns the removed layer.
func (s *LayerStack) RemoveAt(index int) (Layer, error) {
	if index < 0 || index >= len(s.layers) {
		return nil, fmt.Errorf("%w: remove at %d not in [0, %d)", ErrIndexOutOfRange, index, len(s.layers))
	}
	removed := s.layers[index]
	s.layers = slices.Delete(s.layers, index, index+1)
	s.shiftGroups(index, -1)
	return removed, nil
}

// Move reorders a layer as a removal followed by an insertion, so groups
// see both mutations.
func (s *LayerStack) Move(from, to int) error {
	if to < 0 || to >= len(s.layers) {
		return fmt.Errorf("%w: move to %d not in [0, %d)", ErrIndexOutOfRange, to, len(s.layers))
	}
	layer, err := s.RemoveAt(from)
	if err != nil {
		return err
	}
	_, err = s.InsertAt(to, layer)
	return err
}

// AddGroup appends a group. Negative start or length is rejected.
func (s *LayerStack) AddGroup(name string, start, length int) error {
	if start < 0 || length < 0 {
		return fmt.Errorf("%w: group %q start=%d length=%d", ErrIndexOutOfRange, name, start, length)
	}
	s.groups = append(s.groups, Group{Name: name, Start: start, Length: length})
	return nil
}

// Groups returns a copy of the groups in creation order.
func (s *LayerStack) Groups() []Group {
	return slices.Clone(s.groups)
}

// GroupsContaining returns copies of the groups whose range includes index.
func (s *LayerStack) GroupsContaining(index int) []Group {
	var out []Group
	for _, g := range s.groups {
		if g.Contains(index) {
			out = append(out, g)
		}
	}
	return out
}

// Clone returns a deep copy of the stack.
func (s *LayerStack) Clone() *LayerStack {
	return &LayerStack{layers: cloneLayers(s.layers), groups: slices.Clone(s.groups)}
}

func (s *LayerStack) shiftGroups(index, delta int) {
	for i := range s.groups {
		s.groups[i].shift(index, delta)
	}
}
