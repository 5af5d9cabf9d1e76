package paint

import "fmt"

// Layer is one entry of a LayerStack.
//
// Layer is a closed set of variants: *ImageLayer and *GroupLayer. Code that
// needs variant-specific behavior switches on the concrete type.
type Layer interface {
	// Name returns the display name of the layer.
	Name() string

	// Clone returns a deep copy that shares no pixel memory with the receiver.
	Clone() Layer

	isLayer()
}

// ImageLayer is a named raster composited with a blend mode.
// Its pixels are owned exclusively by the layer.
type ImageLayer struct {
	name      string
	blendMode BlendMode
	pixels    *Pixmap
}

// NewImageLayer creates a layer that takes ownership of pixels.
// Unknown blend modes are stored as BlendSourceOver.
func NewImageLayer(name string, mode BlendMode, pixels *Pixmap) (*ImageLayer, error) {
	if pixels == nil {
		return nil, fmt.Errorf("%w: nil pixmap for layer %q", ErrInvalidDimension, name)
	}
	if !mode.IsValid() {
		mode = BlendSourceOver
	}
	return &ImageLayer{name: name, blendMode: mode, pixels: pixels}, nil
}

// Name returns the layer name.
func (l *ImageLayer) Name() string { return l.name }

// SetName renames the layer.
func (l *ImageLayer) SetName(name string) { l.name = name }

// BlendMode returns the operator used to composite the layer.
func (l *ImageLayer) BlendMode() BlendMode { return l.blendMode }

// SetBlendMode changes the compositing operator.
func (l *ImageLayer) SetBlendMode(mode BlendMode) {
	if !mode.IsValid() {
		mode = BlendSourceOver
	}
	l.blendMode = mode
}

// Pixels returns the stored pixels. The pixmap is replaced, not mutated,
// when a bound surface is published into the layer.
func (l *ImageLayer) Pixels() *Pixmap { return l.pixels }

// Clone returns a copy with its own pixel memory.
func (l *ImageLayer) Clone() Layer {
	return &ImageLayer{name: l.name, blendMode: l.blendMode, pixels: l.pixels.Clone()}
}

func (*ImageLayer) isLayer() {}

// GroupLayer is a pixel-less stack entry used as the header row of a group
// in layer lists. The compositor skips it and binding it exposes an empty
// surface whose edits are discarded.
type GroupLayer struct {
	name string
}

// NewGroupLayer creates a header entry.
func NewGroupLayer(name string) *GroupLayer {
	return &GroupLayer{name: name}
}

// Name returns the header name.
func (l *GroupLayer) Name() string { return l.name }

// Clone returns a copy of the header.
func (l *GroupLayer) Clone() Layer { return &GroupLayer{name: l.name} }

func (*GroupLayer) isLayer() {}

// cloneLayers deep-copies a layer slice.
func cloneLayers(layers []Layer) []Layer {
	out := make([]Layer, len(layers))
	for i, l := range layers {
		out[i] = l.Clone()
	}
	return out
}
