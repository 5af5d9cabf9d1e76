package paint

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
)

// Brush describes how freehand strokes are painted on the surface.
type Brush struct {
	Color color.Color
	Width float64
}

// DefaultBrush returns an opaque black brush 4 pixels wide.
func DefaultBrush() Brush {
	return Brush{Color: color.Black, Width: 4}
}

// Point is a surface coordinate in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// stroke is the freehand stroke in progress.
type stroke struct {
	dc   *gg.Context
	last Point
}

// Brush returns the current brush.
func (c *Canvas) Brush() Brush {
	return c.brush
}

// SetBrush replaces the brush. A non-positive width or nil color keeps the
// current value.
func (c *Canvas) SetBrush(b Brush) {
	if b.Color != nil {
		c.brush.Color = b.Color
	}
	if b.Width > 0 {
		c.brush.Width = b.Width
	}
}

// BeginStroke starts a freehand stroke at p on the surface of the bound
// image layer. Returns ErrIndexOutOfRange when no image layer is bound.
func (c *Canvas) BeginStroke(p Point) error {
	layer, err := c.stack.At(c.binder.Index())
	if err != nil {
		return fmt.Errorf("stroke: %w", err)
	}
	if _, ok := layer.(*ImageLayer); !ok {
		return fmt.Errorf("stroke: %w: layer %d has no pixels", ErrIndexOutOfRange, c.binder.Index())
	}

	dc := gg.NewContextForRGBA(c.binder.Surface().RGBA())
	dc.SetColor(c.brush.Color)
	dc.SetLineWidth(c.brush.Width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	dc.DrawCircle(p.X, p.Y, c.brush.Width/2)
	dc.Fill()

	c.stroke = &stroke{dc: dc, last: p}
	return nil
}

// ContinueStroke extends the stroke in progress to p. It is a no-op
// returning false when no stroke was begun.
func (c *Canvas) ContinueStroke(p Point) bool {
	s := c.stroke
	if s == nil {
		return false
	}
	s.dc.DrawLine(s.last.X, s.last.Y, p.X, p.Y)
	s.dc.Stroke()
	s.last = p
	return true
}

// EndStroke draws the last segment to p, finishes the stroke in progress,
// publishes the surface and saves. Returns false when no stroke was begun.
func (c *Canvas) EndStroke(p Point) bool {
	if !c.ContinueStroke(p) {
		return false
	}
	c.stroke = nil
	c.Apply()
	return true
}

// Stroke paints a complete polyline as one stroke and one history record.
func (c *Canvas) Stroke(points []Point) error {
	if len(points) == 0 {
		return nil
	}
	if err := c.BeginStroke(points[0]); err != nil {
		return err
	}
	last := len(points) - 1
	for _, p := range points[1:last] {
		c.ContinueStroke(p)
	}
	c.EndStroke(points[last])
	return nil
}
