package paint

// Zoom bounds reported to hosts through Status.
const (
	MinZoom = 0.25
	MaxZoom = 8.0
)

// Status is the snapshot a host uses to enable or disable its controls.
type Status struct {
	CanUndo    bool    `json:"canUndo"`
	CanRedo    bool    `json:"canRedo"`
	CanZoomIn  bool    `json:"canZoomIn"`
	CanZoomOut bool    `json:"canZoomOut"`
	Zoom       float64 `json:"zoom"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Layers     int     `json:"layers"`
	Bound      int     `json:"bound"`
}

// Status reports what the canvas can currently do.
func (c *Canvas) Status() Status {
	return Status{
		CanUndo:    c.history.CanUndo(),
		CanRedo:    c.history.CanRedo(),
		CanZoomIn:  c.zoom*2 <= MaxZoom,
		CanZoomOut: c.zoom/2 >= MinZoom,
		Zoom:       c.zoom,
		Width:      c.width,
		Height:     c.height,
		Layers:     c.stack.Len(),
		Bound:      c.binder.Index(),
	}
}

// Zoom returns the view scale factor.
func (c *Canvas) Zoom() float64 {
	return c.zoom
}

// ZoomIn doubles the view scale unless that would exceed MaxZoom.
func (c *Canvas) ZoomIn() bool {
	if c.zoom*2 > MaxZoom {
		return false
	}
	c.zoom *= 2
	return true
}

// ZoomOut halves the view scale unless that would go below MinZoom.
func (c *Canvas) ZoomOut() bool {
	if c.zoom/2 < MinZoom {
		return false
	}
	c.zoom /= 2
	return true
}
