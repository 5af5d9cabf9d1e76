package paint

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"

	intImage "github.com/gogpu/paint/internal/image"
)

// Pixmap is a fixed-size raster of premultiplied RGBA pixels, 4 bytes per
// pixel, laid out exactly like image.RGBA.Pix.
//
// A Pixmap is owned by whoever created it: a layer, the live editing
// surface, or a composite result. Copies between owners are always by value.
type Pixmap struct {
	buf *intImage.ImageBuf
}

// NewPixmap creates a transparent pixmap.
// Returns ErrInvalidDimension if width or height is non-positive or the
// pixel count exceeds MaxPixels.
func NewPixmap(width, height int) (*Pixmap, error) {
	buf, err := intImage.NewImageBuf(width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	return &Pixmap{buf: buf}, nil
}

// PixmapFromImage copies img into a new pixmap.
func PixmapFromImage(img image.Image) (*Pixmap, error) {
	buf, err := intImage.FromStdImage(img)
	if err != nil {
		b := img.Bounds()
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, b.Dx(), b.Dy())
	}
	return &Pixmap{buf: buf}, nil
}

// MaxPixels is the largest width*height accepted for any pixmap or canvas.
const MaxPixels = intImage.MaxPixels

// Dimensions converts host-supplied sizes to pixel dimensions. It rejects
// NaN, infinities, fractions, values that are not strictly positive and
// sizes above MaxPixels.
func Dimensions(width, height float64) (int, int, error) {
	valid := func(v float64) bool {
		return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 && v == math.Trunc(v) && v <= MaxPixels
	}
	if !valid(width) || !valid(height) || !intImage.ValidDimensions(int(width), int(height)) {
		return 0, 0, fmt.Errorf("%w: %vx%v", ErrInvalidDimension, width, height)
	}
	return int(width), int(height), nil
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.buf.Width()
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.buf.Height()
}

// Size returns the pixmap dimensions.
func (p *Pixmap) Size() (int, int) {
	return p.buf.Bounds()
}

// Data returns the raw pixel data. Writes through it modify the pixmap.
func (p *Pixmap) Data() []uint8 {
	return p.buf.Data()
}

// Resize reallocates the pixmap, discarding its content. It is a no-op that
// returns false when the size is invalid or unchanged.
func (p *Pixmap) Resize(width, height int) bool {
	return p.buf.Resize(width, height)
}

// Clear sets every pixel to transparent black.
func (p *Pixmap) Clear() {
	p.buf.Clear()
}

// Fill sets every pixel to c.
func (p *Pixmap) Fill(c color.Color) {
	r, g, b, a := c.RGBA()
	p.buf.Fill(uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
}

// ReadFrame returns a copy of all pixels.
func (p *Pixmap) ReadFrame() []byte {
	return p.buf.ReadFrame()
}

// WriteFrame replaces all pixels with frame.
// Returns ErrSizeMismatch unless len(frame) == Width()*Height()*4.
func (p *Pixmap) WriteFrame(frame []byte) error {
	if err := p.buf.WriteFrame(frame); err != nil {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(frame), p.buf.ByteSize())
	}
	return nil
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	return &Pixmap{buf: p.buf.Clone()}
}

// PixelAt returns the premultiplied color at (x, y), or transparent when
// the coordinates are outside the pixmap.
func (p *Pixmap) PixelAt(x, y int) color.RGBA {
	r, g, b, a := p.buf.GetRGBA(x, y)
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// RGBA returns an *image.RGBA that shares the pixmap's memory.
func (p *Pixmap) RGBA() *image.RGBA {
	return p.buf.ToStdImage()
}

// EncodePNG writes the pixmap as PNG.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return p.buf.EncodePNG(w)
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := p.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.PixelAt(x, y)
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width(), p.Height())
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}
