// Package image provides the raw pixel storage used by layers, the live
// editing surface and the compositor.
//
// Every buffer holds premultiplied RGBA, 4 bytes per pixel, rows packed
// without padding, which is the same layout as the standard library's
// image.RGBA. Keeping one layout lets the compositor feed bytes straight into
// the blend functions and lets stroke rendering draw in place.
package image

import (
	"errors"
)

// BytesPerPixel is the size of one RGBA pixel.
const BytesPerPixel = 4

// MaxPixels caps width*height of any buffer (16384x16384, 1 GiB of RGBA).
const MaxPixels = 1 << 28

// ValidDimensions reports whether a width x height buffer can be allocated:
// both sides positive and the pixel count within MaxPixels.
func ValidDimensions(width, height int) bool {
	return width > 0 && height > 0 && width <= MaxPixels/height
}

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive
	// or the pixel count exceeds MaxPixels.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrSizeMismatch is returned when a frame does not match width*height*4.
	ErrSizeMismatch = errors.New("image: frame size mismatch")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// ImageBuf is a fixed-size premultiplied RGBA pixel buffer.
//
// Invariant: len(Data()) == Width()*Height()*4 at all times.
//
// Thread safety: ImageBuf is not safe for concurrent mutation.
type ImageBuf struct {
	data   []byte
	width  int
	height int
}

// NewImageBuf creates a zero-filled (transparent black) buffer.
// Returns ErrInvalidDimensions unless ValidDimensions(width, height).
func NewImageBuf(width, height int) (*ImageBuf, error) {
	if !ValidDimensions(width, height) {
		return nil, ErrInvalidDimensions
	}
	return &ImageBuf{
		data:   make([]byte, width*height*BytesPerPixel),
		width:  width,
		height: height,
	}, nil
}

// FromRaw wraps existing premultiplied RGBA data without copying.
// The data length must be exactly width*height*4.
func FromRaw(data []byte, width, height int) (*ImageBuf, error) {
	if !ValidDimensions(width, height) {
		return nil, ErrInvalidDimensions
	}
	if len(data) != width*height*BytesPerPixel {
		return nil, ErrSizeMismatch
	}
	return &ImageBuf{data: data, width: width, height: height}, nil
}

// Clone creates a deep copy of the image buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	newData := make([]byte, len(b.data))
	copy(newData, b.data)

	return &ImageBuf{
		data:   newData,
		width:  b.width,
		height: b.height,
	}
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Stride returns the number of bytes per row.
func (b *ImageBuf) Stride() int {
	return b.width * BytesPerPixel
}

// Bounds returns the image dimensions as (width, height).
func (b *ImageBuf) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw pixel data slice. Writes through it modify the image.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// ByteSize returns the total size of the image data in bytes.
func (b *ImageBuf) ByteSize() int {
	return len(b.data)
}

// Resize reallocates the buffer to the new dimensions and discards its
// content. It reports false, leaving the buffer untouched, when the
// dimensions are invalid or equal to the current ones.
func (b *ImageBuf) Resize(width, height int) bool {
	if !ValidDimensions(width, height) {
		return false
	}
	if width == b.width && height == b.height {
		return false
	}
	b.data = make([]byte, width*height*BytesPerPixel)
	b.width = width
	b.height = height
	return true
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.Stride()
	return b.data[start : start+b.Stride()]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return (y*b.width + x) * BytesPerPixel
}

// GetRGBA returns the premultiplied color at (x, y).
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	i := b.PixelOffset(x, y)
	if i < 0 {
		return 0, 0, 0, 0
	}
	return b.data[i], b.data[i+1], b.data[i+2], b.data[i+3]
}

// SetRGBA sets the premultiplied color at (x, y).
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	i := b.PixelOffset(x, y)
	if i < 0 {
		return ErrOutOfBounds
	}
	b.data[i] = r
	b.data[i+1] = g
	b.data[i+2] = bl
	b.data[i+3] = a
	return nil
}

// Clear sets all pixels to zero (transparent black).
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// Fill sets all pixels to the given premultiplied color.
func (b *ImageBuf) Fill(r, g, bl, a uint8) {
	for i := 0; i < len(b.data); i += BytesPerPixel {
		b.data[i] = r
		b.data[i+1] = g
		b.data[i+2] = bl
		b.data[i+3] = a
	}
}

// ReadFrame returns a copy of the full pixel surface.
func (b *ImageBuf) ReadFrame() []byte {
	frame := make([]byte, len(b.data))
	copy(frame, b.data)
	return frame
}

// WriteFrame replaces the full pixel surface with frame.
// Returns ErrSizeMismatch unless len(frame) == Width()*Height()*4.
func (b *ImageBuf) WriteFrame(frame []byte) error {
	if len(frame) != len(b.data) {
		return ErrSizeMismatch
	}
	copy(b.data, frame)
	return nil
}

// CopyFrom copies src into b anchored at the origin, clipping whatever falls
// outside b. The rest of b is left untouched.
func (b *ImageBuf) CopyFrom(src *ImageBuf) {
	w := min(b.width, src.width)
	h := min(b.height, src.height)
	n := w * BytesPerPixel
	for y := 0; y < h; y++ {
		copy(b.RowBytes(y)[:n], src.RowBytes(y)[:n])
	}
}

// IsEmpty returns true if the image has zero dimensions.
func (b *ImageBuf) IsEmpty() bool {
	return b.width == 0 || b.height == 0
}
