package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrEmptyData is returned when image data is empty.
var ErrEmptyData = errors.New("image: empty data")

// DecodeBytes decodes an encoded image, auto-detecting the format.
// Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP.
//
// The header is read first; images whose declared size exceeds MaxPixels
// are rejected with ErrInvalidDimensions before any pixel memory is
// allocated.
func DecodeBytes(data []byte) (*ImageBuf, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("image: decode config: %w", err)
	}
	if !ValidDimensions(cfg.Width, cfg.Height) {
		return nil, format, fmt.Errorf("%w: %s header declares %dx%d", ErrInvalidDimensions, format, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("image: decode: %w", err)
	}
	buf, err := FromStdImage(img)
	if err != nil {
		return nil, format, err
	}
	return buf, format, nil
}

// Decode reads r fully and decodes it with DecodeBytes.
func Decode(r io.Reader) (*ImageBuf, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("image: read: %w", err)
	}
	return DecodeBytes(data)
}

// FromStdImage converts any image.Image into a premultiplied RGBA buffer.
func FromStdImage(img image.Image) (*ImageBuf, error) {
	bounds := img.Bounds()
	buf, err := NewImageBuf(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	// Fast path: already premultiplied RGBA with packed rows
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == buf.Stride() && rgba.Rect.Min == (image.Point{}) {
		copy(buf.data, rgba.Pix)
		return buf, nil
	}

	dst := buf.ToStdImage()
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return buf, nil
}

// Scale returns a new width x height buffer holding src resampled with a
// Catmull-Rom filter.
func Scale(src *ImageBuf, width, height int) (*ImageBuf, error) {
	dst, err := NewImageBuf(width, height)
	if err != nil {
		return nil, err
	}
	s := src.ToStdImage()
	d := dst.ToStdImage()
	xdraw.CatmullRom.Scale(d, d.Bounds(), s, s.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// ToStdImage returns an *image.RGBA sharing the buffer's pixel memory.
// Drawing into the returned image modifies the buffer.
func (b *ImageBuf) ToStdImage() *image.RGBA {
	return &image.RGBA{
		Pix:    b.data,
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// EncodePNG encodes the image as PNG to the given writer.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.ToStdImage()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}
