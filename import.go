package paint

import (
	"fmt"
	"image"

	intImage "github.com/gogpu/paint/internal/image"
)

// ImageSource is one item of a bulk import. Image is used when set,
// otherwise Data is decoded (PNG, JPEG, GIF, BMP, TIFF or WebP).
//
// The image is placed at the origin at its own size and clipped to the
// canvas, unless Fit is set, in which case it is resampled to the canvas
// size.
type ImageSource struct {
	Name  string
	Blend string
	Data  []byte
	Image image.Image
	Fit   bool
}

// ImportFailure describes a skipped import item.
type ImportFailure struct {
	Index int
	Name  string
	Err   error
}

// ImportResult lists the layer indexes created by Import and the items
// that were skipped.
type ImportResult struct {
	Added  []int
	Failed []ImportFailure
}

// FailedCount returns the number of skipped items.
func (r ImportResult) FailedCount() int {
	return len(r.Failed)
}

// Import adds one image layer per decodable source, each directly above the
// previous one, and binds the last. Items that fail to decode are skipped
// and reported. The whole import is a single history record, and no record
// is created when nothing was added.
func (c *Canvas) Import(sources []ImageSource) ImportResult {
	var res ImportResult

	for i, src := range sources {
		index, err := c.importOne(src)
		if err != nil {
			c.logger.Warn("paint: import skipped", "item", i, "name", src.Name, "err", err)
			res.Failed = append(res.Failed, ImportFailure{Index: i, Name: src.Name, Err: err})
			continue
		}
		res.Added = append(res.Added, index)
	}

	if len(res.Added) > 0 {
		c.Save()
	}
	c.logger.Info("paint: import", "added", len(res.Added), "failed", len(res.Failed))
	return res
}

func (c *Canvas) importOne(src ImageSource) (int, error) {
	decoded, err := decodeSource(src)
	if err != nil {
		return -1, err
	}

	if src.Fit && (decoded.Width() != c.width || decoded.Height() != c.height) {
		if decoded, err = intImage.Scale(decoded, c.width, c.height); err != nil {
			return -1, err
		}
	}

	pixels, err := NewPixmap(c.width, c.height)
	if err != nil {
		return -1, err
	}
	pixels.buf.CopyFrom(decoded)

	mode, _ := ParseBlendMode(src.Blend)
	name := src.Name
	if name == "" {
		name = fmt.Sprintf("Layer %d", c.stack.Len()+1)
	}
	layer, err := NewImageLayer(name, mode, pixels)
	if err != nil {
		return -1, err
	}
	return c.insertAndBind(layer)
}

func decodeSource(src ImageSource) (*intImage.ImageBuf, error) {
	if src.Image != nil {
		buf, err := intImage.FromStdImage(src.Image)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
		}
		return buf, nil
	}
	buf, _, err := intImage.DecodeBytes(src.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	return buf, nil
}
