package paint

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestCanvas_Import(t *testing.T) {
	c := newTestCanvas(t, 4, 4)
	green := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	green.Set(0, 0, color.NRGBA{G: 255, A: 255})

	res := c.Import([]ImageSource{
		{Name: "red", Data: encodePNG(t, 4, 4, colorRed)},
		{Name: "broken", Data: []byte("not an image")},
		{Name: "green", Blend: "multiply", Image: green},
	})

	if len(res.Added) != 2 || res.Added[0] != 0 || res.Added[1] != 1 {
		t.Errorf("Added = %v, want [0 1]", res.Added)
	}
	if res.FailedCount() != 1 {
		t.Fatalf("FailedCount() = %d, want 1", res.FailedCount())
	}
	if f := res.Failed[0]; f.Index != 1 || f.Name != "broken" || !errors.Is(f.Err, ErrDecodeFailure) {
		t.Errorf("Failed[0] = %+v, want item 1 with ErrDecodeFailure", f)
	}

	if c.History().Len() != 2 {
		t.Errorf("History().Len() = %d, want 2 (one record for the import)", c.History().Len())
	}
	if c.BoundIndex() != 1 {
		t.Errorf("BoundIndex() = %d, want 1", c.BoundIndex())
	}

	l, _ := c.Layer(1)
	img := l.(*ImageLayer)
	if img.BlendMode() != BlendMultiply {
		t.Errorf("BlendMode() = %v, want multiply", img.BlendMode())
	}
	if got := img.Pixels().PixelAt(0, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("green layer PixelAt(0, 0) = %v, want green", got)
	}

	c.Undo()
	if c.Len() != 0 {
		t.Errorf("Len() after undo = %d, want 0", c.Len())
	}
}

func TestCanvas_ImportNothingAdded(t *testing.T) {
	c := newTestCanvas(t, 4, 4)

	res := c.Import([]ImageSource{{Name: "empty"}, {Data: []byte{1, 2, 3}}})
	if len(res.Added) != 0 || res.FailedCount() != 2 {
		t.Errorf("Import() = %+v, want 0 added, 2 failed", res)
	}
	if c.History().Len() != 1 {
		t.Errorf("History().Len() = %d, want 1", c.History().Len())
	}
}

func TestCanvas_ImportOversizedHeaderIsSkipped(t *testing.T) {
	c := newTestCanvas(t, 4, 4)

	huge := encodePNG(t, 1, 1, colorRed)
	binary.BigEndian.PutUint32(huge[16:20], 60000) // IHDR width
	binary.BigEndian.PutUint32(huge[20:24], 60000) // IHDR height
	binary.BigEndian.PutUint32(huge[29:33], crc32.ChecksumIEEE(huge[12:29]))

	res := c.Import([]ImageSource{
		{Name: "huge", Data: huge},
		{Name: "ok", Data: encodePNG(t, 4, 4, colorBlue)},
	})
	if len(res.Added) != 1 || res.FailedCount() != 1 {
		t.Fatalf("Import() = %+v, want 1 added, 1 failed", res)
	}
	if f := res.Failed[0]; f.Name != "huge" || !errors.Is(f.Err, ErrDecodeFailure) {
		t.Errorf("Failed[0] = %+v, want huge with ErrDecodeFailure", f)
	}
}

func TestCanvas_ImportPlacement(t *testing.T) {
	c := newTestCanvas(t, 4, 4)

	res := c.Import([]ImageSource{
		{Name: "clipped", Data: encodePNG(t, 2, 2, colorBlue)},
		{Name: "fit", Data: encodePNG(t, 2, 2, colorRed), Fit: true},
	})
	if len(res.Added) != 2 {
		t.Fatalf("Added = %v, want 2 layers", res.Added)
	}

	clipped, _ := c.Layer(0)
	px := clipped.(*ImageLayer).Pixels()
	if px.Width() != 4 || px.PixelAt(1, 1) != colorBlue || px.PixelAt(3, 3).A != 0 {
		t.Error("unfitted image was not placed at the origin of a canvas-sized layer")
	}

	fit, _ := c.Layer(1)
	if got := fit.(*ImageLayer).Pixels().PixelAt(3, 3); got.A != 255 {
		t.Errorf("fitted layer PixelAt(3, 3) = %v, want opaque", got)
	}
}
