package paint

import (
	"bytes"
	"errors"
	"image/color"
	"testing"
)

var (
	colorRed  = color.RGBA{R: 255, A: 255}
	colorBlue = color.RGBA{B: 255, A: 255}
)

func filledLayer(t *testing.T, name string, mode BlendMode, w, h int, c color.Color) *ImageLayer {
	t.Helper()
	l := newTestLayer(t, name, w, h)
	l.SetBlendMode(mode)
	l.Pixels().Fill(c)
	return l
}

func TestCompositor_Composite(t *testing.T) {
	tests := []struct {
		name   string
		layers func(t *testing.T) []Layer
		want   color.RGBA
	}{
		{
			name:   "empty stack",
			layers: func(*testing.T) []Layer { return nil },
			want:   color.RGBA{},
		},
		{
			name: "single source-over",
			layers: func(t *testing.T) []Layer {
				return []Layer{filledLayer(t, "red", BlendSourceOver, 4, 4, colorRed)}
			},
			want: colorRed,
		},
		{
			name: "multiply red and blue",
			layers: func(t *testing.T) []Layer {
				return []Layer{
					filledLayer(t, "red", BlendSourceOver, 4, 4, colorRed),
					filledLayer(t, "blue", BlendMultiply, 4, 4, colorBlue),
				}
			},
			want: color.RGBA{A: 255},
		},
		{
			name: "half transparent over nothing",
			layers: func(t *testing.T) []Layer {
				return []Layer{filledLayer(t, "red", BlendSourceOver, 4, 4, color.RGBA{R: 128, A: 128})}
			},
			want: color.RGBA{R: 128, A: 128},
		},
		{
			name: "destination-out erases",
			layers: func(t *testing.T) []Layer {
				return []Layer{
					filledLayer(t, "red", BlendSourceOver, 4, 4, colorRed),
					filledLayer(t, "eraser", BlendDestinationOut, 4, 4, colorBlue),
				}
			},
			want: color.RGBA{},
		},
		{
			name: "group header skipped",
			layers: func(t *testing.T) []Layer {
				return []Layer{
					NewGroupLayer("header"),
					filledLayer(t, "blue", BlendSourceOver, 4, 4, colorBlue),
				}
			},
			want: colorBlue,
		},
	}

	c := NewCompositor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.Composite(tt.layers(t), 4, 4)
			if err != nil {
				t.Fatalf("Composite() error = %v", err)
			}
			for _, p := range [][2]int{{0, 0}, {3, 3}} {
				if got := out.PixelAt(p[0], p[1]); got != tt.want {
					t.Errorf("PixelAt(%d, %d) = %v, want %v", p[0], p[1], got, tt.want)
				}
			}
		})
	}
}

func TestCompositor_DoesNotMutateLayers(t *testing.T) {
	red := filledLayer(t, "red", BlendSourceOver, 2, 2, colorRed)
	blue := filledLayer(t, "blue", BlendMultiply, 2, 2, colorBlue)
	before := blue.Pixels().ReadFrame()

	if _, err := NewCompositor(nil).Composite([]Layer{red, blue}, 2, 2); err != nil {
		t.Fatalf("Composite() error = %v", err)
	}
	after := blue.Pixels().ReadFrame()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("layer pixels changed at byte %d", i)
		}
	}
}

func TestCompositor_StaleSizeLayerAnchoredAtOrigin(t *testing.T) {
	small := filledLayer(t, "small", BlendSourceOver, 2, 2, colorRed)

	out, err := NewCompositor(nil).Composite([]Layer{small}, 4, 4)
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}
	if got := out.PixelAt(1, 1); got != colorRed {
		t.Errorf("PixelAt(1, 1) = %v, want red", got)
	}
	if got := out.PixelAt(2, 2); got.A != 0 {
		t.Errorf("PixelAt(2, 2) = %v, want transparent", got)
	}
}

func TestCompositor_InvalidSize(t *testing.T) {
	if _, err := NewCompositor(nil).Composite(nil, 0, 4); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("Composite(0x4) error = %v, want ErrInvalidDimension", err)
	}
}

func TestCompositor_LargeCanvasUsesBands(t *testing.T) {
	const w, h = 300, 300 // above parallelThreshold
	red := filledLayer(t, "red", BlendSourceOver, w, h, colorRed)
	blue := filledLayer(t, "blue", BlendMultiply, w, h, colorBlue)

	c := NewParallelCompositor(nil, 4)
	t.Cleanup(c.Close)

	out, err := c.Composite([]Layer{red, blue}, w, h)
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}
	want := color.RGBA{A: 255}
	for _, y := range []int{0, 63, 64, 200, h - 1} {
		if got := out.PixelAt(w-1, y); got != want {
			t.Errorf("PixelAt(%d, %d) = %v, want %v", w-1, y, got, want)
		}
	}
}

func TestCompositor_ParallelMatchesSerial(t *testing.T) {
	const w, h = 260, 270
	base := filledLayer(t, "base", BlendSourceOver, w, h, color.RGBA{R: 200, G: 120, B: 40, A: 255})
	tint := filledLayer(t, "tint", BlendScreen, w, h, color.RGBA{R: 10, G: 60, B: 90, A: 128})
	small := filledLayer(t, "small", BlendMultiply, 100, 100, colorBlue)
	layers := []Layer{base, tint, small}

	serial, err := NewCompositor(nil).Composite(layers, w, h)
	if err != nil {
		t.Fatalf("serial Composite() error = %v", err)
	}

	par := NewParallelCompositor(nil, 3)
	got, err := par.Composite(layers, w, h)
	if err != nil {
		t.Fatalf("parallel Composite() error = %v", err)
	}
	if !bytes.Equal(got.Data(), serial.Data()) {
		t.Error("parallel composite differs from serial composite")
	}

	par.Close()
	closed, err := par.Composite(layers, w, h)
	if err != nil {
		t.Fatalf("Composite() after Close error = %v", err)
	}
	if !bytes.Equal(closed.Data(), serial.Data()) {
		t.Error("composite after Close differs from serial composite")
	}
}

func TestNewParallelCompositor_SmallWorkerCountIsSerial(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		c := NewParallelCompositor(nil, n)
		if c.workers != nil {
			t.Errorf("NewParallelCompositor(%d) started workers", n)
		}
		c.Close()
	}
}
