package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/paint"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Width != 1920 || cfg.Height != 1080 {
		t.Errorf("size = %dx%d, want 1920x1080", cfg.Width, cfg.Height)
	}
	if cfg.HistoryCapacity != 256 {
		t.Errorf("HistoryCapacity = %d, want 256", cfg.HistoryCapacity)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Listen)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults().Validate() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "paintd.yaml", `
width: 640
height: 480
log_level: debug
brush:
  color: "#ff0000"
layers:
  - name: background
    blend: source-over
    source: bg.png
  - name: shade
    blend: multiply
    source: shade.png
    fit: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("size = %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q, want default :8080", cfg.Listen)
	}
	if cfg.Brush.Width != 4 {
		t.Errorf("Brush.Width = %v, want default 4", cfg.Brush.Width)
	}
	if len(cfg.Layers) != 2 || cfg.Layers[1].Blend != "multiply" || !cfg.Layers[1].Fit {
		t.Errorf("Layers = %+v", cfg.Layers)
	}
	if level, _ := cfg.Level(); level.String() != "DEBUG" {
		t.Errorf("Level() = %v, want DEBUG", level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "width: [1, 2"},
		{"zero width", "width: 0"},
		{"over pixel cap", "width: 65536\nheight: 65536"},
		{"bad brush color", "brush:\n  color: nope"},
		{"bad level", "log_level: loud"},
		{"layer without source", "layers:\n  - name: x"},
		{"unknown blend", "layers:\n  - name: x\n    source: x.png\n    blend: glow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "paintd.yaml", tt.content)
			if _, err := Load(path); err == nil {
				t.Errorf("Load(%q) error = nil, want error", tt.content)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) error = nil, want error")
	}
}

func TestCanvasOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Brush = BrushConfig{Color: "#00ff00", Width: 9}
	cfg.Workers = 2

	opts, err := cfg.CanvasOptions()
	if err != nil {
		t.Fatalf("CanvasOptions() error = %v", err)
	}
	c, err := paint.New(4, 4, opts...)
	if err != nil {
		t.Fatalf("paint.New() error = %v", err)
	}
	t.Cleanup(c.Close)
	b := c.Brush()
	if b.Width != 9 {
		t.Errorf("Brush().Width = %v, want 9", b.Width)
	}
	if r, g, _, _ := b.Color.RGBA(); r != 0 || g != 0xffff {
		t.Errorf("Brush().Color = %v, want green", b.Color)
	}
}

func TestSources(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	if err := os.WriteFile(src, []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	cfg.Layers = []LayerConfig{{Name: "a", Blend: "screen", Source: src}}
	sources, err := cfg.Sources()
	if err != nil {
		t.Fatalf("Sources() error = %v", err)
	}
	if len(sources) != 1 || string(sources[0].Data) != "data" || sources[0].Blend != "screen" {
		t.Errorf("Sources() = %+v", sources)
	}

	cfg.Layers[0].Source = filepath.Join(dir, "missing.png")
	if _, err := cfg.Sources(); err == nil {
		t.Error("Sources(missing file) error = nil, want error")
	}
}
