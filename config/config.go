// Package config loads paintd configuration from YAML files.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/paint"
)

// Config is the top-level paintd configuration.
type Config struct {
	// Canvas
	Width           int `yaml:"width"`
	Height          int `yaml:"height"`
	HistoryCapacity int `yaml:"history_capacity"`
	Workers         int `yaml:"workers"` // > 1 bands large composites

	// Server
	Listen string `yaml:"listen"`

	// Logging
	LogLevel  string `yaml:"log_level"`  // debug | info | warn | error
	LogFormat string `yaml:"log_format"` // auto | text | json

	Brush  BrushConfig   `yaml:"brush"`
	Layers []LayerConfig `yaml:"layers"`
}

// BrushConfig describes the initial stroke brush.
type BrushConfig struct {
	Color string  `yaml:"color"` // hex, e.g. "#000000"
	Width float64 `yaml:"width"`
}

// LayerConfig describes a layer imported at startup.
type LayerConfig struct {
	Name   string `yaml:"name"`
	Blend  string `yaml:"blend"`
	Source string `yaml:"source"` // image file path
	Fit    bool   `yaml:"fit"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Width:           paint.DefaultWidth,
		Height:          paint.DefaultHeight,
		HistoryCapacity: paint.DefaultHistoryCapacity,
		Listen:          ":8080",
		LogLevel:        "info",
		LogFormat:       "auto",
		Brush: BrushConfig{
			Color: "#000000",
			Width: 4,
		},
	}
}

// Load reads a YAML configuration file on top of Defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that Defaults cannot repair.
func (c Config) Validate() error {
	if _, _, err := paint.Dimensions(float64(c.Width), float64(c.Height)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := paint.ParseHexColor(c.Brush.Color); err != nil {
		return fmt.Errorf("config: brush: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for i, l := range c.Layers {
		if l.Source == "" {
			return fmt.Errorf("config: layer %d (%q) has no source", i, l.Name)
		}
		if _, ok := paint.ParseBlendMode(l.Blend); !ok {
			return fmt.Errorf("config: layer %d (%q): unknown blend mode %q", i, l.Name, l.Blend)
		}
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log_level: %w", err)
	}
	return level, nil
}

// CanvasOptions returns the canvas options described by the configuration.
func (c Config) CanvasOptions() ([]paint.Option, error) {
	col, err := paint.ParseHexColor(c.Brush.Color)
	if err != nil {
		return nil, fmt.Errorf("config: brush: %w", err)
	}
	return []paint.Option{
		paint.WithHistoryCapacity(c.HistoryCapacity),
		paint.WithWorkers(c.Workers),
		paint.WithBrush(paint.Brush{Color: col, Width: c.Brush.Width}),
	}, nil
}

// Sources reads every configured layer file into import items.
func (c Config) Sources() ([]paint.ImageSource, error) {
	sources := make([]paint.ImageSource, 0, len(c.Layers))
	for _, l := range c.Layers {
		data, err := os.ReadFile(l.Source)
		if err != nil {
			return nil, fmt.Errorf("config: layer %q: %w", l.Name, err)
		}
		sources = append(sources, paint.ImageSource{Name: l.Name, Blend: l.Blend, Data: data, Fit: l.Fit})
	}
	return sources, nil
}
