// Command paintd serves a layered paint canvas over HTTP and flattens image
// stacks from the command line.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/config"
	"github.com/gogpu/paint/host"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "paintd:", err)
		os.Exit(1)
	}
}

func newApp(logOut io.Writer) *cli.App {
	return &cli.App{
		Name:    "paintd",
		Usage:   "layered raster canvas server",
		Version: paint.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file", EnvVars: []string{"PAINTD_CONFIG"}},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "auto, text or json"},
			&cli.IntFlag{Name: "width", Usage: "canvas width in pixels"},
			&cli.IntFlag{Name: "height", Usage: "canvas height in pixels"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, logOut)
			if err != nil {
				return err
			}
			paint.SetLogger(logger)
			c.App.Metadata = map[string]any{"config": cfg}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve a canvas over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Usage: "listen address"},
				},
				Action: serve,
			},
			{
				Name:      "flatten",
				Usage:     "import images as layers and write the composite as PNG",
				ArgsUsage: "IMAGE...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "flattened.png", Usage: "output PNG file"},
					&cli.StringFlag{Name: "blend", Usage: "blend mode for every image"},
					&cli.BoolFlag{Name: "fit", Usage: "resample images to the canvas size"},
				},
				Action: flatten,
			},
		},
	}
}

// loadConfig reads the configuration file, if any, and applies flag
// overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}
	if c.IsSet("width") {
		cfg.Width = c.Int("width")
	}
	if c.IsSet("height") {
		cfg.Height = c.Int("height")
	}
	return cfg, cfg.Validate()
}

// newLogger builds a text handler for terminals and a JSON handler
// otherwise, unless the format is forced.
func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	format := cfg.LogFormat
	if format == "" || format == "auto" {
		format = "json"
		if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			format = "text"
		}
	}

	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
}

func configFrom(c *cli.Context) config.Config {
	cfg, _ := c.App.Metadata["config"].(config.Config)
	return cfg
}

func newCanvas(cfg config.Config) (*paint.Canvas, error) {
	opts, err := cfg.CanvasOptions()
	if err != nil {
		return nil, err
	}
	return paint.New(cfg.Width, cfg.Height, opts...)
}

func serve(c *cli.Context) error {
	cfg := configFrom(c)
	if c.IsSet("listen") {
		cfg.Listen = c.String("listen")
	}
	logger := paint.Logger()

	canvas, err := newCanvas(cfg)
	if err != nil {
		return err
	}
	defer canvas.Close()

	sources, err := cfg.Sources()
	if err != nil {
		return err
	}
	if len(sources) > 0 {
		res := canvas.Import(sources)
		if res.FailedCount() > 0 {
			return fmt.Errorf("%d configured layers failed to load", res.FailedCount())
		}
	}

	session := host.NewSession(canvas, logger)
	defer session.Close()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           host.NewRouter(session),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Listen, "width", cfg.Width, "height", cfg.Height)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-c.Context.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func flatten(c *cli.Context) error {
	cfg := configFrom(c)
	files := c.Args().Slice()
	if len(files) == 0 && len(cfg.Layers) == 0 {
		return errors.New("flatten: no images given")
	}

	sources, err := cfg.Sources()
	if err != nil {
		return err
	}
	for _, path := range files {
		data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
		if err != nil {
			return err
		}
		sources = append(sources, paint.ImageSource{
			Name:  path,
			Blend: c.String("blend"),
			Data:  data,
			Fit:   c.Bool("fit"),
		})
	}

	// Without an explicit size the canvas takes the size of the first image.
	if !c.IsSet("width") && !c.IsSet("height") && !hasConfigFile(c) {
		if w, h, ok := firstImageSize(sources); ok {
			cfg.Width, cfg.Height = w, h
		}
	}

	canvas, err := newCanvas(cfg)
	if err != nil {
		return err
	}
	defer canvas.Close()

	res := canvas.Import(sources)
	if len(res.Added) == 0 {
		return fmt.Errorf("flatten: none of %d images could be decoded", len(sources))
	}

	out, err := canvas.Composite()
	if err != nil {
		return err
	}
	if err := out.SavePNG(c.String("output")); err != nil {
		return err
	}
	paint.Logger().Info("flattened", "output", c.String("output"),
		"layers", len(res.Added), "skipped", res.FailedCount(),
		"width", out.Width(), "height", out.Height())
	return nil
}

func hasConfigFile(c *cli.Context) bool {
	return c.String("config") != ""
}

func firstImageSize(sources []paint.ImageSource) (int, int, bool) {
	for _, src := range sources {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(src.Data)); err == nil {
			return cfg.Width, cfg.Height, true
		}
	}
	return 0, 0, false
}
