package paint

import "log/slog"

// Option configures a Canvas during creation.
//
// Example:
//
//	c, err := paint.New(800, 600,
//	    paint.WithLogger(slog.Default()),
//	    paint.WithBrush(paint.Brush{Color: color.White, Width: 8}),
//	)
type Option func(*options)

// options holds optional configuration for Canvas creation.
type options struct {
	logger          *slog.Logger
	historyCapacity int
	brush           Brush
	workers         int
}

// defaultOptions returns the default canvas options.
func defaultOptions() options {
	return options{
		logger:          nil, // package logger
		historyCapacity: DefaultHistoryCapacity,
		brush:           DefaultBrush(),
	}
}

// WithLogger sets the logger for one canvas instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithHistoryCapacity bounds the undo log. Non-positive values keep
// DefaultHistoryCapacity.
func WithHistoryCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.historyCapacity = n
		}
	}
}

// WithBrush sets the initial stroke brush.
func WithBrush(b Brush) Option {
	return func(o *options) {
		o.brush = b
	}
}

// WithWorkers blends large composites in row bands on n worker goroutines
// owned by the canvas. Values below 2 keep compositing on the caller's
// goroutine. Call Canvas.Close to stop the workers.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}
