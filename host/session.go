// Package host serializes access to a paint.Canvas and exposes it over HTTP.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/paint"
)

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("host: session closed")

// Session owns one Canvas. Commands submitted with Do run one at a time on
// the session goroutine, in arrival order, and each runs to completion
// before the next starts.
type Session struct {
	canvas *paint.Canvas
	logger *slog.Logger

	cmds    chan command
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

type command struct {
	fn     func(*paint.Canvas) error
	result chan error
}

// NewSession starts a session goroutine for c. A nil logger uses
// paint.Logger().
func NewSession(c *paint.Canvas, logger *slog.Logger) *Session {
	if logger == nil {
		logger = paint.Logger()
	}
	s := &Session{
		canvas:  c,
		logger:  logger,
		cmds:    make(chan command),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

// Do runs fn on the session goroutine and waits for it. If ctx ends after
// fn was accepted, fn still runs to completion but Do returns ctx.Err().
// A panic inside fn is recovered and reported as an error wrapping
// paint.ErrCorruptRecord.
func (s *Session) Do(ctx context.Context, fn func(*paint.Canvas) error) error {
	cmd := command{fn: fn, result: make(chan error, 1)}

	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the session goroutine and waits for the running command.
// Close is idempotent.
func (s *Session) Close() error {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
	return nil
}

func (s *Session) run() {
	defer close(s.stopped)
	for {
		select {
		case cmd := <-s.cmds:
			cmd.result <- s.exec(cmd.fn)
		case <-s.done:
			return
		}
	}
}

func (s *Session) exec(fn func(*paint.Canvas) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("host: command panicked", "panic", r)
			if e, ok := r.(error); ok && errors.Is(e, paint.ErrCorruptRecord) {
				err = e
				return
			}
			err = fmt.Errorf("%w: %v", paint.ErrCorruptRecord, r)
		}
	}()
	return fn(s.canvas)
}
