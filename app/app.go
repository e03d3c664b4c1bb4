// Package app drives a renderer from a host's event loop.
//
// Each iteration drains host events, applies resizes, asks the tick source
// for the frame's instances and renders once. Run returns when the host
// reports a close, the surface becomes unusable, the frame limit is hit or
// the context is cancelled.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gogpu/rectloop"
	"github.com/gogpu/rectloop/backend"
	"github.com/gogpu/rectloop/render"
	"github.com/gogpu/rectloop/surface"
)

// ErrStop may be returned by a frame hook to end Run without an error.
var ErrStop = errors.New("app: stop")

// TickSource produces the instance set for the next frame. dt is the time
// since the previous tick and width, height the current surface size.
type TickSource interface {
	Tick(dt time.Duration, width, height uint32) []render.Instance
}

// TickFunc adapts a function to TickSource.
type TickFunc func(dt time.Duration, width, height uint32) []render.Instance

func (f TickFunc) Tick(dt time.Duration, width, height uint32) []render.Instance {
	return f(dt, width, height)
}

// Renderer is the part of *render.Renderer the loop uses.
type Renderer interface {
	Resize(width, height uint32) error
	SetInstances(records []render.Instance)
	Render() error
	Config() surface.Config
}

// Option configures Run.
type Option func(*options)

type options struct {
	maxFrames uint64
	onFrame   func(frame uint64) error
	now       func() time.Time
	logger    *slog.Logger
}

// WithMaxFrames stops Run after n loop iterations. Zero means no limit.
func WithMaxFrames(n uint64) Option {
	return func(o *options) { o.maxFrames = n }
}

// WithFrameHook calls fn after every iteration with the iteration count.
// Returning ErrStop ends Run cleanly; any other error is returned by Run.
func WithFrameHook(fn func(frame uint64) error) Option {
	return func(o *options) { o.onFrame = fn }
}

// WithClock replaces time.Now for tick deltas.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the loop logger. Defaults to rectloop.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Run loops until the host closes, the renderer fails fatally, the frame
// limit is reached or ctx is done. A close request or frame limit returns
// nil; cancellation returns ctx.Err(); a fatal surface error is returned
// wrapped so that errors.Is(err, render.ErrFatal) holds.
//
// Resize failures and non-fatal render errors are logged and the loop
// continues; the renderer retries pending configuration itself.
func Run(ctx context.Context, host backend.Host, r Renderer, tick TickSource, opts ...Option) error {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = rectloop.Logger()
	}

	last := o.now()
	var frame uint64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		quit, err := applyEvents(host.PollEvents(), r, log)
		if err != nil {
			return err
		}
		if quit {
			log.Info("app: close requested", "frames", frame)
			return nil
		}

		now := o.now()
		dt := now.Sub(last)
		last = now

		cfg := r.Config()
		r.SetInstances(tick.Tick(dt, cfg.Width, cfg.Height))
		if err := r.Render(); err != nil {
			if errors.Is(err, render.ErrFatal) || errors.Is(err, render.ErrClosed) {
				log.Error("app: render stopped", "err", err)
				return err
			}
			log.Warn("app: frame failed", "err", err)
		}

		frame++
		if o.onFrame != nil {
			if err := o.onFrame(frame); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		}
		if o.maxFrames > 0 && frame >= o.maxFrames {
			return nil
		}
	}
}

// applyEvents reports whether a close was requested. Events after a close
// are ignored.
func applyEvents(events []backend.Event, r Renderer, log *slog.Logger) (bool, error) {
	for _, ev := range events {
		var err error
		switch e := ev.(type) {
		case backend.CloseEvent:
			return true, nil
		case backend.ResizeEvent:
			err = r.Resize(e.Width, e.Height)
		case backend.ScaleEvent:
			log.Debug("app: scale changed", "scale", e.Scale)
			err = r.Resize(e.Width, e.Height)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, render.ErrFatal) || errors.Is(err, render.ErrClosed) {
			return false, err
		}
		log.Warn("app: resize failed", "err", err)
	}
	return false, nil
}
