// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"log/slog"

	"github.com/gogpu/gputypes"
)

// DefaultClearColor is the background every frame is cleared to.
var DefaultClearColor = gputypes.Color{R: 0.3, G: 0.4, B: 0.5, A: 1.0}

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := render.New(dev, surf,
//	    render.WithClearColor(gputypes.Color{R: 0, G: 0, B: 0, A: 1}),
//	)
type Option func(*options)

type options struct {
	clear  gputypes.Color
	label  string
	logger *slog.Logger
}

func defaultOptions() options {
	return options{
		clear: DefaultClearColor,
		label: "rectloop",
	}
}

// WithClearColor sets the colour the render pass clears to.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithLabel sets the debug label prefix for command sequences and passes.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}

// WithLogger overrides the package logger for one renderer.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
