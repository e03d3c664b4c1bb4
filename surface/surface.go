// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rectloop/gpucore"
)

// Config holds the presentation parameters applied to a surface.
type Config struct {
	// Format is the texture format of acquired targets.
	Format gputypes.TextureFormat

	// Width and Height are the target size in physical pixels.
	// Either may be zero while a window is minimised.
	Width  uint32
	Height uint32

	PresentMode PresentMode
	AlphaMode   AlphaMode
}

// Resized returns a copy of c with a new size and all other fields unchanged.
func (c Config) Resized(width, height uint32) Config {
	c.Width, c.Height = width, height
	return c
}

// Degenerate reports whether the configured size has no pixels.
func (c Config) Degenerate() bool {
	return c.Width == 0 || c.Height == 0
}

// Capabilities lists what a surface supports on a given adapter.
// Entries are ordered by the platform's preference.
type Capabilities struct {
	Formats      []gputypes.TextureFormat
	PresentModes []PresentMode
	AlphaModes   []AlphaMode
}

// Surface is a presentable render target.
//
// Surfaces are not safe for concurrent use.
type Surface interface {
	// Capabilities returns the formats and modes this surface supports.
	Capabilities() Capabilities

	// Size returns the current client area in physical pixels.
	Size() (width, height uint32)

	// Configure applies or re-applies presentation parameters.
	// It is required before the first Acquire, after a resize and after
	// Acquire reports Lost. It may block.
	Configure(cfg Config) error

	// Acquire obtains the next frame target. Failures are *AcquireError.
	Acquire() (Frame, error)

	// Close releases the surface.
	Close()
}

// Frame is one acquired target. Exactly one of Present or Discard must be
// called.
type Frame interface {
	// View returns the render target for this frame.
	View() gpucore.TextureView

	// Present queues the frame for display.
	Present() error

	// Discard releases the frame without presenting it.
	Discard()
}
