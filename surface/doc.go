// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface defines the presentable surface contract used by the
// frame controller.
//
// A [Surface] is a window (or offscreen stand-in) that hands out one
// render target per frame. Before the first acquisition and after every
// resize the surface must be configured with a [Config] describing format,
// size and presentation behaviour. [Negotiate] picks that configuration
// from the surface's [Capabilities].
//
// # Acquisition failures
//
// [Surface.Acquire] reports failures as *[AcquireError]. Its [Kind] tells
// the caller how to recover:
//
//   - [Lost]: the surface must be reconfigured before the next acquisition.
//   - [OutOfMemory]: unrecoverable.
//   - [Outdated], [Timeout]: transient, skip this frame.
//
// Each kind matches a sentinel error with [errors.Is]:
//
//	frame, err := s.Acquire()
//	switch {
//	case errors.Is(err, surface.ErrLost):
//	    // reconfigure
//	case errors.Is(err, surface.ErrOutOfMemory):
//	    // give up
//	}
package surface
