// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the frame controller.
//
// A [Renderer] owns a presentable surface and a list of [Drawable]
// pipelines. Every call to [Renderer.Render] runs one frame:
//
//  1. acquire the next target from the surface
//  2. begin one render pass that clears the target
//  3. ask each drawable, in registration order, for its [DrawItem]s
//     and record them
//  4. submit the command sequence and present the frame
//
// The renderer knows nothing about the drawables it records. A draw item
// carries a compiled pipeline, its vertex buffers (bound to slots 0..n-1
// in order), the instance range, and a [DrawTechnique] that is either
// [VertexOnly] or [Indexed].
//
// # Surface state machine
//
// The renderer tracks the surface configuration through [State]:
//
//   - Configured: frames are rendered.
//   - Reconfiguring: a resize is being applied.
//   - Fatal: acquisition ran out of memory. Render returns [ErrFatal]
//     and no further targets are acquired.
//
// Acquisition failures are handled inside Render. A lost surface is
// reconfigured once and the frame skipped. Outdated and timed-out
// acquisitions skip the frame.
//
// # Usage
//
//	r, err := render.New(device, surf)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	if err := r.AddPipeline(rect.Builder); err != nil {
//	    return err
//	}
//	r.SetInstances(instances)
//	if err := r.Render(); errors.Is(err, render.ErrFatal) {
//	    return err
//	}
//
// A Renderer is not safe for concurrent use.
package render
