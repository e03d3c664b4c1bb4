// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rectloop/gpucore"
)

// DrawItem is one frame-scoped draw command produced by a Drawable.
//
// Buffers referenced by a DrawItem must stay alive until the frame that
// recorded it has been submitted.
type DrawItem struct {
	// Pipeline is the compiled pipeline to bind.
	Pipeline gpucore.RenderPipeline

	// VertexBuffers are bound to slots 0..len-1 in order.
	VertexBuffers []gpucore.Buffer

	// Technique selects a direct or indexed draw.
	Technique DrawTechnique

	// Instances is the instance range to draw.
	Instances gpucore.Range
}

// DrawTechnique is either VertexOnly or Indexed.
type DrawTechnique interface {
	drawTechnique()
}

// VertexOnly draws a range of vertices directly.
type VertexOnly struct {
	Vertices gpucore.Range
}

// Indexed draws a range of indices from an index buffer.
type Indexed struct {
	IndexBuffer gpucore.Buffer
	Format      gputypes.IndexFormat
	Indices     gpucore.Range
}

func (VertexOnly) drawTechnique() {}
func (Indexed) drawTechnique()    {}
