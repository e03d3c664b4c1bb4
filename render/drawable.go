// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rectloop/gpucore"
)

// Drawable is a self-contained pipeline for one kind of shape.
//
// DrawItems is called once per frame with the renderer's current instance
// set. The returned items are recorded immediately and are not retained.
// Buffers replaced between frames must be handed to Device.Retire rather
// than released, since the previous frame may still be executing.
type Drawable interface {
	DrawItems(instances []Instance) ([]DrawItem, error)

	// Release frees every GPU resource owned by the drawable.
	Release()
}

// PipelineBuilder creates a Drawable for a surface format.
type PipelineBuilder func(dev gpucore.Device, format gputypes.TextureFormat) (Drawable, error)
