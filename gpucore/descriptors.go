package gpucore

import "github.com/gogpu/gputypes"

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Usage must include the bindings the buffer will be used for
	// (vertex, index). CopyDst is added by backends that upload via the queue.
	Usage gputypes.BufferUsage

	// Contents is copied into the new buffer. Its length is the buffer size.
	Contents []byte
}

// RenderPipelineDescriptor describes a single-target render pipeline with
// no depth or stencil attachment.
type RenderPipelineDescriptor struct {
	// Label is an optional debug name.
	Label string

	// WGSL is the shader source holding both stages.
	WGSL string

	// VertexEntryPoint defaults to "vs_main" if empty.
	VertexEntryPoint string

	// FragmentEntryPoint defaults to "fs_main" if empty.
	FragmentEntryPoint string

	// VertexBuffers describes the vertex buffer layouts, one per slot.
	VertexBuffers []gputypes.VertexBufferLayout

	Primitive gputypes.PrimitiveState

	// SampleCount is the number of samples per pixel. Zero means 1.
	SampleCount uint32

	// Format is the colour target format.
	Format gputypes.TextureFormat

	// Blend is the colour blend state. Nil means the source replaces
	// the destination.
	Blend *gputypes.BlendState

	WriteMask gputypes.ColorWriteMask
}

// Entries returns the entry points with defaults applied.
func (d *RenderPipelineDescriptor) Entries() (vertex, fragment string) {
	vertex, fragment = d.VertexEntryPoint, d.FragmentEntryPoint
	if vertex == "" {
		vertex = "vs_main"
	}
	if fragment == "" {
		fragment = "fs_main"
	}
	return vertex, fragment
}

// Samples returns SampleCount with the default applied.
func (d *RenderPipelineDescriptor) Samples() uint32 {
	if d.SampleCount == 0 {
		return 1
	}
	return d.SampleCount
}

// RenderPassDescriptor describes a single-attachment render pass.
type RenderPassDescriptor struct {
	Label string

	// Target is the view acquired from the surface for this frame.
	Target TextureView

	// ClearColor is written to the whole target when the pass begins.
	ClearColor gputypes.Color
}
