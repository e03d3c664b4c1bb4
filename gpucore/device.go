package gpucore

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Common device errors.
var (
	// ErrNoAdapter is returned when no compatible GPU adapter or device exists.
	ErrNoAdapter = errors.New("gpucore: no compatible adapter")

	// ErrDeviceClosed is returned by operations on a closed device.
	ErrDeviceClosed = errors.New("gpucore: device closed")
)

// Releasable is any GPU resource that must be released explicitly.
type Releasable interface {
	Release()
}

// Buffer is a GPU buffer created with fixed contents.
type Buffer interface {
	Releasable

	// Size returns the buffer size in bytes.
	Size() uint64
}

// RenderPipeline is a compiled render pipeline.
type RenderPipeline interface {
	Releasable
}

// TextureView is an opaque render target handed out by a surface.
type TextureView any

// CommandBuffer is an opaque finished command sequence.
type CommandBuffer any

// AdapterInfo describes the adapter a device was opened on.
type AdapterInfo struct {
	Name    string
	Backend string
}

// Device is the capability provider: the logical GPU device and its queue.
//
// A Device is created once at startup and is immutable afterwards. It is not
// safe for concurrent use.
type Device interface {
	// Info describes the underlying adapter.
	Info() AdapterInfo

	// CreateBuffer creates a buffer initialised with desc.Contents.
	// A zero-length buffer is valid.
	CreateBuffer(desc *BufferDescriptor) (Buffer, error)

	// CreateRenderPipeline compiles a render pipeline.
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateCommandRecorder begins a new command sequence.
	CreateCommandRecorder(label string) (CommandRecorder, error)

	// Submit hands a finished command sequence to the queue.
	Submit(cmd CommandBuffer)

	// Retire releases r once all work submitted so far has completed.
	Retire(r Releasable)

	// Close waits for outstanding work and releases the device.
	Close()
}

// CommandRecorder records one command sequence.
type CommandRecorder interface {
	// BeginRenderPass starts a render pass that clears the target.
	BeginRenderPass(desc *RenderPassDescriptor) PassRecorder

	// Finish ends recording and returns the sequence for submission.
	Finish() (CommandBuffer, error)

	// Discard abandons the sequence.
	Discard()
}

// PassRecorder records draw commands inside a render pass.
type PassRecorder interface {
	SetPipeline(p RenderPipeline)
	SetVertexBuffer(slot uint32, buf Buffer)
	SetIndexBuffer(buf Buffer, format gputypes.IndexFormat)

	// Draw issues a non-indexed draw.
	Draw(vertices, instances Range)

	// DrawIndexed issues an indexed draw. baseVertex is added to every index.
	DrawIndexed(indices Range, baseVertex int32, instances Range)

	End()
}
