package headless

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rectloop"
	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/wgpu/hal"
)

type buffer struct {
	dev  *Device
	raw  hal.Buffer
	size uint64
}

func (b *buffer) Size() uint64 { return b.size }

func (b *buffer) Release() {
	if b.raw == nil || b.dev.closed {
		return
	}
	b.dev.device.DestroyBuffer(b.raw)
	b.raw = nil
}

type pipeline struct {
	dev    *Device
	shader hal.ShaderModule
	layout hal.PipelineLayout
	raw    hal.RenderPipeline
}

// Release destroys the pipeline, layout and shader in reverse order.
func (p *pipeline) Release() {
	if p.dev.closed {
		return
	}
	if p.raw != nil {
		p.dev.device.DestroyRenderPipeline(p.raw)
		p.raw = nil
	}
	if p.layout != nil {
		p.dev.device.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.shader != nil {
		p.dev.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

type recorder struct {
	dev     *Device
	encoder hal.CommandEncoder
	done    bool
}

func (r *recorder) BeginRenderPass(desc *gpucore.RenderPassDescriptor) gpucore.PassRecorder {
	view, _ := desc.Target.(hal.TextureView)
	rp := r.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: desc.ClearColor,
		}},
	})
	return &pass{rp: rp}
}

func (r *recorder) Finish() (gpucore.CommandBuffer, error) {
	if r.done {
		return nil, fmt.Errorf("headless: command recorder already finished")
	}
	r.done = true
	cb, err := r.encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("headless: end encoding: %w", err)
	}
	return cb, nil
}

func (r *recorder) Discard() {
	if r.done {
		return
	}
	r.done = true
	r.encoder.DiscardEncoding()
}

type pass struct {
	rp hal.RenderPassEncoder
}

func (p *pass) SetPipeline(rp gpucore.RenderPipeline) {
	pl, ok := rp.(*pipeline)
	if !ok || pl.raw == nil {
		rectloop.Logger().Error("headless: foreign or released pipeline")
		return
	}
	p.rp.SetPipeline(pl.raw)
}

func (p *pass) SetVertexBuffer(slot uint32, buf gpucore.Buffer) {
	if raw := rawBuffer(buf); raw != nil {
		p.rp.SetVertexBuffer(slot, raw, 0)
	}
}

func (p *pass) SetIndexBuffer(buf gpucore.Buffer, format gputypes.IndexFormat) {
	if raw := rawBuffer(buf); raw != nil {
		p.rp.SetIndexBuffer(raw, format, 0)
	}
}

func (p *pass) Draw(vertices, instances gpucore.Range) {
	if vertices.Empty() || instances.Empty() {
		return
	}
	p.rp.Draw(vertices.Len(), instances.Len(), vertices.Start, instances.Start)
}

func (p *pass) DrawIndexed(indices gpucore.Range, baseVertex int32, instances gpucore.Range) {
	if indices.Empty() || instances.Empty() {
		return
	}
	p.rp.DrawIndexed(indices.Len(), instances.Len(), indices.Start, baseVertex, instances.Start)
}

func (p *pass) End() { p.rp.End() }

func rawBuffer(b gpucore.Buffer) hal.Buffer {
	buf, ok := b.(*buffer)
	if !ok || buf.raw == nil {
		rectloop.Logger().Error("headless: foreign or released buffer")
		return nil
	}
	return buf.raw
}
