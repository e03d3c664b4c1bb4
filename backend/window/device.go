//go:build cgo

package window

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rectloop"
	"github.com/gogpu/rectloop/gpucore"
)

// Device implements gpucore.Device on a wgpu-native device.
type Device struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	info   gpucore.AdapterInfo
	closed bool
}

// Info describes the adapter the device was requested from.
func (d *Device) Info() gpucore.AdapterInfo { return d.info }

// CreateBuffer creates a buffer initialised with desc.Contents.
func (d *Device) CreateBuffer(desc *gpucore.BufferDescriptor) (gpucore.Buffer, error) {
	if d.closed {
		return nil, gpucore.ErrDeviceClosed
	}
	raw, err := d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    desc.Label,
		Contents: desc.Contents,
		Usage:    toBufferUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("window: create %s: %w", desc.Label, err)
	}
	return &buffer{raw: raw, size: uint64(len(desc.Contents))}, nil
}

// CreateRenderPipeline creates a pipeline with an empty layout from WGSL.
// Only replace blending is supported.
func (d *Device) CreateRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (gpucore.RenderPipeline, error) {
	if d.closed {
		return nil, gpucore.ErrDeviceClosed
	}
	if desc.WGSL == "" {
		return nil, gpucore.ErrEmptyShader
	}
	if desc.Blend != nil {
		return nil, fmt.Errorf("%w: blend state on %s", ErrUnsupported, desc.Label)
	}
	format, err := toTextureFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	layouts, err := toVertexLayouts(desc.VertexBuffers)
	if err != nil {
		return nil, err
	}
	primitive, err := toPrimitive(desc.Primitive)
	if err != nil {
		return nil, err
	}

	p := &pipeline{}
	p.shader, err = d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label + "_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.WGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("window: compile %s shader: %w", desc.Label, err)
	}
	p.layout, err = d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: desc.Label + "_layout",
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("window: create %s layout: %w", desc.Label, err)
	}

	vs, fs := desc.Entries()
	p.raw, err = d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: p.layout,
		Vertex: wgpu.VertexState{
			Module:     p.shader,
			EntryPoint: vs,
			Buffers:    layouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.shader,
			EntryPoint: fs,
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: toColorWriteMask(desc.WriteMask),
			}},
		},
		Primitive: primitive,
		Multisample: wgpu.MultisampleState{
			Count: desc.Samples(),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("window: create %s: %w", desc.Label, err)
	}
	return p, nil
}

func (d *Device) CreateCommandRecorder(label string) (gpucore.CommandRecorder, error) {
	if d.closed {
		return nil, gpucore.ErrDeviceClosed
	}
	enc, err := d.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("window: create command encoder: %w", err)
	}
	return &recorder{encoder: enc}, nil
}

func (d *Device) Submit(cmd gpucore.CommandBuffer) {
	cb, ok := cmd.(*wgpu.CommandBuffer)
	if !ok || cb == nil || d.closed {
		rectloop.Logger().Warn("window: submit ignored", "closed", d.closed)
		return
	}
	d.queue.Submit(cb)
	cb.Release()
}

// Retire releases res immediately.
func (d *Device) Retire(res gpucore.Releasable) {
	if res != nil {
		res.Release()
	}
}

func (d *Device) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.queue.Release()
	d.device.Release()
}

type buffer struct {
	raw  *wgpu.Buffer
	size uint64
}

func (b *buffer) Size() uint64 { return b.size }

func (b *buffer) Release() {
	if b.raw != nil {
		b.raw.Release()
		b.raw = nil
	}
}

type pipeline struct {
	shader *wgpu.ShaderModule
	layout *wgpu.PipelineLayout
	raw    *wgpu.RenderPipeline
}

func (p *pipeline) Release() {
	if p.raw != nil {
		p.raw.Release()
		p.raw = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.shader != nil {
		p.shader.Release()
		p.shader = nil
	}
}

type recorder struct {
	encoder *wgpu.CommandEncoder
	done    bool
}

func (r *recorder) BeginRenderPass(desc *gpucore.RenderPassDescriptor) gpucore.PassRecorder {
	view, _ := desc.Target.(*wgpu.TextureView)
	c := desc.ClearColor
	rp := r.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: c.R, G: c.G, B: c.B, A: c.A},
		}},
	})
	return &pass{rp: rp}
}

func (r *recorder) Finish() (gpucore.CommandBuffer, error) {
	if r.done {
		return nil, errors.New("window: command recorder already finished")
	}
	r.done = true
	defer r.encoder.Release()
	cb, err := r.encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("window: finish encoder: %w", err)
	}
	return cb, nil
}

func (r *recorder) Discard() {
	if r.done {
		return
	}
	r.done = true
	r.encoder.Release()
}

type pass struct {
	rp *wgpu.RenderPassEncoder
}

func (p *pass) SetPipeline(rp gpucore.RenderPipeline) {
	pl, ok := rp.(*pipeline)
	if !ok || pl.raw == nil {
		rectloop.Logger().Error("window: foreign or released pipeline")
		return
	}
	p.rp.SetPipeline(pl.raw)
}

func (p *pass) SetVertexBuffer(slot uint32, buf gpucore.Buffer) {
	if raw := rawBuffer(buf); raw != nil {
		p.rp.SetVertexBuffer(slot, raw, 0, wgpu.WholeSize)
	}
}

func (p *pass) SetIndexBuffer(buf gpucore.Buffer, format gputypes.IndexFormat) {
	if raw := rawBuffer(buf); raw != nil {
		p.rp.SetIndexBuffer(raw, toIndexFormat(format), 0, wgpu.WholeSize)
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

func (p *pass) End() {
	p.rp.End()
	p.rp.Release()
}

func rawBuffer(b gpucore.Buffer) *wgpu.Buffer {
	buf, ok := b.(*buffer)
	if !ok || buf.raw == nil {
		rectloop.Logger().Error("window: foreign or released buffer")
		return nil
	}
	return buf.raw
}
