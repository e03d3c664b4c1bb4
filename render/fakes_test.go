// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/rectloop/surface"
)

// fakeDevice records every command issued through it as a string.
type fakeDevice struct {
	calls       []string
	submits     int
	retired     []gpucore.Releasable
	recorderErr error
}

type fakeBuffer struct {
	name     string
	size     uint64
	released bool
}

func (b *fakeBuffer) Release()     { b.released = true }
func (b *fakeBuffer) Size() uint64 { return b.size }

type fakePipeline struct {
	name     string
	released bool
}

func (p *fakePipeline) Release() { p.released = true }

func (d *fakeDevice) log(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) Info() gpucore.AdapterInfo {
	return gpucore.AdapterInfo{Name: "fake", Backend: "test"}
}

func (d *fakeDevice) CreateBuffer(desc *gpucore.BufferDescriptor) (gpucore.Buffer, error) {
	return &fakeBuffer{name: desc.Label, size: uint64(len(desc.Contents))}, nil
}

func (d *fakeDevice) CreateRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (gpucore.RenderPipeline, error) {
	return &fakePipeline{name: desc.Label}, nil
}

func (d *fakeDevice) CreateCommandRecorder(label string) (gpucore.CommandRecorder, error) {
	if d.recorderErr != nil {
		return nil, d.recorderErr
	}
	return &fakeRecorder{dev: d}, nil
}

func (d *fakeDevice) Submit(cmd gpucore.CommandBuffer) {
	d.submits++
	d.log("submit")
}

func (d *fakeDevice) Retire(r gpucore.Releasable) { d.retired = append(d.retired, r) }
func (d *fakeDevice) Close()                      {}

type fakeRecorder struct {
	dev *fakeDevice
}

func (r *fakeRecorder) BeginRenderPass(desc *gpucore.RenderPassDescriptor) gpucore.PassRecorder {
	r.dev.log("begin %v clear=%.1f,%.1f,%.1f,%.1f", desc.Target,
		desc.ClearColor.R, desc.ClearColor.G, desc.ClearColor.B, desc.ClearColor.A)
	return &fakePass{dev: r.dev}
}

func (r *fakeRecorder) Finish() (gpucore.CommandBuffer, error) {
	r.dev.log("finish")
	return "cmd", nil
}

func (r *fakeRecorder) Discard() { r.dev.log("discard") }

type fakePass struct {
	dev *fakeDevice
}

func (p *fakePass) SetPipeline(pl gpucore.RenderPipeline) {
	p.dev.log("pipeline %s", pl.(*fakePipeline).name)
}

func (p *fakePass) SetVertexBuffer(slot uint32, buf gpucore.Buffer) {
	p.dev.log("vertex %d %s", slot, buf.(*fakeBuffer).name)
}

func (p *fakePass) SetIndexBuffer(buf gpucore.Buffer, format gputypes.IndexFormat) {
	p.dev.log("index %s", buf.(*fakeBuffer).name)
}

func (p *fakePass) Draw(vertices, instances gpucore.Range) {
	p.dev.log("draw %v %v", vertices, instances)
}

func (p *fakePass) DrawIndexed(indices gpucore.Range, baseVertex int32, instances gpucore.Range) {
	p.dev.log("drawIndexed %v %d %v", indices, baseVertex, instances)
}

func (p *fakePass) End() { p.dev.log("end") }

// fakeSurface plays back scripted acquisition results.
type fakeSurface struct {
	caps         surface.Capabilities
	width        uint32
	height       uint32
	configs      []surface.Config
	configureErr error
	acquireErrs  []error
	events       []string
	acquires     int
	presented    int
	discarded    int
	closed       bool
}

func newFakeSurface(w, h uint32) *fakeSurface {
	return &fakeSurface{
		caps: surface.Capabilities{
			Formats:      []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb},
			PresentModes: []surface.PresentMode{surface.PresentModeFifo},
			AlphaModes:   []surface.AlphaMode{surface.AlphaModeOpaque},
		},
		width:  w,
		height: h,
	}
}

func (s *fakeSurface) Capabilities() surface.Capabilities { return s.caps }
func (s *fakeSurface) Size() (uint32, uint32)             { return s.width, s.height }

func (s *fakeSurface) Configure(cfg surface.Config) error {
	s.events = append(s.events, fmt.Sprintf("configure %dx%d", cfg.Width, cfg.Height))
	if s.configureErr != nil {
		return s.configureErr
	}
	s.configs = append(s.configs, cfg)
	return nil
}

func (s *fakeSurface) Acquire() (surface.Frame, error) {
	s.acquires++
	s.events = append(s.events, "acquire")
	if len(s.acquireErrs) > 0 {
		err := s.acquireErrs[0]
		s.acquireErrs = s.acquireErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &fakeFrame{s: s}, nil
}

func (s *fakeSurface) Close() { s.closed = true }

type fakeFrame struct {
	s *fakeSurface
}

func (f *fakeFrame) View() gpucore.TextureView { return "view" }
func (f *fakeFrame) Present() error {
	f.s.presented++
	return nil
}
func (f *fakeFrame) Discard() { f.s.discarded++ }

// fakeDrawable returns one item per frame built by the items func.
type fakeDrawable struct {
	items     func(n int) []DrawItem
	err       error
	seen      [][]Instance
	released  bool
	onRelease func()
}

func (d *fakeDrawable) DrawItems(instances []Instance) ([]DrawItem, error) {
	d.seen = append(d.seen, append([]Instance(nil), instances...))
	if d.err != nil {
		return nil, d.err
	}
	return d.items(len(instances)), nil
}

func (d *fakeDrawable) Release() {
	d.released = true
	if d.onRelease != nil {
		d.onRelease()
	}
}

// indexedDrawable mirrors the rectangle pipeline: quad + instances, 6 indices.
func indexedDrawable() *fakeDrawable {
	pipe := &fakePipeline{name: "rect"}
	quad := &fakeBuffer{name: "quad"}
	inst := &fakeBuffer{name: "instances"}
	idx := &fakeBuffer{name: "indices"}
	return &fakeDrawable{items: func(n int) []DrawItem {
		return []DrawItem{{
			Pipeline:      pipe,
			VertexBuffers: []gpucore.Buffer{quad, inst},
			Technique:     Indexed{IndexBuffer: idx, Format: gputypes.IndexFormatUint16, Indices: gpucore.Span(6)},
			Instances:     gpucore.Span(uint32(n)),
		}}
	}}
}
