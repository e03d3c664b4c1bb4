// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rectloop"
	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/rectloop/surface"
)

// Renderer errors.
var (
	// ErrFatal is returned by Render once the surface is unrecoverable.
	ErrFatal = errors.New("render: fatal surface error")

	// ErrClosed is returned by operations on a closed Renderer.
	ErrClosed = errors.New("render: renderer closed")

	// ErrNoTechnique is returned when a drawable yields an item without a
	// draw technique.
	ErrNoTechnique = errors.New("render: draw item has no technique")
)

// Stats counts what happened to the frames requested so far.
type Stats struct {
	// Frames is the number of frames presented.
	Frames uint64

	// Skipped is the number of frames dropped because acquisition was
	// lost, outdated or timed out.
	Skipped uint64

	// Reconfigurations counts Configure calls after the initial one.
	Reconfigurations uint64
}

// Renderer is the frame controller. See the package documentation.
type Renderer struct {
	device  gpucore.Device
	surface surface.Surface

	config surface.Config
	state  State

	drawables []Drawable
	instances []Instance

	opts   options
	stats  Stats
	closed bool
}

// New negotiates a configuration from the surface's capabilities, sized to
// its current client area, and applies it.
//
// The device is borrowed and must outlive the Renderer. The surface is
// owned and closed by Close.
func New(dev gpucore.Device, surf surface.Surface, opts ...Option) (*Renderer, error) {
	if dev == nil || surf == nil {
		return nil, errors.New("render: nil device or surface")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{
		device:  dev,
		surface: surf,
		opts:    o,
	}

	w, h := surf.Size()
	cfg, err := surface.Negotiate(surf.Capabilities(), w, h)
	if err != nil {
		return nil, fmt.Errorf("render: negotiate surface: %w", err)
	}
	if err := surf.Configure(cfg); err != nil {
		return nil, fmt.Errorf("render: configure surface: %w", err)
	}
	r.config = cfg
	r.state = StateConfigured

	r.logger().Info("render: surface configured",
		"adapter", dev.Info().Name,
		"format", cfg.Format,
		"width", cfg.Width,
		"height", cfg.Height,
		"present", cfg.PresentMode.String())
	return r, nil
}

// AddPipeline builds a drawable for the configured format and registers it.
func (r *Renderer) AddPipeline(build PipelineBuilder) error {
	if r.closed {
		return ErrClosed
	}
	d, err := build(r.device, r.config.Format)
	if err != nil {
		return fmt.Errorf("render: build pipeline: %w", err)
	}
	r.drawables = append(r.drawables, d)
	return nil
}

// Register adds a pre-built drawable. Drawables are recorded in
// registration order and released by Close. After Close, d is released
// at once and ErrClosed is returned.
func (r *Renderer) Register(d Drawable) error {
	if d == nil {
		return errors.New("render: nil drawable")
	}
	if r.closed {
		d.Release()
		return ErrClosed
	}
	r.drawables = append(r.drawables, d)
	return nil
}

// SetInstances replaces the instance set used by subsequent frames.
// The records are copied.
func (r *Renderer) SetInstances(records []Instance) {
	r.instances = append(r.instances[:0], records...)
}

// InstanceCount returns the number of instances the next frame will draw.
func (r *Renderer) InstanceCount() int { return len(r.instances) }

// Resize reconfigures the surface for a new client area, keeping the
// negotiated format and modes. Zero dimensions are accepted.
//
// If Configure fails the renderer stays in StateReconfiguring and the next
// Render retries the pending configuration.
func (r *Renderer) Resize(width, height uint32) error {
	switch {
	case r.closed:
		return ErrClosed
	case r.state == StateFatal:
		return ErrFatal
	}
	return r.reconfigure(r.config.Resized(width, height))
}

func (r *Renderer) reconfigure(cfg surface.Config) error {
	r.state = StateReconfiguring
	r.config = cfg
	r.stats.Reconfigurations++
	if err := r.surface.Configure(cfg); err != nil {
		return fmt.Errorf("render: reconfigure surface %dx%d: %w", cfg.Width, cfg.Height, err)
	}
	r.state = StateConfigured
	r.logger().Debug("render: surface reconfigured", "width", cfg.Width, "height", cfg.Height)
	return nil
}

// Render draws one frame. Transient acquisition failures skip the frame and
// return nil. Once the surface is out of memory, Render returns an error
// matching ErrFatal and never acquires again.
func (r *Renderer) Render() error {
	switch {
	case r.closed:
		return ErrClosed
	case r.state == StateFatal:
		return ErrFatal
	case r.state == StateReconfiguring:
		if err := r.reconfigure(r.config); err != nil {
			return err
		}
	}

	frame, err := r.surface.Acquire()
	if err != nil {
		return r.acquireFailed(err)
	}

	if err := r.record(frame.View()); err != nil {
		frame.Discard()
		return err
	}
	if err := frame.Present(); err != nil {
		return fmt.Errorf("render: present: %w", err)
	}
	r.stats.Frames++
	return nil
}

func (r *Renderer) acquireFailed(err error) error {
	kind, ok := surface.KindOf(err)
	if !ok {
		return fmt.Errorf("render: acquire: %w", err)
	}
	switch kind {
	case surface.Lost:
		r.stats.Skipped++
		w, h := r.surface.Size()
		r.logger().Warn("render: surface lost, reconfiguring", "width", w, "height", h)
		return r.reconfigure(r.config.Resized(w, h))
	case surface.OutOfMemory:
		r.state = StateFatal
		r.logger().Error("render: surface out of memory", "err", err)
		return fmt.Errorf("%w: %w", ErrFatal, err)
	default:
		r.stats.Skipped++
		r.logger().Debug("render: frame skipped", "reason", kind.String())
		return nil
	}
}

// record encodes one render pass into target and submits it.
func (r *Renderer) record(target gpucore.TextureView) error {
	rec, err := r.device.CreateCommandRecorder(r.opts.label + " command encoder")
	if err != nil {
		return fmt.Errorf("render: create command recorder: %w", err)
	}

	pass := rec.BeginRenderPass(&gpucore.RenderPassDescriptor{
		Label:      r.opts.label + " render pass",
		Target:     target,
		ClearColor: r.opts.clear,
	})
	for _, d := range r.drawables {
		items, err := d.DrawItems(r.instances)
		if err == nil {
			err = recordItems(pass, items)
		}
		if err != nil {
			pass.End()
			rec.Discard()
			return fmt.Errorf("render: record draw items: %w", err)
		}
	}
	pass.End()

	cmd, err := rec.Finish()
	if err != nil {
		return fmt.Errorf("render: finish commands: %w", err)
	}
	r.device.Submit(cmd)
	return nil
}

func recordItems(pass gpucore.PassRecorder, items []DrawItem) error {
	for i := range items {
		item := &items[i]
		pass.SetPipeline(item.Pipeline)
		for slot, buf := range item.VertexBuffers {
			pass.SetVertexBuffer(uint32(slot), buf)
		}
		switch t := item.Technique.(type) {
		case VertexOnly:
			pass.Draw(t.Vertices, item.Instances)
		case Indexed:
			pass.SetIndexBuffer(t.IndexBuffer, t.Format)
			pass.DrawIndexed(t.Indices, 0, item.Instances)
		default:
			return ErrNoTechnique
		}
	}
	return nil
}

// Config returns the current surface configuration.
func (r *Renderer) Config() surface.Config { return r.config }

// Format returns the negotiated target format.
func (r *Renderer) Format() gputypes.TextureFormat { return r.config.Format }

// State returns the surface configuration state.
func (r *Renderer) State() State { return r.state }

// Stats returns frame counters.
func (r *Renderer) Stats() Stats { return r.stats }

// Close releases drawables in reverse registration order and closes the
// surface. Close is idempotent.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	for i := len(r.drawables) - 1; i >= 0; i-- {
		r.drawables[i].Release()
	}
	r.drawables = nil
	r.surface.Close()
}

func (r *Renderer) logger() *slog.Logger {
	if r.opts.logger != nil {
		return r.opts.logger
	}
	return rectloop.Logger()
}
