package headless

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rectloop"
	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// defaultWaitTimeout bounds how long Submit waits for the previous frame.
const defaultWaitTimeout = 5 * time.Second

// pollInterval is the sleep between completion polls.
const pollInterval = 100 * time.Microsecond

// copyAlignment is the required size alignment for queue buffer writes.
const copyAlignment = 4

// Config selects how a Device is opened.
type Config struct {
	// Backend is "vulkan" or "noop". Empty means "vulkan".
	Backend string

	// SPIRV compiles WGSL to SPIR-V with naga before creating shader
	// modules instead of passing WGSL to the driver.
	SPIRV bool

	// WaitTimeout bounds GPU waits. Zero means 5s.
	WaitTimeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.WaitTimeout <= 0 {
		return defaultWaitTimeout
	}
	return c.WaitTimeout
}

// Device implements gpucore.Device on a gogpu/wgpu HAL device.
//
// One submission is in flight at a time: Submit waits for the previous
// submission index to complete before queueing the next, then frees
// everything retired before that submission.
type Device struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance // nil when borrowed from a provider
	owned    bool

	info    gpucore.AdapterInfo
	spirv   bool
	timeout time.Duration

	submitted uint64 // queue index of the latest submission
	completed uint64 // highest queue index known to be complete
	inflight  hal.CommandBuffer

	retired []retiree
	closed  bool
}

// retiree is a resource waiting for submission `after` to complete.
type retiree struct {
	res   gpucore.Releasable
	after uint64
}

// Open creates a HAL instance for cfg.Backend, picks an adapter (discrete
// or integrated GPUs first) and opens a device on it.
func Open(cfg Config) (*Device, error) {
	switch cfg.Backend {
	case "", "vulkan":
		backend, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("%w: vulkan backend not available", gpucore.ErrNoAdapter)
		}
		instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
		if err != nil {
			return nil, fmt.Errorf("headless: create instance: %w", err)
		}
		return openInstance(instance, "vulkan", cfg)
	case "noop":
		return OpenNoop(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown HAL backend %q", gpucore.ErrNoAdapter, cfg.Backend)
	}
}

// OpenNoop opens a device on the HAL noop backend. Every command succeeds
// and nothing is drawn, so the full frame path runs without a GPU.
func OpenNoop(cfg Config) (*Device, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("headless: create noop instance: %w", err)
	}
	return openInstance(instance, "noop", cfg)
}

func openInstance(instance hal.Instance, backendName string, cfg Config) (*Device, error) {
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, gpucore.ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device: %w", gpucore.ErrNoAdapter, err)
	}

	d := newDevice(openDev.Device, openDev.Queue, cfg)
	d.instance = instance
	d.owned = true
	d.info = gpucore.AdapterInfo{Name: selected.Info.Name, Backend: backendName}
	rectloop.Logger().Info("headless: device opened", "adapter", selected.Info.Name, "backend", backendName)
	return d, nil
}

// Wrap uses an existing HAL device and queue. The caller keeps ownership:
// Close releases rectloop's resources but not the device.
func Wrap(device hal.Device, queue hal.Queue, cfg Config) (*Device, error) {
	if device == nil || queue == nil {
		return nil, errors.New("headless: nil device or queue")
	}
	d := newDevice(device, queue, cfg)
	d.info = gpucore.AdapterInfo{Name: "external", Backend: "hal"}
	return d, nil
}

// FromProvider shares the device of a host application. The provider must
// also expose HalDevice() and HalQueue() returning hal.Device and hal.Queue.
func FromProvider(provider gpucontext.DeviceProvider, cfg Config) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("headless: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("headless: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("headless: provider HalQueue is not hal.Queue")
	}
	d, err := Wrap(device, queue, cfg)
	if err != nil {
		return nil, err
	}
	d.info.Name = "shared"
	return d, nil
}

func newDevice(device hal.Device, queue hal.Queue, cfg Config) *Device {
	done := queue.PollCompleted()
	return &Device{
		device:    device,
		queue:     queue,
		spirv:     cfg.SPIRV,
		timeout:   cfg.timeout(),
		submitted: done,
		completed: done,
	}
}

// Info describes the adapter.
func (d *Device) Info() gpucore.AdapterInfo { return d.info }

// HAL returns the underlying device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) { return d.device, d.queue }

// CreateBuffer creates a buffer and uploads desc.Contents through the queue.
//
// Drivers reject zero-sized buffers, so an empty buffer is backed by a
// minimal allocation while Size reports 0.
func (d *Device) CreateBuffer(desc *gpucore.BufferDescriptor) (gpucore.Buffer, error) {
	if d.closed {
		return nil, gpucore.ErrDeviceClosed
	}
	data := desc.Contents
	if pad := len(data) % copyAlignment; pad != 0 {
		data = append(append([]byte(nil), data...), make([]byte, copyAlignment-pad)...)
	}
	alloc := uint64(len(data))
	if alloc == 0 {
		alloc = copyAlignment
	}

	raw, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  alloc,
		Usage: desc.Usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("headless: create %s: %w", desc.Label, err)
	}
	if len(data) > 0 {
		if err := d.queue.WriteBuffer(raw, 0, data); err != nil {
			d.device.DestroyBuffer(raw)
			return nil, fmt.Errorf("headless: upload %s: %w", desc.Label, err)
		}
	}
	return &buffer{dev: d, raw: raw, size: uint64(len(desc.Contents))}, nil
}

// CreateRenderPipeline compiles the shader and creates a pipeline with an
// empty layout.
func (d *Device) CreateRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (gpucore.RenderPipeline, error) {
	if d.closed {
		return nil, gpucore.ErrDeviceClosed
	}
	src := hal.ShaderSource{WGSL: desc.WGSL}
	if d.spirv {
		words, err := gpucore.CompileWGSL(desc.WGSL)
		if err != nil {
			return nil, fmt.Errorf("headless: %s: %w", desc.Label, err)
		}
		src = hal.ShaderSource{SPIRV: words}
	}

	p := &pipeline{dev: d}
	var err error
	p.shader, err = d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label + "_shader",
		Source: src,
	})
	if err != nil {
		return nil, fmt.Errorf("headless: compile %s shader: %w", desc.Label, err)
	}

	p.layout, err = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: desc.Label + "_layout",
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("headless: create %s layout: %w", desc.Label, err)
	}

	vs, fs := desc.Entries()
	p.raw, err = d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: p.layout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: vs,
			Buffers:    desc.VertexBuffers,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: fs,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    desc.Format,
					Blend:     desc.Blend,
					WriteMask: desc.WriteMask,
				},
			},
		},
		Primitive: desc.Primitive,
		Multisample: gputypes.MultisampleState{
			Count: desc.Samples(),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("headless: create %s: %w", desc.Label, err)
	}
	return p, nil
}

// CreateCommandRecorder begins a command encoder.
func (d *Device) CreateCommandRecorder(label string) (gpucore.CommandRecorder, error) {
	if d.closed {
		return nil, gpucore.ErrDeviceClosed
	}
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("headless: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("headless: begin encoding: %w", err)
	}
	return &recorder{dev: d, encoder: encoder}, nil
}

// Submit waits for the previous submission, then queues cmd.
// Failures are logged; the frame is lost but the device stays usable.
func (d *Device) Submit(cmd gpucore.CommandBuffer) {
	cb, ok := cmd.(hal.CommandBuffer)
	if !ok || cb == nil || d.closed {
		rectloop.Logger().Warn("headless: submit ignored", "closed", d.closed)
		return
	}
	if err := d.submit(cb); err != nil {
		rectloop.Logger().Error("headless: submit failed", "err", err)
	}
}

func (d *Device) submit(cb hal.CommandBuffer) error {
	if err := d.wait(); err != nil {
		d.device.FreeCommandBuffer(cb)
		return err
	}
	index, err := d.queue.Submit([]hal.CommandBuffer{cb})
	if err != nil {
		d.device.FreeCommandBuffer(cb)
		return fmt.Errorf("submit: %w", err)
	}
	d.submitted = index
	d.inflight = cb
	return nil
}

// wait blocks until the in-flight submission completes and frees
// resources retired before it.
func (d *Device) wait() error {
	if d.inflight != nil {
		if err := d.waitFor(d.submitted); err != nil {
			return err
		}
		d.device.FreeCommandBuffer(d.inflight)
		d.inflight = nil
	}
	d.collect()
	return nil
}

// waitFor polls the queue until submission index has completed.
func (d *Device) waitFor(index uint64) error {
	deadline := time.Now().Add(d.timeout)
	for {
		if done := d.queue.PollCompleted(); done >= index {
			d.completed = max(d.completed, done)
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("wait for GPU: submission %d not complete after %v", index, d.timeout)
		}
		time.Sleep(pollInterval)
	}
}

// flush submits cb and waits for it.
func (d *Device) flush(cb hal.CommandBuffer) error {
	if err := d.submit(cb); err != nil {
		return err
	}
	return d.wait()
}

func (d *Device) collect() {
	kept := d.retired[:0]
	for _, r := range d.retired {
		if r.after <= d.completed {
			r.res.Release()
			continue
		}
		kept = append(kept, r)
	}
	clear(d.retired[len(kept):])
	d.retired = kept
}

// Retire releases res once every submission issued so far has completed.
func (d *Device) Retire(res gpucore.Releasable) {
	if res == nil {
		return
	}
	if d.inflight == nil || d.closed {
		res.Release()
		return
	}
	d.retired = append(d.retired, retiree{res: res, after: d.submitted})
}

// Pending returns the number of retired resources not yet released.
func (d *Device) Pending() int { return len(d.retired) }

// Close waits for outstanding work, releases retired resources and, if the
// device was opened by this package, destroys it.
func (d *Device) Close() {
	if d.closed {
		return
	}
	if err := d.wait(); err != nil {
		rectloop.Logger().Warn("headless: close without idle GPU", "err", err)
	}
	for _, r := range d.retired {
		r.res.Release()
	}
	d.retired = nil
	d.closed = true
	if d.owned {
		d.device.Destroy()
		d.instance.Destroy()
	}
}
