package headless

import (
	"github.com/gogpu/rectloop/backend"
	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/rectloop/surface"
)

// Default client size when Options leave it unset.
const (
	defaultWidth  = 800
	defaultHeight = 600
)

func init() {
	backend.Register(backend.Headless, func(opts backend.Options) (backend.Host, error) {
		return OpenHost(backend.Headless, Config{Backend: "vulkan", SPIRV: opts.SPIRV}, opts)
	})
	backend.Register(backend.Noop, func(opts backend.Options) (backend.Host, error) {
		return OpenHost(backend.Noop, Config{Backend: "noop", SPIRV: opts.SPIRV}, opts)
	})
}

// Host is a headless backend.Host. Events are produced by Resize and
// RequestClose rather than by a window system.
type Host struct {
	name   string
	dev    *Device
	surf   *Surface
	events []backend.Event
}

// OpenHost opens a device with cfg and an offscreen surface sized by opts.
func OpenHost(name string, cfg Config, opts backend.Options) (*Host, error) {
	dev, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return NewHost(name, dev, opts), nil
}

// NewHost wraps an open device. The host takes ownership of dev.
func NewHost(name string, dev *Device, opts backend.Options) *Host {
	w, h := opts.Width, opts.Height
	if w == 0 && h == 0 {
		w, h = defaultWidth, defaultHeight
	}
	return &Host{
		name: name,
		dev:  dev,
		surf: NewSurface(dev, w, h),
	}
}

func (h *Host) Name() string             { return h.name }
func (h *Host) Device() gpucore.Device   { return h.dev }
func (h *Host) Surface() surface.Surface { return h.surf }

// Offscreen returns the concrete surface for snapshots and fault injection.
func (h *Host) Offscreen() *Surface { return h.surf }

// Resize changes the simulated client area and queues a ResizeEvent.
func (h *Host) Resize(width, height uint32) {
	h.surf.SetSize(width, height)
	h.events = append(h.events, backend.ResizeEvent{Width: width, Height: height})
}

// RequestClose queues a CloseEvent.
func (h *Host) RequestClose() {
	h.events = append(h.events, backend.CloseEvent{})
}

// PollEvents drains queued events.
func (h *Host) PollEvents() []backend.Event {
	ev := h.events
	h.events = nil
	return ev
}

// Close releases the surface target and the device.
func (h *Host) Close() {
	h.surf.Close()
	h.dev.Close()
}
