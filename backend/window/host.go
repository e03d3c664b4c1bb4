//go:build cgo

package window

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/rectloop"
	"github.com/gogpu/rectloop/backend"
	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/rectloop/surface"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
	defaultTitle  = "rectloop"
)

func init() {
	backend.Register(backend.Window, func(opts backend.Options) (backend.Host, error) {
		return Open(opts)
	})
}

// Host owns the window, the wgpu instance and the device.
type Host struct {
	win      *glfw.Window
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	dev      *Device
	surf     *Surface

	events    []backend.Event
	closeSent bool
}

// Open creates the window and a device compatible with its surface.
// It must be called on the main OS thread.
func Open(opts backend.Options) (*Host, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("window: init glfw: %w", err)
	}
	w, h := int(opts.Width), int(opts.Height)
	if w == 0 || h == 0 {
		w, h = defaultWidth, defaultHeight
	}
	title := opts.Title
	if title == "" {
		title = defaultTitle
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	win, err := glfw.CreateWindow(w, h, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window: create window: %w", err)
	}

	hst := &Host{win: win, instance: wgpu.CreateInstance(nil)}
	raw := hst.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))

	hst.adapter, err = hst.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: raw,
	})
	if err != nil {
		raw.Release()
		hst.destroy()
		return nil, fmt.Errorf("%w: %w", gpucore.ErrNoAdapter, err)
	}
	device, err := hst.adapter.RequestDevice(nil)
	if err != nil {
		raw.Release()
		hst.destroy()
		return nil, fmt.Errorf("window: request device: %w", err)
	}
	hst.dev = &Device{
		device: device,
		queue:  device.GetQueue(),
		info:   fromAdapterInfo(hst.adapter.GetInfo()),
	}
	hst.surf = &Surface{win: win, raw: raw, adapter: hst.adapter, dev: hst.dev, prefer: opts.PresentMode}

	hst.installCallbacks()
	rectloop.Logger().Info("window: opened", "width", w, "height", h,
		"adapter", hst.dev.info.Name, "backend", hst.dev.info.Backend)
	return hst, nil
}

func (h *Host) installCallbacks() {
	h.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		h.events = append(h.events, backend.ResizeEvent{
			Width:  uint32(max(width, 0)),
			Height: uint32(max(height, 0)),
		})
	})
	h.win.SetContentScaleCallback(func(w *glfw.Window, x, _ float32) {
		fw, fh := framebufferSize(w)
		h.events = append(h.events, backend.ScaleEvent{Scale: x, Width: fw, Height: fh})
	})
	h.win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})
}

func (h *Host) Name() string             { return backend.Window }
func (h *Host) Device() gpucore.Device   { return h.dev }
func (h *Host) Surface() surface.Surface { return h.surf }

// PollEvents pumps the GLFW event queue. A close request is reported once.
func (h *Host) PollEvents() []backend.Event {
	glfw.PollEvents()
	if h.win.ShouldClose() && !h.closeSent {
		h.closeSent = true
		h.events = append(h.events, backend.CloseEvent{})
	}
	ev := h.events
	h.events = nil
	return ev
}

// Close releases the device, the window and GLFW.
func (h *Host) Close() {
	if h.win == nil {
		return
	}
	h.surf.Close()
	h.dev.Close()
	h.destroy()
}

func (h *Host) destroy() {
	if h.adapter != nil {
		h.adapter.Release()
		h.adapter = nil
	}
	h.instance.Release()
	h.win.Destroy()
	h.win = nil
	glfw.Terminate()
}
