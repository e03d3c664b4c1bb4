//go:build cgo

package window

import (
	"errors"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/rectloop"
	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/rectloop/surface"
)

// Surface is the window's swapchain.
type Surface struct {
	win     *glfw.Window
	raw     *wgpu.Surface
	adapter *wgpu.Adapter
	dev     *Device

	prefer surface.PresentMode
	closed bool
}

// Capabilities lists what the surface supports. The preferred present mode
// is moved to the front when supported.
func (s *Surface) Capabilities() surface.Capabilities {
	raw := s.raw.GetCapabilities(s.adapter)
	var caps surface.Capabilities
	for _, f := range raw.Formats {
		if gf, ok := fromTextureFormat(f); ok {
			caps.Formats = append(caps.Formats, gf)
		}
	}
	for _, m := range raw.PresentModes {
		if pm, ok := fromPresentMode(m); ok {
			caps.PresentModes = append(caps.PresentModes, pm)
		}
	}
	if i := slices.Index(caps.PresentModes, s.prefer); i > 0 {
		caps.PresentModes = slices.Insert(slices.Delete(caps.PresentModes, i, i+1), 0, s.prefer)
	}
	for _, m := range raw.AlphaModes {
		if am, ok := fromAlphaMode(m); ok {
			caps.AlphaModes = append(caps.AlphaModes, am)
		}
	}
	return caps
}

// Size returns the framebuffer size in physical pixels.
func (s *Surface) Size() (uint32, uint32) {
	return framebufferSize(s.win)
}

// Configure applies cfg. Zero sizes are recorded but not sent to the
// driver, which rejects them; acquisition reports Outdated until the
// window has pixels again.
func (s *Surface) Configure(cfg surface.Config) error {
	if s.closed {
		return errors.New("window: surface closed")
	}
	format, err := toTextureFormat(cfg.Format)
	if err != nil {
		return err
	}
	if cfg.Degenerate() {
		rectloop.Logger().Debug("window: zero-sized surface, configure deferred")
		return nil
	}
	s.raw.Configure(s.adapter, s.dev.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       cfg.Width,
		Height:      cfg.Height,
		PresentMode: toPresentMode(cfg.PresentMode),
		AlphaMode:   toAlphaMode(cfg.AlphaMode),
	})
	return nil
}

// Acquire returns the next swapchain texture.
func (s *Surface) Acquire() (surface.Frame, error) {
	if s.closed {
		return nil, surface.NewAcquireError(surface.Lost, errors.New("surface closed"))
	}
	if w, h := s.Size(); w == 0 || h == 0 {
		return nil, surface.NewAcquireError(surface.Outdated, nil)
	}
	tex, err := s.raw.GetCurrentTexture()
	if err != nil {
		return nil, classifyAcquire(err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &frame{s: s, tex: tex, view: view}, nil
}

func (s *Surface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.raw.Release()
}

type frame struct {
	s    *Surface
	tex  *wgpu.Texture
	view *wgpu.TextureView
}

func (f *frame) View() gpucore.TextureView { return f.view }

func (f *frame) Present() error {
	if f.tex == nil {
		return errors.New("window: frame already presented")
	}
	f.s.raw.Present()
	f.release()
	return nil
}

func (f *frame) Discard() { f.release() }

func (f *frame) release() {
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.tex != nil {
		f.tex.Release()
		f.tex = nil
	}
}

func framebufferSize(win *glfw.Window) (uint32, uint32) {
	w, h := win.GetFramebufferSize()
	return uint32(max(w, 0)), uint32(max(h, 0))
}
