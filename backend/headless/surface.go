package headless

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rectloop"
	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/rectloop/surface"
	"github.com/gogpu/wgpu/hal"
)

// Surface errors.
var (
	ErrUnsupportedFormat = errors.New("headless: unsupported surface format")
	ErrSurfaceClosed     = errors.New("headless: surface closed")
	ErrNoTarget          = errors.New("headless: no render target")
)

// DefaultFormats are the formats an offscreen surface offers, in preference
// order.
var DefaultFormats = []gputypes.TextureFormat{
	gputypes.TextureFormatBGRA8UnormSrgb,
	gputypes.TextureFormatBGRA8Unorm,
	gputypes.TextureFormatRGBA8Unorm,
}

// Surface is an offscreen stand-in for a window surface. It renders into a
// texture that can be read back with Snapshot.
//
// It follows swapchain rules: acquisition reports Outdated while the
// configured size differs from the client size or has no pixels, and Lost
// after an injected loss until reconfigured.
type Surface struct {
	dev     *Device
	formats []gputypes.TextureFormat

	width, height uint32

	cfg        surface.Config
	configured bool
	tex        hal.Texture
	view       hal.TextureView

	faults    []surface.Kind
	acquired  bool
	presented uint64
	closed    bool
}

// NewSurface creates an offscreen surface with the given client size.
// Formats default to DefaultFormats.
func NewSurface(dev *Device, width, height uint32, formats ...gputypes.TextureFormat) *Surface {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	return &Surface{
		dev:     dev,
		formats: slices.Clone(formats),
		width:   width,
		height:  height,
	}
}

// Capabilities reports the offscreen formats. Presentation is always FIFO
// and opaque.
func (s *Surface) Capabilities() surface.Capabilities {
	return surface.Capabilities{
		Formats:      slices.Clone(s.formats),
		PresentModes: []surface.PresentMode{surface.PresentModeFifo},
		AlphaModes:   []surface.AlphaMode{surface.AlphaModeOpaque},
	}
}

// Size returns the simulated client area.
func (s *Surface) Size() (uint32, uint32) { return s.width, s.height }

// SetSize changes the simulated client area. The surface reports Outdated
// until it is reconfigured to the new size.
func (s *Surface) SetSize(width, height uint32) {
	s.width, s.height = width, height
}

// InjectFault makes the next Acquire fail with kind k. Faults queue up.
func (s *Surface) InjectFault(k surface.Kind) {
	s.faults = append(s.faults, k)
}

// Config returns the applied configuration.
func (s *Surface) Config() surface.Config { return s.cfg }

// Presented returns the number of frames presented.
func (s *Surface) Presented() uint64 { return s.presented }

// Configure (re)creates the target texture. Zero sizes are accepted and
// leave the surface without a target.
func (s *Surface) Configure(cfg surface.Config) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if !slices.Contains(s.formats, cfg.Format) {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, cfg.Format)
	}
	same := s.tex != nil && s.cfg.Format == cfg.Format &&
		s.cfg.Width == cfg.Width && s.cfg.Height == cfg.Height
	if !same {
		s.destroyTarget()
		if !cfg.Degenerate() {
			if err := s.createTarget(cfg); err != nil {
				return err
			}
		}
	}
	s.cfg = cfg
	s.configured = true
	rectloop.Logger().Debug("headless: surface configured", "width", cfg.Width, "height", cfg.Height)
	return nil
}

func (s *Surface) createTarget(cfg surface.Config) error {
	tex, err := s.dev.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "headless_target",
		Size:          hal.Extent3D{Width: cfg.Width, Height: cfg.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        cfg.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("headless: create target texture: %w", err)
	}
	view, err := s.dev.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "headless_target_view",
	})
	if err != nil {
		s.dev.device.DestroyTexture(tex)
		return fmt.Errorf("headless: create target view: %w", err)
	}
	s.tex, s.view = tex, view
	return nil
}

func (s *Surface) destroyTarget() {
	if s.view != nil {
		s.dev.device.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.tex != nil {
		s.dev.device.DestroyTexture(s.tex)
		s.tex = nil
	}
}

// Acquire returns the target texture as the next frame.
func (s *Surface) Acquire() (surface.Frame, error) {
	switch {
	case s.closed:
		return nil, surface.NewAcquireError(surface.Lost, ErrSurfaceClosed)
	case len(s.faults) > 0:
		k := s.faults[0]
		s.faults = s.faults[1:]
		if k == surface.Lost {
			// A lost surface keeps nothing; Configure must run again.
			s.configured = false
		}
		return nil, surface.NewAcquireError(k, errors.New("injected"))
	case !s.configured:
		return nil, surface.NewAcquireError(surface.Lost, errors.New("not configured"))
	case s.cfg.Degenerate(), s.cfg.Width != s.width, s.cfg.Height != s.height:
		return nil, surface.NewAcquireError(surface.Outdated, nil)
	case s.acquired:
		return nil, surface.NewAcquireError(surface.Timeout, errors.New("previous frame not presented"))
	}
	s.acquired = true
	return &frame{s: s}, nil
}

// Close destroys the target. Close is idempotent.
func (s *Surface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if !s.dev.closed {
		s.destroyTarget()
	}
}

type frame struct {
	s    *Surface
	done bool
}

func (f *frame) View() gpucore.TextureView { return f.s.view }

func (f *frame) Present() error {
	if f.done {
		return errors.New("headless: frame already presented")
	}
	f.done = true
	f.s.acquired = false
	f.s.presented++
	return nil
}

func (f *frame) Discard() {
	if f.done {
		return
	}
	f.done = true
	f.s.acquired = false
}

// Snapshot copies the target texture back to the CPU. BGRA targets are
// converted to RGBA.
func (s *Surface) Snapshot() (*image.RGBA, error) {
	if s.tex == nil {
		return nil, ErrNoTarget
	}
	w, h := s.cfg.Width, s.cfg.Height
	d := s.dev

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "headless_snapshot"})
	if err != nil {
		return nil, fmt.Errorf("headless: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("headless_snapshot"); err != nil {
		return nil, fmt.Errorf("headless: begin encoding: %w", err)
	}

	// Copies require BytesPerRow aligned to 256 bytes.
	bytesPerRow := w * 4
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "headless_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("headless: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(s.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: s.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cb, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("headless: end encoding: %w", err)
	}
	if err := d.flush(cb); err != nil {
		return nil, fmt.Errorf("headless: snapshot: %w", err)
	}

	mapping, err := d.device.MapBuffer(staging, 0, stagingSize)
	if err != nil {
		return nil, fmt.Errorf("headless: map readback: %w", err)
	}
	if mapping.Ptr == nil {
		_ = d.device.UnmapBuffer(staging)
		return nil, errors.New("headless: map readback: nil mapping")
	}
	readback := unsafe.Slice((*byte)(mapping.Ptr), stagingSize) //nolint:gosec // mapped range is stagingSize bytes
	defer func() { _ = d.device.UnmapBuffer(staging) }()

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	bgra := s.cfg.Format == gputypes.TextureFormatBGRA8Unorm || s.cfg.Format == gputypes.TextureFormatBGRA8UnormSrgb
	for row := 0; row < int(h); row++ {
		src := readback[row*int(alignedBytesPerRow) : row*int(alignedBytesPerRow)+int(bytesPerRow)]
		dst := img.Pix[row*img.Stride : row*img.Stride+int(bytesPerRow)]
		copy(dst, src)
		if bgra {
			for i := 0; i < len(dst); i += 4 {
				dst[i], dst[i+2] = dst[i+2], dst[i]
			}
		}
	}
	return img, nil
}
