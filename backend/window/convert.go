//go:build cgo

package window

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/rectloop/surface"
)

// ErrUnsupported is returned for descriptor values this host cannot express.
var ErrUnsupported = errors.New("window: unsupported value")

var textureFormats = []struct {
	gp gputypes.TextureFormat
	wg wgpu.TextureFormat
}{
	{gputypes.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb},
	{gputypes.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8Unorm},
	{gputypes.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatRGBA8UnormSrgb},
	{gputypes.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8Unorm},
}

func toTextureFormat(f gputypes.TextureFormat) (wgpu.TextureFormat, error) {
	for _, m := range textureFormats {
		if m.gp == f {
			return m.wg, nil
		}
	}
	return wgpu.TextureFormatUndefined, fmt.Errorf("%w: texture format %v", ErrUnsupported, f)
}

func fromTextureFormat(f wgpu.TextureFormat) (gputypes.TextureFormat, bool) {
	for _, m := range textureFormats {
		if m.wg == f {
			return m.gp, true
		}
	}
	return gputypes.TextureFormatUndefined, false
}

var bufferUsages = []struct {
	gp gputypes.BufferUsage
	wg wgpu.BufferUsage
}{
	{gputypes.BufferUsageVertex, wgpu.BufferUsageVertex},
	{gputypes.BufferUsageIndex, wgpu.BufferUsageIndex},
	{gputypes.BufferUsageUniform, wgpu.BufferUsageUniform},
	{gputypes.BufferUsageCopySrc, wgpu.BufferUsageCopySrc},
	{gputypes.BufferUsageCopyDst, wgpu.BufferUsageCopyDst},
}

func toBufferUsage(u gputypes.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	for _, m := range bufferUsages {
		if u&m.gp != 0 {
			out |= m.wg
		}
	}
	return out
}

func toVertexFormat(f gputypes.VertexFormat) (wgpu.VertexFormat, error) {
	switch f {
	case gputypes.VertexFormatFloat32:
		return wgpu.VertexFormatFloat32, nil
	case gputypes.VertexFormatFloat32x2:
		return wgpu.VertexFormatFloat32x2, nil
	case gputypes.VertexFormatFloat32x3:
		return wgpu.VertexFormatFloat32x3, nil
	case gputypes.VertexFormatFloat32x4:
		return wgpu.VertexFormatFloat32x4, nil
	default:
		return 0, fmt.Errorf("%w: vertex format %v", ErrUnsupported, f)
	}
}

func toVertexLayouts(in []gputypes.VertexBufferLayout) ([]wgpu.VertexBufferLayout, error) {
	out := make([]wgpu.VertexBufferLayout, 0, len(in))
	for _, l := range in {
		wl := wgpu.VertexBufferLayout{
			ArrayStride: uint64(l.ArrayStride),
			StepMode:    wgpu.VertexStepModeVertex,
		}
		if l.StepMode == gputypes.VertexStepModeInstance {
			wl.StepMode = wgpu.VertexStepModeInstance
		}
		for _, a := range l.Attributes {
			f, err := toVertexFormat(a.Format)
			if err != nil {
				return nil, err
			}
			wl.Attributes = append(wl.Attributes, wgpu.VertexAttribute{
				Format:         f,
				Offset:         uint64(a.Offset),
				ShaderLocation: uint32(a.ShaderLocation),
			})
		}
		out = append(out, wl)
	}
	return out, nil
}

func toPrimitive(p gputypes.PrimitiveState) (wgpu.PrimitiveState, error) {
	out := wgpu.PrimitiveState{
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeNone,
	}
	switch p.Topology {
	case gputypes.PrimitiveTopologyTriangleList:
		out.Topology = wgpu.PrimitiveTopologyTriangleList
	case gputypes.PrimitiveTopologyTriangleStrip:
		out.Topology = wgpu.PrimitiveTopologyTriangleStrip
	case gputypes.PrimitiveTopologyLineList:
		out.Topology = wgpu.PrimitiveTopologyLineList
	case gputypes.PrimitiveTopologyPointList:
		out.Topology = wgpu.PrimitiveTopologyPointList
	default:
		return out, fmt.Errorf("%w: topology %v", ErrUnsupported, p.Topology)
	}
	if p.FrontFace == gputypes.FrontFaceCW {
		out.FrontFace = wgpu.FrontFaceCW
	}
	switch p.CullMode {
	case gputypes.CullModeFront:
		out.CullMode = wgpu.CullModeFront
	case gputypes.CullModeBack:
		out.CullMode = wgpu.CullModeBack
	}
	return out, nil
}

func toIndexFormat(f gputypes.IndexFormat) wgpu.IndexFormat {
	if f == gputypes.IndexFormatUint32 {
		return wgpu.IndexFormatUint32
	}
	return wgpu.IndexFormatUint16
}

// toColorWriteMask converts the mask bit for bit; both follow the WebGPU
// layout (red 1, green 2, blue 4, alpha 8).
func toColorWriteMask(m gputypes.ColorWriteMask) wgpu.ColorWriteMask {
	return wgpu.ColorWriteMask(m)
}

func toPresentMode(m surface.PresentMode) wgpu.PresentMode {
	switch m {
	case surface.PresentModeFifoRelaxed:
		return wgpu.PresentModeFifoRelaxed
	case surface.PresentModeMailbox:
		return wgpu.PresentModeMailbox
	case surface.PresentModeImmediate:
		return wgpu.PresentModeImmediate
	default:
		return wgpu.PresentModeFifo
	}
}

func fromPresentMode(m wgpu.PresentMode) (surface.PresentMode, bool) {
	switch m {
	case wgpu.PresentModeFifo:
		return surface.PresentModeFifo, true
	case wgpu.PresentModeFifoRelaxed:
		return surface.PresentModeFifoRelaxed, true
	case wgpu.PresentModeMailbox:
		return surface.PresentModeMailbox, true
	case wgpu.PresentModeImmediate:
		return surface.PresentModeImmediate, true
	default:
		return surface.PresentModeFifo, false
	}
}

func toAlphaMode(m surface.AlphaMode) wgpu.CompositeAlphaMode {
	switch m {
	case surface.AlphaModeOpaque:
		return wgpu.CompositeAlphaModeOpaque
	case surface.AlphaModePremultiplied:
		return wgpu.CompositeAlphaModePremultiplied
	case surface.AlphaModeUnpremultiplied:
		return wgpu.CompositeAlphaModeUnpremultiplied
	case surface.AlphaModeInherit:
		return wgpu.CompositeAlphaModeInherit
	default:
		return wgpu.CompositeAlphaModeAuto
	}
}

func fromAlphaMode(m wgpu.CompositeAlphaMode) (surface.AlphaMode, bool) {
	switch m {
	case wgpu.CompositeAlphaModeAuto:
		return surface.AlphaModeAuto, true
	case wgpu.CompositeAlphaModeOpaque:
		return surface.AlphaModeOpaque, true
	case wgpu.CompositeAlphaModePremultiplied:
		return surface.AlphaModePremultiplied, true
	case wgpu.CompositeAlphaModeUnpremultiplied:
		return surface.AlphaModeUnpremultiplied, true
	case wgpu.CompositeAlphaModeInherit:
		return surface.AlphaModeInherit, true
	default:
		return surface.AlphaModeAuto, false
	}
}

// classifyAcquire maps a GetCurrentTexture failure onto an acquisition kind.
// wgpu-native reports the texture status only through the error text.
func classifyAcquire(err error) error {
	msg := strings.ToLower(strings.ReplaceAll(err.Error(), " ", ""))
	var k surface.Kind
	switch {
	case strings.Contains(msg, "outofmemory"):
		k = surface.OutOfMemory
	case strings.Contains(msg, "outdated"):
		k = surface.Outdated
	case strings.Contains(msg, "timeout"):
		k = surface.Timeout
	case strings.Contains(msg, "lost"):
		k = surface.Lost
	default:
		return err
	}
	return surface.NewAcquireError(k, err)
}

// fromAdapterInfo names the adapter and its native backend.
func fromAdapterInfo(info wgpu.AdapterInfo) gpucore.AdapterInfo {
	name := info.Name
	if name == "" {
		name = info.VendorName
	}
	if name == "" {
		name = "wgpu-native"
	}
	return gpucore.AdapterInfo{Name: name, Backend: backendName(info.BackendType)}
}

func backendName(bt wgpu.BackendType) string {
	switch bt {
	case wgpu.BackendTypeNull:
		return "null"
	case wgpu.BackendTypeWebGPU:
		return "webgpu"
	case wgpu.BackendTypeD3D11:
		return "d3d11"
	case wgpu.BackendTypeD3D12:
		return "d3d12"
	case wgpu.BackendTypeMetal:
		return "metal"
	case wgpu.BackendTypeVulkan:
		return "vulkan"
	case wgpu.BackendTypeOpenGL:
		return "opengl"
	case wgpu.BackendTypeOpenGLES:
		return "opengles"
	default:
		return "unknown"
	}
}
