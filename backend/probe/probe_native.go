//go:build wgpunative

package probe

import (
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"
)

func adapter() (Info, error) {
	if err := wgpu.Init(); err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrLibraryNotFound, err)
	}
	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return Info{}, fmt.Errorf("probe: create instance: %w", err)
	}
	defer instance.Release()

	a, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	defer a.Release()

	raw, err := a.GetInfo()
	if err != nil {
		return Info{}, fmt.Errorf("probe: adapter info: %w", err)
	}
	info := Info{
		Vendor:       raw.Vendor,
		Architecture: raw.Architecture,
		Device:       raw.Device,
		Description:  raw.Description,
		Backend:      backendName(raw.BackendType),
		Type:         adapterTypeName(raw.AdapterType),
		VendorID:     raw.VendorID,
		DeviceID:     raw.DeviceID,
	}

	device, err := a.RequestDevice(nil)
	if err != nil {
		return info, nil
	}
	defer device.Release()
	if queue := device.GetQueue(); queue != nil {
		queue.Release()
		info.DeviceOK = true
	}
	return info, nil
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

func adapterTypeName(at wgpu.AdapterType) string {
	switch at {
	case wgpu.AdapterTypeDiscreteGPU:
		return "discrete"
	case wgpu.AdapterTypeIntegratedGPU:
		return "integrated"
	case wgpu.AdapterTypeCPU:
		return "cpu"
	default:
		return "unknown"
	}
}
