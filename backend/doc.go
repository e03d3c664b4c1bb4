// Package backend provides the pluggable host abstraction.
//
// A [Host] bundles what the frame loop needs from a platform: a GPU
// capability provider ([gpucore.Device]), a presentable surface, and a
// stream of window events. Hosts are registered by name from init()
// functions in backend subpackages and opened at runtime:
//
//	import (
//		_ "github.com/gogpu/rectloop/backend/headless"
//		_ "github.com/gogpu/rectloop/backend/window"
//	)
//
//	// Best available host
//	h, err := backend.Default(backend.Options{Width: 800, Height: 600})
//
//	// Or a specific one
//	h, err := backend.Open(backend.Headless, opts)
//
// # Available hosts
//
//   - window: glfw window presented through wgpu-native (backend/window)
//   - headless: gogpu/wgpu HAL device rendering to an offscreen texture
//     (backend/headless)
//   - noop: headless on the HAL noop device, for CI without a GPU
//     (backend/headless)
package backend
