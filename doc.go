// Package rectloop is a real-time rendering loop that draws GPU-instanced
// rectangles.
//
// # Overview
//
// A frame is acquire → record → submit → present. The frame controller
// ([github.com/gogpu/rectloop/render.Renderer]) owns a presentable surface
// and a list of drawable pipelines. Each frame it acquires a target, opens
// one render pass that clears to the background colour, asks every pipeline
// for its draw items and records them, then submits and presents.
//
// # Packages
//
//   - gpucore: backend-agnostic GPU capability contract (buffers, pipelines,
//     command recording).
//   - surface: presentable surface contract, configuration negotiation and
//     acquisition errors.
//   - render: frame controller, draw items and draw techniques.
//   - pipelines/rect: the instanced rectangle pipeline.
//   - backend: host registry. backend/headless runs on gogpu/wgpu HAL with an
//     offscreen target, backend/window opens a glfw window presented through
//     wgpu-native.
//   - app: the host loop that ties events, ticks and rendering together.
//
// # Logging
//
// rectloop is silent by default. Call [SetLogger] to route diagnostics to
// any [log/slog] handler.
package rectloop

// Version is the module version reported by the CLI.
const Version = "0.3.0"
