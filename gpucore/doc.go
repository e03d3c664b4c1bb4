// Package gpucore defines the GPU capability contract used by the frame
// controller and drawable pipelines.
//
// A [Device] hides the concrete GPU API (gogpu/wgpu HAL, wgpu-native) behind
// the handful of operations a forward renderer needs: create a buffer with
// initial contents, create a render pipeline, record one render pass and
// submit it. Backends under backend/ implement Device; everything above
// gpucore is backend-agnostic.
//
// # Resource lifetime
//
// Resources are released explicitly. A resource that may still be referenced
// by submitted work is handed to [Device.Retire] instead, and the device
// frees it once that work has completed.
//
// # Shaders
//
// Pipelines are described with WGSL source. [CompileWGSL] compiles WGSL to
// SPIR-V words through gogpu/naga for backends that consume SPIR-V.
package gpucore
