// Package headless runs rectloop on a gogpu/wgpu HAL device without a
// window.
//
// [Device] implements gpucore.Device on any HAL device: one opened on a
// Vulkan adapter ([Open]), the noop device ([OpenNoop]), a caller-owned
// device ([Wrap]), or one shared by a host application through gpucontext
// ([FromProvider]).
//
// [Surface] is an offscreen target with swapchain-like acquisition rules.
// Its contents can be read back with [Surface.Snapshot], and acquisition
// failures can be injected with [Surface.InjectFault] to exercise recovery
// paths.
//
// Importing the package registers two hosts with the backend registry:
// "headless" (Vulkan) and "noop".
package headless
