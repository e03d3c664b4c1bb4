// Package window is the on-screen host: a GLFW window presenting through a
// wgpu-native surface.
//
// Importing the package registers the "window" host with package backend.
// GLFW must be driven from the main OS thread, so callers lock it with
// runtime.LockOSThread before opening the host. The host needs cgo; without
// it the package compiles empty and the host is not registered.
//
// Resources are released as soon as they are retired. wgpu-native keeps
// objects referenced by submitted command buffers alive until the GPU is
// done with them.
package window
