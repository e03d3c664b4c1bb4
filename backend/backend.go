package backend

import (
	"errors"

	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/rectloop/surface"
)

// Host names.
const (
	Window   = "window"
	Headless = "headless"
	Noop     = "noop"
)

// Common backend errors.
var (
	// ErrNotAvailable is returned when a requested host is not registered.
	ErrNotAvailable = errors.New("backend: not available")

	// ErrNoHost is returned by Default when no registered host could open.
	ErrNoHost = errors.New("backend: no host could be opened")
)

// Options configures a host when it is opened.
type Options struct {
	// Title is the window title.
	Title string

	// Width and Height are the initial client area in pixels.
	Width  uint32
	Height uint32

	// SPIRV makes HAL hosts compile WGSL to SPIR-V before creating
	// shader modules.
	SPIRV bool

	// PresentMode is preferred over the platform default when supported.
	PresentMode surface.PresentMode
}

// Host is a platform: device, surface and event source.
//
// The surface returned by Surface is handed to a renderer, which closes it.
// Close releases the device and platform resources and must be called after
// the renderer is closed.
type Host interface {
	// Name returns the registered host name.
	Name() string

	Device() gpucore.Device
	Surface() surface.Surface

	// PollEvents processes pending platform events without blocking and
	// returns them in arrival order.
	PollEvents() []Event

	Close()
}

// Event is a platform event delivered by Host.PollEvents.
type Event interface {
	event()
}

// ResizeEvent reports a new client area in physical pixels.
type ResizeEvent struct {
	Width  uint32
	Height uint32
}

// ScaleEvent reports a content scale change and the resulting client area.
type ScaleEvent struct {
	Scale  float32
	Width  uint32
	Height uint32
}

// CloseEvent reports that the user asked to quit (window closed or Escape).
type CloseEvent struct{}

func (ResizeEvent) event() {}
func (ScaleEvent) event()  {}
func (CloseEvent) event()  {}
