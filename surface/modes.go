// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

// PresentMode controls how acquired frames are queued for display.
type PresentMode uint8

const (
	// PresentModeFifo waits for vertical blank. Always supported.
	PresentModeFifo PresentMode = iota

	// PresentModeFifoRelaxed is Fifo that may tear when a frame is late.
	PresentModeFifoRelaxed

	// PresentModeMailbox replaces the queued frame without tearing.
	PresentModeMailbox

	// PresentModeImmediate presents without waiting and may tear.
	PresentModeImmediate
)

// String returns the mode name.
func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "fifo"
	case PresentModeFifoRelaxed:
		return "fifo-relaxed"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeImmediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// ParsePresentMode parses a mode name as returned by String.
func ParsePresentMode(s string) (PresentMode, bool) {
	for m := PresentModeFifo; m <= PresentModeImmediate; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return PresentModeFifo, false
}

// AlphaMode controls how the compositor treats the alpha channel.
type AlphaMode uint8

const (
	AlphaModeAuto AlphaMode = iota
	AlphaModeOpaque
	AlphaModePremultiplied
	AlphaModeUnpremultiplied
	AlphaModeInherit
)

// String returns the mode name.
func (m AlphaMode) String() string {
	switch m {
	case AlphaModeAuto:
		return "auto"
	case AlphaModeOpaque:
		return "opaque"
	case AlphaModePremultiplied:
		return "premultiplied"
	case AlphaModeUnpremultiplied:
		return "unpremultiplied"
	case AlphaModeInherit:
		return "inherit"
	default:
		return "unknown"
	}
}
