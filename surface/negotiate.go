// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "github.com/gogpu/gputypes"

// Negotiate picks the configuration for a surface of the given size.
//
// The first sRGB format offered wins, otherwise the first format offered.
// The first present mode and first alpha mode are used, falling back to
// Fifo and Auto when the surface lists none.
func Negotiate(caps Capabilities, width, height uint32) (Config, error) {
	if len(caps.Formats) == 0 {
		return Config{}, ErrNoFormats
	}
	format := caps.Formats[0]
	for _, f := range caps.Formats {
		if IsSRGB(f) {
			format = f
			break
		}
	}

	cfg := Config{
		Format:      format,
		Width:       width,
		Height:      height,
		PresentMode: PresentModeFifo,
		AlphaMode:   AlphaModeAuto,
	}
	if len(caps.PresentModes) > 0 {
		cfg.PresentMode = caps.PresentModes[0]
	}
	if len(caps.AlphaModes) > 0 {
		cfg.AlphaMode = caps.AlphaModes[0]
	}
	return cfg, nil
}

// IsSRGB reports whether f is an sRGB-encoded colour format.
func IsSRGB(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatRGBA8UnormSrgb, gputypes.TextureFormatBGRA8UnormSrgb:
		return true
	default:
		return false
	}
}
