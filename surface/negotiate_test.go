// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name   string
		caps   Capabilities
		format gputypes.TextureFormat
		mode   PresentMode
		alpha  AlphaMode
	}{
		{
			name: "prefers sRGB",
			caps: Capabilities{
				Formats:      []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb},
				PresentModes: []PresentMode{PresentModeMailbox, PresentModeFifo},
				AlphaModes:   []AlphaMode{AlphaModeOpaque},
			},
			format: gputypes.TextureFormatBGRA8UnormSrgb,
			mode:   PresentModeMailbox,
			alpha:  AlphaModeOpaque,
		},
		{
			name: "falls back to first format",
			caps: Capabilities{
				Formats: []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm},
			},
			format: gputypes.TextureFormatRGBA8Unorm,
			mode:   PresentModeFifo,
			alpha:  AlphaModeAuto,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Negotiate(tt.caps, 800, 600)
			if err != nil {
				t.Fatalf("Negotiate: %v", err)
			}
			if cfg.Format != tt.format {
				t.Errorf("Format = %v, want %v", cfg.Format, tt.format)
			}
			if cfg.PresentMode != tt.mode || cfg.AlphaMode != tt.alpha {
				t.Errorf("modes = %v/%v, want %v/%v", cfg.PresentMode, cfg.AlphaMode, tt.mode, tt.alpha)
			}
			if cfg.Width != 800 || cfg.Height != 600 {
				t.Errorf("size = %dx%d, want 800x600", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestNegotiateNoFormats(t *testing.T) {
	if _, err := Negotiate(Capabilities{}, 1, 1); !errors.Is(err, ErrNoFormats) {
		t.Errorf("err = %v, want ErrNoFormats", err)
	}
}

func TestConfigResized(t *testing.T) {
	cfg := Config{Format: gputypes.TextureFormatBGRA8UnormSrgb, Width: 800, Height: 600, PresentMode: PresentModeMailbox}
	got := cfg.Resized(801, 600)
	if got.Width != 801 || got.Height != 600 || got.Format != cfg.Format || got.PresentMode != cfg.PresentMode {
		t.Errorf("Resized = %+v", got)
	}
	if cfg.Width != 800 {
		t.Error("Resized modified the receiver")
	}
	if got.Degenerate() {
		t.Error("801x600 is not degenerate")
	}
	if !cfg.Resized(0, 600).Degenerate() || !cfg.Resized(800, 0).Degenerate() {
		t.Error("zero dimension should be degenerate")
	}
}

func TestPresentModeParse(t *testing.T) {
	for m := PresentModeFifo; m <= PresentModeImmediate; m++ {
		got, ok := ParsePresentMode(m.String())
		if !ok || got != m {
			t.Errorf("ParsePresentMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParsePresentMode("vsync"); ok {
		t.Error("unknown mode parsed")
	}
}
