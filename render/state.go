// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// State is the surface configuration state of a Renderer.
type State uint8

const (
	// StateUnconfigured means no configuration has been applied yet.
	StateUnconfigured State = iota

	// StateConfigured means frames can be acquired.
	StateConfigured

	// StateReconfiguring means a new configuration is pending. A failed
	// resize leaves the renderer here and the next Render retries it.
	StateReconfiguring

	// StateFatal is terminal.
	StateFatal
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfigured:
		return "configured"
	case StateReconfiguring:
		return "reconfiguring"
	case StateFatal:
		return "fatal"
	default:
		return "unknown"
	}
}
