// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
)

// Acquisition failure sentinels. An *AcquireError matches the sentinel of
// its Kind with errors.Is.
var (
	ErrLost        = errors.New("surface: lost")
	ErrOutOfMemory = errors.New("surface: out of memory")
	ErrOutdated    = errors.New("surface: outdated")
	ErrTimeout     = errors.New("surface: timeout")
)

// ErrNoFormats is returned by Negotiate when the surface offers no format.
var ErrNoFormats = errors.New("surface: no supported formats")

// Kind classifies an acquisition failure.
type Kind uint8

const (
	// Lost means the surface must be reconfigured.
	Lost Kind = iota + 1

	// OutOfMemory is unrecoverable.
	OutOfMemory

	// Outdated means the surface changed underneath the configuration,
	// typically during a resize. The frame is skipped.
	Outdated

	// Timeout means no target became available in time.
	Timeout
)

// Sentinel returns the sentinel error for k, or nil for an unknown kind.
func (k Kind) Sentinel() error {
	switch k {
	case Lost:
		return ErrLost
	case OutOfMemory:
		return ErrOutOfMemory
	case Outdated:
		return ErrOutdated
	case Timeout:
		return ErrTimeout
	default:
		return nil
	}
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Lost:
		return "lost"
	case OutOfMemory:
		return "out of memory"
	case Outdated:
		return "outdated"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// AcquireError reports why a frame could not be acquired.
type AcquireError struct {
	Kind Kind

	// Err is the backend error, if any.
	Err error
}

// NewAcquireError returns an *AcquireError of kind k wrapping cause.
func NewAcquireError(k Kind, cause error) *AcquireError {
	return &AcquireError{Kind: k, Err: cause}
}

func (e *AcquireError) Error() string {
	if e.Err != nil {
		return "surface: acquire: " + e.Kind.String() + ": " + e.Err.Error()
	}
	return "surface: acquire: " + e.Kind.String()
}

// Unwrap returns the backend error.
func (e *AcquireError) Unwrap() error { return e.Err }

// Is matches the sentinel error of e.Kind.
func (e *AcquireError) Is(target error) bool {
	s := e.Kind.Sentinel()
	return s != nil && target == s
}

// KindOf extracts the acquisition kind from err.
func KindOf(err error) (Kind, bool) {
	var ae *AcquireError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	for _, k := range []Kind{Lost, OutOfMemory, Outdated, Timeout} {
		if errors.Is(err, k.Sentinel()) {
			return k, true
		}
	}
	return 0, false
}
