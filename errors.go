// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"
	"fmt"
)

// Package errors.
var (
	// ErrNoAdapter is returned when no GPU adapter compatible with the
	// surface exists.
	ErrNoAdapter = errors.New("gfx: no compatible GPU adapter")

	// ErrDeviceCreation is returned when opening the logical device fails.
	ErrDeviceCreation = errors.New("gfx: device creation failed")

	// ErrSurfaceConfig is returned when the surface rejects its configuration.
	ErrSurfaceConfig = errors.New("gfx: surface configuration failed")

	// ErrShader is returned when the shader program is missing or invalid.
	ErrShader = errors.New("gfx: invalid shader program")

	// ErrNilSurface is returned when New is called without a surface.
	ErrNilSurface = errors.New("gfx: nil surface")

	// ErrClosed is returned by operations on a closed Context.
	ErrClosed = errors.New("gfx: context closed")
)

// InitError reports an unrecoverable failure while creating a Context.
// The process is expected to exit after receiving one.
type InitError struct {
	// Stage names the initialization step that failed.
	Stage string
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("gfx: init %s: %v", e.Stage, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// SurfaceError reports that a frame was skipped because no surface texture
// could be acquired. It is scoped to a single DrawFrame call; the next call
// tries again.
type SurfaceError struct {
	// Reconfigured is true when the surface was reconfigured and acquisition
	// retried before giving up.
	Reconfigured bool
	Err          error
}

func (e *SurfaceError) Error() string {
	if e.Reconfigured {
		return fmt.Sprintf("gfx: acquire surface texture (after reconfigure): %v", e.Err)
	}
	return fmt.Sprintf("gfx: acquire surface texture: %v", e.Err)
}

func (e *SurfaceError) Unwrap() error { return e.Err }
