// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Surface is a presentable render target bound to a window or an offscreen
// image.
//
// The lifecycle per frame is Acquire → render into Texture.View → Present
// (or Discard on failure). Configure must succeed before the first Acquire
// and again after the underlying window changes size.
//
// Surfaces are NOT thread-safe. They are driven from the goroutine that
// runs the frame loop.
type Surface interface {
	// Compatible reports whether the surface can be presented by a device
	// opened on the given adapter.
	Compatible(adapter *hal.ExposedAdapter) bool

	// Size returns the current physical size of the underlying window.
	Size() (width, height uint32)

	// Configure (re)creates the swapchain resources for the given
	// configuration. Previously acquired textures become invalid.
	Configure(device hal.Device, queue hal.Queue, config Config) error

	// Unconfigure releases all resources created by Configure.
	Unconfigure()

	// Acquire returns the next texture to render into. It returns
	// ErrOutdated or ErrLost when the surface must be reconfigured.
	Acquire() (Texture, error)

	// Present queues the acquired texture for display.
	Present(tex Texture) error

	// Discard returns an acquired texture without presenting it.
	Discard(tex Texture)
}

// Texture is an image acquired from a Surface for one frame.
type Texture interface {
	// View returns the color attachment view for the frame's render pass.
	View() hal.TextureView

	// Size returns the texture size in pixels.
	Size() (width, height uint32)
}

// PresentMode selects how presented images are queued for display.
type PresentMode uint8

const (
	// PresentModeFifo waits for vertical blank. No tearing.
	PresentModeFifo PresentMode = iota

	// PresentModeMailbox replaces the queued image. No tearing.
	PresentModeMailbox

	// PresentModeImmediate presents without waiting. May tear.
	PresentModeImmediate
)

// String returns the mode name.
func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "fifo"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeImmediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// AlphaMode selects how the compositor treats the alpha channel.
type AlphaMode uint8

const (
	// AlphaModeOpaque ignores alpha; the window is fully opaque.
	AlphaModeOpaque AlphaMode = iota

	// AlphaModePremultiplied composites with premultiplied alpha.
	AlphaModePremultiplied
)

// Config describes a surface configuration.
type Config struct {
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	PresentMode PresentMode
	AlphaMode   AlphaMode

	// MaxLatency is the number of frames that may be queued for
	// presentation.
	MaxLatency uint32
}

// DefaultConfig returns the presentation configuration used by gfx:
// BGRA8Unorm, FIFO, opaque alpha, two frames of latency.
func DefaultConfig(width, height uint32) Config {
	return Config{
		Width:       width,
		Height:      height,
		Format:      gputypes.TextureFormatBGRA8Unorm,
		PresentMode: PresentModeFifo,
		AlphaMode:   AlphaModeOpaque,
		MaxLatency:  2,
	}
}

// Surface errors.
var (
	// ErrOutdated is returned by Acquire when the surface no longer matches
	// its window (typically after a resize) and must be reconfigured.
	ErrOutdated = errors.New("surface: outdated")

	// ErrLost is returned by Acquire when the surface was lost and must be
	// reconfigured.
	ErrLost = errors.New("surface: lost")

	// ErrNotConfigured is returned when Acquire is called before Configure.
	ErrNotConfigured = errors.New("surface: not configured")

	// ErrZeroSize is returned by Configure for a zero width or height.
	ErrZeroSize = errors.New("surface: zero size")

	// ErrAlreadyAcquired is returned when Acquire is called while a texture
	// is still outstanding.
	ErrAlreadyAcquired = errors.New("surface: texture already acquired")

	// ErrForeignTexture is returned when Present receives a texture that was
	// not acquired from the surface.
	ErrForeignTexture = errors.New("surface: texture not acquired from this surface")

	// ErrReadbackTimeout is returned by Present when the GPU does not finish
	// the frame copy within the readback timeout.
	ErrReadbackTimeout = errors.New("surface: timed out waiting for frame readback")
)

// NeedsReconfigure reports whether err means the surface must be
// reconfigured before the next Acquire.
func NeedsReconfigure(err error) bool {
	return errors.Is(err, ErrOutdated) || errors.Is(err, ErrLost)
}
