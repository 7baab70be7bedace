// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"time"

	"github.com/gogpu/wgpu/hal"
)

// PowerPreference selects which class of adapter New prefers.
type PowerPreference uint8

const (
	// PowerHighPerformance prefers discrete GPUs over integrated ones.
	PowerHighPerformance PowerPreference = iota

	// PowerLowPower prefers integrated GPUs over discrete ones.
	PowerLowPower
)

// DefaultFrameLatency is the number of frames allowed in flight on the GPU.
const DefaultFrameLatency = 2

// Option configures a Context during creation.
//
// Example:
//
//	gc, err := gfx.New(ctx, surf,
//	    gfx.WithPowerPreference(gfx.PowerLowPower),
//	    gfx.WithFrameLatency(1),
//	)
type Option func(*options)

// options holds optional configuration for Context creation.
type options struct {
	backend      hal.Backend
	power        PowerPreference
	frameLatency uint32
	clearColor   Color
	fenceTimeout time.Duration
}

// defaultOptions returns the default context options.
func defaultOptions() options {
	return options{
		backend:      nil, // Resolved to the registered Vulkan backend in New.
		power:        PowerHighPerformance,
		frameLatency: DefaultFrameLatency,
		clearColor:   Black,
		fenceTimeout: 5 * time.Second,
	}
}

// WithBackend sets the HAL backend used to create the GPU instance.
// Use this to inject the noop backend in tests or headless runs.
//
// Example:
//
//	gc, err := gfx.New(ctx, surf, gfx.WithBackend(noop.API{}))
func WithBackend(b hal.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithPowerPreference sets the adapter class preferred during negotiation.
func WithPowerPreference(p PowerPreference) Option {
	return func(o *options) {
		o.power = p
	}
}

// WithFrameLatency bounds the number of submitted frames the GPU may still
// be working on. Values below 1 are ignored.
func WithFrameLatency(n uint32) Option {
	return func(o *options) {
		if n >= 1 {
			o.frameLatency = n
		}
	}
}

// WithClearColor sets the color the frame pass clears to. The default is
// opaque black.
func WithClearColor(c Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithFenceTimeout bounds how long a frame waits for an older frame to
// finish on the GPU.
func WithFenceTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.fenceTimeout = d
		}
	}
}

// QuadOption configures a QuadRenderer during creation.
type QuadOption func(*quadOptions)

// quadOptions holds optional configuration for QuadRenderer creation.
type quadOptions struct {
	capacity int
	shader   string
}

// DefaultQuadCapacity is the instance buffer capacity of a QuadRenderer.
const DefaultQuadCapacity = 128

func defaultQuadOptions() quadOptions {
	return quadOptions{
		capacity: DefaultQuadCapacity,
		shader:   quadShaderSource,
	}
}

// WithQuadCapacity sets the number of instances the renderer's instance
// buffer holds. Quads beyond the capacity are dropped at draw time.
func WithQuadCapacity(n int) QuadOption {
	return func(o *quadOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithQuadShader replaces the built-in WGSL program. The program must define
// the vs_main and fs_main entry points and accept the quad vertex layout.
func WithQuadShader(wgsl string) QuadOption {
	return func(o *quadOptions) {
		o.shader = wgsl
	}
}
