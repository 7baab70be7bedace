// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gfx/surface"
)

// Context owns the GPU device, the presentation surface and the shared
// viewport uniform, and drives registered renderers once per frame.
//
// A Context is not safe for concurrent use. Create it, register renderers
// and draw frames from the same goroutine.
type Context struct {
	opts options
	gpu  *gpu
	surf surface.Surface

	// width and height are the last requested drawable size. configured
	// reports whether the surface and viewport match it.
	width, height uint32
	configured    bool

	viewport  *viewport
	renderers []Renderer

	fence      hal.Fence
	fenceValue uint64
	inflight   []inflightFrame
	frame      uint64

	stats  Stats
	closed bool

	// wrapPass, when set, wraps the frame's render pass before it reaches
	// renderers.
	wrapPass func(Pass) Pass
}

// Stats counts frame driver outcomes.
type Stats struct {
	Presented    uint64 // frames submitted and presented
	Skipped      uint64 // frames not drawn: no texture, unconfigured or minimized surface
	Reconfigured uint64 // surface reconfigurations, including resizes
}

// New negotiates an adapter that can present to surf, opens a device and
// configures surf at its current size.
//
// Cancelling ctx aborts negotiation between steps. All failures are returned
// as *InitError.
func New(ctx context.Context, surf surface.Surface, opts ...Option) (*Context, error) {
	if surf == nil {
		return nil, &InitError{Stage: "surface", Err: ErrNilSurface}
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	g, err := openDevice(ctx, surf, &o)
	if err != nil {
		return nil, err
	}

	c := &Context{opts: o, gpu: g, surf: surf}

	vp, err := newViewport(g.device, g.queue)
	if err != nil {
		g.destroy()
		return nil, &InitError{Stage: "viewport", Err: fmt.Errorf("%w: %v", ErrDeviceCreation, err)}
	}
	c.viewport = vp

	fence, err := g.device.CreateFence()
	if err != nil {
		vp.destroy()
		g.destroy()
		return nil, &InitError{Stage: "fence", Err: fmt.Errorf("%w: %v", ErrDeviceCreation, err)}
	}
	c.fence = fence

	if err := ctx.Err(); err != nil {
		c.releaseShared()
		return nil, &InitError{Stage: "surface", Err: err}
	}

	w, h := surf.Size()
	if err := c.Resize(w, h); err != nil {
		c.releaseShared()
		return nil, &InitError{Stage: "surface", Err: err}
	}
	return c, nil
}

// Register appends r to the draw list and returns its index. Renderers draw
// in registration order.
func (c *Context) Register(r Renderer) int {
	c.renderers = append(c.renderers, r)
	return len(c.renderers) - 1
}

// Renderers returns the number of registered renderers.
func (c *Context) Renderers() int { return len(c.renderers) }

// Resize reconfigures the surface for width×height physical pixels and
// rewrites the viewport uniform. Resizing to the current size does nothing.
//
// A zero dimension (for example a minimized window) is remembered but the
// surface is left untouched; DrawFrame skips frames until a non-zero size
// arrives.
func (c *Context) Resize(width, height uint32) error {
	if c.closed {
		return ErrClosed
	}
	if c.configured && width == c.width && height == c.height {
		return nil
	}
	c.width, c.height = width, height
	if width == 0 || height == 0 {
		c.configured = false
		Logger().Debug("gfx: zero-size resize, rendering suspended", "width", width, "height", height)
		return nil
	}
	return c.configure()
}

// configure applies the current size to the surface and the viewport
// uniform.
func (c *Context) configure() error {
	// The surface texture may still be referenced by queued frames.
	if err := c.waitIdle(); err != nil {
		return err
	}

	cfg := surface.DefaultConfig(c.width, c.height)
	cfg.MaxLatency = c.opts.frameLatency
	if err := c.surf.Configure(c.gpu.device, c.gpu.queue, cfg); err != nil {
		c.configured = false
		return fmt.Errorf("%w: %w", ErrSurfaceConfig, err)
	}
	if err := c.viewport.write(c.width, c.height); err != nil {
		c.configured = false
		return fmt.Errorf("%w: %w", ErrSurfaceConfig, err)
	}
	c.configured = true
	c.stats.Reconfigured++
	Logger().Debug("gfx: surface configured", "width", c.width, "height", c.height)
	return nil
}

// Size returns the drawable size in physical pixels.
func (c *Context) Size() (uint32, uint32) { return c.width, c.height }

// Device returns the GPU device for renderer construction.
func (c *Context) Device() hal.Device { return c.gpu.device }

// Queue returns the GPU queue for renderer construction.
func (c *Context) Queue() hal.Queue { return c.gpu.queue }

// Adapter returns the name of the selected adapter.
func (c *Context) Adapter() string { return c.gpu.adapter }

// ViewportLayout returns the bind group layout of the shared viewport
// uniform. Renderer pipelines place it at group 0.
func (c *Context) ViewportLayout() hal.BindGroupLayout { return c.viewport.layout }

// ViewportBindGroup returns the shared viewport bind group.
func (c *Context) ViewportBindGroup() hal.BindGroup { return c.viewport.bindGroup }

// Stats returns frame driver counters.
func (c *Context) Stats() Stats { return c.stats }

// Close waits for the GPU, destroys registered renderers in reverse
// registration order and then releases the surface, shared resources and
// device. Close is safe to call more than once.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	err := c.waitIdle()
	for i := len(c.renderers) - 1; i >= 0; i-- {
		c.renderers[i].Destroy()
	}
	c.renderers = nil
	c.surf.Unconfigure()
	c.configured = false
	c.releaseShared()
	return err
}

// releaseShared releases the fence, the viewport and the device.
func (c *Context) releaseShared() {
	c.freeInflight()
	if c.fence != nil {
		c.gpu.device.DestroyFence(c.fence)
		c.fence = nil
	}
	if c.viewport != nil {
		c.viewport.destroy()
	}
	c.gpu.destroy()
}

// errFenceTimeout is returned when the GPU does not reach a fence value
// within the configured timeout.
var errFenceTimeout = errors.New("gfx: timed out waiting for GPU")
