// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gfx/surface"
)

// inflightFrame is a submitted command buffer awaiting its fence value.
type inflightFrame struct {
	cmdBuf hal.CommandBuffer
	value  uint64
}

// DrawFrame runs one frame: acquire a surface texture, record one render pass
// that clears the target and calls every renderer in order, submit and
// present.
//
// If the surface is outdated or lost it is reconfigured and the acquire is
// retried once. When that fails too, the frame is skipped and a
// *SurfaceError is returned; the caller may keep drawing. A surface left
// unconfigured by a failed configuration is configured again on the next
// call, so drawing resumes once the surface accepts it. Any failure after
// the texture is acquired discards it, so a frame is either fully presented
// or not at all.
func (c *Context) DrawFrame() error {
	if c.closed {
		return ErrClosed
	}
	if !c.configured {
		if c.width == 0 || c.height == 0 {
			// Minimized; nothing to draw into.
			c.stats.Skipped++
			return nil
		}
		// An earlier configure failed. Try again so a transient failure
		// does not stop rendering for good.
		if err := c.configure(); err != nil {
			c.stats.Skipped++
			return &SurfaceError{Reconfigured: true, Err: err}
		}
	}

	tex, err := c.acquire()
	if err != nil {
		c.stats.Skipped++
		return err
	}

	if err := c.record(tex); err != nil {
		c.surf.Discard(tex)
		return err
	}
	if err := c.surf.Present(tex); err != nil {
		return fmt.Errorf("gfx: present: %w", err)
	}
	c.frame++
	c.stats.Presented++
	return nil
}

// acquire returns the next surface texture, reconfiguring and retrying once
// when the surface reports it is outdated or lost.
func (c *Context) acquire() (surface.Texture, error) {
	tex, err := c.surf.Acquire()
	if err == nil {
		return tex, nil
	}
	if !surface.NeedsReconfigure(err) {
		return nil, &SurfaceError{Err: err}
	}

	Logger().Debug("gfx: surface needs reconfigure", "error", err)
	// Pick up a window size change that has not been delivered as a
	// resize yet.
	if w, h := c.surf.Size(); w != 0 && h != 0 {
		c.width, c.height = w, h
	}
	if cerr := c.configure(); cerr != nil {
		return nil, &SurfaceError{Reconfigured: true, Err: cerr}
	}

	tex, err = c.surf.Acquire()
	if err != nil {
		return nil, &SurfaceError{Reconfigured: true, Err: err}
	}
	return tex, nil
}

// record encodes and submits the frame's render pass into tex.
func (c *Context) record(tex surface.Texture) error {
	device := c.gpu.device

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "gfx_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("gfx: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("gfx_frame"); err != nil {
		return fmt.Errorf("gfx: begin encoding: %w", err)
	}

	bg := c.opts.clearColor
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "gfx_frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    tex.View(),
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: float64(bg.R), G: float64(bg.G), B: float64(bg.B), A: float64(bg.A),
			},
		}},
	})

	state := FrameState{
		Width:    c.width,
		Height:   c.height,
		Viewport: c.viewport.bindGroup,
		Frame:    c.frame,
	}
	var pass Pass = rp
	if c.wrapPass != nil {
		pass = c.wrapPass(rp)
	}
	for _, r := range c.renderers {
		r.Render(state, pass)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("gfx: end encoding: %w", err)
	}

	if err := c.throttle(); err != nil {
		device.FreeCommandBuffer(cmdBuf)
		return err
	}

	c.fenceValue++
	if err := c.gpu.queue.Submit([]hal.CommandBuffer{cmdBuf}, c.fence, c.fenceValue); err != nil {
		device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("gfx: submit: %w", err)
	}
	c.inflight = append(c.inflight, inflightFrame{cmdBuf: cmdBuf, value: c.fenceValue})
	return nil
}

// throttle blocks until fewer than frameLatency frames are in flight.
func (c *Context) throttle() error {
	latency := int(c.opts.frameLatency)
	for len(c.inflight) >= latency {
		if err := c.waitFor(c.inflight[0].value); err != nil {
			return err
		}
	}
	return nil
}

// waitIdle waits until every submitted frame has completed.
func (c *Context) waitIdle() error {
	if len(c.inflight) == 0 {
		return nil
	}
	return c.waitFor(c.inflight[len(c.inflight)-1].value)
}

// waitFor waits for the fence to reach value and frees the command buffers
// of every frame up to it.
func (c *Context) waitFor(value uint64) error {
	ok, err := c.gpu.device.Wait(c.fence, value, c.opts.fenceTimeout)
	if err != nil {
		return fmt.Errorf("gfx: wait for frame fence: %w", err)
	}
	if !ok {
		return errFenceTimeout
	}
	n := 0
	for n < len(c.inflight) && c.inflight[n].value <= value {
		c.gpu.device.FreeCommandBuffer(c.inflight[n].cmdBuf)
		n++
	}
	c.inflight = append(c.inflight[:0], c.inflight[n:]...)
	return nil
}

// freeInflight releases command buffers without waiting. Used on teardown
// after waitIdle, or when the device is being destroyed anyway.
func (c *Context) freeInflight() {
	for _, f := range c.inflight {
		c.gpu.device.FreeCommandBuffer(f.cmdBuf)
	}
	c.inflight = nil
}
