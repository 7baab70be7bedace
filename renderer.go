// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Renderer is a pluggable module that records draw commands into the frame's
// render pass.
//
// A renderer owns every GPU object it creates. Constructors take the *Context
// so they can allocate resources and borrow the shared viewport layout;
// construction is not part of the interface.
type Renderer interface {
	// Render records zero or more draw calls into pass. It is called once per
	// frame, in registration order. Pipeline, bind group and buffer bindings
	// left by a previous renderer must not be relied on.
	Render(state FrameState, pass Pass)

	// Destroy releases the renderer's GPU resources. The Context calls it
	// during Close, before its own resources are released.
	Destroy()
}

// Pass is the subset of hal.RenderPassEncoder available to renderers.
type Pass interface {
	SetPipeline(pipeline hal.RenderPipeline)
	SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32)
	SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64)
	SetIndexBuffer(buffer hal.Buffer, format gputypes.IndexFormat, offset uint64)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

// FrameState is the read-only view of the Context passed to renderers for
// one frame.
type FrameState struct {
	// Width and Height are the configured surface size in physical pixels.
	Width, Height uint32

	// Viewport is the shared viewport bind group, bound at group 0.
	Viewport hal.BindGroup

	// Frame is the index of the frame being recorded.
	Frame uint64
}
