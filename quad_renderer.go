// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// QuadRenderer draws solid-color axis-aligned rectangles with one instanced
// draw call per frame.
//
// Quads are positioned in physical pixels with the origin at the top-left
// corner of the surface. At most Capacity quads are drawn per frame; quads
// beyond that are dropped and counted by Overflow.
type QuadRenderer struct {
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	vertexBuf   hal.Buffer
	indexBuf    hal.Buffer
	instanceBuf hal.Buffer

	capacity int
	quads    []Quad
	scratch  []byte

	overflow    atomic.Uint64
	overflowing bool
}

// NewQuadRenderer validates the quad shader and creates the pipeline and
// buffers on c's device. The pipeline layout borrows c's viewport layout at
// group 0.
func NewQuadRenderer(c *Context, opts ...QuadOption) (*QuadRenderer, error) {
	o := defaultQuadOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateShader(o.shader); err != nil {
		return nil, err
	}

	r := &QuadRenderer{
		device:   c.Device(),
		queue:    c.Queue(),
		capacity: o.capacity,
		scratch:  make([]byte, 0, o.capacity*InstanceSize),
	}
	if err := r.createPipeline(o.shader, c.ViewportLayout()); err != nil {
		r.Destroy()
		return nil, err
	}
	if err := r.createBuffers(); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *QuadRenderer) createPipeline(src string, viewportLayout hal.BindGroupLayout) error {
	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "quad_shader",
		Source: hal.ShaderSource{WGSL: src},
	})
	if err != nil {
		return fmt.Errorf("%w: compile quad shader: %v", ErrShader, err)
	}
	r.shader = shader

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "quad_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{viewportLayout},
	})
	if err != nil {
		return fmt.Errorf("create quad pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "quad_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: vertexEntryPoint,
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCW,
			CullMode:  gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create quad pipeline: %w", err)
	}
	r.pipeline = pipeline
	return nil
}

// quadVertexLayout describes slot 0 (unit quad corners, per vertex) and
// slot 1 (quad instances, per instance).
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: VertexSize,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // uv
			},
		},
		{
			ArrayStride: InstanceSize,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 2},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 3},  // scale
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 4}, // color
			},
		},
	}
}

func (r *QuadRenderer) createBuffers() error {
	vertices := vertexBytes()
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_vertices",
		Size:  uint64(len(vertices)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create quad vertex buffer: %w", err)
	}
	r.vertexBuf = buf
	if err := r.queue.WriteBuffer(buf, 0, vertices); err != nil {
		return fmt.Errorf("upload quad vertices: %w", err)
	}

	indices := indexBytes()
	buf, err = r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_indices",
		Size:  uint64(len(indices)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create quad index buffer: %w", err)
	}
	r.indexBuf = buf
	if err := r.queue.WriteBuffer(buf, 0, indices); err != nil {
		return fmt.Errorf("upload quad indices: %w", err)
	}

	buf, err = r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_instances",
		Size:  uint64(r.capacity * InstanceSize),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create quad instance buffer: %w", err)
	}
	r.instanceBuf = buf
	return nil
}

// Add appends q and returns its index. Quads draw in insertion order, so
// later quads cover earlier ones.
func (r *QuadRenderer) Add(q Quad) int {
	r.quads = append(r.quads, q)
	return len(r.quads) - 1
}

// Set replaces the quad at index i. It panics if i is out of range.
func (r *QuadRenderer) Set(i int, q Quad) {
	r.quads[i] = q
}

// Clear removes all quads.
func (r *QuadRenderer) Clear() {
	r.quads = r.quads[:0]
}

// Len returns the number of quads, including any beyond capacity.
func (r *QuadRenderer) Len() int { return len(r.quads) }

// Quads returns the quad list. The slice is owned by the renderer.
func (r *QuadRenderer) Quads() []Quad { return r.quads }

// Capacity returns the maximum number of quads drawn per frame.
func (r *QuadRenderer) Capacity() int { return r.capacity }

// Overflow returns the total number of quads dropped because the list
// exceeded capacity, summed over all frames.
func (r *QuadRenderer) Overflow() uint64 { return r.overflow.Load() }

// Render uploads the quads as instances and records one indexed, instanced
// draw. Nothing is recorded when there are no quads or the upload fails.
func (r *QuadRenderer) Render(state FrameState, pass Pass) {
	quads := r.quads
	if dropped := len(quads) - r.capacity; dropped > 0 {
		r.overflow.Add(uint64(dropped))
		if !r.overflowing {
			Logger().Warn("gfx: quad capacity exceeded, dropping quads",
				"quads", len(quads), "capacity", r.capacity, "dropped", dropped)
		}
		r.overflowing = true
		quads = quads[:r.capacity]
	} else {
		r.overflowing = false
	}
	if len(quads) == 0 || state.Width == 0 || state.Height == 0 {
		return
	}

	r.scratch = appendInstances(r.scratch[:0], quads, state.Width, state.Height)
	if err := r.queue.WriteBuffer(r.instanceBuf, 0, r.scratch); err != nil {
		// Drawing would show the previous frame's instances.
		Logger().Warn("gfx: quad instance upload failed, skipping draw", "error", err)
		return
	}

	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, state.Viewport, nil)
	pass.SetVertexBuffer(0, r.vertexBuf, 0)
	pass.SetVertexBuffer(1, r.instanceBuf, 0)
	pass.SetIndexBuffer(r.indexBuf, gputypes.IndexFormatUint16, 0)
	pass.DrawIndexed(uint32(len(QuadIndices)), uint32(len(quads)), 0, 0, 0)
}

// Destroy releases all GPU resources in reverse creation order.
func (r *QuadRenderer) Destroy() {
	if r.device == nil {
		return
	}
	if r.instanceBuf != nil {
		r.device.DestroyBuffer(r.instanceBuf)
		r.instanceBuf = nil
	}
	if r.indexBuf != nil {
		r.device.DestroyBuffer(r.indexBuf)
		r.indexBuf = nil
	}
	if r.vertexBuf != nil {
		r.device.DestroyBuffer(r.vertexBuf)
		r.vertexBuf = nil
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}
