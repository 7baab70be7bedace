// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/gfx/surface"
)

// scriptedSurface wraps an Offscreen surface, counts calls and can inject
// Configure and Acquire errors.
type scriptedSurface struct {
	*surface.Offscreen

	incompatible  bool
	configureErrs []error
	acquireErrs   []error

	configures int
	lastConfig surface.Config
	acquires   int
	presents   int
	discards   int
}

func newScriptedSurface(width, height uint32) *scriptedSurface {
	return &scriptedSurface{Offscreen: surface.NewOffscreen(width, height)}
}

func (s *scriptedSurface) Compatible(a *hal.ExposedAdapter) bool {
	return !s.incompatible && s.Offscreen.Compatible(a)
}

func (s *scriptedSurface) Configure(device hal.Device, queue hal.Queue, config surface.Config) error {
	s.configures++
	s.lastConfig = config
	if len(s.configureErrs) > 0 {
		err := s.configureErrs[0]
		s.configureErrs = s.configureErrs[1:]
		if err != nil {
			return err
		}
	}
	return s.Offscreen.Configure(device, queue, config)
}

func (s *scriptedSurface) Acquire() (surface.Texture, error) {
	s.acquires++
	if len(s.acquireErrs) > 0 {
		err := s.acquireErrs[0]
		s.acquireErrs = s.acquireErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return s.Offscreen.Acquire()
}

func (s *scriptedSurface) Present(tex surface.Texture) error {
	s.presents++
	return s.Offscreen.Present(tex)
}

func (s *scriptedSurface) Discard(tex surface.Texture) {
	s.discards++
	s.Offscreen.Discard(tex)
}

// failingQueue is a queue whose buffer uploads fail.
type failingQueue struct {
	hal.Queue
	err error
}

func (q failingQueue) WriteBuffer(hal.Buffer, uint64, []byte) error {
	return q.err
}

// newTestContext creates a Context on the noop backend and closes it when
// the test ends.
func newTestContext(t *testing.T, surf surface.Surface, opts ...Option) *Context {
	t.Helper()
	opts = append([]Option{WithBackend(noop.API{})}, opts...)
	c, err := New(context.Background(), surf, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

type drawCall struct {
	indexCount    uint32
	instanceCount uint32
}

// recordingPass forwards to the frame's render pass and records the calls.
type recordingPass struct {
	inner Pass

	passes     int
	calls      []string
	draws      []drawCall
	bindGroups []hal.BindGroup
	indexFmt   gputypes.IndexFormat
}

// attach makes c route every frame's pass through p.
func (p *recordingPass) attach(c *Context) {
	c.wrapPass = func(inner Pass) Pass {
		p.inner = inner
		p.passes++
		return p
	}
}

func (p *recordingPass) SetPipeline(pipeline hal.RenderPipeline) {
	p.calls = append(p.calls, "pipeline")
	p.inner.SetPipeline(pipeline)
}

func (p *recordingPass) SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32) {
	p.calls = append(p.calls, "bindgroup")
	p.bindGroups = append(p.bindGroups, group)
	p.inner.SetBindGroup(index, group, offsets)
}

func (p *recordingPass) SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64) {
	p.calls = append(p.calls, "vertex")
	p.inner.SetVertexBuffer(slot, buffer, offset)
}

func (p *recordingPass) SetIndexBuffer(buffer hal.Buffer, format gputypes.IndexFormat, offset uint64) {
	p.calls = append(p.calls, "index")
	p.indexFmt = format
	p.inner.SetIndexBuffer(buffer, format, offset)
}

func (p *recordingPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.calls = append(p.calls, "draw")
	p.draws = append(p.draws, drawCall{indexCount: indexCount, instanceCount: instanceCount})
	p.inner.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

// orderRenderer logs its Render and Destroy calls by id.
type orderRenderer struct {
	id        int
	rendered  *[]int
	destroyed *[]int
	states    []FrameState
}

func (r *orderRenderer) Render(state FrameState, _ Pass) {
	r.states = append(r.states, state)
	*r.rendered = append(*r.rendered, r.id)
}

func (r *orderRenderer) Destroy() {
	*r.destroyed = append(*r.destroyed, r.id)
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}
