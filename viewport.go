// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// viewportUniformSize is the size of the viewport uniform:
// vec2<f32> size, f32 aspect, f32 padding.
const viewportUniformSize = 16

// viewport owns the uniform buffer describing the surface size, shared by
// every renderer at bind group 0.
type viewport struct {
	device    hal.Device
	queue     hal.Queue
	layout    hal.BindGroupLayout
	buffer    hal.Buffer
	bindGroup hal.BindGroup

	// data mirrors the last bytes uploaded to buffer.
	data [viewportUniformSize]byte
}

func newViewport(device hal.Device, queue hal.Queue) (*viewport, error) {
	v := &viewport{device: device, queue: queue}

	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gfx_viewport_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create viewport layout: %w", err)
	}
	v.layout = layout

	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gfx_viewport_uniform",
		Size:  viewportUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		v.destroy()
		return nil, fmt.Errorf("create viewport buffer: %w", err)
	}
	v.buffer = buf

	bg, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "gfx_viewport_bind",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: viewportUniformSize,
			}},
		},
	})
	if err != nil {
		v.destroy()
		return nil, fmt.Errorf("create viewport bind group: %w", err)
	}
	v.bindGroup = bg
	return v, nil
}

// write uploads the surface size.
func (v *viewport) write(width, height uint32) error {
	var aspect float32
	if height != 0 {
		aspect = float32(width) / float32(height)
	}
	putFloat32(v.data[0:], float32(width))
	putFloat32(v.data[4:], float32(height))
	putFloat32(v.data[8:], aspect)
	putFloat32(v.data[12:], 0)
	if err := v.queue.WriteBuffer(v.buffer, 0, v.data[:]); err != nil {
		return fmt.Errorf("upload viewport: %w", err)
	}
	return nil
}

func (v *viewport) destroy() {
	if v.bindGroup != nil {
		v.device.DestroyBindGroup(v.bindGroup)
		v.bindGroup = nil
	}
	if v.buffer != nil {
		v.device.DestroyBuffer(v.buffer)
		v.buffer = nil
	}
	if v.layout != nil {
		v.device.DestroyBindGroupLayout(v.layout)
		v.layout = nil
	}
}
