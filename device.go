// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"context"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gfx/surface"
)

// gpu holds the objects produced by adapter and device negotiation.
type gpu struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	adapter  string
}

func (g *gpu) destroy() {
	if g.device != nil {
		g.device.Destroy()
		g.device = nil
	}
	if g.instance != nil {
		g.instance.Destroy()
		g.instance = nil
	}
}

// openDevice creates an instance on the configured backend, picks an adapter
// that can present to surf and opens a device on it. ctx is checked between
// the blocking steps.
func openDevice(ctx context.Context, surf surface.Surface, o *options) (*gpu, error) {
	backend := o.backend
	if backend == nil {
		b, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, &InitError{Stage: "backend", Err: fmt.Errorf("%w: vulkan backend not registered", ErrNoAdapter)}
		}
		backend = b
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, &InitError{Stage: "instance", Err: fmt.Errorf("%w: %v", ErrNoAdapter, err)}
	}
	g := &gpu{instance: instance}

	if err := ctx.Err(); err != nil {
		g.destroy()
		return nil, &InitError{Stage: "adapter", Err: err}
	}

	adapters := instance.EnumerateAdapters(nil)
	selected := selectAdapter(adapters, surf, o.power)
	if selected == nil {
		g.destroy()
		return nil, &InitError{Stage: "adapter", Err: ErrNoAdapter}
	}

	if err := ctx.Err(); err != nil {
		g.destroy()
		return nil, &InitError{Stage: "device", Err: err}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		g.destroy()
		return nil, &InitError{Stage: "device", Err: fmt.Errorf("%w: %v", ErrDeviceCreation, err)}
	}
	g.device = openDev.Device
	g.queue = openDev.Queue
	g.adapter = selected.Info.Name

	Logger().Info("gfx: adapter selected",
		"adapter", selected.Info.Name, "candidates", len(adapters))
	return g, nil
}

// selectAdapter returns the best adapter compatible with surf, or nil.
// Among compatible adapters the highest rank wins; ties keep enumeration
// order.
func selectAdapter(adapters []hal.ExposedAdapter, surf surface.Surface, power PowerPreference) *hal.ExposedAdapter {
	var selected *hal.ExposedAdapter
	best := -1
	for i := range adapters {
		if !surf.Compatible(&adapters[i]) {
			Logger().Debug("gfx: adapter cannot present to surface", "adapter", adapters[i].Info.Name)
			continue
		}
		if r := adapterRank(adapters[i].Info.DeviceType, power); r > best {
			best = r
			selected = &adapters[i]
		}
	}
	return selected
}

// adapterRank scores a device type for the power preference. High
// performance prefers discrete over integrated GPUs; low power the reverse.
// Anything else ranks last.
func adapterRank(t gputypes.DeviceType, power PowerPreference) int {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		if power == PowerLowPower {
			return 1
		}
		return 2
	case gputypes.DeviceTypeIntegratedGPU:
		if power == PowerLowPower {
			return 2
		}
		return 1
	default:
		return 0
	}
}
