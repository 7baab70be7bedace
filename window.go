// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"math"
	"sync"

	"github.com/gogpu/gpucontext"
)

// DefaultEventBuffer is the number of events an EventBridge queues before
// it starts dropping them.
const DefaultEventBuffer = 64

// EventBridge turns the callbacks of a gpucontext host into the Event
// stream consumed by Run.
//
// Window resizes become Resized in physical pixels, mouse motion becomes
// PointerMoved. RequestRedraw and RequestClose queue RedrawRequested and
// CloseRequested. The bridge itself implements gpucontext.WindowProvider,
// so code that asks the host for a redraw can be handed the bridge instead.
//
// Callbacks never block: when the queue is full the event is dropped.
type EventBridge struct {
	win gpucontext.WindowProvider

	mu     sync.Mutex
	events chan Event
	closed bool
}

var _ gpucontext.WindowProvider = (*EventBridge)(nil)

// NewEventBridge subscribes to src and queues the window's current size as
// the first event. win supplies the size, scale factor and host redraw.
func NewEventBridge(src gpucontext.EventSource, win gpucontext.WindowProvider) *EventBridge {
	b := &EventBridge{
		win:    win,
		events: make(chan Event, DefaultEventBuffer),
	}
	if w, h := b.physical(win.Size()); w != 0 && h != 0 {
		b.send(Resized{Width: w, Height: h})
	}

	src.OnResize(func(width, height int) {
		w, h := b.physical(width, height)
		b.send(Resized{Width: w, Height: h})
	})
	src.OnMouseMove(func(x, y float64) {
		scale := b.ScaleFactor()
		b.send(PointerMoved{X: x * scale, Y: y * scale})
	})
	return b
}

// Events returns the channel to pass to Run. It is closed by Close.
func (b *EventBridge) Events() <-chan Event { return b.events }

// Size returns the host window size in logical points.
func (b *EventBridge) Size() (int, int) { return b.win.Size() }

// ScaleFactor returns the host's DPI scale factor, at least 1.
func (b *EventBridge) ScaleFactor() float64 {
	if s := b.win.ScaleFactor(); s > 0 {
		return s
	}
	return 1
}

// RequestRedraw queues a frame and forwards the request to the host.
func (b *EventBridge) RequestRedraw() {
	b.send(RedrawRequested{})
	b.win.RequestRedraw()
}

// RequestClose queues CloseRequested.
func (b *EventBridge) RequestClose() {
	b.send(CloseRequested{})
}

// Close closes the event channel. Callbacks arriving afterwards are
// ignored. Close is idempotent.
func (b *EventBridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.events)
}

func (b *EventBridge) send(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.events <- ev:
	default:
		if _, ok := ev.(PointerMoved); ok {
			return
		}
		Logger().Warn("gfx: event queue full, dropping event", "event", ev)
	}
}

// physical converts a logical size to physical pixels. Negative sizes
// clamp to zero.
func (b *EventBridge) physical(width, height int) (uint32, uint32) {
	scale := b.ScaleFactor()
	conv := func(v int) uint32 {
		if v <= 0 {
			return 0
		}
		return uint32(math.Round(float64(v) * scale))
	}
	return conv(width), conv(height)
}
