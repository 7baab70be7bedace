// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

// Event is a window signal consumed by Run.
type Event interface {
	isEvent()
}

// CloseRequested asks the loop to stop.
type CloseRequested struct{}

// Resized reports a new drawable size in physical pixels.
type Resized struct {
	Width, Height uint32
}

// RedrawRequested asks for one frame to be drawn.
type RedrawRequested struct{}

// PointerMoved reports the pointer position in physical pixels.
type PointerMoved struct {
	X, Y float64
}

func (CloseRequested) isEvent()  {}
func (Resized) isEvent()         {}
func (RedrawRequested) isEvent() {}
func (PointerMoved) isEvent()    {}
