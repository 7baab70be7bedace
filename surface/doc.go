// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides presentation surfaces for gfx.
//
// A Surface is the presentable target tied to a window: images are acquired
// from it, rendered into, and handed back through Present. gfx.Context owns
// the surface configuration and drives Acquire/Present once per frame.
//
// # Surface Types
//
//   - Offscreen: texture-backed surface for headless rendering. Presented
//     frames can be read back and forwarded to a FrameSink.
//   - Window-system surfaces are supplied by the host application by
//     implementing the Surface interface.
//
// # Frame Sinks
//
//   - PNGSink: writes each presented frame as a numbered PNG file
//   - VideoSink: pipes presented frames into ffmpeg
//
// # Registry
//
// Surface factories register themselves by name and priority:
//
//	func init() {
//	    surface.Register("mywindow", 100, myFactory, myAvailable)
//	}
//
// and are created with:
//
//	s, err := surface.NewSurfaceByName("offscreen", surface.Options{Width: 600, Height: 400})
//	// or auto-select best available:
//	s, err := surface.NewSurface(surface.Options{Width: 600, Height: 400})
//
// The built-in "offscreen" surface is registered with priority 10.
package surface
