// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gfx is a minimal 2D rendering engine on top of gogpu/wgpu.
//
// # Overview
//
// A Context owns the GPU device, a presentation surface and a shared
// viewport uniform. Renderer modules are registered with the Context; every
// frame the Context opens one render pass and lets each renderer record its
// draw calls in registration order.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/gfx"
//		"github.com/gogpu/gfx/surface"
//		_ "github.com/gogpu/wgpu/hal/vulkan"
//	)
//
//	surf := surface.NewOffscreen(600, 400)
//	gc, err := gfx.New(ctx, surf)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer gc.Close()
//
//	quads, err := gfx.NewQuadRenderer(gc)
//	if err != nil {
//		log.Fatal(err)
//	}
//	gc.Register(quads)
//
//	quads.Add(gfx.NewQuad().WithPosition(100, 100).WithSize(30, 30))
//	quads.Add(gfx.NewQuad().WithPosition(200, 200).WithSize(40, 60).WithColor(gfx.Red))
//
//	if err := gc.DrawFrame(); err != nil {
//		log.Println(err)
//	}
//
// # Coordinates
//
// Quads are placed in physical pixels with the origin at the top-left corner
// of the surface and y growing downwards. The quad renderer converts them to
// normalized device coordinates on every frame, so a resize keeps quads at
// the same pixel positions.
//
// # Renderers
//
// A Renderer receives a read-only FrameState and the frame's render pass.
// It must set every binding it uses; nothing bound by a previous renderer is
// guaranteed to survive. Renderers are destroyed by Context.Close in reverse
// registration order.
//
// # Errors
//
// New returns *InitError for fatal setup failures. DrawFrame returns
// *SurfaceError when no surface texture could be acquired even after
// reconfiguring the surface; the frame is skipped and drawing may continue.
//
// # Logging
//
// The package is silent by default. Use SetLogger to route diagnostics to a
// slog.Logger.
package gfx
