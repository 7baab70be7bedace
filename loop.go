// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"context"
	"errors"
)

// Run consumes window events until CloseRequested arrives, events is closed
// or ctx is done.
//
// Resized reconfigures gc, RedrawRequested draws one frame. A frame that
// fails with a *SurfaceError is logged and skipped. Other errors stop the
// loop and are returned. Run does not close gc.
func Run(ctx context.Context, gc *Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			stop, err := handleEvent(gc, ev)
			if err != nil || stop {
				return err
			}
		}
	}
}

func handleEvent(gc *Context, ev Event) (stop bool, err error) {
	switch e := ev.(type) {
	case CloseRequested:
		Logger().Debug("gfx: close requested")
		return true, nil
	case Resized:
		if err := gc.Resize(e.Width, e.Height); err != nil {
			if errors.Is(err, ErrSurfaceConfig) {
				Logger().Warn("gfx: resize failed", "width", e.Width, "height", e.Height, "error", err)
				return false, nil
			}
			return true, err
		}
	case RedrawRequested:
		if err := gc.DrawFrame(); err != nil {
			var surfErr *SurfaceError
			if errors.As(err, &surfErr) {
				Logger().Warn("gfx: frame skipped", "error", err)
				return false, nil
			}
			return true, err
		}
	case PointerMoved:
		Logger().Debug("gfx: pointer moved", "x", e.X, "y", e.Y)
	}
	return false, nil
}
