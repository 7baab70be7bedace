// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// memorySink keeps presented frames in memory.
type memorySink struct {
	frames  []*image.RGBA
	indices []uint64
	closed  bool
}

func (m *memorySink) WriteFrame(index uint64, img *image.RGBA) error {
	m.frames = append(m.frames, img)
	m.indices = append(m.indices, index)
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

func TestOffscreenLifecycle(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := NewOffscreen(320, 240)
	defer s.Unconfigure()

	if _, err := s.Acquire(); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Acquire before Configure: got %v, want ErrNotConfigured", err)
	}

	if err := s.Configure(device, queue, DefaultConfig(320, 240)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if s.tex == nil || s.view == nil {
		t.Fatal("expected texture and view after Configure")
	}

	tex, err := s.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if w, h := tex.Size(); w != 320 || h != 240 {
		t.Errorf("texture size = %dx%d, want 320x240", w, h)
	}
	if tex.View() == nil {
		t.Error("expected non-nil view")
	}

	if _, err := s.Acquire(); !errors.Is(err, ErrAlreadyAcquired) {
		t.Errorf("second Acquire: got %v, want ErrAlreadyAcquired", err)
	}

	if err := s.Present(tex); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if s.Presented() != 1 {
		t.Errorf("Presented() = %d, want 1", s.Presented())
	}
	if err := s.Present(tex); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("double Present: got %v, want ErrForeignTexture", err)
	}

	tex, err = s.Acquire()
	if err != nil {
		t.Fatalf("Acquire after present failed: %v", err)
	}
	s.Discard(tex)
	if s.Presented() != 1 {
		t.Error("Discard must not count as a presented frame")
	}
	if _, err := s.Acquire(); err != nil {
		t.Errorf("Acquire after Discard failed: %v", err)
	}
}

func TestOffscreenOutdatedAfterResize(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := NewOffscreen(600, 400)
	defer s.Unconfigure()
	if err := s.Configure(device, queue, DefaultConfig(600, 400)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	s.SetSize(800, 600)
	_, err := s.Acquire()
	if !errors.Is(err, ErrOutdated) || !NeedsReconfigure(err) {
		t.Fatalf("Acquire after SetSize: got %v, want ErrOutdated", err)
	}

	// Reconfiguring with the stale size keeps the surface outdated.
	if err := s.Configure(device, queue, DefaultConfig(600, 400)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if _, err := s.Acquire(); !errors.Is(err, ErrOutdated) {
		t.Errorf("stale reconfigure: got %v, want ErrOutdated", err)
	}

	if err := s.Configure(device, queue, DefaultConfig(800, 600)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if _, err := s.Acquire(); err != nil {
		t.Errorf("Acquire after reconfigure failed: %v", err)
	}
}

func TestOffscreenLost(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := NewOffscreen(64, 64)
	defer s.Unconfigure()
	if err := s.Configure(device, queue, DefaultConfig(64, 64)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	s.Invalidate()
	if _, err := s.Acquire(); !errors.Is(err, ErrLost) {
		t.Fatalf("got %v, want ErrLost", err)
	}
	if err := s.Configure(device, queue, DefaultConfig(64, 64)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if _, err := s.Acquire(); err != nil {
		t.Errorf("Acquire after reconfigure failed: %v", err)
	}
}

func TestOffscreenConfigureZeroSize(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := NewOffscreen(0, 0)
	if err := s.Configure(device, queue, DefaultConfig(0, 100)); !errors.Is(err, ErrZeroSize) {
		t.Errorf("got %v, want ErrZeroSize", err)
	}
}

func TestOffscreenSinkReadback(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	sink := &memorySink{}
	s := NewOffscreen(100, 50, WithSink(sink))
	defer s.Unconfigure()
	if err := s.Configure(device, queue, DefaultConfig(100, 50)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		tex, err := s.Acquire()
		if err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
		if err := s.Present(tex); err != nil {
			t.Fatalf("Present failed: %v", err)
		}
	}

	if len(sink.frames) != 2 {
		t.Fatalf("sink received %d frames, want 2", len(sink.frames))
	}
	if sink.indices[0] != 0 || sink.indices[1] != 1 {
		t.Errorf("frame indices = %v, want [0 1]", sink.indices)
	}
	if b := sink.frames[0].Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("frame bounds = %v, want 100x50", b)
	}
	if s.LastFrame() != sink.frames[1] {
		t.Error("LastFrame should return the most recent frame")
	}
	// 100*4 = 400 bytes per row is padded to 512 for the copy.
	if s.stagingSize != 512*50 {
		t.Errorf("staging size = %d, want %d", s.stagingSize, 512*50)
	}
}

// stalledDevice is a device whose fence waits time out or fail.
type stalledDevice struct {
	hal.Device
	err error
}

func (d stalledDevice) Wait(hal.Fence, uint64, time.Duration) (bool, error) {
	return false, d.err
}

func TestOffscreenReadbackWaitErrors(t *testing.T) {
	deviceLost := errors.New("device lost")
	tests := []struct {
		name    string
		waitErr error
		want    error
		notWant error
	}{
		{"timeout", nil, ErrReadbackTimeout, nil},
		{"device error", deviceLost, deviceLost, ErrReadbackTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device, queue, cleanup := createNoopDevice(t)
			defer cleanup()

			s := NewOffscreen(16, 16, WithSink(&memorySink{}), WithReadbackTimeout(time.Millisecond))
			defer s.Unconfigure()
			if err := s.Configure(device, queue, DefaultConfig(16, 16)); err != nil {
				t.Fatalf("Configure failed: %v", err)
			}
			s.device = stalledDevice{Device: device, err: tt.waitErr}

			tex, err := s.Acquire()
			if err != nil {
				t.Fatalf("Acquire failed: %v", err)
			}
			err = s.Present(tex)
			if !errors.Is(err, tt.want) {
				t.Errorf("Present got %v, want %v", err, tt.want)
			}
			if tt.notWant != nil && errors.Is(err, tt.notWant) {
				t.Errorf("Present got %v, should not match %v", err, tt.notWant)
			}
		})
	}
}

func TestConvertBGRAToRGBA(t *testing.T) {
	src := []byte{10, 20, 30, 255, 1, 2, 3, 4}
	dst := make([]byte, len(src))
	convertBGRAToRGBA(src, dst)

	want := []byte{30, 20, 10, 255, 3, 2, 1, 4}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}

func TestPresentModeString(t *testing.T) {
	tests := []struct {
		mode PresentMode
		want string
	}{
		{PresentModeFifo, "fifo"},
		{PresentModeMailbox, "mailbox"},
		{PresentModeImmediate, "immediate"},
		{PresentMode(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("PresentMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig(600, 400)
	if c.Format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format = %v, want BGRA8Unorm", c.Format)
	}
	if c.PresentMode != PresentModeFifo {
		t.Errorf("PresentMode = %v, want fifo", c.PresentMode)
	}
	if c.AlphaMode != AlphaModeOpaque {
		t.Errorf("AlphaMode = %v, want opaque", c.AlphaMode)
	}
	if c.MaxLatency != 2 {
		t.Errorf("MaxLatency = %d, want 2", c.MaxLatency)
	}
}
