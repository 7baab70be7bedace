// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// OffscreenOption configures an Offscreen surface.
type OffscreenOption func(*Offscreen)

// WithSink forwards every presented frame to sink. Presenting then reads the
// frame back from the GPU, which stalls until rendering has finished.
func WithSink(sink FrameSink) OffscreenOption {
	return func(s *Offscreen) {
		s.sink = sink
	}
}

// WithReadbackTimeout bounds how long Present waits for the GPU when a sink
// is attached.
func WithReadbackTimeout(d time.Duration) OffscreenOption {
	return func(s *Offscreen) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Offscreen is a texture-backed Surface for headless rendering.
//
// It behaves like a window surface: SetSize models the window being resized,
// after which Acquire reports ErrOutdated until the surface is reconfigured
// at the new size.
type Offscreen struct {
	width, height uint32 // window size
	sink          FrameSink
	timeout       time.Duration

	device hal.Device
	queue  hal.Queue
	config Config

	tex  hal.Texture
	view hal.TextureView
	// Staging buffer for readback, sized for the configured texture.
	staging     hal.Buffer
	stagingSize uint64

	configured bool
	acquired   bool
	lost       bool
	presented  uint64
	last       *image.RGBA
}

// NewOffscreen creates an offscreen surface whose window is width×height
// physical pixels. No GPU resources are allocated until Configure.
func NewOffscreen(width, height uint32, opts ...OffscreenOption) *Offscreen {
	s := &Offscreen{
		width:   width,
		height:  height,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compatible reports true: any adapter can render into a plain texture.
func (s *Offscreen) Compatible(*hal.ExposedAdapter) bool { return true }

// Size returns the current window size.
func (s *Offscreen) Size() (uint32, uint32) { return s.width, s.height }

// SetSize changes the window size. The configured texture keeps its old
// size until Configure is called again.
func (s *Offscreen) SetSize(width, height uint32) {
	s.width = width
	s.height = height
}

// Invalidate marks the surface as lost. The next Acquire returns ErrLost.
func (s *Offscreen) Invalidate() {
	s.lost = true
}

// Config returns the active configuration.
func (s *Offscreen) Config() Config { return s.config }

// Presented returns the number of frames presented so far.
func (s *Offscreen) Presented() uint64 { return s.presented }

// LastFrame returns the most recent frame read back for the sink, or nil
// when no sink is attached.
func (s *Offscreen) LastFrame() *image.RGBA { return s.last }

// Configure creates the backing texture for config. If the size matches the
// current configuration, the existing texture is kept.
func (s *Offscreen) Configure(device hal.Device, queue hal.Queue, config Config) error {
	if config.Width == 0 || config.Height == 0 {
		return ErrZeroSize
	}
	if s.acquired {
		return ErrAlreadyAcquired
	}
	s.lost = false
	if s.configured && s.device == device && s.config == config {
		return nil
	}
	s.Unconfigure()

	s.device = device
	s.queue = queue

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "offscreen_surface",
		Size:          hal.Extent3D{Width: config.Width, Height: config.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        config.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create surface texture: %w", err)
	}
	s.tex = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "offscreen_surface_view",
	})
	if err != nil {
		s.Unconfigure()
		return fmt.Errorf("create surface view: %w", err)
	}
	s.view = view

	s.config = config
	s.configured = true
	slogger().Debug("surface: offscreen configured",
		"width", config.Width, "height", config.Height, "present_mode", config.PresentMode.String())
	return nil
}

// Unconfigure releases the backing texture and staging buffer.
func (s *Offscreen) Unconfigure() {
	if s.device != nil {
		if s.staging != nil {
			s.device.DestroyBuffer(s.staging)
		}
		if s.view != nil {
			s.device.DestroyTextureView(s.view)
		}
		if s.tex != nil {
			s.device.DestroyTexture(s.tex)
		}
	}
	s.staging = nil
	s.stagingSize = 0
	s.view = nil
	s.tex = nil
	s.configured = false
	s.acquired = false
	s.config = Config{}
}

// Acquire returns the backing texture for the next frame.
func (s *Offscreen) Acquire() (Texture, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}
	if s.lost {
		return nil, ErrLost
	}
	if s.width != s.config.Width || s.height != s.config.Height {
		return nil, ErrOutdated
	}
	if s.acquired {
		return nil, ErrAlreadyAcquired
	}
	s.acquired = true
	return &offscreenTexture{owner: s, view: s.view, width: s.config.Width, height: s.config.Height}, nil
}

// Present completes the frame. With a sink attached, the frame is read back
// and written to the sink before Present returns.
func (s *Offscreen) Present(tex Texture) error {
	t, ok := tex.(*offscreenTexture)
	if !ok || t.owner != s || !s.acquired {
		return ErrForeignTexture
	}
	s.acquired = false
	index := s.presented
	s.presented++

	if s.sink == nil {
		return nil
	}
	img, err := s.readback()
	if err != nil {
		return fmt.Errorf("readback frame %d: %w", index, err)
	}
	s.last = img
	if err := s.sink.WriteFrame(index, img); err != nil {
		return fmt.Errorf("write frame %d: %w", index, err)
	}
	return nil
}

// Discard releases an acquired texture without presenting it.
func (s *Offscreen) Discard(tex Texture) {
	if t, ok := tex.(*offscreenTexture); ok && t.owner == s {
		s.acquired = false
	}
}

// readback copies the surface texture into a CPU image.
func (s *Offscreen) readback() (*image.RGBA, error) {
	w, h := s.config.Width, s.config.Height
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	size := uint64(alignedBytesPerRow) * uint64(h)

	if s.staging == nil || s.stagingSize != size {
		if s.staging != nil {
			s.device.DestroyBuffer(s.staging)
			s.staging = nil
		}
		buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "offscreen_surface_staging",
			Size:  size,
			Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("create staging buffer: %w", err)
		}
		s.staging = buf
		s.stagingSize = size
	}

	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "offscreen_surface_readback",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("offscreen_surface_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(s.tex, s.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: s.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	// Return the texture to RenderAttachment for the next frame's pass.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	fence, err := s.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer s.device.DestroyFence(fence)

	if err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	ok, err := s.device.Wait(fence, 1, s.timeout)
	if err != nil {
		return nil, fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return nil, ErrReadbackTimeout
	}

	data := make([]byte, size)
	if err := s.queue.ReadBuffer(s.staging, 0, data); err != nil {
		return nil, fmt.Errorf("read staging buffer: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	for row := 0; row < int(h); row++ {
		src := data[row*int(alignedBytesPerRow) : row*int(alignedBytesPerRow)+int(bytesPerRow)]
		dst := img.Pix[row*img.Stride : row*img.Stride+int(bytesPerRow)]
		convertBGRAToRGBA(src, dst)
	}
	return img, nil
}

// convertBGRAToRGBA swizzles BGRA pixels from src into RGBA pixels in dst.
// Both slices must hold the same number of whole pixels.
func convertBGRAToRGBA(src, dst []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}

// offscreenTexture is the Texture handed out by Offscreen.Acquire.
type offscreenTexture struct {
	owner         *Offscreen
	view          hal.TextureView
	width, height uint32
}

func (t *offscreenTexture) View() hal.TextureView  { return t.view }
func (t *offscreenTexture) Size() (uint32, uint32) { return t.width, t.height }
