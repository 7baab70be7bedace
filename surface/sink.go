// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
)

// FrameSink receives frames presented on an Offscreen surface.
type FrameSink interface {
	// WriteFrame consumes one presented frame. The image is owned by the
	// sink after the call.
	WriteFrame(index uint64, img *image.RGBA) error

	// Close flushes and releases the sink.
	Close() error
}

// PNGSink writes each presented frame to a numbered PNG file.
type PNGSink struct {
	// Dir is the output directory. It is created on the first frame.
	Dir string

	// Pattern is the fmt pattern for file names; it receives the frame
	// index. Defaults to "frame-%05d.png".
	Pattern string

	// Scale resizes frames before encoding when it is positive and not 1.
	Scale float64

	written int
}

// NewPNGSink creates a sink writing into dir.
func NewPNGSink(dir string) *PNGSink {
	return &PNGSink{Dir: dir, Pattern: "frame-%05d.png", Scale: 1}
}

// Written returns the number of files written.
func (p *PNGSink) Written() int { return p.written }

// Path returns the file path used for frame index.
func (p *PNGSink) Path(index uint64) string {
	pattern := p.Pattern
	if pattern == "" {
		pattern = "frame-%05d.png"
	}
	return filepath.Join(p.Dir, fmt.Sprintf(pattern, index))
}

// WriteFrame encodes img as PNG.
func (p *PNGSink) WriteFrame(index uint64, img *image.RGBA) error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	out := scaleImage(img, p.Scale)

	path := p.Path(index)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, out); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	p.written++
	return nil
}

// Close is a no-op; every frame is flushed as it is written.
func (p *PNGSink) Close() error { return nil }

// scaleImage resamples img by factor. Factors <= 0 or equal to 1 return img
// unchanged.
func scaleImage(img *image.RGBA, factor float64) *image.RGBA {
	if factor <= 0 || factor == 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor))
	h := max(1, int(float64(b.Dy())*factor))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
