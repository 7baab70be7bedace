// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"image"
	"io"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrFrameSizeChanged is returned by VideoSink when a frame's size differs
// from the first frame of the recording.
var ErrFrameSizeChanged = errors.New("surface: video frame size changed")

// VideoSink pipes presented frames into an ffmpeg process as raw RGBA video.
// The ffmpeg process starts with the first frame, once the frame size is
// known.
type VideoSink struct {
	// Path is the output file; its extension selects the container.
	Path string

	// FPS is the input frame rate. Defaults to 60.
	FPS int

	// Codec is the output video codec. Defaults to libx264.
	Codec string

	// FFmpegPath overrides the ffmpeg binary looked up in PATH.
	FFmpegPath string

	width, height int
	pipe          *io.PipeWriter
	done          chan error
	frames        uint64
}

// NewVideoSink creates a sink recording to path.
func NewVideoSink(path string) *VideoSink {
	return &VideoSink{Path: path, FPS: 60, Codec: "libx264"}
}

// Frames returns the number of frames written to ffmpeg.
func (v *VideoSink) Frames() uint64 { return v.frames }

// WriteFrame streams img to ffmpeg.
func (v *VideoSink) WriteFrame(_ uint64, img *image.RGBA) error {
	b := img.Bounds()
	if v.pipe == nil {
		v.start(b.Dx(), b.Dy())
	}
	if b.Dx() != v.width || b.Dy() != v.height {
		return fmt.Errorf("%w: %dx%d, recording is %dx%d", ErrFrameSizeChanged, b.Dx(), b.Dy(), v.width, v.height)
	}

	rowBytes := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		off := y * img.Stride
		if _, err := v.pipe.Write(img.Pix[off : off+rowBytes]); err != nil {
			return fmt.Errorf("write frame to ffmpeg: %w", err)
		}
	}
	v.frames++
	return nil
}

// Close ends the stream and waits for ffmpeg to finish encoding.
func (v *VideoSink) Close() error {
	if v.pipe == nil {
		return nil
	}
	_ = v.pipe.Close()
	err := <-v.done
	v.pipe = nil
	if err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	slogger().Info("surface: video written", "path", v.Path, "frames", v.frames)
	return nil
}

func (v *VideoSink) start(width, height int) {
	v.width, v.height = width, height
	fps := v.FPS
	if fps <= 0 {
		fps = 60
	}
	codec := v.Codec
	if codec == "" {
		codec = "libx264"
	}

	pr, pw := io.Pipe()
	stream := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": fps,
	}).Output(v.Path, ffmpeg.KwArgs{
		"c:v":     codec,
		"pix_fmt": "yuv420p",
	}).OverWriteOutput().WithInput(pr)
	if v.FFmpegPath != "" {
		stream = stream.SetFfmpegPath(v.FFmpegPath)
	}

	v.pipe = pw
	v.done = make(chan error, 1)
	go func() {
		err := stream.Run()
		// Unblock writers if ffmpeg exits early.
		_ = pr.CloseWithError(errors.Join(io.ErrClosedPipe, err))
		v.done <- err
	}()
	slogger().Debug("surface: ffmpeg started", "path", v.Path, "width", width, "height", height, "fps", fps)
}
