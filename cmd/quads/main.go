// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command quads renders a scene of colored quads with gfx.
//
// The window is an offscreen surface. Frames can be written as PNG files or
// recorded to a video through ffmpeg:
//
//	quads -frames 120 -out frames/ -scale 0.5
//	quads -config scene.yaml -video quads.mp4
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"
	"github.com/schollz/progressbar/v3"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/surface"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "quads: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	configPath := fs.String("config", "", "scene file (YAML); the built-in scene is used when empty")
	backendName := fs.String("backend", "vulkan", "GPU backend: vulkan or noop")
	surfaceName := fs.String("surface", "offscreen", "registered surface backend")
	frames := fs.Int("frames", 1, "number of frames to draw")
	fps := fs.Int("fps", 60, "frame rate for drawing and video")
	outDir := fs.String("out", "", "write frames as PNG files into this directory")
	scale := fs.Float64("scale", 1, "scale factor for PNG output")
	videoPath := fs.String("video", "", "record frames to this video file with ffmpeg")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	gfx.SetLogger(logger)

	scene := DefaultScene()
	if *configPath != "" {
		s, err := LoadScene(*configPath)
		if err != nil {
			return err
		}
		scene = s
	}
	background, err := scene.BackgroundColor()
	if err != nil {
		return err
	}
	quads, err := scene.GfxQuads()
	if err != nil {
		return err
	}

	opts := []gfx.Option{gfx.WithClearColor(background)}
	switch *backendName {
	case "vulkan":
	case "noop":
		opts = append(opts, gfx.WithBackend(noop.API{}))
	default:
		return fmt.Errorf("unknown backend %q", *backendName)
	}

	sink := newSink(*outDir, *scale, *videoPath, *fps, *frames)
	surfOpts := surface.Options{Width: scene.Width, Height: scene.Height}
	if sink != nil {
		surfOpts.Sink = sink
		defer func() {
			if err := sink.Close(); err != nil {
				logger.Error("failed to close frame sink", "error", err)
			}
		}()
	}
	surf, err := surface.NewSurfaceByName(*surfaceName, surfOpts)
	if err != nil {
		return fmt.Errorf("failed to create surface: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gc, err := gfx.New(ctx, surf, opts...)
	if err != nil {
		return fmt.Errorf("failed to create graphics context: %w", err)
	}
	defer gc.Close()

	renderer, err := gfx.NewQuadRenderer(gc)
	if err != nil {
		return fmt.Errorf("failed to create quad renderer: %w", err)
	}
	gc.Register(renderer)
	for _, q := range quads {
		renderer.Add(q)
	}

	logger.Info("rendering",
		"title", scene.Title, "adapter", gc.Adapter(),
		"width", scene.Width, "height", scene.Height, "quads", len(quads), "frames", *frames)

	// The offscreen surface has no window events; frames are requested on
	// a timer instead.
	bridge := gfx.NewEventBridge(gpucontext.NullEventSource{}, surfaceWindow{surf})
	go emitFrames(ctx, bridge, *frames, *fps)

	if err := gfx.Run(ctx, gc, bridge.Events()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	stats := gc.Stats()
	logger.Info("done",
		"presented", stats.Presented, "skipped", stats.Skipped, "overflow", renderer.Overflow())
	return nil
}

// frameRequester is the part of gfx.EventBridge that emitFrames drives.
type frameRequester interface {
	Events() <-chan gfx.Event
	RequestRedraw()
	RequestClose()
}

// emitFrames requests n redraws at the given rate, then asks the loop to
// close. A tick is skipped while the loop has a backlog, so no request is
// dropped by a full queue.
func emitFrames(ctx context.Context, req frameRequester, n, fps int) {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	backlog := func() bool { return len(req.Events()) >= gfx.DefaultEventBuffer/2 }
	for i := 0; i <= n; {
		if backlog() {
			select {
			case <-ticker.C:
				continue
			case <-ctx.Done():
				return
			}
		}
		if i == n {
			req.RequestClose()
			return
		}
		req.RequestRedraw()
		i++
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// surfaceWindow presents a surface as a host window at scale 1.
type surfaceWindow struct {
	surf surface.Surface
}

func (w surfaceWindow) Size() (int, int) {
	width, height := w.surf.Size()
	return int(width), int(height)
}

func (surfaceWindow) ScaleFactor() float64 { return 1 }
func (surfaceWindow) RequestRedraw()       {}

// newSink builds the frame sink for the output flags, or nil when no output
// was requested.
func newSink(outDir string, scale float64, videoPath string, fps, frames int) surface.FrameSink {
	var sinks multiSink
	if outDir != "" {
		png := surface.NewPNGSink(outDir)
		png.Scale = scale
		sinks = append(sinks, png)
	}
	if videoPath != "" {
		video := surface.NewVideoSink(videoPath)
		video.FPS = fps
		sinks = append(sinks, video)
	}
	if len(sinks) == 0 {
		return nil
	}
	return &progressSink{
		FrameSink: sinks,
		bar:       progressbar.Default(int64(frames), "frames"),
	}
}

// multiSink forwards frames to every sink.
type multiSink []surface.FrameSink

func (m multiSink) WriteFrame(index uint64, img *image.RGBA) error {
	for _, s := range m {
		if err := s.WriteFrame(index, img); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// progressSink advances a progress bar for every written frame.
type progressSink struct {
	surface.FrameSink
	bar *progressbar.ProgressBar
}

func (p *progressSink) WriteFrame(index uint64, img *image.RGBA) error {
	if err := p.FrameSink.WriteFrame(index, img); err != nil {
		return err
	}
	return p.bar.Add(1)
}

func (p *progressSink) Close() error {
	_ = p.bar.Finish()
	return p.FrameSink.Close()
}
