// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/gfx"
)

// Scene is the YAML description of what the demo draws.
type Scene struct {
	Title      string      `yaml:"title"`
	Width      uint32      `yaml:"width"`
	Height     uint32      `yaml:"height"`
	Background string      `yaml:"background"`
	Quads      []SceneQuad `yaml:"quads"`
}

// SceneQuad is one quad in pixel coordinates. Color is a hex string and
// defaults to white.
type SceneQuad struct {
	X      float32 `yaml:"x"`
	Y      float32 `yaml:"y"`
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	Color  string  `yaml:"color,omitempty"`
}

// DefaultScene returns the built-in scene: a 600×400 window with three
// overlapping quads.
func DefaultScene() Scene {
	return Scene{
		Title:      "Graphics experiments",
		Width:      600,
		Height:     400,
		Background: "#000000",
		Quads: []SceneQuad{
			{X: 100, Y: 100, Width: 100, Height: 100, Color: "#ffffff"},
			{X: 400, Y: 400, Width: 200, Height: 300, Color: "#ff0000"},
			{X: 400, Y: 100, Width: 150, Height: 80, Color: "#0000ff"},
		},
	}
}

// LoadScene reads a scene file. Fields missing from the file keep the
// defaults of DefaultScene; a quads list in the file replaces the default
// quads.
func LoadScene(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("failed to read scene: %w", err)
	}
	return ParseScene(data)
}

// ParseScene decodes a YAML scene and validates it.
func ParseScene(data []byte) (Scene, error) {
	scene := DefaultScene()

	var fromFile Scene
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return Scene{}, fmt.Errorf("failed to parse scene: %w", err)
	}
	if fromFile.Title != "" {
		scene.Title = fromFile.Title
	}
	if fromFile.Width != 0 {
		scene.Width = fromFile.Width
	}
	if fromFile.Height != 0 {
		scene.Height = fromFile.Height
	}
	if fromFile.Background != "" {
		scene.Background = fromFile.Background
	}
	if fromFile.Quads != nil {
		scene.Quads = fromFile.Quads
	}

	if _, err := scene.BackgroundColor(); err != nil {
		return Scene{}, err
	}
	if _, err := scene.GfxQuads(); err != nil {
		return Scene{}, err
	}
	return scene, nil
}

// BackgroundColor returns the parsed clear color.
func (s Scene) BackgroundColor() (gfx.Color, error) {
	if s.Background == "" {
		return gfx.Black, nil
	}
	c, err := gfx.ParseHex(s.Background)
	if err != nil {
		return gfx.Color{}, fmt.Errorf("background: %w", err)
	}
	return c, nil
}

// GfxQuads converts the scene quads.
func (s Scene) GfxQuads() ([]gfx.Quad, error) {
	quads := make([]gfx.Quad, 0, len(s.Quads))
	for i, q := range s.Quads {
		color := gfx.White
		if q.Color != "" {
			c, err := gfx.ParseHex(q.Color)
			if err != nil {
				return nil, fmt.Errorf("quad %d: %w", i, err)
			}
			color = c
		}
		quads = append(quads, gfx.NewQuad().
			WithPosition(q.X, q.Y).
			WithSize(q.Width, q.Height).
			WithColor(color))
	}
	return quads, nil
}
