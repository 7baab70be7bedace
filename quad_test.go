// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "testing"

func TestQuadInstanceNormalization(t *testing.T) {
	tests := []struct {
		name      string
		quad      Quad
		wantPos   [2]float32
		wantScale [2]float32
	}{
		{
			name:      "top-left quadrant",
			quad:      NewQuad().WithPosition(100, 100).WithSize(30, 30),
			wantPos:   [2]float32{-0.667, 0.5},
			wantScale: [2]float32{0.05, 0.075},
		},
		{
			name:      "right of center",
			quad:      NewQuad().WithPosition(350, 150).WithSize(60, 100),
			wantPos:   [2]float32{0.167, 0.25},
			wantScale: [2]float32{0.1, 0.25},
		},
		{
			name:      "origin",
			quad:      NewQuad().WithSize(600, 400),
			wantPos:   [2]float32{-1, 1},
			wantScale: [2]float32{1, 1},
		},
		{
			name:      "offscreen",
			quad:      NewQuad().WithPosition(-60, 800).WithSize(60, 40),
			wantPos:   [2]float32{-1.2, -3},
			wantScale: [2]float32{0.1, 0.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := tt.quad.Instance(600, 400)
			for i := 0; i < 2; i++ {
				if !approxEqual(inst.Position[i], tt.wantPos[i]) {
					t.Errorf("Position = %v, want %v", inst.Position, tt.wantPos)
				}
				if !approxEqual(inst.Scale[i], tt.wantScale[i]) {
					t.Errorf("Scale = %v, want %v", inst.Scale, tt.wantScale)
				}
			}
		})
	}
}

func TestQuadInstanceColorUnclamped(t *testing.T) {
	c := RGBA(2, -1, 0.5, 1.5)
	inst := NewQuad().WithColor(c).WithSize(1, 1).Instance(10, 10)
	if inst.Color != [4]float32{2, -1, 0.5, 1.5} {
		t.Errorf("Color = %v, want unclamped %v", inst.Color, c.Array())
	}
}

func TestNewQuadDefaults(t *testing.T) {
	q := NewQuad()
	if q.Color != White {
		t.Errorf("default color = %v, want White", q.Color)
	}
	if q.X != 0 || q.Y != 0 || q.Width != 0 || q.Height != 0 {
		t.Errorf("default geometry = %+v, want zero", q)
	}

	// Builders return copies.
	base := NewQuad()
	moved := base.WithPosition(5, 6)
	if base.X != 0 || moved.X != 5 || moved.Y != 6 {
		t.Errorf("WithPosition mutated the receiver or failed: base=%+v moved=%+v", base, moved)
	}
}

func TestAppendInstancesLayout(t *testing.T) {
	quads := []Quad{
		NewQuad().WithPosition(100, 100).WithSize(30, 30),
		NewQuad().WithPosition(200, 200).WithSize(40, 60).WithColor(Red),
	}
	buf := appendInstances(nil, quads, 600, 400)
	if len(buf) != 2*InstanceSize {
		t.Fatalf("len = %d, want %d", len(buf), 2*InstanceSize)
	}

	second := buf[InstanceSize:]
	want := quads[1].Instance(600, 400)
	got := [8]float32{}
	for i := range got {
		got[i] = readFloat32(second[i*4:])
	}
	wantFlat := [8]float32{
		want.Position[0], want.Position[1],
		want.Scale[0], want.Scale[1],
		want.Color[0], want.Color[1], want.Color[2], want.Color[3],
	}
	if got != wantFlat {
		t.Errorf("instance bytes = %v, want %v", got, wantFlat)
	}
}

func TestQuadGeometry(t *testing.T) {
	if QuadIndices != [6]uint16{0, 1, 2, 0, 2, 3} {
		t.Errorf("QuadIndices = %v", QuadIndices)
	}
	if n := len(vertexBytes()); n != 4*VertexSize {
		t.Errorf("vertex bytes = %d, want %d", n, 4*VertexSize)
	}
	idx := indexBytes()
	if len(idx)%4 != 0 || len(idx) < 12 {
		t.Errorf("index bytes = %d, want >= 12 and 4-byte aligned", len(idx))
	}

	// Top-left, top-right, bottom-right is clockwise with y up.
	a, b, c := QuadVertices[0].Position, QuadVertices[1].Position, QuadVertices[2].Position
	cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
	if cross >= 0 {
		t.Errorf("first triangle is not clockwise (cross = %v)", cross)
	}
}
