// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

// Quad is an axis-aligned rectangle in physical pixels. X and Y locate the
// top-left corner; the pixel origin is the top-left of the drawable.
//
// Sizes and colors are used as given. Zero or negative sizes produce
// degenerate or back-facing geometry that the pipeline culls.
type Quad struct {
	X, Y          float32
	Width, Height float32
	Color         Color
}

// NewQuad returns an empty white quad at the origin.
func NewQuad() Quad {
	return Quad{Color: White}
}

// WithPosition returns a copy of q moved to (x, y).
func (q Quad) WithPosition(x, y float32) Quad {
	q.X, q.Y = x, y
	return q
}

// WithSize returns a copy of q with the given size.
func (q Quad) WithSize(width, height float32) Quad {
	q.Width, q.Height = width, height
	return q
}

// WithColor returns a copy of q with the given color.
func (q Quad) WithColor(c Color) Quad {
	q.Color = c
	return q
}

// Instance is the per-instance record uploaded for one quad.
//
// Layout:
//
//	position (vec2<f32>) = 8 bytes  (location 2), NDC of the top-left corner
//	scale    (vec2<f32>) = 8 bytes  (location 3), size relative to the drawable
//	color    (vec4<f32>) = 16 bytes (location 4)
type Instance struct {
	Position [2]float32
	Scale    [2]float32
	Color    [4]float32
}

// InstanceSize is the byte stride of an Instance.
const InstanceSize = 32

// Instance projects q into normalized device coordinates for a drawable of
// the given size. The y axis is flipped: pixel y grows downward, NDC y grows
// upward.
func (q Quad) Instance(width, height uint32) Instance {
	w := float32(width)
	h := float32(height)
	return Instance{
		Position: [2]float32{
			q.X/w*2 - 1,
			q.Y/h*-2 + 1,
		},
		Scale: [2]float32{
			q.Width / w,
			q.Height / h,
		},
		Color: q.Color.Array(),
	}
}

// appendInstances appends the encoded instance records of quads to dst.
func appendInstances(dst []byte, quads []Quad, width, height uint32) []byte {
	for i := range quads {
		inst := quads[i].Instance(width, height)
		off := len(dst)
		dst = append(dst, make([]byte, InstanceSize)...)
		putFloat32(dst[off:], inst.Position[0])
		putFloat32(dst[off+4:], inst.Position[1])
		putFloat32(dst[off+8:], inst.Scale[0])
		putFloat32(dst[off+12:], inst.Scale[1])
		putFloat32(dst[off+16:], inst.Color[0])
		putFloat32(dst[off+20:], inst.Color[1])
		putFloat32(dst[off+24:], inst.Color[2])
		putFloat32(dst[off+28:], inst.Color[3])
	}
	return dst
}
