// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"encoding/binary"
	"math"
)

// Vertex is one corner of the unit quad shared by every quad instance.
//
// Layout:
//
//	position (vec2<f32>) = 8 bytes (location 0)
//	uv       (vec2<f32>) = 8 bytes (location 1)
type Vertex struct {
	Position [2]float32
	UV       [2]float32
}

// VertexSize is the byte stride of a Vertex.
const VertexSize = 16

// QuadVertices are the unit quad corners in clockwise order starting at the
// top-left. UV (0, 0) is the top-left corner.
var QuadVertices = [4]Vertex{
	{Position: [2]float32{-1, 1}, UV: [2]float32{0, 0}},
	{Position: [2]float32{1, 1}, UV: [2]float32{1, 0}},
	{Position: [2]float32{1, -1}, UV: [2]float32{1, 1}},
	{Position: [2]float32{-1, -1}, UV: [2]float32{0, 1}},
}

// QuadIndices form two clockwise triangles over QuadVertices.
var QuadIndices = [6]uint16{0, 1, 2, 0, 2, 3}

// vertexBytes encodes QuadVertices for upload.
func vertexBytes() []byte {
	buf := make([]byte, len(QuadVertices)*VertexSize)
	for i, v := range QuadVertices {
		off := i * VertexSize
		putFloat32(buf[off:], v.Position[0])
		putFloat32(buf[off+4:], v.Position[1])
		putFloat32(buf[off+8:], v.UV[0])
		putFloat32(buf[off+12:], v.UV[1])
	}
	return buf
}

// indexBytes encodes QuadIndices for upload. The result is padded to a
// multiple of four bytes as required for buffer writes.
func indexBytes() []byte {
	n := len(QuadIndices) * 2
	buf := make([]byte, (n+3)&^3)
	for i, idx := range QuadIndices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}

func putFloat32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}
