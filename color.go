// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "fmt"

// Color represents a linear RGBA color. Each component is nominally in the
// range [0, 1]; values are passed to the GPU as given and never clamped.
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	White       = Color{R: 1, G: 1, B: 1, A: 1}
	Black       = Color{R: 0, G: 0, B: 0, A: 1}
	Red         = Color{R: 1, G: 0, B: 0, A: 1}
	Green       = Color{R: 0, G: 1, B: 0, A: 1}
	Blue        = Color{R: 0, G: 0, B: 1, A: 1}
	Transparent = Color{}
)

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// WithAlpha returns a copy of c with the alpha component replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// Array returns the components in R, G, B, A order.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// ParseHex parses a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without a
// leading '#'.
func ParseHex(hex string) (Color, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var r, g, b, a uint32
	a = 255

	var ok bool
	switch len(s) {
	case 3, 4:
		ok = parseHex(s[0:1], &r) && parseHex(s[1:2], &g) && parseHex(s[2:3], &b)
		if ok && len(s) == 4 {
			ok = parseHex(s[3:4], &a)
			a *= 17
		}
		r, g, b = r*17, g*17, b*17
	case 6, 8:
		ok = parseHex(s[0:2], &r) && parseHex(s[2:4], &g) && parseHex(s[4:6], &b)
		if ok && len(s) == 8 {
			ok = parseHex(s[6:8], &a)
		}
	}
	if !ok {
		return Color{}, fmt.Errorf("gfx: invalid hex color %q", hex)
	}

	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}, nil
}

// parseHex accumulates the hex digits of s into val.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}
