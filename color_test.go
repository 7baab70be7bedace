// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "testing"

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#fff", White, false},
		{"000", Black, false},
		{"#ff0000", Red, false},
		{"00ff00", Green, false},
		{"#0000ff80", Color{B: 1, A: 128.0 / 255}, false},
		{"#f008", Color{R: 1, A: 136.0 / 255}, false},
		{"", Color{}, true},
		{"#ggg", Color{}, true},
		{"#12345", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorHelpers(t *testing.T) {
	c := Red.WithAlpha(0.5)
	if c.A != 0.5 || c.R != 1 {
		t.Errorf("WithAlpha = %+v", c)
	}
	if Red.A != 1 {
		t.Error("WithAlpha mutated Red")
	}
	if got := RGB(0.1, 0.2, 0.3); got.A != 1 {
		t.Errorf("RGB alpha = %v, want 1", got.A)
	}
	if got := RGBA(1, 2, 3, 4).Array(); got != [4]float32{1, 2, 3, 4} {
		t.Errorf("Array = %v", got)
	}
}
