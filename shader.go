// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

//go:embed shaders/quad.wgsl
var quadShaderSource string

const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// validateShader compiles src with naga and checks that the lowered module
// declares both entry points with the right stages.
func validateShader(src string) error {
	if src == "" {
		return fmt.Errorf("%w: empty source", ErrShader)
	}
	if _, err := naga.Compile(src); err != nil {
		return fmt.Errorf("%w: %v", ErrShader, err)
	}

	ast, err := naga.Parse(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrShader, err)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrShader, err)
	}
	if !hasEntryPoint(module, vertexEntryPoint, ir.StageVertex) {
		return fmt.Errorf("%w: missing @vertex entry point %s", ErrShader, vertexEntryPoint)
	}
	if !hasEntryPoint(module, fragmentEntryPoint, ir.StageFragment) {
		return fmt.Errorf("%w: missing @fragment entry point %s", ErrShader, fragmentEntryPoint)
	}
	return nil
}

func hasEntryPoint(module *ir.Module, name string, stage ir.ShaderStage) bool {
	for _, ep := range module.EntryPoints {
		if ep.Name == name && ep.Stage == stage {
			return true
		}
	}
	return false
}
