package wgpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/glyph_mask.wgsl
var glyphMaskShaderSource string

// Entry points of the glyph mask shader.
const (
	GlyphVertexEntry   = "vs_main"
	GlyphFragmentEntry = "fs_main"
)

// compileGlyphShader compiles the glyph mask shader to SPIR-V words.
func compileGlyphShader() ([]uint32, error) {
	spirv, err := naga.Compile(glyphMaskShaderSource)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile glyph mask shader: %w", err)
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("wgpu: glyph mask shader: SPIR-V length %d is not a multiple of 4", len(spirv))
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirv)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return code, nil
}

// GlyphShader returns the glyph mask shader module, compiling it on first
// use. The module is owned by the backend and destroyed by Close.
func (b *Backend) GlyphShader() (hal.ShaderModule, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shader != nil {
		return b.shader, nil
	}
	if b.device == nil {
		return nil, ErrNilDevice
	}

	code, err := compileGlyphShader()
	if err != nil {
		return nil, err
	}
	module, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glyph_mask_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create glyph mask shader module: %w", err)
	}
	b.shader = module
	return module, nil
}
