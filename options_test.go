package glyphatlas

import (
	"testing"

	"github.com/gogpu/glyphatlas/atlas"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.format != atlas.FormatA8 {
		t.Errorf("format = %v, want A8", o.format)
	}
	if err := o.atlasConfig.Validate(); err != nil {
		t.Errorf("default atlas config invalid: %v", err)
	}
	if o.atlasConfig.InitialWidth != 256 || o.atlasConfig.MaxWidth != 2048 {
		t.Errorf("atlas config = %+v, want 256 initial, 2048 max", o.atlasConfig)
	}
}

func TestOptionsApply(t *testing.T) {
	cfg := atlas.Config{
		InitialWidth: 64, InitialHeight: 32,
		MaxWidth: 512, MaxHeight: 512,
		Packer: atlas.SkylinePackerFunc,
	}
	c := New(nil, WithAtlasConfig(cfg), WithFormat(atlas.FormatRGBA8))

	if c.opts.format != atlas.FormatRGBA8 {
		t.Errorf("format = %v, want RGBA8", c.opts.format)
	}
	if c.opts.atlasConfig.InitialWidth != 64 || c.opts.atlasConfig.InitialHeight != 32 {
		t.Errorf("atlas config = %+v", c.opts.atlasConfig)
	}
	if c.opts.atlasConfig.Packer == nil {
		t.Error("packer option lost")
	}
}

func TestInvalidAtlasConfigReplaced(t *testing.T) {
	c := New(nil, WithAtlasConfig(atlas.Config{InitialWidth: 512, InitialHeight: 512, MaxWidth: 64, MaxHeight: 64}))
	if c.opts.atlasConfig.InitialWidth != 256 || c.opts.atlasConfig.MaxWidth != 2048 {
		t.Errorf("atlas config = %+v, want defaults", c.opts.atlasConfig)
	}
}
