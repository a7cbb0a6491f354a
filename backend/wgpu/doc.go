// Package wgpu provides an atlas texture backend on top of the gogpu/wgpu
// hardware abstraction layer.
//
// Atlas textures are created as R8Unorm (atlas.FormatA8) or RGBA8Unorm
// (atlas.FormatRGBA8) textures usable as shader bindings and copy
// destinations, each with a default 2D view. Glyph masks are uploaded with
// queue.WriteTexture.
//
// The backend shares the device of the host application:
//
//	backend, err := wgpu.NewFromProvider(app.GPUContextProvider())
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
//	cache := glyphatlas.New(backend)
//
// The backend does not implement atlas.Migrator: reorganized atlases start
// from cleared storage and every moved glyph is re-rendered through the
// cache's dirty sweep.
//
// GlyphShader compiles the WGSL glyph mask shader with naga for pipelines
// that draw the quads built from cache entries.
package wgpu
