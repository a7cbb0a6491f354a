package glyphatlas

import "github.com/gogpu/glyphatlas/atlas"

// Option configures a Cache during creation.
//
// Example:
//
//	cache := glyphatlas.New(backend,
//	    glyphatlas.WithAtlasConfig(atlas.Config{
//	        InitialWidth: 512, InitialHeight: 512,
//	        MaxWidth: 4096, MaxHeight: 4096,
//	        Packer: atlas.SkylinePackerFunc,
//	    }))
type Option func(*cacheOptions)

// cacheOptions holds optional configuration for Cache creation.
type cacheOptions struct {
	atlasConfig atlas.Config
	format      atlas.Format
}

// defaultOptions returns the default cache options.
func defaultOptions() cacheOptions {
	return cacheOptions{
		atlasConfig: atlas.DefaultConfig(),
		format:      atlas.FormatA8,
	}
}

// WithAtlasConfig sets the sizing and packing configuration of every atlas
// the cache creates. An invalid configuration is replaced by
// atlas.DefaultConfig by New.
func WithAtlasConfig(cfg atlas.Config) Option {
	return func(o *cacheOptions) {
		o.atlasConfig = cfg
	}
}

// WithFormat sets the pixel format of atlas textures.
// The default, atlas.FormatA8, suits single-channel glyph masks.
func WithFormat(f atlas.Format) Option {
	return func(o *cacheOptions) {
		o.format = f
	}
}
