// Package glyphatlas caches rasterized glyphs in GPU texture atlases.
//
// # Overview
//
// A [Cache] maps a (font, glyph) pair to an [Entry] describing where the
// glyph's bitmap lives: the atlas texture, its pixel position and its
// normalized texture coordinates. Space is reserved in one or more
// [atlas.Atlas] instances; when an atlas runs out of room it repacks its
// glyphs, possibly into a larger texture, and every moved entry is updated
// in place.
//
// The cache does not rasterize glyphs and does not upload pixels. Entries
// start dirty, and become dirty again whenever their atlas moves them. The
// paint layer calls [Cache.SweepDirty] once per frame to render and upload
// only the glyphs that need it:
//
//	cache := glyphatlas.New(backend)
//
//	entry := cache.Lookup(face, gid, true)
//	if entry == nil {
//	    // glyph does not fit in an empty atlas; skip it
//	}
//
//	cache.SweepDirty(func(f glyphatlas.Font, g glyphatlas.GlyphID, e *glyphatlas.Entry) {
//	    pixels, _ := rasterize(f, g, e.Ink)
//	    backend.UploadRegion(e.Texture, e.X, e.Y, e.Ink.Width, e.Ink.Height, pixels)
//	})
//
// Renderers that batch draw calls by texture subscribe to reorganize
// events with [Cache.SubscribeReorganize] and rebuild their batches when
// one fires.
//
// # Concurrency
//
// A Cache is not safe for concurrent use. All callbacks run synchronously
// inside the call that triggered them, so callers always observe a fully
// repacked atlas once Lookup returns.
//
// # Logging
//
// The package is silent by default. Use [SetLogger] to route atlas
// diagnostics to a [log/slog] logger.
package glyphatlas
