// Package textrender turns strings into textured quads drawn from a
// glyphatlas.Cache.
//
// A Renderer shapes text with HarfBuzz-compatible shaping from
// go-text/typesetting after splitting it into bidirectional runs, looks up
// every glyph in the cache, and keeps atlas textures current by sweeping
// dirty cache entries: each dirty glyph is rasterized by its face and
// uploaded to its atlas position.
//
// When an atlas reorganizes, glyph positions and textures change. The
// Renderer subscribes to reorganize events and rebuilds the quads of a
// Text lazily the next time they are requested:
//
//	r := textrender.New(cache, backend)
//	defer r.Close()
//
//	t, err := r.Layout(face, "Hello, World!", 10, 40)
//	if err != nil {
//	    return err
//	}
//	for tex, quads := range r.Batches(t) {
//	    draw(tex, quads)
//	}
package textrender
