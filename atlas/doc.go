// Package atlas packs small rectangles into a single texture.
//
// An [Atlas] owns one backing texture, created through a [Backend], and a
// [Packer] that tracks every live reservation. When a reservation does not
// fit, the atlas reorganizes: it repacks all live reservations, together
// with the new one, into a new layout that may use a larger texture. Every
// reservation that is placed or moved is reported through the atlas's
// [RepositionFunc], and a completed reorganize is reported once to the
// listeners registered with [Atlas.AddReorganizeCallback].
//
// # Usage
//
//	a, err := atlas.New(backend, atlas.FormatA8, atlas.FlagClearTexture,
//	    func(g *glyph, tex atlas.Texture, r atlas.Rect) {
//	        g.tex, g.rect = tex, r
//	    },
//	    atlas.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	if !a.Reserve(w+1, h+1, g) {
//	    // does not fit even after reorganizing
//	}
//
// Atlases are not safe for concurrent use. Every callback runs
// synchronously inside Reserve.
package atlas
