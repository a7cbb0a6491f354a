package glyphatlas

import "github.com/gogpu/glyphatlas/atlas"

// glyphAtlas is the atlas type the cache manages.
type glyphAtlas = atlas.Atlas[*Entry]

// Entry describes where a cached glyph lives.
//
// Entries are owned by the Cache. Their fields are updated in place when
// the atlas holding them reorganizes, and they must not be used after the
// cache is cleared.
type Entry struct {
	// Ink is the glyph's ink rectangle as reported by the font.
	Ink InkRect

	// X and Y are the pixel position of the glyph in Texture.
	X, Y int

	// TX1, TY1, TX2, TY2 are the normalized texture coordinates of the
	// ink rectangle inside Texture.
	TX1, TY1, TX2, TY2 float32

	// Texture is the atlas texture currently holding the glyph.
	Texture atlas.Texture

	atlas *glyphAtlas
	dirty bool
}

// Atlas returns the atlas holding the glyph.
func (e *Entry) Atlas() *atlas.Atlas[*Entry] {
	return e.atlas
}

// Dirty reports whether the glyph still has to be rendered into its
// current atlas position.
func (e *Entry) Dirty() bool {
	return e.dirty
}

// Region returns the glyph's pixel rectangle in Texture, without padding.
func (e *Entry) Region() atlas.Rect {
	return atlas.Rect{X: e.X, Y: e.Y, Width: e.Ink.Width, Height: e.Ink.Height}
}
