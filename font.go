package glyphatlas

// GlyphID is a glyph index within a font.
type GlyphID uint32

// InkRect is the tight pixel bounding box of a glyph's visible marks,
// relative to the glyph origin on the baseline. Y grows downward, so
// glyphs that rise above the baseline have a negative Y.
type InkRect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the glyph has no visible marks.
func (r InkRect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Font is the metrics provider the cache queries on a miss.
//
// The interface value is the font's identity in cache keys, so
// implementations must be comparable, normally a pointer type. Lookup
// panics when given a font whose dynamic type is not comparable, such as
// a slice or map type.
type Font interface {
	// InkExtents returns the ink rectangle of glyph in pixels.
	InkExtents(glyph GlyphID) InkRect
}

// Retainer is implemented by fonts that count references.
//
// The cache calls Retain once for every entry it creates and Release when
// that entry is dropped by Clear or Close, so a retained font knows it
// still has cached glyphs.
type Retainer interface {
	Retain()
	Release()
}

// Key identifies a cached glyph.
type Key struct {
	Font  Font
	Glyph GlyphID
}
