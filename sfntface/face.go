// Package sfntface provides a glyphatlas.Font backed by an OpenType or
// TrueType font parsed with golang.org/x/image/font/sfnt.
//
// A Face reports glyph ink extents to the cache and rasterizes glyph
// coverage masks for upload into atlas textures:
//
//	face, err := sfntface.Parse(goregular.TTF, 16)
//	if err != nil {
//	    return err
//	}
//	e := cache.Lookup(face, gid, true)
//	mask, err := face.Rasterize(gid, e.Ink)
package sfntface

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/glyphatlas"
)

var (
	// ErrInvalidSize is returned when the face size is not positive.
	ErrInvalidSize = errors.New("sfntface: size must be positive")

	// ErrGlyphNotFound is returned by GlyphIndex for runes the font lacks.
	ErrGlyphNotFound = errors.New("sfntface: glyph not found")

	// ErrFaceInUse is returned by Close while cached glyphs reference the face.
	ErrFaceInUse = errors.New("sfntface: face still referenced")

	// ErrClosed is returned when a closed face is used.
	ErrClosed = errors.New("sfntface: face closed")
)

// Face is a font at a fixed pixel size.
//
// Face is NOT safe for concurrent use; it reuses one sfnt.Buffer.
type Face struct {
	font *opentype.Font
	data []byte
	size float64
	ppem fixed.Int26_6

	buf    sfnt.Buffer
	refs   int
	closed bool
}

// Parse parses font data and returns a face of size pixels per em.
// The data must stay unmodified while the face is in use.
func Parse(data []byte, size float64) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("sfntface: failed to parse font: %w", err)
	}
	return &Face{
		font: f,
		data: data,
		size: size,
		ppem: fixed.Int26_6(size * 64),
	}, nil
}

// InkExtents implements glyphatlas.Font. The rectangle is the glyph's
// bounds rounded outward to whole pixels, with Y growing downward.
// Glyphs without an outline, and glyphs that fail to load, have an empty
// rectangle.
func (f *Face) InkExtents(glyph glyphatlas.GlyphID) glyphatlas.InkRect {
	if f.closed {
		return glyphatlas.InkRect{}
	}
	bounds, _, err := f.font.GlyphBounds(&f.buf, sfnt.GlyphIndex(glyph), f.ppem, font.HintingNone)
	if err != nil {
		return glyphatlas.InkRect{}
	}

	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	maxX, maxY := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
	if maxX <= minX || maxY <= minY {
		return glyphatlas.InkRect{}
	}
	return glyphatlas.InkRect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Rasterize renders glyph into a coverage mask of ink's size, one byte per
// pixel, rows top to bottom. ink is normally the glyph's InkExtents.
// An empty ink rectangle yields a nil mask.
func (f *Face) Rasterize(glyph glyphatlas.GlyphID, ink glyphatlas.InkRect) ([]byte, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if ink.Empty() {
		return nil, nil
	}

	segments, err := f.font.LoadGlyph(&f.buf, sfnt.GlyphIndex(glyph), f.ppem, nil)
	if err != nil {
		return nil, fmt.Errorf("sfntface: load glyph %d: %w", glyph, err)
	}

	r := vector.NewRasterizer(ink.Width, ink.Height)
	r.DrawOp = draw.Src

	// Shift the outline so the ink rectangle's corner lands on (0, 0).
	dx, dy := float32(-ink.X), float32(-ink.Y)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 + dx, float32(p.Y)/64 + dy
	}

	open := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				r.ClosePath()
			}
			r.MoveTo(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			r.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			r.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			ex, ey := pt(seg.Args[2])
			r.CubeTo(bx, by, cx, cy, ex, ey)
		}
	}
	if open {
		r.ClosePath()
	}

	dst := image.NewAlpha(image.Rect(0, 0, ink.Width, ink.Height))
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst.Pix, nil
}

// GlyphIndex returns the glyph for r.
func (f *Face) GlyphIndex(r rune) (glyphatlas.GlyphID, error) {
	if f.closed {
		return 0, ErrClosed
	}
	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil {
		return 0, fmt.Errorf("sfntface: glyph index of %q: %w", r, err)
	}
	if idx == 0 {
		return 0, fmt.Errorf("%w: %q", ErrGlyphNotFound, r)
	}
	return glyphatlas.GlyphID(idx), nil
}

// Advance returns the horizontal advance of glyph in pixels.
func (f *Face) Advance(glyph glyphatlas.GlyphID) float64 {
	adv, err := f.font.GlyphAdvance(&f.buf, sfnt.GlyphIndex(glyph), f.ppem, font.HintingNone)
	if err != nil {
		return 0
	}
	return float64(adv) / 64
}

// Size returns the face size in pixels per em.
func (f *Face) Size() float64 { return f.size }

// Data returns the font data the face was parsed from.
func (f *Face) Data() []byte { return f.data }

// Name returns the font family name, or "" if the font has none.
func (f *Face) Name() string {
	name, err := f.font.Name(&f.buf, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return name
}

// Retain implements glyphatlas.Retainer.
func (f *Face) Retain() { f.refs++ }

// Release implements glyphatlas.Retainer.
func (f *Face) Release() {
	if f.refs > 0 {
		f.refs--
	}
}

// Refs returns the number of cached glyphs referencing the face.
func (f *Face) Refs() int { return f.refs }

// Close marks the face unusable. It fails with ErrFaceInUse while a cache
// still holds glyphs of the face; clear the cache first.
func (f *Face) Close() error {
	if f.refs > 0 {
		return fmt.Errorf("%w: %d glyphs", ErrFaceInUse, f.refs)
	}
	f.closed = true
	return nil
}

var (
	_ glyphatlas.Font     = (*Face)(nil)
	_ glyphatlas.Retainer = (*Face)(nil)
)
