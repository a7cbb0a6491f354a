package textrender

import (
	"errors"
	"fmt"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/atlas"
	"github.com/gogpu/glyphatlas/callback"
	"github.com/gogpu/glyphatlas/internal/lru"
	"github.com/gogpu/glyphatlas/sfntface"
)

var (
	// ErrNilFace is returned when shaping or laying out without a face.
	ErrNilFace = errors.New("textrender: nil face")

	// ErrClosed is returned by a closed Renderer.
	ErrClosed = errors.New("textrender: renderer closed")
)

// Rasterizer is implemented by fonts that can render glyph coverage masks.
// sfntface.Face implements it.
type Rasterizer interface {
	// Rasterize returns ink.Width*ink.Height coverage bytes, rows top to
	// bottom.
	Rasterize(glyph glyphatlas.GlyphID, ink glyphatlas.InkRect) ([]byte, error)
}

// Quad is a glyph rectangle on screen and its texture coordinates.
type Quad struct {
	X0, Y0, X1, Y1 float32
	U0, V0, U1, V1 float32

	Texture atlas.Texture
}

// Text is a laid out line of text.
type Text struct {
	face   *sfntface.Face
	glyphs []Glyph
	x, y   float64

	entries    []*glyphatlas.Entry
	quads      []Quad
	generation uint64
	built      bool
	builds     int
}

// Glyphs returns the shaped glyphs of the text.
func (t *Text) Glyphs() []Glyph { return t.glyphs }

// Renderer draws text through a glyph cache.
//
// Renderer is NOT safe for concurrent use, like the cache it wraps.
type Renderer struct {
	cache   *glyphatlas.Cache
	backend atlas.Backend

	sub        callback.ID
	generation uint64
	closed     bool

	shaper shaping.HarfbuzzShaper
	fonts  map[*sfntface.Face]*font.Font
	shaped *lru.Cache[shapeKey, []Glyph]
}

// shapeKey identifies a shaped string.
type shapeKey struct {
	face *sfntface.Face
	text string
}

// New creates a renderer that uploads glyph masks through backend, which
// should be the backend the cache allocates its textures from.
func New(cache *glyphatlas.Cache, backend atlas.Backend, opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Renderer{
		cache:   cache,
		backend: backend,
		fonts:   make(map[*sfntface.Face]*font.Font),
		shaped:  lru.New[shapeKey, []Glyph](o.shapeCacheSize),
	}
	r.sub = cache.SubscribeReorganize(r.Invalidate)
	return r
}

// Invalidate forces every Text to rebuild its quads. Reorganize events
// call it; call it after clearing the cache too.
func (r *Renderer) Invalidate() {
	r.generation++
}

// Layout shapes text at (x, y), the origin of the baseline, caches all of
// its glyphs and uploads those not yet in their atlas.
//
// Glyphs too large for an atlas are left out of the quads. The returned
// Text is usable even when the upload reports an error.
func (r *Renderer) Layout(face *sfntface.Face, text string, x, y float64) (*Text, error) {
	if r.closed {
		return nil, ErrClosed
	}
	glyphs, err := r.Shape(face, text)
	if err != nil {
		return nil, err
	}

	t := &Text{face: face, glyphs: glyphs, x: x, y: y}
	r.lookup(t)
	return t, r.Flush()
}

// lookup resolves the cache entry of every glyph of t.
func (r *Renderer) lookup(t *Text) {
	t.entries = make([]*glyphatlas.Entry, len(t.glyphs))
	for i, g := range t.glyphs {
		e := r.cache.Lookup(t.face, g.ID, true)
		if e == nil {
			glyphatlas.Logger().Debug("textrender: glyph skipped, too large for atlas",
				"glyph", g.ID, "size", t.face.Size())
		}
		t.entries[i] = e
	}
}

// Flush renders every dirty cache entry into its atlas texture.
// Entries of fonts that are not Rasterizers, and empty glyphs, are marked
// clean without uploading anything. Errors of individual glyphs are
// joined; the remaining glyphs are still uploaded.
func (r *Renderer) Flush() error {
	if r.closed {
		return ErrClosed
	}

	var errs []error
	r.cache.SweepDirty(func(f glyphatlas.Font, glyph glyphatlas.GlyphID, e *glyphatlas.Entry) {
		rz, ok := f.(Rasterizer)
		if !ok || e.Ink.Empty() || e.Texture == nil {
			return
		}
		mask, err := rz.Rasterize(glyph, e.Ink)
		if err != nil {
			errs = append(errs, fmt.Errorf("textrender: rasterize glyph %d: %w", glyph, err))
			return
		}
		if e.Atlas() != nil && e.Atlas().Format() == atlas.FormatRGBA8 {
			mask = coverageToRGBA(mask)
		}
		if err := r.backend.UploadRegion(e.Texture, e.X, e.Y, e.Ink.Width, e.Ink.Height, mask); err != nil {
			errs = append(errs, fmt.Errorf("textrender: upload glyph %d: %w", glyph, err))
		}
	})
	return errors.Join(errs...)
}

// coverageToRGBA expands coverage into premultiplied white pixels.
func coverageToRGBA(mask []byte) []byte {
	out := make([]byte, len(mask)*4)
	for i, v := range mask {
		out[i*4+0] = v
		out[i*4+1] = v
		out[i*4+2] = v
		out[i*4+3] = v
	}
	return out
}

// Quads returns the screen quads of t. They are rebuilt after any atlas
// reorganize or Invalidate, so callers may keep calling Quads every frame.
// Glyphs that had to be cached again are uploaded by the next Flush.
func (r *Renderer) Quads(t *Text) []Quad {
	if t.built && t.generation == r.generation {
		return t.quads
	}

	if t.built {
		// Entries may belong to a cleared cache.
		r.lookup(t)
	}
	quads := make([]Quad, 0, len(t.glyphs))
	for i, g := range t.glyphs {
		e := t.entries[i]
		if e == nil || e.Ink.Empty() {
			continue
		}
		x0 := t.x + g.X + float64(e.Ink.X)
		y0 := t.y + g.Y + float64(e.Ink.Y)
		quads = append(quads, Quad{
			X0:      float32(x0),
			Y0:      float32(y0),
			X1:      float32(x0 + float64(e.Ink.Width)),
			Y1:      float32(y0 + float64(e.Ink.Height)),
			U0:      e.TX1,
			V0:      e.TY1,
			U1:      e.TX2,
			V1:      e.TY2,
			Texture: e.Texture,
		})
	}
	t.quads = quads
	t.generation = r.generation
	t.built = true
	t.builds++
	return t.quads
}

// Batches groups the quads of t by texture so each group can be drawn
// with one texture binding.
func (r *Renderer) Batches(t *Text) map[atlas.Texture][]Quad {
	batches := make(map[atlas.Texture][]Quad)
	for _, q := range r.Quads(t) {
		batches[q.Texture] = append(batches[q.Texture], q)
	}
	return batches
}

// ForgetFace drops the shaping state kept for face. Call it before
// closing a face the renderer has used.
func (r *Renderer) ForgetFace(face *sfntface.Face) {
	if r.closed {
		return
	}
	delete(r.fonts, face)
	r.shaped.DeleteFunc(func(k shapeKey, _ []Glyph) bool { return k.face == face })
}

// ShapeCacheStats returns statistics of the shaped string cache.
func (r *Renderer) ShapeCacheStats() lru.Stats {
	return r.shaped.Stats()
}

// Close stops listening to the cache. The cache and backend stay usable.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.cache.UnsubscribeReorganize(r.sub)
	r.fonts = nil
	r.shaped.Clear()
	r.closed = true
}
