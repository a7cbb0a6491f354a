package textrender

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/atlas"
	"github.com/gogpu/glyphatlas/backend/memory"
	"github.com/gogpu/glyphatlas/sfntface"
)

func newFace(t *testing.T, size float64) *sfntface.Face {
	t.Helper()
	f, err := sfntface.Parse(goregular.TTF, size)
	require.NoError(t, err)
	return f
}

func newRenderer(t *testing.T, opts ...glyphatlas.Option) (*Renderer, *glyphatlas.Cache, *memory.Backend) {
	t.Helper()
	backend := memory.New()
	cache := glyphatlas.New(backend, opts...)
	r := New(cache, backend)
	t.Cleanup(r.Close)
	return r, cache, backend
}

// inkSum adds up the coverage inside the glyph's region of its texture.
func inkSum(t *testing.T, e *glyphatlas.Entry) int {
	t.Helper()
	tex, ok := e.Texture.(*memory.Texture)
	require.True(t, ok)
	img, ok := tex.Image().(*image.Alpha)
	require.True(t, ok)

	sum := 0
	r := e.Region()
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			sum += int(img.AlphaAt(x, y).A)
		}
	}
	return sum
}

func TestShape(t *testing.T) {
	r, _, _ := newRenderer(t)
	face := newFace(t, 24)

	glyphs, err := r.Shape(face, "Hello")
	require.NoError(t, err)
	require.Len(t, glyphs, 5)

	for i, want := range "Hello" {
		id, err := face.GlyphIndex(want)
		require.NoError(t, err)
		assert.Equal(t, id, glyphs[i].ID, "glyph %d", i)
		assert.Equal(t, i, glyphs[i].Cluster)
		assert.Positive(t, glyphs[i].Advance)
		if i > 0 {
			assert.Greater(t, glyphs[i].X, glyphs[i-1].X)
		}
	}

	glyphs, err = r.Shape(face, "")
	require.NoError(t, err)
	assert.Empty(t, glyphs)

	_, err = r.Shape(nil, "x")
	assert.ErrorIs(t, err, ErrNilFace)
}

func TestBidiRuns(t *testing.T) {
	text := "Hello"
	runs := bidiRuns(text, []rune(text))
	require.Len(t, runs, 1)
	assert.Equal(t, run{start: 0, end: 5}, runs[0])

	text = "שלום"
	runs = bidiRuns(text, []rune(text))
	require.Len(t, runs, 1)
	assert.True(t, runs[0].rtl)
	assert.Equal(t, 4, runs[0].end-runs[0].start)

	text = "Hello שלום"
	runes := []rune(text)
	runs = bidiRuns(text, runes)
	var ltr, rtl bool
	total := 0
	for _, rn := range runs {
		total += rn.end - rn.start
		if rn.rtl {
			rtl = true
		} else {
			ltr = true
		}
	}
	assert.True(t, ltr)
	assert.True(t, rtl)
	assert.Equal(t, len(runes), total)
}

func TestLayoutUploadsGlyphs(t *testing.T) {
	r, cache, backend := newRenderer(t)
	face := newFace(t, 32)

	text, err := r.Layout(face, "Hi!", 10, 40)
	require.NoError(t, err)
	assert.False(t, cache.HasDirtyGlyphs(), "Layout flushes")
	assert.Equal(t, 1, backend.Live())

	quads := r.Quads(text)
	require.Len(t, quads, 3)

	h, err := face.GlyphIndex('H')
	require.NoError(t, err)
	e := cache.Lookup(face, h, false)
	require.NotNil(t, e)
	assert.Positive(t, inkSum(t, e))

	q := quads[0]
	assert.Equal(t, float32(10+e.Ink.X), q.X0)
	assert.Equal(t, float32(40+e.Ink.Y), q.Y0)
	assert.Equal(t, q.X0+float32(e.Ink.Width), q.X1)
	assert.Equal(t, q.Y0+float32(e.Ink.Height), q.Y1)
	assert.Equal(t, e.TX1, q.U0)
	assert.Equal(t, e.TY2, q.V1)
	assert.Same(t, e.Texture, q.Texture)
	assert.Less(t, q.Y0, float32(40), "capitals rise above the baseline")
}

func TestLayoutSkipsEmptyGlyphs(t *testing.T) {
	r, cache, _ := newRenderer(t)
	face := newFace(t, 16)

	text, err := r.Layout(face, "a b", 0, 20)
	require.NoError(t, err)
	assert.Len(t, text.Glyphs(), 3)
	assert.Len(t, r.Quads(text), 2, "space has no ink")
	assert.Equal(t, 3, cache.Len(), "space is still cached")
}

func TestQuadsRebuildAfterReorganize(t *testing.T) {
	r, cache, _ := newRenderer(t, glyphatlas.WithAtlasConfig(atlas.Config{
		InitialWidth: 32, InitialHeight: 32, MaxWidth: 512, MaxHeight: 512,
	}))
	face := newFace(t, 24)

	hi, err := r.Layout(face, "Hi", 0, 30)
	require.NoError(t, err)
	first := r.Quads(hi)
	r.Quads(hi)
	assert.Equal(t, 1, hi.builds, "quads are cached")

	before := cache.Stats().Reorganizes
	_, err = r.Layout(face, "The quick brown fox jumps over the lazy dog", 0, 60)
	require.NoError(t, err)
	require.Greater(t, cache.Stats().Reorganizes, before)
	require.Equal(t, 1, cache.AtlasCount())

	again := r.Quads(hi)
	assert.Equal(t, 2, hi.builds)
	require.Len(t, again, len(first))
	tex := cache.Atlases()[0].Texture()
	for _, q := range again {
		assert.Same(t, tex, q.Texture)
	}

	// Moved glyphs were rendered again at their new place.
	h, err := face.GlyphIndex('H')
	require.NoError(t, err)
	e := cache.Lookup(face, h, false)
	require.NotNil(t, e)
	assert.Positive(t, inkSum(t, e))
}

func TestBatches(t *testing.T) {
	r, cache, _ := newRenderer(t, glyphatlas.WithAtlasConfig(atlas.Config{
		InitialWidth: 64, InitialHeight: 64, MaxWidth: 64, MaxHeight: 64,
	}))
	face := newFace(t, 24)

	text, err := r.Layout(face, "abcdefghijklmnopqrstuvwxyz", 0, 30)
	require.NoError(t, err)
	require.Greater(t, cache.AtlasCount(), 1)

	batches := r.Batches(text)
	assert.Len(t, batches, cache.AtlasCount())
	total := 0
	for tex, quads := range batches {
		for _, q := range quads {
			assert.Same(t, tex, q.Texture)
		}
		total += len(quads)
	}
	assert.Equal(t, len(r.Quads(text)), total)
}

func TestInvalidateAfterClear(t *testing.T) {
	r, cache, backend := newRenderer(t)
	face := newFace(t, 24)

	text, err := r.Layout(face, "Go", 0, 30)
	require.NoError(t, err)
	require.Len(t, r.Quads(text), 2)

	cache.Clear()
	assert.Zero(t, backend.Live())

	r.Invalidate()
	quads := r.Quads(text)
	require.Len(t, quads, 2)
	require.NoError(t, r.Flush())
	assert.Equal(t, 1, backend.Live())
	assert.Same(t, cache.Atlases()[0].Texture(), quads[0].Texture)
}

func TestRGBAUpload(t *testing.T) {
	r, cache, _ := newRenderer(t, glyphatlas.WithFormat(atlas.FormatRGBA8))
	face := newFace(t, 24)

	_, err := r.Layout(face, "W", 0, 30)
	require.NoError(t, err)

	w, err := face.GlyphIndex('W')
	require.NoError(t, err)
	e := cache.Lookup(face, w, false)
	require.NotNil(t, e)
	img, ok := e.Texture.(*memory.Texture).Image().(*image.RGBA)
	require.True(t, ok)

	covered := false
	rg := e.Region()
	for y := rg.Y; y < rg.Y+rg.Height && !covered; y++ {
		for x := rg.X; x < rg.X+rg.Width; x++ {
			if c := img.RGBAAt(x, y); c.A > 0 {
				assert.Equal(t, c.A, c.R, "premultiplied white")
				covered = true
				break
			}
		}
	}
	assert.True(t, covered)
}

// brokenFont has ink but fails to rasterize.
type brokenFont struct{}

func (*brokenFont) InkExtents(glyphatlas.GlyphID) glyphatlas.InkRect {
	return glyphatlas.InkRect{Width: 4, Height: 4}
}

func (*brokenFont) Rasterize(glyphatlas.GlyphID, glyphatlas.InkRect) ([]byte, error) {
	return nil, errors.New("broken outline")
}

// metricsFont has ink but no rasterizer.
type metricsFont struct{}

func (*metricsFont) InkExtents(glyphatlas.GlyphID) glyphatlas.InkRect {
	return glyphatlas.InkRect{Width: 4, Height: 4}
}

func TestFlushErrors(t *testing.T) {
	r, cache, _ := newRenderer(t)
	face := newFace(t, 24)

	require.NotNil(t, cache.Lookup(&brokenFont{}, 1, true))
	require.NotNil(t, cache.Lookup(&metricsFont{}, 1, true))
	g, err := face.GlyphIndex('g')
	require.NoError(t, err)
	good := cache.Lookup(face, g, true)
	require.NotNil(t, good)

	err = r.Flush()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken outline")
	assert.False(t, cache.HasDirtyGlyphs())
	assert.Positive(t, inkSum(t, good), "other glyphs still uploaded")

	assert.NoError(t, r.Flush(), "nothing left to flush")
}

func TestClose(t *testing.T) {
	backend := memory.New()
	cache := glyphatlas.New(backend)
	r := New(cache, backend)
	face := newFace(t, 24)

	r.Close()
	r.Close()

	_, err := r.Layout(face, "x", 0, 0)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.Flush(), ErrClosed)

	// The subscription is gone: reorganizes no longer reach the renderer.
	f := &metricsFont{}
	for g := glyphatlas.GlyphID(0); g < 3000; g++ {
		cache.Lookup(f, g, true)
	}
	require.Positive(t, cache.Stats().Reorganizes)
	assert.Zero(t, r.generation)
}

func TestShapeCache(t *testing.T) {
	backend := memory.New()
	r := New(glyphatlas.New(backend), backend, WithShapeCacheSize(2))
	defer r.Close()
	face := newFace(t, 16)

	a, err := r.Shape(face, "alpha")
	require.NoError(t, err)
	again, err := r.Shape(face, "alpha")
	require.NoError(t, err)
	assert.Equal(t, a, again)

	s := r.ShapeCacheStats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, 2, s.Capacity)

	_, err = r.Shape(face, "beta")
	require.NoError(t, err)
	_, err = r.Shape(face, "gamma")
	require.NoError(t, err)
	assert.Equal(t, 2, r.ShapeCacheStats().Len)
	assert.Equal(t, uint64(1), r.ShapeCacheStats().Evictions)

	other := newFace(t, 20)
	_, err = r.Shape(other, "beta")
	require.NoError(t, err)

	r.ForgetFace(face)
	assert.Equal(t, 1, r.ShapeCacheStats().Len)
	assert.NotContains(t, r.fonts, face)
	assert.Contains(t, r.fonts, other)
}
