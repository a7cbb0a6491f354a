package glyphatlas

import (
	"slices"

	"github.com/gogpu/glyphatlas/atlas"
	"github.com/gogpu/glyphatlas/callback"
)

// atlasFlags are the texture flags of every glyph atlas.
const atlasFlags = atlas.FlagClearTexture | atlas.FlagDisableMigration

// Stats holds cache statistics.
type Stats struct {
	Glyphs      int // live entries
	Atlases     int // live atlases
	Hits        int // lookups that found an entry
	Misses      int // lookups that did not
	Failures    int // glyphs that did not fit in an empty atlas
	Reorganizes int // reorganize events forwarded to subscribers
}

// Cache maps (font, glyph) pairs to their location in glyph atlases.
//
// Cache is NOT safe for concurrent use.
type Cache struct {
	backend atlas.Backend
	opts    cacheOptions

	// entries holds one entry per cached (font, glyph) pair.
	entries map[Key]*Entry

	// atlases in search order: most recently created first.
	atlases []*glyphAtlas

	// reorganize is fed by every atlas the cache creates.
	reorganize callback.List

	// hasDirty is true iff at least one entry is dirty. It lets
	// SweepDirty return without touching the entries.
	hasDirty bool

	// clears counts Clear calls, so work started before a Clear made from
	// a callback can tell its atlas is gone.
	clears uint64

	stats Stats
}

// New creates an empty cache whose atlases allocate textures from backend.
func New(backend atlas.Backend, opts ...Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.atlasConfig.Validate(); err != nil {
		Logger().Warn("glyphatlas: invalid atlas config, using defaults", "error", err)
		o.atlasConfig = atlas.DefaultConfig()
	}

	return &Cache{
		backend: backend,
		opts:    o,
		entries: make(map[Key]*Entry),
	}
}

// Lookup returns the entry for glyph in font.
//
// An existing entry is returned whatever the value of create. On a miss
// Lookup returns nil unless create is true, in which case it queries the
// font's ink extents, reserves space for the glyph plus one pixel of
// padding in the newest atlas with room (creating an atlas if none has
// any) and returns the new, dirty entry.
//
// Lookup returns nil when the glyph does not fit even in an empty atlas.
// Callers should skip drawing such glyphs. At most one empty atlas is kept
// for such misses; repeated misses do not create more.
//
// Reserving space may reorganize an atlas, which updates the position of
// other entries before Lookup returns. If a reorganize subscriber clears
// the cache, Lookup returns nil and stores nothing.
func (c *Cache) Lookup(font Font, glyph GlyphID, create bool) *Entry {
	key := Key{Font: font, Glyph: glyph}
	if e, ok := c.entries[key]; ok {
		c.stats.Hits++
		return e
	}
	c.stats.Misses++

	if !create || font == nil {
		return nil
	}

	ink := font.InkExtents(glyph)
	w := max(ink.Width, 0) + 1
	h := max(ink.Height, 0) + 1
	e := &Entry{Ink: ink, dirty: true}
	clears := c.clears

	var owner *glyphAtlas
	hasEmpty := false
	for _, a := range c.atlases {
		if a.Reserve(w, h, e) {
			owner = a
			break
		}
		if c.clears != clears {
			return nil
		}
		hasEmpty = hasEmpty || a.Len() == 0
	}

	if owner == nil && hasEmpty {
		// The glyph was already refused by an empty atlas.
		Logger().Debug("glyphatlas: glyph does not fit in an empty atlas",
			"glyph", glyph, "width", ink.Width, "height", ink.Height)
		c.stats.Failures++
		return nil
	}

	if owner == nil {
		a, err := c.newAtlas()
		if err != nil {
			Logger().Warn("glyphatlas: cannot create atlas", "error", err)
			c.stats.Failures++
			return nil
		}
		if !a.Reserve(w, h, e) {
			Logger().Debug("glyphatlas: glyph does not fit in an empty atlas",
				"glyph", glyph, "width", ink.Width, "height", ink.Height)
			c.stats.Failures++
			return nil
		}
		owner = a
	}

	if c.clears != clears {
		return nil
	}

	e.atlas = owner
	if r, ok := font.(Retainer); ok {
		r.Retain()
	}
	c.entries[key] = e
	c.hasDirty = true
	return e
}

// newAtlas creates an atlas, wires its reorganize events into the cache's
// subscribers and puts it first in search order.
func (c *Cache) newAtlas() (*glyphAtlas, error) {
	a, err := atlas.New(c.backend, c.opts.format, atlasFlags, c.updatePosition, c.opts.atlasConfig)
	if err != nil {
		return nil, err
	}
	a.AddReorganizeCallback(c.forwardReorganize)
	c.atlases = slices.Insert(c.atlases, 0, a)

	Logger().Debug("glyphatlas: created new atlas for glyphs",
		"atlases", len(c.atlases), "format", c.opts.format)
	return a, nil
}

// updatePosition is the reposition callback of every cache atlas.
func (c *Cache) updatePosition(e *Entry, tex atlas.Texture, r atlas.Rect) {
	tw := float32(tex.Width())
	th := float32(tex.Height())

	e.Texture = tex
	e.X, e.Y = r.X, r.Y
	e.TX1 = float32(r.X) / tw
	e.TY1 = float32(r.Y) / th
	e.TX2 = float32(r.X+e.Ink.Width) / tw
	e.TY2 = float32(r.Y+e.Ink.Height) / th

	// The glyph has changed position so it will need to be redrawn.
	e.dirty = true
	c.hasDirty = true
}

func (c *Cache) forwardReorganize() {
	c.stats.Reorganizes++
	c.reorganize.Invoke()
}

// SweepDirty calls visit for every dirty entry, then marks it clean.
// The entry still reports Dirty while visit runs.
//
// When no entry is dirty SweepDirty returns without visiting anything.
// The visiting order is unspecified. An entry moved by a reorganize that
// visit itself triggers is left dirty for the next sweep. A Clear made from
// visit ends the sweep.
func (c *Cache) SweepDirty(visit func(font Font, glyph GlyphID, e *Entry)) {
	if !c.hasDirty {
		return
	}

	c.hasDirty = false
	clears := c.clears
	for key, e := range c.entries {
		if !e.dirty {
			continue
		}
		if visit == nil {
			e.dirty = false
			continue
		}
		tex := e.Texture
		visit(key.Font, key.Glyph, e)
		if c.clears != clears {
			return
		}
		// A reorganize always installs a new texture.
		if e.Texture == tex {
			e.dirty = false
		}
	}
}

// SubscribeReorganize registers fn to run after any atlas of the cache,
// existing or created later, reorganizes. By the time fn runs every moved
// entry already holds its new position.
func (c *Cache) SubscribeReorganize(fn func()) callback.ID {
	return c.reorganize.Add(fn)
}

// UnsubscribeReorganize removes a subscription made with
// SubscribeReorganize.
func (c *Cache) UnsubscribeReorganize(id callback.ID) bool {
	return c.reorganize.Remove(id)
}

// Clear destroys every atlas, releasing their textures, and drops every
// entry. Reorganize subscriptions are kept.
func (c *Cache) Clear() {
	for _, a := range c.atlases {
		a.Destroy()
	}
	c.atlases = nil

	for key, e := range c.entries {
		if r, ok := key.Font.(Retainer); ok {
			r.Release()
		}
		e.atlas = nil
		e.Texture = nil
	}
	c.entries = make(map[Key]*Entry)
	c.hasDirty = false
	c.clears++
}

// Close clears the cache and drops all reorganize subscriptions.
func (c *Cache) Close() {
	c.Clear()
	c.reorganize.Reset()
}

// HasDirtyGlyphs reports whether any entry is dirty.
func (c *Cache) HasDirtyGlyphs() bool {
	return c.hasDirty
}

// Len returns the number of cached glyphs.
func (c *Cache) Len() int {
	return len(c.entries)
}

// AtlasCount returns the number of atlases.
func (c *Cache) AtlasCount() int {
	return len(c.atlases)
}

// Atlases returns the atlases in search order, newest first.
func (c *Cache) Atlases() []*atlas.Atlas[*Entry] {
	return slices.Clone(c.atlases)
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	s := c.stats
	s.Glyphs = len(c.entries)
	s.Atlases = len(c.atlases)
	return s
}
