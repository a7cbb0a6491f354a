package atlas

import (
	"cmp"
	"slices"

	"github.com/gogpu/glyphatlas/callback"
)

// RepositionFunc is called every time a reservation is placed or moved,
// including its first placement. tex is the texture the rectangle now
// lives in; it changes when a reorganize replaces the texture.
type RepositionFunc[V any] func(value V, tex Texture, rect Rect)

// reservation is a live rectangle and the caller's value for it.
type reservation[V any] struct {
	value V
	rect  Rect
}

// Atlas is a single bounded packing area backed by one texture.
//
// The texture is created lazily by the first successful reservation and is
// replaced by every reorganize. An Atlas is not safe for concurrent use.
type Atlas[V any] struct {
	backend    Backend
	format     Format
	flags      Flags
	reposition RepositionFunc[V]
	config     Config

	texture      Texture
	packer       Packer
	reservations []reservation[V]
	listeners    callback.List

	reorganizes int
	destroyed   bool
}

// New creates an empty atlas. No texture is allocated until the first
// successful Reserve.
func New[V any](backend Backend, format Format, flags Flags, reposition RepositionFunc[V], config Config) (*Atlas[V], error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	if reposition == nil {
		return nil, ErrNilReposition
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Packer == nil {
		config.Packer = ShelfPackerFunc
	}

	return &Atlas[V]{
		backend:    backend,
		format:     format,
		flags:      flags,
		reposition: reposition,
		config:     config,
	}, nil
}

// Reserve finds room for a width x height rectangle and reports it to the
// reposition callback with value.
//
// If the rectangle does not fit in the current free space, the atlas
// repacks all live reservations, growing the texture up to the configured
// maximum if needed. Each moved reservation is reported to the reposition
// callback, then the new one, then the reorganize listeners run once.
//
// Reserve returns false if the rectangle cannot be placed even after
// reorganizing; the atlas is then left exactly as it was.
func (a *Atlas[V]) Reserve(width, height int, value V) bool {
	if a.destroyed || width <= 0 || height <= 0 {
		return false
	}

	if a.packer != nil {
		if x, y, ok := a.packer.Insert(width, height); ok {
			rect := Rect{X: x, Y: y, Width: width, Height: height}
			a.reservations = append(a.reservations, reservation[V]{value: value, rect: rect})
			a.reposition(value, a.texture, rect)
			return true
		}
	}

	return a.reorganize(width, height, value)
}

// reorganize repacks every live reservation together with a new width x
// height one into a fresh texture.
func (a *Atlas[V]) reorganize(width, height int, value V) bool {
	cfg := a.config
	if width > cfg.MaxWidth || height > cfg.MaxHeight {
		slogger().Debug("atlas: reservation larger than max texture",
			"width", width, "height", height,
			"max_width", cfg.MaxWidth, "max_height", cfg.MaxHeight)
		return false
	}

	live := len(a.reservations)
	items := make([]packItem, 0, live+1)
	area := width * height
	for i, r := range a.reservations {
		items = append(items, packItem{index: i, w: r.rect.Width, h: r.rect.Height})
		area += r.rect.Width * r.rect.Height
	}
	if area > cfg.MaxWidth*cfg.MaxHeight {
		slogger().Debug("atlas: reservations exceed max texture area",
			"area", area, "reservations", live+1)
		return false
	}
	items = append(items, packItem{index: live, w: width, h: height})

	// Tallest first keeps shelves and skylines flat.
	slices.SortStableFunc(items, func(x, y packItem) int {
		if c := cmp.Compare(y.h, x.h); c != 0 {
			return c
		}
		return cmp.Compare(y.w, x.w)
	})

	rects := make([]Rect, live+1)
	w, h := a.startSize(area, width, height)
	var packer Packer
	for {
		packer = cfg.Packer(w, h)
		if packAll(packer, items, rects) {
			break
		}
		var ok bool
		if w, h, ok = a.nextSize(w, h); !ok {
			slogger().Debug("atlas: reorganize failed",
				"reservations", live+1, "area", area)
			return false
		}
	}

	tex, err := a.backend.CreateTexture(w, h, a.format, a.flags)
	if err != nil {
		slogger().Warn("atlas: texture creation failed",
			"width", w, "height", h, "format", a.format, "error", err)
		return false
	}

	if old := a.texture; old != nil {
		a.migrate(old, tex, rects)
		a.backend.ReleaseTexture(old)
	}

	a.texture = tex
	a.packer = packer
	for i := range a.reservations {
		a.reservations[i].rect = rects[i]
	}
	a.reservations = append(a.reservations, reservation[V]{value: value, rect: rects[live]})

	if live > 0 {
		a.reorganizes++
		slogger().Debug("atlas: reorganized",
			"width", w, "height", h, "moved", live)
	}

	// Callbacks run on a copy so that a callback reserving into this atlas
	// cannot disturb the pass.
	moved := slices.Clone(a.reservations)
	for _, r := range moved {
		a.reposition(r.value, tex, r.rect)
	}
	if live > 0 {
		a.listeners.Invoke()
	}
	return true
}

// startSize picks the first texture size a reorganize tries.
// A fresh atlas starts from the initial size. An existing one keeps its
// size while the live area leaves a sixth of it free, otherwise it grows.
func (a *Atlas[V]) startSize(area, width, height int) (int, int) {
	if a.packer == nil {
		w := min(a.config.InitialWidth, a.config.MaxWidth)
		h := min(a.config.InitialHeight, a.config.MaxHeight)
		for w < width || h < height || w*h < area {
			nw, nh, ok := a.nextSize(w, h)
			if !ok {
				break
			}
			w, h = nw, nh
		}
		return w, h
	}

	w, h := a.packer.Width(), a.packer.Height()
	if area*6/5 <= w*h {
		return w, h
	}
	if nw, nh, ok := a.nextSize(w, h); ok {
		return nw, nh
	}
	return w, h
}

// nextSize doubles the smaller side, width first, clamped to the maximum.
// It reports false when the texture cannot grow any more.
func (a *Atlas[V]) nextSize(w, h int) (int, int, bool) {
	maxW, maxH := a.config.MaxWidth, a.config.MaxHeight
	switch {
	case w <= h && w < maxW:
		return min(w*2, maxW), h, true
	case h < maxH:
		return w, min(h*2, maxH), true
	case w < maxW:
		return min(w*2, maxW), h, true
	default:
		return w, h, false
	}
}

// migrate copies the pixels of live reservations from old to tex when the
// backend supports it.
func (a *Atlas[V]) migrate(old, tex Texture, rects []Rect) {
	m, ok := a.backend.(Migrator)
	if !ok {
		return
	}
	for i, r := range a.reservations {
		dst := rects[i]
		if err := m.CopyRegion(tex, dst.X, dst.Y, old, r.rect.X, r.rect.Y, r.rect.Width, r.rect.Height); err != nil {
			slogger().Warn("atlas: pixel migration failed", "error", err)
			return
		}
	}
}

// AddReorganizeCallback registers fn to run once after every reorganize
// of an atlas holding existing reservations. A reorganize always replaces
// the texture, so fn runs even when every rectangle kept its position.
func (a *Atlas[V]) AddReorganizeCallback(fn func()) callback.ID {
	return a.listeners.Add(fn)
}

// RemoveReorganizeCallback unregisters a callback added with
// AddReorganizeCallback.
func (a *Atlas[V]) RemoveReorganizeCallback(id callback.ID) bool {
	return a.listeners.Remove(id)
}

// Destroy releases the texture and all packing state.
// The atlas must not be used afterwards; Reserve on a destroyed atlas
// returns false.
func (a *Atlas[V]) Destroy() {
	if a.destroyed {
		return
	}
	if a.texture != nil {
		a.backend.ReleaseTexture(a.texture)
		a.texture = nil
	}
	a.packer = nil
	a.reservations = nil
	a.listeners.Reset()
	a.destroyed = true
}

// Texture returns the current backing texture, or nil before the first
// reservation.
func (a *Atlas[V]) Texture() Texture {
	return a.texture
}

// Format returns the pixel format of the atlas texture.
func (a *Atlas[V]) Format() Format {
	return a.format
}

// Size returns the current texture size, or 0, 0 before the first
// reservation.
func (a *Atlas[V]) Size() (width, height int) {
	if a.packer == nil {
		return 0, 0
	}
	return a.packer.Width(), a.packer.Height()
}

// Len returns the number of live reservations.
func (a *Atlas[V]) Len() int {
	return len(a.reservations)
}

// Utilization returns the fraction of the texture covered by reservations.
func (a *Atlas[V]) Utilization() float64 {
	if a.packer == nil {
		return 0
	}
	total := a.packer.Width() * a.packer.Height()
	if total <= 0 {
		return 0
	}
	return float64(a.packer.UsedArea()) / float64(total)
}

// Reorganizes returns how many reorganizes moved existing reservations.
func (a *Atlas[V]) Reorganizes() int {
	return a.reorganizes
}

// Each calls fn for every live reservation in reservation order.
func (a *Atlas[V]) Each(fn func(value V, rect Rect)) {
	for _, r := range a.reservations {
		fn(r.value, r.rect)
	}
}
