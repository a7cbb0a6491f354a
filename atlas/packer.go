package atlas

// Packer places rectangles inside a fixed width x height area.
// Rectangles are never removed individually; Reset empties the packer.
//
// Sizes passed to Insert already include any padding the caller wants
// between neighbours.
type Packer interface {
	// Insert finds space for a w x h rectangle.
	// On failure it returns ok == false and leaves the packer unchanged.
	Insert(w, h int) (x, y int, ok bool)

	// Reset removes all rectangles.
	Reset()

	Width() int
	Height() int

	// UsedArea returns the summed area of inserted rectangles.
	UsedArea() int
}

// packItem is one rectangle waiting to be placed by a reorganize.
type packItem struct {
	index int
	w, h  int
}

// packAll inserts every item into p, writing the results to rects by item
// index. It reports false as soon as one item does not fit.
func packAll(p Packer, items []packItem, rects []Rect) bool {
	for _, it := range items {
		x, y, ok := p.Insert(it.w, it.h)
		if !ok {
			return false
		}
		rects[it.index] = Rect{X: x, Y: y, Width: it.w, Height: it.h}
	}
	return true
}
