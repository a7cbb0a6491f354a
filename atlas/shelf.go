package atlas

// ShelfPacker implements shelf-based rectangle packing.
// Simple and fast algorithm suitable for glyphs of similar height.
//
// The algorithm organizes rectangles in horizontal "shelves".
// Each shelf has a fixed height (determined by the tallest item placed so far).
// New items are placed left-to-right on the first shelf with room,
// then a new shelf is started below.
type ShelfPacker struct {
	width   int     // Total width of the area
	height  int     // Total height of the area
	shelves []shelf // List of shelves, top to bottom

	// Tracking for utilization
	usedArea int
}

// shelf represents a horizontal strip in the atlas.
type shelf struct {
	y      int // Y position of shelf top
	height int // Height of the shelf (tallest item so far)
	x      int // Current X position (next free slot)
}

// NewShelfPacker creates a new packer for the given dimensions.
func NewShelfPacker(width, height int) *ShelfPacker {
	return &ShelfPacker{
		width:   width,
		height:  height,
		shelves: make([]shelf, 0, 16),
	}
}

// ShelfPackerFunc is a PackerFunc for NewShelfPacker.
func ShelfPackerFunc(width, height int) Packer {
	return NewShelfPacker(width, height)
}

// Insert finds space for a rectangle of the given size.
// Returns x, y position and true if space was found, or -1, -1, false if not.
//
// The algorithm:
// 1. Try to fit on an existing shelf with enough height (first fit)
// 2. A taller item may grow the last shelf if there is room below
// 3. If no shelf fits, create a new shelf
// 4. If no space for new shelf, insertion fails
func (p *ShelfPacker) Insert(w, h int) (x, y int, ok bool) {
	if w <= 0 || h <= 0 || w > p.width || h > p.height {
		return -1, -1, false
	}

	for i := range p.shelves {
		s := &p.shelves[i]

		if s.x+w > p.width {
			continue
		}

		if h > s.height {
			// Only the last shelf can grow, and only if there's room below.
			if i == len(p.shelves)-1 && s.y+h <= p.height {
				s.height = h
				x, y = s.x, s.y
				s.x += w
				p.usedArea += w * h
				return x, y, true
			}
			continue
		}

		x, y = s.x, s.y
		s.x += w
		p.usedArea += w * h
		return x, y, true
	}

	newY := p.nextShelfY()
	if newY+h > p.height {
		return -1, -1, false
	}

	p.shelves = append(p.shelves, shelf{y: newY, height: h, x: w})
	p.usedArea += w * h
	return 0, newY, true
}

// nextShelfY returns the top of the next shelf to be created.
func (p *ShelfPacker) nextShelfY() int {
	if len(p.shelves) == 0 {
		return 0
	}
	last := p.shelves[len(p.shelves)-1]
	return last.y + last.height
}

// Reset clears all allocations, allowing the packer to be reused.
func (p *ShelfPacker) Reset() {
	p.shelves = p.shelves[:0] // Keep capacity
	p.usedArea = 0
}

// Width returns the packing area width.
func (p *ShelfPacker) Width() int { return p.width }

// Height returns the packing area height.
func (p *ShelfPacker) Height() int { return p.height }

// UsedArea returns the total area used by allocations.
func (p *ShelfPacker) UsedArea() int {
	return p.usedArea
}

// ShelfCount returns the number of shelves currently in use.
func (p *ShelfPacker) ShelfCount() int {
	return len(p.shelves)
}

// RemainingHeight returns the vertical space remaining for new shelves.
func (p *ShelfPacker) RemainingHeight() int {
	used := p.nextShelfY()
	if used >= p.height {
		return 0
	}
	return p.height - used
}
