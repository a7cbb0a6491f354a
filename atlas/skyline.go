package atlas

// SkylinePacker packs rectangles bottom-left against a skyline: the upper
// contour of everything placed so far. It wastes less space than shelves
// when item heights vary a lot.
type SkylinePacker struct {
	width, height int
	nodes         []skylineNode
	usedArea      int
}

// skylineNode is a horizontal segment of the skyline at height y.
type skylineNode struct {
	x, y, width int
}

// NewSkylinePacker creates a new packer for the given dimensions.
func NewSkylinePacker(width, height int) *SkylinePacker {
	p := &SkylinePacker{width: width, height: height}
	p.Reset()
	return p
}

// SkylinePackerFunc is a PackerFunc for NewSkylinePacker.
func SkylinePackerFunc(width, height int) Packer {
	return NewSkylinePacker(width, height)
}

// Insert places the rectangle where its bottom edge is lowest, preferring
// the leftmost position on ties.
func (p *SkylinePacker) Insert(w, h int) (x, y int, ok bool) {
	if w <= 0 || h <= 0 || w > p.width || h > p.height {
		return -1, -1, false
	}

	best := -1
	bestBottom := 0
	bestY := 0
	for i := range p.nodes {
		ny, fits := p.fit(i, w, h)
		if !fits {
			continue
		}
		if best < 0 || ny+h < bestBottom {
			best, bestBottom, bestY = i, ny+h, ny
		}
	}
	if best < 0 {
		return -1, -1, false
	}

	x = p.nodes[best].x
	p.addLevel(best, x, bestY+h, w)
	p.usedArea += w * h
	return x, bestY, true
}

// fit returns the y at which a w x h rectangle rests when its left edge
// is at node i, and whether it fits inside the area there.
func (p *SkylinePacker) fit(i, w, h int) (int, bool) {
	x := p.nodes[i].x
	if x+w > p.width {
		return 0, false
	}
	y := 0
	left := w
	for j := i; left > 0; j++ {
		if j >= len(p.nodes) {
			return 0, false
		}
		y = max(y, p.nodes[j].y)
		if y+h > p.height {
			return 0, false
		}
		left -= p.nodes[j].width
	}
	return y, true
}

// addLevel inserts a new skyline segment at index i and trims the
// segments it covers.
func (p *SkylinePacker) addLevel(i, x, y, w int) {
	p.nodes = append(p.nodes, skylineNode{})
	copy(p.nodes[i+1:], p.nodes[i:])
	p.nodes[i] = skylineNode{x: x, y: y, width: w}

	for j := i + 1; j < len(p.nodes); {
		prev := p.nodes[j-1]
		end := prev.x + prev.width
		if p.nodes[j].x >= end {
			break
		}
		shrink := end - p.nodes[j].x
		p.nodes[j].x += shrink
		p.nodes[j].width -= shrink
		if p.nodes[j].width > 0 {
			break
		}
		p.nodes = append(p.nodes[:j], p.nodes[j+1:]...)
	}

	for j := 0; j < len(p.nodes)-1; {
		if p.nodes[j].y == p.nodes[j+1].y {
			p.nodes[j].width += p.nodes[j+1].width
			p.nodes = append(p.nodes[:j+1], p.nodes[j+2:]...)
			continue
		}
		j++
	}
}

// Reset clears all allocations.
func (p *SkylinePacker) Reset() {
	p.nodes = append(p.nodes[:0], skylineNode{x: 0, y: 0, width: p.width})
	p.usedArea = 0
}

// Width returns the packing area width.
func (p *SkylinePacker) Width() int { return p.width }

// Height returns the packing area height.
func (p *SkylinePacker) Height() int { return p.height }

// UsedArea returns the total area used by allocations.
func (p *SkylinePacker) UsedArea() int { return p.usedArea }
