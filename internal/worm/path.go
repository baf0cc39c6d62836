package worm

import "wormarena/internal/geom"

// Path is the ordered tail->head point history of a worm's body, stored
// over a fixed-capacity backing array so a worm's lifetime allocates the
// path once (spec.md §9, "Path representation": "use a ring buffer
// (double-ended queue) over a fixed-capacity backing array sized for the
// worst case"). Index 0 is the tail, index Len()-1 is the head.
type Path struct {
	buf   []geom.Point
	start int
	count int
}

// NewPath allocates a path with room for capacity points.
func NewPath(capacity int) *Path {
	return &Path{buf: make([]geom.Point, capacity)}
}

// Cap returns the backing array's capacity.
func (p *Path) Cap() int { return len(p.buf) }

// Len returns the number of points currently stored.
func (p *Path) Len() int { return p.count }

func (p *Path) idx(i int) int {
	n := len(p.buf)
	return (p.start + i) % n
}

// At returns the i-th point, tail-relative (0 = tail).
func (p *Path) At(i int) geom.Point { return p.buf[p.idx(i)] }

// Tail returns the oldest point (path[0]).
func (p *Path) Tail() geom.Point { return p.At(0) }

// Head returns the newest point (the end of path).
func (p *Path) Head() geom.Point { return p.At(p.count - 1) }

// PushBack appends a new head point. If the path is at hard capacity the
// oldest tail point is evicted first — this is the hard cap spec.md §5
// describes ("a hard cap (2000 points)"), independent of the arc-length
// trim TrimToArcLength performs every tick.
func (p *Path) PushBack(pt geom.Point) {
	if p.count == len(p.buf) {
		p.start = (p.start + 1) % len(p.buf)
		p.count--
	}
	p.buf[p.idx(p.count)] = pt
	p.count++
}

// ArcLength returns the total length of the polyline from tail to head.
func (p *Path) ArcLength() float64 {
	total := 0.0
	for i := 1; i < p.count; i++ {
		total += geom.Dist(p.At(i-1), p.At(i))
	}
	return total
}

// TrimToArcLength discards points from the tail end until the remaining
// polyline's arc length is <= maxLen, truncating the final retained
// segment mid-segment so the result is exact rather than quantized to a
// point (spec.md §4.1 step 4, "The final retained tail segment is
// truncated mid-segment so the total length is exact, not quantized").
func (p *Path) TrimToArcLength(maxLen float64) {
	if p.count < 2 || maxLen <= 0 {
		if p.count >= 1 && maxLen <= 0 {
			head := p.Head()
			p.start = p.idx(p.count - 1)
			p.buf[p.start] = head
			p.count = 1
		}
		return
	}
	cum := 0.0
	for i := p.count - 1; i > 0; i-- {
		a := p.At(i)
		b := p.At(i - 1)
		segLen := geom.Dist(a, b)
		if cum+segLen >= maxLen {
			remaining := maxLen - cum
			t := 0.0
			if segLen > 0 {
				t = remaining / segLen
			}
			newTail := geom.Point{
				X: a.X + (b.X-a.X)*t,
				Y: a.Y + (b.Y-a.Y)*t,
			}
			newStartIdx := p.idx(i - 1)
			p.buf[newStartIdx] = newTail
			p.start = newStartIdx
			p.count = p.count - (i - 1)
			return
		}
		cum += segLen
	}
	// Total arc length already <= maxLen; nothing to trim.
}
