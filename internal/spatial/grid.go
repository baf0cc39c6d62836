// Package spatial implements the uniform cell-hash grid the simulation
// uses to make per-tick collision tractable at hundreds of worms
// (spec.md §4.2). It is grounded directly on the teacher's
// spatial_grid.go SpatialGrid, split into a worm grid that is rebuilt
// every tick and a food grid that is maintained incrementally, matching
// spec.md's explicit rationale ("food is long-lived, so we do not
// rebuild it every tick").
package spatial

import (
	"math"

	"wormarena/internal/geom"
)

type cellKey struct {
	cx, cy int
}

// WormSegment is one sampled collision circle belonging to a worm,
// as produced by worm.Segments().
type WormSegment struct {
	WormID string
	Point  geom.Point
	Radius float64
}

type foodEntry struct {
	FoodID string
	Point  geom.Point
}

// Grid is a cell-hash index over the world. Negative coordinates are
// supported: cell coordinates use floor division so the sign of a
// coordinate never changes which cell it belongs to relative to its
// neighbors (spec.md §4.2, "Tie-breaks & edge cases").
type Grid struct {
	cellSize  float64
	wormCells map[cellKey][]WormSegment
	foodCells map[cellKey][]foodEntry
}

// New creates an empty grid with the given cell size.
func New(cellSize float64) *Grid {
	return &Grid{
		cellSize:  cellSize,
		wormCells: make(map[cellKey][]WormSegment),
		foodCells: make(map[cellKey][]foodEntry),
	}
}

func (g *Grid) keyFor(p geom.Point) cellKey {
	return cellKey{
		cx: int(math.Floor(p.X / g.cellSize)),
		cy: int(math.Floor(p.Y / g.cellSize)),
	}
}

// RebuildWorms clears the worm grid and reinserts every sampled segment
// of every entry in segs, keyed by its own position.
func (g *Grid) RebuildWorms(segs []WormSegment) {
	g.wormCells = make(map[cellKey][]WormSegment, len(g.wormCells))
	for _, s := range segs {
		k := g.keyFor(s.Point)
		g.wormCells[k] = append(g.wormCells[k], s)
	}
}

// AddFood inserts a single food item into the food grid.
func (g *Grid) AddFood(id string, p geom.Point) {
	k := g.keyFor(p)
	g.foodCells[k] = append(g.foodCells[k], foodEntry{FoodID: id, Point: p})
}

// RemoveFood removes a food item from the grid. It must be invisible to
// any query issued after this call returns, including within the same
// tick (spec.md §4.2, "An entry removed mid-tick ... must be invisible to
// subsequent queries in the same tick").
func (g *Grid) RemoveFood(id string, p geom.Point) {
	k := g.keyFor(p)
	entries := g.foodCells[k]
	for i, e := range entries {
		if e.FoodID == id {
			entries[i] = entries[len(entries)-1]
			g.foodCells[k] = entries[:len(entries)-1]
			return
		}
	}
}

// NearbyWorms returns the worm segments in the 3x3 block of cells around
// the cell containing p, without a radius filter.
func (g *Grid) NearbyWorms(p geom.Point) []WormSegment {
	center := g.keyFor(p)
	var out []WormSegment
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			out = append(out, g.wormCells[cellKey{center.cx + dx, center.cy + dy}]...)
		}
	}
	return out
}

// WormsInRadius returns the deduplicated set of worm IDs with at least
// one sampled segment within r of p.
func (g *Grid) WormsInRadius(p geom.Point, r float64) []string {
	seen := make(map[string]bool)
	var ids []string
	r2 := r * r
	forEachCellInSquare(g, p, r, func(k cellKey) {
		for _, s := range g.wormCells[k] {
			if seen[s.WormID] {
				continue
			}
			if geom.DistSq(s.Point, p) <= r2 {
				seen[s.WormID] = true
				ids = append(ids, s.WormID)
			}
		}
	})
	return ids
}

// WormSegmentsInRadius returns every sampled segment within r of p,
// including duplicates across multiple segments of the same worm. Used
// by bot danger avoidance, which needs each segment's position, not
// just which worm it belongs to.
func (g *Grid) WormSegmentsInRadius(p geom.Point, r float64) []WormSegment {
	var out []WormSegment
	r2 := r * r
	forEachCellInSquare(g, p, r, func(k cellKey) {
		for _, s := range g.wormCells[k] {
			if geom.DistSq(s.Point, p) <= r2 {
				out = append(out, s)
			}
		}
	})
	return out
}

// FoodInRadius returns the deduplicated set of food IDs within r of p.
func (g *Grid) FoodInRadius(p geom.Point, r float64) []string {
	seen := make(map[string]bool)
	var ids []string
	r2 := r * r
	forEachCellInSquare(g, p, r, func(k cellKey) {
		for _, e := range g.foodCells[k] {
			if seen[e.FoodID] {
				continue
			}
			if geom.DistSq(e.Point, p) <= r2 {
				seen[e.FoodID] = true
				ids = append(ids, e.FoodID)
			}
		}
	})
	return ids
}

func forEachCellInSquare(g *Grid, p geom.Point, r float64, fn func(cellKey)) {
	minC := g.keyFor(geom.Point{X: p.X - r, Y: p.Y - r})
	maxC := g.keyFor(geom.Point{X: p.X + r, Y: p.Y + r})
	for cx := minC.cx; cx <= maxC.cx; cx++ {
		for cy := minC.cy; cy <= maxC.cy; cy++ {
			fn(cellKey{cx, cy})
		}
	}
}
