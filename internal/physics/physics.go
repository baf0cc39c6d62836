// Package physics runs the per-tick worm advancement and world-boundary
// death check (spec.md §4.3). Grounded on the teacher's game_loop.go
// steps 2a/2b, which call snake.Move() and check the circular boundary
// inline; here that boundary check is factored into its own leaf
// function so the Collision phase (which runs after Physics) never has
// to re-derive it.
package physics

import (
	"wormarena/internal/geom"
	"wormarena/internal/world"
)

// Advance steps every living worm in w by dt seconds and kills any whose
// head has crossed the circular world boundary. It performs no collision
// resolution (spec.md §4.3, "No collision resolution here"). It returns
// the IDs of worms killed by the boundary this call, so the Room's tick
// loop can report the death without re-deriving which worms crossed.
func Advance(w *world.World, dt float64) []string {
	center := w.CenterPoint()
	var killed []string
	for _, wo := range w.AliveWorms() {
		wo.Step(dt, w.Cfg)
		if OutOfBounds(wo.Head, center, w.Cfg.MapRadius) {
			wo.Die()
			killed = append(killed, wo.ID)
		}
	}
	return killed
}

// OutOfBounds reports whether p lies outside the circular playfield of
// the given radius centered at center.
func OutOfBounds(p, center geom.Point, radius float64) bool {
	return geom.DistSq(p, center) > radius*radius
}
