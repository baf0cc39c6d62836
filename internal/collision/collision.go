// Package collision resolves worm-worm and worm-food contact each tick,
// using the spatial grid Physics has just been rebuilt over (spec.md
// §4.4). Grounded on the teacher's game_loop.go detectCollisions and
// collectFood, reworked from the teacher's head-to-head-plus-head-to-body
// rule (smaller snake dies on head-to-head) to spec.md's single
// head-to-body rule with a grace-period immunity and an anti-tunneling
// sweep test the teacher does not implement.
package collision

import (
	"wormarena/internal/geom"
	"wormarena/internal/spatial"
	"wormarena/internal/world"
)

// EventType distinguishes the two kinds of collision spec.md names.
type EventType string

const (
	WormWorm EventType = "worm-worm"
	WormFood EventType = "worm-food"
)

// Event is a single collision outcome, reported so callers (the room's
// tick loop) can notify transports without re-deriving what happened.
type Event struct {
	Type         EventType
	VictimWormID string
	KillerWormID string // set for WormWorm
	FoodID       string // set for WormFood
	Position     geom.Point
}

// ResolveWormWorm tests every living worm's head against every other
// living worm's sampled body, killing worms on first contact. Worms
// within the spawn grace period cannot be killed this tick (spec.md
// invariant I6). Iteration is in World's insertion order, matching
// spec.md's determinism requirement.
func ResolveWormWorm(w *world.World, grid *spatial.Grid, nowMs int64) []Event {
	cfg := w.Cfg
	var events []Event
	dead := make(map[string]bool)

	for _, victim := range w.AliveWorms() {
		if dead[victim.ID] {
			continue
		}
		if victim.InGracePeriod(nowMs, cfg) {
			continue
		}
		segs := victim.Segments(cfg)
		if len(segs) == 0 {
			continue
		}
		headRadius := segs[0].Radius
		killerID := ""

		if cfg.SelfCollision {
			for i := cfg.SelfCollisionSeg; i < len(segs); i++ {
				if geom.CirclesIntersect(victim.Head, headRadius, segs[i].Point, segs[i].Radius) {
					killerID = victim.ID
					break
				}
			}
		}

		if killerID == "" {
			for _, seg := range grid.NearbyWorms(victim.Head) {
				if seg.WormID == victim.ID {
					continue
				}
				other, ok := w.Worms[seg.WormID]
				if !ok || !other.Alive || dead[other.ID] {
					continue
				}
				if geom.CirclesIntersect(victim.Head, headRadius, seg.Point, seg.Radius) {
					killerID = other.ID
					break
				}
			}
		}

		if killerID == "" {
			continue
		}

		victim.Die()
		dead[victim.ID] = true
		events = append(events, Event{
			Type:         WormWorm,
			VictimWormID: victim.ID,
			KillerWormID: killerID,
			Position:     victim.Head,
		})

		if killerID != victim.ID {
			if killer, ok := w.Worms[killerID]; ok {
				if player, ok := w.Players[killer.PlayerID]; ok {
					player.Score += cfg.PointsPerKill
				}
			}
		}
	}

	return events
}

// ResolveWormFood tests every living worm's head (and the anti-tunneling
// swept segment back to its penultimate path point) against nearby food,
// consuming on hit and removing the food from the grid within the same
// call so no later worm in this tick can double-eat it (spec.md
// invariant P4).
func ResolveWormFood(w *world.World, grid *spatial.Grid) []Event {
	cfg := w.Cfg
	var events []Event

	for _, wo := range w.AliveWorms() {
		segs := wo.Segments(cfg)
		if len(segs) == 0 {
			continue
		}
		headRadius := segs[0].Radius
		searchR := headRadius + cfg.FoodMaxRadius*2
		candidates := grid.FoodInRadius(wo.Head, searchR)

		for _, fid := range candidates {
			f, ok := w.Food[fid]
			if !ok || f.IsConsumed {
				continue
			}
			grab := headRadius + f.Radius
			grab2 := grab * grab

			hit := geom.DistSq(wo.Head, f.Position) <= grab2
			if !hit && wo.Path.Len() >= 2 {
				prev := wo.Path.At(wo.Path.Len() - 2)
				hit = geom.DistSqToSegment(f.Position, wo.Head, prev) <= grab2
			}
			if !hit {
				continue
			}

			f.IsConsumed = true
			wo.Grow(float64(f.Value), cfg)
			grid.RemoveFood(fid, f.Position)
			w.RemoveFood(fid)

			if player, ok := w.Players[wo.PlayerID]; ok {
				player.Score += f.Value * cfg.PointsPerFood
			}

			events = append(events, Event{
				Type:         WormFood,
				VictimWormID: wo.ID,
				FoodID:       fid,
				Position:     f.Position,
			})
		}
	}

	return events
}
