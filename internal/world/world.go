// Package world owns the authoritative snapshot of all Worms, Food, and
// Players (spec.md §3, "World"). Grounded on the teacher's world.go,
// split out of the teacher's flat game-loop-owns-everything shape so the
// physics/collision/foodsys/score packages can each operate on World
// without importing the tick loop.
package world

import (
	"wormarena/internal/config"
	"wormarena/internal/food"
	"wormarena/internal/geom"
	"wormarena/internal/worm"
)

// Player is a connected participant (spec.md §3, "Player").
type Player struct {
	ID             string
	SocketID       string
	Name           string
	Score          int
	WormID         string // empty when not currently piloting a worm
	LastInputTimeMs int64
	Alive          bool
}

// World holds all live entities for one Room.
type World struct {
	Cfg     config.Config
	Worms   map[string]*worm.Worm
	Food    map[string]*food.Food
	Players map[string]*Player

	// wormOrder preserves insertion order so Collision resolution can
	// iterate worms deterministically (spec.md §4.4, "Order within the
	// tick is deterministic (worms iterated in insertion order)").
	wormOrder []string

	CurrentTick int64
	StartTimeMs int64
}

// New creates an empty world bound to cfg.
func New(cfg config.Config, nowMs int64) *World {
	return &World{
		Cfg:         cfg,
		Worms:       make(map[string]*worm.Worm),
		Food:        make(map[string]*food.Food),
		Players:     make(map[string]*Player),
		StartTimeMs: nowMs,
	}
}

// CenterPoint returns the world midpoint the circular playfield is
// centered on.
func (w *World) CenterPoint() geom.Point {
	return geom.Point{X: w.Cfg.CenterX(), Y: w.Cfg.CenterY()}
}

// AddPlayer registers a new player.
func (w *World) AddPlayer(p *Player) {
	w.Players[p.ID] = p
}

// RemovePlayer removes a player. It does not touch the player's worm;
// callers are expected to have already handled the worm's death/removal
// (spec.md §3, "A Player is created on join, destroyed on disconnect;
// its Worm is a separate lifetime").
func (w *World) RemovePlayer(id string) {
	delete(w.Players, id)
}

// AddWorm registers a new worm, appending it to the insertion-order list.
func (w *World) AddWorm(wo *worm.Worm) {
	if _, exists := w.Worms[wo.ID]; !exists {
		w.wormOrder = append(w.wormOrder, wo.ID)
	}
	w.Worms[wo.ID] = wo
}

// RemoveWorm deletes a worm from the world.
func (w *World) RemoveWorm(id string) {
	delete(w.Worms, id)
	for i, wid := range w.wormOrder {
		if wid == id {
			w.wormOrder = append(w.wormOrder[:i], w.wormOrder[i+1:]...)
			break
		}
	}
}

// AddFood registers a food item.
func (w *World) AddFood(f *food.Food) {
	w.Food[f.ID] = f
}

// RemoveFood deletes a food item.
func (w *World) RemoveFood(id string) {
	delete(w.Food, id)
}

// AliveWorms returns every living worm in insertion order (spec.md §4.4).
func (w *World) AliveWorms() []*worm.Worm {
	out := make([]*worm.Worm, 0, len(w.wormOrder))
	for _, id := range w.wormOrder {
		if wo, ok := w.Worms[id]; ok && wo.Alive {
			out = append(out, wo)
		}
	}
	return out
}

// AllWorms returns every worm (alive or not) in insertion order.
func (w *World) AllWorms() []*worm.Worm {
	out := make([]*worm.Worm, 0, len(w.wormOrder))
	for _, id := range w.wormOrder {
		if wo, ok := w.Worms[id]; ok {
			out = append(out, wo)
		}
	}
	return out
}
