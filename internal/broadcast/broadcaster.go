package broadcast

import (
	"wormarena/internal/config"
	"wormarena/internal/food"
	"wormarena/internal/geom"
	"wormarena/internal/score"
	"wormarena/internal/spatial"
	"wormarena/internal/world"
	"wormarena/internal/worm"
)

// clientState is the server-side memory of what one client was last
// sent, used to compute deltas and detect teleports. Bounded by
// Broadcaster's LRU eviction at cfg.MaxCached entries (spec.md §4.10,
// "per-client cache ... bounded so a churn of short-lived connections
// cannot grow memory without bound").
type clientState struct {
	wormPos     map[string]geom.Point // last sent head position, for teleport detection
	visibleWorm map[string]bool
	visibleFood map[string]bool
	sinceResync int
	lastBoard   []score.Entry
}

// Broadcaster computes per-player Snapshots and owns the bounded
// per-client cache spec.md §4.10 requires.
type Broadcaster struct {
	cfg     config.Config
	clients map[string]*clientState
	order   []string // least recently used first, for LRU eviction
}

// New creates a broadcaster bound to cfg.
func New(cfg config.Config) *Broadcaster {
	return &Broadcaster{cfg: cfg, clients: make(map[string]*clientState)}
}

func (b *Broadcaster) stateFor(playerID string) *clientState {
	if st, ok := b.clients[playerID]; ok {
		for i, id := range b.order {
			if id == playerID {
				copy(b.order[i:], b.order[i+1:])
				b.order[len(b.order)-1] = playerID
				break
			}
		}
		return st
	}
	st := &clientState{
		wormPos:     make(map[string]geom.Point),
		visibleWorm: make(map[string]bool),
		visibleFood: make(map[string]bool),
	}
	b.clients[playerID] = st
	b.order = append(b.order, playerID)
	if len(b.order) > b.cfg.MaxCached {
		evictID := b.order[0]
		b.order = b.order[1:]
		delete(b.clients, evictID)
	}
	return st
}

// Forget drops a disconnected player's cache entry immediately instead
// of waiting for LRU eviction.
func (b *Broadcaster) Forget(playerID string) {
	delete(b.clients, playerID)
	for i, id := range b.order {
		if id == playerID {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// BuildFor computes the Snapshot for playerID. w and grid are the
// room's current state; lb is the room's current leaderboard (nil if
// unchanged this tick, matching room.Room.Tick, which reports a nil
// TickEvents.Leaderboard when the board did not change).
func (b *Broadcaster) BuildFor(playerID string, w *world.World, grid *spatial.Grid, lb []score.Entry) Snapshot {
	cfg := b.cfg
	st := b.stateFor(playerID)

	full := st.sinceResync == 0
	st.sinceResync++
	if st.sinceResync >= cfg.ResyncInterval {
		st.sinceResync = 0
	}

	center, spectating := b.viewerCenter(playerID, w)

	snap := Snapshot{Full: full}

	if spectating {
		b.buildWorms(&snap, w, allAliveWormIDs(w), full, st)
		b.buildSpectatorFood(&snap, w, full, st)
	} else {
		radius := cfg.ViewRadius + cfg.ViewBuffer
		b.buildWorms(&snap, w, grid.WormsInRadius(center, radius), full, st)
		b.buildFood(&snap, w, grid, center, radius, full, st)
	}

	if full || !score.Equal(lb, st.lastBoard) {
		if lb != nil || full {
			snap.Leaderboard = lb
			snap.HasLeaderboard = true
			st.lastBoard = lb
		}
	}

	return snap
}

// viewerCenter returns the point a player's interest window is centered
// on, and whether the player is a dead/unspawned spectator (spec.md
// §4.10, "a dead or not-yet-spawned client receives a capped sample of
// food across the whole map instead of a windowed view").
func (b *Broadcaster) viewerCenter(playerID string, w *world.World) (geom.Point, bool) {
	p, ok := w.Players[playerID]
	if !ok {
		return w.CenterPoint(), true
	}
	wo, ok := w.Worms[p.WormID]
	if !ok || !wo.Alive {
		return w.CenterPoint(), true
	}
	return wo.Head, false
}

// buildWorms diffs the candidate worm IDs (a spatial-index window for a
// live viewer, or every living worm for a spectator, spec.md §4.10) against
// the client's cached visibility set, emitting full bodies for new or
// teleporting worms and head-only updates for continuously-moving ones.
func (b *Broadcaster) buildWorms(snap *Snapshot, w *world.World, candidates []string, full bool, st *clientState) {
	cfg := b.cfg
	nowVisible := make(map[string]bool, len(st.visibleWorm))

	for _, id := range candidates {
		wo, ok := w.Worms[id]
		if !ok || !wo.Alive {
			continue
		}
		nowVisible[id] = true

		lastPos, hadPos := st.wormPos[id]
		teleported := !hadPos || geom.Dist(lastPos, wo.Head) > cfg.TeleportDist
		if full || teleported || !st.visibleWorm[id] {
			snap.Worms = append(snap.Worms, toWormView(wo, w, cfg))
		} else {
			// Continuous, non-teleporting movement: the client already
			// holds this worm's body from a prior full send, so the body
			// is not resent and Segments carries only the head point. The
			// other fields are all sent, whether or not they changed; the
			// client appends the head locally and trims its path copy to
			// Length.
			snap.Worms = append(snap.Worms, WormView{
				ID:        wo.ID,
				PlayerID:  wo.PlayerID,
				Name:      wo.Name,
				SkinID:    wo.SkinID,
				Head:      [2]float64{wo.Head.X, wo.Head.Y},
				Direction: wo.Direction,
				Length:    wo.Length,
				Segments:  [][2]float64{{wo.Head.X, wo.Head.Y}},
				Color:     wo.Color,
				Score:     playerScore(w, wo.PlayerID),
				Boosting:  wo.IsBoosting,
			})
		}
		st.wormPos[id] = wo.Head
	}

	for id := range st.visibleWorm {
		if !nowVisible[id] {
			snap.RemovedWorm = append(snap.RemovedWorm, id)
			delete(st.wormPos, id)
		}
	}
	st.visibleWorm = nowVisible
}

func (b *Broadcaster) buildFood(snap *Snapshot, w *world.World, grid *spatial.Grid, center geom.Point, radius float64, full bool, st *clientState) {
	nowVisible := make(map[string]bool, len(st.visibleFood))

	for _, id := range grid.FoodInRadius(center, radius) {
		f, ok := w.Food[id]
		if !ok || f.IsConsumed {
			continue
		}
		nowVisible[id] = true
		if full || !st.visibleFood[id] {
			snap.Food = append(snap.Food, toFoodView(f))
		}
	}

	for id := range st.visibleFood {
		if !nowVisible[id] {
			snap.RemovedFood = append(snap.RemovedFood, id)
		}
	}
	st.visibleFood = nowVisible
}

// buildSpectatorFood samples up to cfg.DeadSpectatorFoodCap food items
// for a dead or unspawned client, who also receives every living worm via
// buildWorms (spec.md §4.10, "If dead, send all living worms (spectator
// mode) and up to 50 food items").
func (b *Broadcaster) buildSpectatorFood(snap *Snapshot, w *world.World, full bool, st *clientState) {
	limit := b.cfg.DeadSpectatorFoodCap
	count := 0
	nowVisible := make(map[string]bool, limit)
	for id, f := range w.Food {
		if f.IsConsumed || count >= limit {
			continue
		}
		nowVisible[id] = true
		if full || !st.visibleFood[id] {
			snap.Food = append(snap.Food, toFoodView(f))
		}
		count++
	}
	for id := range st.visibleFood {
		if !nowVisible[id] {
			snap.RemovedFood = append(snap.RemovedFood, id)
		}
	}
	st.visibleFood = nowVisible
}

// allAliveWormIDs lists every living worm in the world, used for the
// spectator-mode "all living worms" interest window (spec.md §4.10).
func allAliveWormIDs(w *world.World) []string {
	out := make([]string, 0, len(w.Worms))
	for id, wo := range w.Worms {
		if wo.Alive {
			out = append(out, id)
		}
	}
	return out
}

func toWormView(wo *worm.Worm, w *world.World, cfg config.Config) WormView {
	segs := wo.Segments(cfg)
	pts := make([][2]float64, len(segs))
	for i, s := range segs {
		pts[i] = [2]float64{s.Point.X, s.Point.Y}
	}
	return WormView{
		ID:        wo.ID,
		PlayerID:  wo.PlayerID,
		Name:      wo.Name,
		SkinID:    wo.SkinID,
		Head:      [2]float64{wo.Head.X, wo.Head.Y},
		Direction: wo.Direction,
		Length:    wo.Length,
		Segments:  pts,
		Color:     wo.Color,
		Score:     playerScore(w, wo.PlayerID),
		Boosting:  wo.IsBoosting,
	}
}

// playerScore looks up a worm's owning player's cumulative score, or 0 for
// a bot/unowned worm with no Player entry.
func playerScore(w *world.World, playerID string) int {
	if p, ok := w.Players[playerID]; ok {
		return p.Score
	}
	return 0
}

func toFoodView(f *food.Food) FoodView {
	return FoodView{
		ID:       f.ID,
		X:        f.Position.X,
		Y:        f.Position.Y,
		Value:    f.Value,
		Color:    f.Color,
		Level:    int(f.Level),
		IsMoving: f.IsMoving,
	}
}
