// Package room drives one simulated arena: the fixed-rate Tick Loop,
// the Room that wires world/physics/collision/foodsys/score/bot
// together, and a Room Manager for multi-room support (spec.md §4.9,
// §9 "Design Notes"). Grounded on the teacher's game_loop.go
// (NewGameLoop/Run/tick), split so the tick ordering is exercised
// independently of any transport.
package room

import (
	"log"
	"math"
	"math/rand"

	"wormarena/internal/bot"
	"wormarena/internal/collision"
	"wormarena/internal/config"
	"wormarena/internal/foodsys"
	"wormarena/internal/geom"
	"wormarena/internal/inputqueue"
	"wormarena/internal/physics"
	"wormarena/internal/score"
	"wormarena/internal/spatial"
	"wormarena/internal/world"
	"wormarena/internal/worm"
)

// ColorPalette supplies the skin colors worms are randomly assigned
// from (teacher's PlayerColors).
var ColorPalette = []string{
	"#ff6b6b", "#4ecdc4", "#ffe66d", "#1a535c", "#f7b267",
	"#a29bfe", "#00b894", "#fd79a8", "#e17055", "#0984e3",
}

// TickEvents summarizes what happened during one Tick call, for callers
// (transport/broadcast) that need to notify clients without re-deriving
// state.
type TickEvents struct {
	Tick          int64
	WormWorm      []collision.Event
	WormFood      []collision.Event
	RemovedWorms  []string
	Deaths        []DeathEvent
	Leaderboard   []score.Entry
	SlowTick      bool
	CriticalSlow  bool
}

// DeathEvent carries the names and final score a transport needs to
// announce a kill, captured before foodsys.ProcessDeaths removes the
// victim worm from World (spec.md §4.8, "player-died").
type DeathEvent struct {
	VictimPlayerID string
	VictimName     string
	KillerName     string // empty when the cause was the boundary, not another worm
	Score          int
}

// Room is one independent simulated arena: one World, one spatial Grid,
// one bot Manager, and one input Manager per spec.md §4.9 ("each Room
// owns an independent World; no cross-room interaction exists").
type Room struct {
	ID     string
	Cfg    config.Config
	World  *world.World
	Grid   *spatial.Grid
	Bots   *bot.Manager
	Inputs *inputqueue.Manager

	Logger *log.Logger

	tick            int64
	consecutiveSlow int
	lastLeaderboard []score.Entry
}

// NewRoom creates a room bound to cfg, pre-populated with cfg.BotCount
// bots (teacher's NewGameLoop pre-spawn behavior).
func NewRoom(id string, cfg config.Config, logger *log.Logger, nowMs int64) *Room {
	if logger == nil {
		logger = log.Default()
	}
	r := &Room{
		ID:     id,
		Cfg:    cfg,
		World:  world.New(cfg, nowMs),
		Grid:   spatial.New(cfg.SpatialCellSize),
		Bots:   bot.New(cfg),
		Inputs: inputqueue.NewManager(),
		Logger: logger,
	}
	for i := 0; i < cfg.BotCount; i++ {
		r.Bots.Spawn(r.World, nowMs, ColorPalette)
	}
	return r
}

// JoinPlayer registers a new player and spawns its worm at a safe
// random position, mirroring the teacher's onJoin handler. It returns the
// delivery channel the caller's connection should push validated inputs
// into (the sole owner of input-queue registration, so a transport must
// not also call Inputs.Register for this player).
func (r *Room) JoinPlayer(playerID, name string, nowMs int64) (*worm.Worm, chan<- inputqueue.Delivery) {
	cfg := r.Cfg
	if old, ok := r.World.Worms[playerID+":worm"]; ok && old.Alive {
		old.Die()
	}

	origin := r.safeSpawnPosition()
	direction := rand.Float64() * 2 * math.Pi
	color := worm.RandomColor(ColorPalette)
	wormID := playerID + ":worm"
	wo := worm.New(wormID, playerID, name, color, "default", origin, direction, nowMs, cfg)
	r.World.AddWorm(wo)

	p, exists := r.World.Players[playerID]
	if !exists {
		p = &world.Player{ID: playerID, Name: name}
		r.World.AddPlayer(p)
	}
	p.WormID = wormID
	p.Alive = true
	p.Name = name

	deliver := r.Inputs.Register(playerID, cfg.InputBufferSize)
	r.Logger.Printf("room %s: player %s (%s) joined", r.ID, playerID, name)
	return wo, deliver
}

// RemovePlayer disconnects a player, dropping its worm's loot if alive.
func (r *Room) RemovePlayer(playerID string) {
	if p, ok := r.World.Players[playerID]; ok {
		if wo, ok := r.World.Worms[p.WormID]; ok && wo.Alive {
			wo.Die()
		}
		r.World.RemovePlayer(playerID)
	}
	r.Inputs.Unregister(playerID)
	r.Logger.Printf("room %s: player %s left", r.ID, playerID)
}

func (r *Room) safeSpawnPosition() geom.Point {
	cfg := r.Cfg
	cx, cy := cfg.CenterX(), cfg.CenterY()
	radius := cfg.MapRadius - cfg.SpawnMargin
	for attempt := 0; attempt < 10; attempt++ {
		p := geom.RandomDiskPoint(cx, cy, radius, rand.Float64(), rand.Float64()*2*math.Pi)
		safe := true
		for _, wo := range r.World.AliveWorms() {
			for _, seg := range wo.Segments(cfg) {
				if geom.Dist(p, seg.Point) < 100 {
					safe = false
					break
				}
			}
			if !safe {
				break
			}
		}
		if safe {
			return p
		}
	}
	return geom.RandomDiskPoint(cx, cy, radius, rand.Float64(), rand.Float64()*2*math.Pi)
}

// Tick executes one deterministic simulation step: Input, Physics,
// Spatial Index rebuild, Collision, Food, Score (spec.md §4.4,
// "Ordering guarantees"). nowMs is the current epoch time in
// milliseconds, used for grace-period checks and as the spawn time of
// bots spawned this tick.
func (r *Room) Tick(nowMs int64) TickEvents {
	r.tick++
	cfg := r.Cfg
	dt := 1.0 / float64(cfg.TickRate)

	// 0. Advance rare moving food before anything else so the magnet
	// phase sees each item's updated position this tick (teacher's
	// updateMovingFood, called first in its tick too).
	foodsys.UpdateMovingFood(r.World, r.Grid)

	// 1. Input: drain each player's queue in FIFO order, applying every
	// command (spec.md §4.7, "all are drained"); only the latest
	// DirectionChange/Boost materially matters, but draining (rather than
	// peeking at Latest) keeps the bounded FIFO from sitting perma-full.
	for playerID, p := range r.World.Players {
		wo, ok := r.World.Worms[p.WormID]
		if !ok || !wo.Alive {
			continue
		}
		q := r.Inputs.Queue(playerID)
		if q == nil {
			continue
		}
		drained := q.Drain()
		if len(drained) > 0 {
			latest := drained[len(drained)-1]
			wo.SetTargetDirection(latest.Angle)
			wo.SetBoosting(latest.Boost, cfg)
		}
	}

	// 2. Bot AI decides input using last tick's spatial grid.
	r.Bots.Update(r.World, r.Grid)

	// 3. Physics: advance every living worm, killing boundary crossers.
	boundaryKilled := physics.Advance(r.World, dt)
	boundaryDeaths := make(map[string]bool, len(boundaryKilled))
	for _, id := range boundaryKilled {
		boundaryDeaths[id] = true
	}

	// 4. Spatial index: rebuild the worm grid fresh every tick (spec.md
	// §4.2); the food grid is maintained incrementally by foodsys/
	// collision calls instead.
	r.rebuildWormGrid()

	// 5. Collision: worm-worm then worm-food.
	wormEvents := collision.ResolveWormWorm(r.World, r.Grid, nowMs)
	foodEvents := collision.ResolveWormFood(r.World, r.Grid)

	// Capture names/score for transport notification before
	// foodsys.ProcessDeaths removes the victim worms below.
	killerOf := make(map[string]string, len(wormEvents))
	deathPos := make(map[string]geom.Point, len(wormEvents))
	killerName := make(map[string]string, len(wormEvents))
	for _, ev := range wormEvents {
		killerOf[ev.VictimWormID] = ev.KillerWormID
		deathPos[ev.VictimWormID] = ev.Position
		if killer, ok := r.World.Worms[ev.KillerWormID]; ok {
			killerName[ev.VictimWormID] = killer.Name
		}
	}
	var deaths []DeathEvent
	for wormID := range boundaryDeaths {
		wo, ok := r.World.Worms[wormID]
		if !ok || wo.PlayerID == "" {
			continue
		}
		p := r.World.Players[wo.PlayerID]
		deaths = append(deaths, DeathEvent{VictimPlayerID: wo.PlayerID, VictimName: wo.Name, Score: scoreOf(p)})
	}
	for _, ev := range wormEvents {
		wo, ok := r.World.Worms[ev.VictimWormID]
		if !ok || wo.PlayerID == "" {
			continue
		}
		p := r.World.Players[wo.PlayerID]
		deaths = append(deaths, DeathEvent{
			VictimPlayerID: wo.PlayerID,
			VictimName:     wo.Name,
			KillerName:     killerName[ev.VictimWormID],
			Score:          scoreOf(p),
		})
	}

	// 6. Food: process deaths into loot, apply magnet, maybe spawn rare
	// moving food, then top up respawns.
	removed := foodsys.ProcessDeaths(r.World, r.Grid)
	foodsys.ApplyMagnet(r.World, r.Grid)
	foodsys.MaybeSpawnMovingFood(r.World, r.Grid, r.tick)
	foodsys.Respawn(r.World, r.Grid)

	r.Bots.HandleDeaths(r.World, removed, killerOf, deathPos)
	r.Bots.MaintainCount(r.World, nowMs, ColorPalette)

	// 7. Score: recompute the leaderboard (score mutation already
	// happened inline during collision resolution, matching the
	// teacher's World.Leaderboard reading Snake.Score directly).
	lb := score.Leaderboard(r.World, cfg.LeaderboardSize)
	changed := !score.Equal(lb, r.lastLeaderboard)
	r.lastLeaderboard = lb
	var lbOut []score.Entry
	if changed {
		lbOut = lb
	}

	return TickEvents{
		Tick:         r.tick,
		WormWorm:     wormEvents,
		WormFood:     foodEvents,
		RemovedWorms: removed,
		Deaths:       deaths,
		Leaderboard:  lbOut,
	}
}

func scoreOf(p *world.Player) int {
	if p == nil {
		return 0
	}
	return p.Score
}

func (r *Room) rebuildWormGrid() {
	cfg := r.Cfg
	var segs []spatial.WormSegment
	for _, wo := range r.World.AliveWorms() {
		for _, s := range wo.Segments(cfg) {
			segs = append(segs, spatial.WormSegment{WormID: wo.ID, Point: s.Point, Radius: s.Radius})
		}
	}
	r.Grid.RebuildWorms(segs)
}
