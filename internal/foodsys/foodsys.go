// Package foodsys runs the three per-tick food phases spec.md §4.5
// describes: converting dead worms into loot, pulling nearby food toward
// worm heads (magnet), and respawning food up to the target density.
// Grounded on the teacher's game_loop.go (updateMovingFood,
// applyFoodMagnet, MaintainFoodCount) and snake.go's DropFood, adapted
// from the teacher's fixed 70%-of-segments drop rule to spec.md's
// max(1, length/20) loot count.
package foodsys

import (
	"math"
	"math/rand"

	"wormarena/internal/config"
	"wormarena/internal/food"
	"wormarena/internal/geom"
	"wormarena/internal/ids"
	"wormarena/internal/spatial"
	"wormarena/internal/world"
)

// ProcessDeaths converts every dead, not-yet-processed worm into Food,
// then removes it from the world (spec.md §4.5(a)). Loot is inserted into
// grid as well as w.Food — the food grid is maintained incrementally
// (spec.md §4.2), so anything added only to w.Food would be invisible to
// collision, magnet, and broadcast, which all query the grid. It returns
// the IDs of worms it removed, so callers (room.Room) can notify
// transports and the bot manager.
func ProcessDeaths(w *world.World, grid *spatial.Grid) []string {
	cfg := w.Cfg
	var removed []string

	for _, wo := range w.AllWorms() {
		if wo.Alive {
			continue
		}
		segs := wo.Segments(cfg)
		perUnit := cfg.DeathFoodPerUnit
		if perUnit < 1 {
			perUnit = 20
		}
		count := int(wo.Length) / perUnit
		if count < 1 {
			count = 1
		}
		if count > len(segs) {
			count = len(segs)
		}
		for i := 0; i < count; i++ {
			idx := i
			if len(segs) > count {
				idx = i * len(segs) / count
			}
			pos := segs[idx].Point
			radius := cfg.FoodMinRadius + 2 + rand.Float64()*((cfg.FoodMaxRadius+4)-(cfg.FoodMinRadius+2))
			value := int(radius * 0.5)
			if value < 1 {
				value = 1
			}
			f := &food.Food{
				ID:       ids.New(),
				Position: pos,
				Value:    value,
				Radius:   radius,
				Color:    wo.Color,
				Level:    food.Level5,
			}
			w.AddFood(f)
			grid.AddFood(f.ID, f.Position)
		}
		w.RemoveWorm(wo.ID)
		removed = append(removed, wo.ID)
	}

	return removed
}

// ApplyMagnet pulls food within R_magnet of each living worm's head
// toward that head at a speed that quadratically eases in as the food
// gets closer (spec.md §4.5(b)). It never consumes food.
func ApplyMagnet(w *world.World, grid *spatial.Grid) {
	cfg := w.Cfg
	for _, wo := range w.AliveWorms() {
		head := wo.Head
		headRadius := wo.Segments(cfg)[0].Radius
		for _, fid := range grid.FoodInRadius(head, cfg.MagnetRadius) {
			f, ok := w.Food[fid]
			if !ok || f.IsConsumed {
				continue
			}
			dist := geom.Dist(head, f.Position)
			if dist <= headRadius+f.Radius || dist == 0 {
				continue // within eating radius; collision handles it
			}
			frac := 1 - dist/cfg.MagnetRadius
			speed := cfg.MagnetMinSpeed + (cfg.MagnetMaxSpeed-cfg.MagnetMinSpeed)*frac*frac
			moveBy := speed / float64(cfg.TickRate)
			if moveBy > dist {
				moveBy = dist
			}
			dx := (head.X - f.Position.X) / dist
			dy := (head.Y - f.Position.Y) / dist
			grid.RemoveFood(fid, f.Position)
			f.Position.X += dx * moveBy
			f.Position.Y += dy * moveBy
			grid.AddFood(fid, f.Position)
		}
	}
}

// UpdateMovingFood advances every rare, level-10 moving food item one
// tick, bouncing it off the circular boundary (spec.md "Supplemented
// features: Food levels/tiers and moving (rare) food"). Grounded on the
// teacher's updateMovingFood, called before collision each tick so the
// magnet sees each item's updated position. Re-indexes the food grid the
// same way ApplyMagnet does, since moving a food item without updating
// the grid would leave it queryable only at its stale cell.
func UpdateMovingFood(w *world.World, grid *spatial.Grid) {
	cfg := w.Cfg
	for _, f := range w.Food {
		if !f.IsMoving || f.IsConsumed {
			continue
		}
		grid.RemoveFood(f.ID, f.Position)
		f.UpdateMoving(cfg, cfg.MovingFoodDirMinTicks, cfg.MovingFoodDirMaxTicks)
		grid.AddFood(f.ID, f.Position)
	}
}

// MaybeSpawnMovingFood spawns one new moving food item every
// cfg.MovingFoodSpawnInterval ticks, unless cfg.MovingFoodMaxCount are
// already live (teacher's maybeSpawnMovingFood).
func MaybeSpawnMovingFood(w *world.World, grid *spatial.Grid, tick int64) {
	cfg := w.Cfg
	if cfg.MovingFoodSpawnInterval <= 0 || tick%int64(cfg.MovingFoodSpawnInterval) != 0 {
		return
	}
	count := 0
	for _, f := range w.Food {
		if f.IsMoving {
			count++
		}
	}
	if count >= cfg.MovingFoodMaxCount {
		return
	}
	pos := geom.RandomDiskPoint(cfg.CenterX(), cfg.CenterY(), cfg.MapRadius-1, rand.Float64(), rand.Float64()*2*math.Pi)
	f := food.NewMoving(ids.New(), pos, cfg, cfg.MovingFoodSpeed, cfg.MovingFoodDirMinTicks, cfg.MovingFoodDirMaxTicks)
	w.AddFood(f)
	grid.AddFood(f.ID, f.Position)
}

// Respawn spawns new food until the world reaches cfg.FoodTarget, up to
// cfg.RespawnPerTick per call (spec.md §4.5(c)). Positions are rejected
// if within 100 units of any living worm's head, falling back to any
// disk position after 10 attempts.
func Respawn(w *world.World, grid *spatial.Grid) {
	cfg := w.Cfg
	count := 0
	for _, f := range w.Food {
		if !f.IsMoving && !f.IsConsumed {
			count++
		}
	}
	deficit := cfg.FoodTarget - count
	if deficit <= 0 {
		return
	}
	spawn := deficit
	if spawn > cfg.RespawnPerTick {
		spawn = cfg.RespawnPerTick
	}

	heads := make([]geom.Point, 0)
	for _, wo := range w.AliveWorms() {
		heads = append(heads, wo.Head)
	}

	spawned := 0
	for spawned < spawn {
		if spawn-spawned >= 5 && rand.Float64() < cfg.FoodClusterShare {
			n := spawnCluster(w, grid, heads, spawn-spawned)
			spawned += n
			continue
		}
		spawnOne(w, grid, heads)
		spawned++
	}
}

func spawnOne(w *world.World, grid *spatial.Grid, heads []geom.Point) {
	cfg := w.Cfg
	pos := safeSpawnPosition(w, heads)
	f := food.New(ids.New(), pos, food.NewRandomLevel(), cfg)
	w.AddFood(f)
	grid.AddFood(f.ID, f.Position)
}

// spawnCluster scatters 5-12 food items around a random center, matching
// the teacher's NewFoodCluster, and returns how many it actually spawned
// (capped by budget).
func spawnCluster(w *world.World, grid *spatial.Grid, heads []geom.Point, budget int) int {
	cfg := w.Cfg
	center := safeSpawnPosition(w, heads)
	count := 5 + rand.Intn(8)
	if count > budget {
		count = budget
	}
	clusterRadius := 80.0 + rand.Float64()*70.0

	for i := 0; i < count; i++ {
		offset := geom.RandomDiskPoint(center.X, center.Y, clusterRadius, rand.Float64(), rand.Float64()*2*math.Pi)
		pos := geom.ClampToDisk(offset, cfg.CenterX(), cfg.CenterY(), cfg.MapRadius-1)
		f := food.New(ids.New(), pos, food.NewRandomLevel(), cfg)
		w.AddFood(f)
		grid.AddFood(f.ID, f.Position)
	}
	return count
}

const safeSpawnMinDist = 100.0

func safeSpawnPosition(w *world.World, heads []geom.Point) geom.Point {
	cfg := w.Cfg
	cx, cy := cfg.CenterX(), cfg.CenterY()
	margin := cfg.SpawnMargin
	radius := cfg.MapRadius - margin
	if radius < 0 {
		radius = cfg.MapRadius
	}

	for attempt := 0; attempt < 10; attempt++ {
		p := geom.RandomDiskPoint(cx, cy, radius, rand.Float64(), rand.Float64()*2*math.Pi)
		safe := true
		for _, h := range heads {
			if geom.Dist(p, h) < safeSpawnMinDist {
				safe = false
				break
			}
		}
		if safe {
			return p
		}
	}
	return geom.RandomDiskPoint(cx, cy, radius, rand.Float64(), rand.Float64()*2*math.Pi)
}
