// Package bot implements AI-controlled worms that fill a room up to
// cfg.BotCount (spec.md §4.8, a supplemented feature carried over from
// the teacher since spec.md is otherwise silent on bots). Grounded on
// the teacher's bot.go: the same priority chain (boundary avoidance,
// danger avoidance, flee, chase, death-food rush, food seek, wander),
// reworked onto the worm/world/spatial packages instead of the
// teacher's flat Snake/World/SpatialGrid.
package bot

import (
	"fmt"
	"math"
	"math/rand"

	"wormarena/internal/config"
	"wormarena/internal/geom"
	"wormarena/internal/ids"
	"wormarena/internal/spatial"
	"wormarena/internal/world"
	"wormarena/internal/worm"
)

// state tracks one bot's AI memory across ticks.
type state struct {
	wormID      string
	name        string
	wanderTicks int
	targetAngle float64
	boostTicks  int
	respawnIn   int
	seekTicks   int
	lastLength  float64
	lastFoodDist float64
	orbitCount  int

	deathFoodPos  geom.Point
	deathFoodTicks int
}

// Manager owns every bot worm in a room and drives its steering each
// tick (spec.md §4.8). Callers run Update once per simulation tick and
// MaintainCount once per tick after collision/foodsys have processed
// deaths.
type Manager struct {
	cfg   config.Config
	names *nameSet
	bots  map[string]*state // wormID -> state
}

// New creates an empty bot manager bound to cfg.
func New(cfg config.Config) *Manager {
	return &Manager{cfg: cfg, names: newNameSet(), bots: make(map[string]*state)}
}

// Count returns how many bots currently exist, alive or respawning.
func (m *Manager) Count() int {
	return len(m.bots)
}

// Spawn creates one new bot worm and registers it in w, at a position
// chosen uniformly within the playfield shrunk by cfg.BotBoundaryBuffer.
func (m *Manager) Spawn(w *world.World, nowMs int64, palette []string) {
	cfg := m.cfg
	cx, cy := cfg.CenterX(), cfg.CenterY()
	r := (cfg.MapRadius - cfg.BotBoundaryBuffer) * math.Sqrt(rand.Float64())
	theta := rand.Float64() * 2 * math.Pi
	origin := geom.Point{X: cx + r*math.Cos(theta), Y: cy + r*math.Sin(theta)}
	direction := rand.Float64() * 2 * math.Pi

	id := fmt.Sprintf("bot-%s", ids.New())
	name := m.names.take()
	color := worm.RandomColor(palette)

	wo := worm.New(id, "", name, color, "default", origin, direction, nowMs, cfg)
	w.AddWorm(wo)

	m.bots[id] = &state{
		wormID:      id,
		name:        name,
		targetAngle: direction,
		wanderTicks: randomWanderDuration(),
	}
}

// Update steers every living bot worm, applying the same input path a
// human player's queued input would (spec.md §4.8, "bots are ordinary
// worms driven by synthetic input rather than a special entity kind").
func (m *Manager) Update(w *world.World, grid *spatial.Grid) {
	cfg := m.cfg
	for id, st := range m.bots {
		wo, ok := w.Worms[id]
		if !ok || !wo.Alive {
			continue
		}
		angle, boost := m.decide(st, wo, w, grid)
		wo.SetTargetDirection(angle)
		wo.SetBoosting(boost, cfg)
	}
}

// decide runs the priority chain and returns (targetAngle, boost),
// mirroring the teacher's decideBotInput.
func (m *Manager) decide(st *state, wo *worm.Worm, w *world.World, grid *spatial.Grid) (float64, bool) {
	cfg := m.cfg
	head := wo.Head
	currentAngle := wo.Direction

	// Priority 1: boundary avoidance.
	cx, cy := cfg.CenterX(), cfg.CenterY()
	distFromCenter := geom.Dist(head, geom.Point{X: cx, Y: cy})
	if distFromCenter > cfg.MapRadius-cfg.BotBoundaryBuffer {
		st.targetAngle = math.Atan2(cy-head.Y, cx-head.X)
		st.wanderTicks = randomWanderDuration()
		return st.targetAngle, false
	}

	// Priority 2: danger avoidance against nearby worm bodies ahead.
	for _, seg := range grid.WormSegmentsInRadius(head, cfg.BotDangerRadius) {
		if seg.WormID == wo.ID {
			continue
		}
		segAngle := math.Atan2(seg.Point.Y-head.Y, seg.Point.X-head.X)
		angleDiff := geom.WrapAngle(segAngle - currentAngle)
		if math.Abs(angleDiff) < math.Pi/4 {
			if angleDiff >= 0 {
				st.targetAngle = currentAngle - math.Pi/2
			} else {
				st.targetAngle = currentAngle + math.Pi/2
			}
			st.wanderTicks = randomWanderDuration()
			return st.targetAngle, false
		}
	}

	// Priority 3: flee from bigger worms.
	boost := false
	fleeing := false
	for _, other := range w.AliveWorms() {
		if other.ID == wo.ID {
			continue
		}
		dist := geom.Dist(other.Head, head)
		if dist < cfg.BotFleeRadius && other.Length > wo.Length {
			st.targetAngle = math.Atan2(head.Y-other.Head.Y, head.X-other.Head.X)
			st.boostTicks = 30
			st.wanderTicks = randomWanderDuration()
			fleeing = true
			break
		}
	}
	if fleeing {
		if st.boostTicks > 0 {
			st.boostTicks--
			boost = true
		}
		return st.targetAngle, boost
	}
	if st.boostTicks > 0 {
		st.boostTicks--
		boost = true
	}

	// Priority 4: chase smaller worms.
	for _, other := range w.AliveWorms() {
		if other.ID == wo.ID {
			continue
		}
		dx := other.Head.X - head.X
		dy := other.Head.Y - head.Y
		dist := math.Hypot(dx, dy)
		if dist < cfg.BotChaseRadius && other.Length < wo.Length {
			st.targetAngle = math.Atan2(dy, dx)
			st.wanderTicks = randomWanderDuration()
			if wo.Length > cfg.InitLength+5 {
				boost = true
			}
			return st.targetAngle, boost
		}
	}

	// Priority 4.5: rush toward a death-food zone left by a recent kill.
	if st.deathFoodTicks > 0 {
		st.deathFoodTicks--
		dx := st.deathFoodPos.X - head.X
		dy := st.deathFoodPos.Y - head.Y
		dist := math.Hypot(dx, dy)
		if dist < 30 {
			st.deathFoodTicks = 0
		} else {
			st.targetAngle = math.Atan2(dy, dx)
			if wo.Length > cfg.InitLength+5 {
				boost = true
			}
			return st.targetAngle, boost
		}
	}

	// Priority 5: seek nearby food ahead of the worm.
	if wo.Length > st.lastLength {
		// length grew since last tick's reading: something was eaten.
		st.seekTicks = 0
		st.orbitCount = 0
		st.lastFoodDist = 0
	}
	st.lastLength = wo.Length

	nearFoodIDs := grid.FoodInRadius(head, cfg.BotFoodSeekRadius)
	if len(nearFoodIDs) > 0 && st.seekTicks < 60 {
		bestDist := math.MaxFloat64
		var bestPos geom.Point
		found := false
		for _, fid := range nearFoodIDs {
			f, ok := w.Food[fid]
			if !ok || f.IsConsumed {
				continue
			}
			dx := f.Position.X - head.X
			dy := f.Position.Y - head.Y
			d := math.Hypot(dx, dy)
			foodAngle := math.Atan2(dy, dx)
			angleDiff := math.Abs(geom.WrapAngle(foodAngle - currentAngle))
			if angleDiff > math.Pi/2 {
				continue
			}
			if d < bestDist {
				bestDist = d
				bestPos = f.Position
				found = true
			}
		}
		if found {
			if st.lastFoodDist > 0 && bestDist >= st.lastFoodDist-1.0 {
				st.orbitCount++
			} else {
				st.orbitCount = 0
			}
			st.lastFoodDist = bestDist

			if st.orbitCount >= 8 {
				st.orbitCount = 0
				st.seekTicks = 0
				st.lastFoodDist = 0
				st.targetAngle = currentAngle + math.Pi/2 + rand.Float64()*math.Pi
				st.wanderTicks = 30 + rand.Intn(40)
				return st.targetAngle, false
			}

			st.targetAngle = math.Atan2(bestPos.Y-head.Y, bestPos.X-head.X)
			st.seekTicks++
			return st.targetAngle, boost
		}
	}
	if st.seekTicks >= 60 {
		st.seekTicks = 0
		st.orbitCount = 0
		st.lastFoodDist = 0
		st.targetAngle = currentAngle + math.Pi/2 + rand.Float64()*math.Pi
		st.wanderTicks = 30 + rand.Intn(40)
		return st.targetAngle, false
	}

	// Priority 6: roam uniformly across the map.
	if st.wanderTicks <= 0 {
		targetR := (cfg.MapRadius - cfg.BotBoundaryBuffer) * math.Sqrt(rand.Float64())
		targetA := rand.Float64() * 2 * math.Pi
		tx := cx + targetR*math.Cos(targetA)
		ty := cy + targetR*math.Sin(targetA)
		st.targetAngle = math.Atan2(ty-head.Y, tx-head.X)
		st.wanderTicks = 40 + rand.Intn(60)
	}
	st.wanderTicks--
	return st.targetAngle, boost
}

// HandleDeaths notes which bots just died (starting their respawn
// countdown) and which bot killed another worm (sending it to rush the
// dropped loot), given the set of dead worm IDs reported by
// foodsys.ProcessDeaths and a killerOf lookup from collision.Event.
func (m *Manager) HandleDeaths(w *world.World, dead []string, killerOf map[string]string, deathPos map[string]geom.Point) {
	for _, victimID := range dead {
		if killerID, ok := killerOf[victimID]; ok {
			if st, ok := m.bots[killerID]; ok {
				st.deathFoodPos = deathPos[victimID]
				st.deathFoodTicks = 80
			}
		}
		if st, ok := m.bots[victimID]; ok && st.respawnIn == 0 {
			m.names.release(st.name)
			st.respawnIn = m.cfg.BotRespawnTicks
		}
	}
}

// MaintainCount ticks respawn countdowns, replacing every bot whose
// countdown ends this call, and tops up the bot population to
// cfg.BotCount with at most one additional bot per call to spread spawn
// cost across ticks (mirroring the teacher's MaintainBotCount).
func (m *Manager) MaintainCount(w *world.World, nowMs int64, palette []string) {
	var toRespawn []string
	for id, st := range m.bots {
		if st.respawnIn <= 0 {
			continue
		}
		st.respawnIn--
		if st.respawnIn == 0 {
			toRespawn = append(toRespawn, id)
		}
	}
	for _, id := range toRespawn {
		delete(m.bots, id)
		m.Spawn(w, nowMs, palette)
	}

	if len(m.bots) < m.cfg.BotCount {
		m.Spawn(w, nowMs, palette)
	}
}

func randomWanderDuration() int {
	return 60 + rand.Intn(61)
}
