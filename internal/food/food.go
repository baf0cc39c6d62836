// Package food implements the pellet entity: levels, colors, radii and
// rare moving food. Death-to-food conversion and clustered spawning live
// in internal/foodsys. Grounded on the teacher's
// food.go, keeping its level/tier scheme as the concrete
// shape of spec.md's single Food.value field (see SPEC_FULL.md,
// "Supplemented features").
package food

import (
	"math"
	"math/rand"

	"wormarena/internal/config"
	"wormarena/internal/geom"
)

// Level is the food tier. Level1 is common random spawn, Level3 is a
// medium random spawn, Level5 is a death-drop-only tier, Level10 is rare
// wandering food.
type Level int

const (
	Level1  Level = 1
	Level3  Level = 3
	Level5  Level = 5
	Level10 Level = 10
)

// Food is a collectible point-value entity (spec.md §3, "Food").
type Food struct {
	ID          string
	Position    geom.Point
	Value       int
	Radius      float64
	Color       string
	Level       Level
	IsMoving    bool
	IsConsumed  bool

	moveAngle float64
	moveSpeed float64
	moveTicks int
}

var level1Colors = []string{
	"#ff6b6b", "#ffd93d", "#6bcb77", "#4d96ff", "#ff922b",
	"#cc5de8", "#20c997", "#f06595", "#74c0fc", "#a9e34b",
}
var level3Colors = []string{
	"#f39c12", "#e67e22", "#d35400", "#c0392b", "#e74c3c",
}
var level5Colors = []string{
	"#8e44ad", "#9b59b6", "#6c3483", "#a569bd", "#7d3c98",
}

func colorForLevel(level Level) string {
	switch level {
	case Level3:
		return level3Colors[rand.Intn(len(level3Colors))]
	case Level5:
		return level5Colors[rand.Intn(len(level5Colors))]
	case Level10:
		return "#ffd700"
	default:
		return level1Colors[rand.Intn(len(level1Colors))]
	}
}

func radiusForLevel(level Level, cfg config.Config) float64 {
	span := cfg.FoodMaxRadius - cfg.FoodMinRadius
	switch level {
	case Level3:
		return cfg.FoodMinRadius + span*0.5
	case Level5:
		return cfg.FoodMaxRadius
	case Level10:
		return cfg.FoodMaxRadius
	default:
		return cfg.FoodMinRadius
	}
}

// New creates a food item of the given level at a position.
func New(id string, pos geom.Point, level Level, cfg config.Config) *Food {
	return &Food{
		ID:       id,
		Position: pos,
		Value:    int(level),
		Radius:   radiusForLevel(level, cfg),
		Color:    colorForLevel(level),
		Level:    level,
	}
}

// NewRandomLevel picks Level1 (90%) or Level3 (10%), matching the
// teacher's random-spawn ratio.
func NewRandomLevel() Level {
	if rand.Float64() < 0.10 {
		return Level3
	}
	return Level1
}

// NewMoving creates a rare, slowly wandering Level10 food item.
func NewMoving(id string, pos geom.Point, cfg config.Config, speed float64, minDirTicks, maxDirTicks int) *Food {
	f := New(id, pos, Level10, cfg)
	f.IsMoving = true
	f.moveAngle = rand.Float64() * 2 * math.Pi
	f.moveSpeed = speed
	f.moveTicks = minDirTicks + rand.Intn(maxDirTicks-minDirTicks)
	return f
}

// UpdateMoving advances a moving food item one tick, bouncing off the
// circular world boundary.
func (f *Food) UpdateMoving(cfg config.Config, minDirTicks, maxDirTicks int) {
	if !f.IsMoving {
		return
	}
	f.Position.X += math.Cos(f.moveAngle) * f.moveSpeed
	f.Position.Y += math.Sin(f.moveAngle) * f.moveSpeed

	cx, cy, r := cfg.CenterX(), cfg.CenterY(), cfg.MapRadius
	dx := f.Position.X - cx
	dy := f.Position.Y - cy
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist > r {
		nx, ny := -dx/dist, -dy/dist
		vx, vy := math.Cos(f.moveAngle), math.Sin(f.moveAngle)
		dot := vx*nx + vy*ny
		vx -= 2 * dot * nx
		vy -= 2 * dot * ny
		f.moveAngle = math.Atan2(vy, vx)
		f.Position.X = cx + nx*(r-1)
		f.Position.Y = cy + ny*(r-1)
	}

	f.moveTicks--
	if f.moveTicks <= 0 {
		f.moveAngle = rand.Float64() * 2 * math.Pi
		f.moveTicks = minDirTicks + rand.Intn(maxDirTicks-minDirTicks)
	}
}

// DistanceTo returns the distance from the food to a point.
func (f *Food) DistanceTo(p geom.Point) float64 {
	return geom.Dist(f.Position, p)
}
