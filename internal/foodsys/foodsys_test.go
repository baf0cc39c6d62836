package foodsys

import (
	"testing"

	"wormarena/internal/config"
	"wormarena/internal/food"
	"wormarena/internal/geom"
	"wormarena/internal/spatial"
	"wormarena/internal/world"
	"wormarena/internal/worm"
)

func addFood(w *world.World, pos geom.Point, cfg config.Config) *food.Food {
	f := food.New("f1", pos, food.Level1, cfg)
	w.AddFood(f)
	return f
}

func TestProcessDeathsDropsLootAndRemoves(t *testing.T) {
	cfg := config.Defaults()
	w := world.New(cfg, 0)
	wo := worm.New("w1", "p1", "Alice", "#fff", "default", geom.Point{X: 2500, Y: 2500}, 0, 0, cfg)
	wo.Grow(40, cfg) // length 50, expect >= 2 loot items
	wo.Die()
	w.AddWorm(wo)

	grid := spatial.New(500)
	before := len(w.Food)
	removed := ProcessDeaths(w, grid)

	if len(removed) != 1 || removed[0] != "w1" {
		t.Fatalf("expected w1 removed, got %v", removed)
	}
	if _, exists := w.Worms["w1"]; exists {
		t.Fatal("expected dead worm removed from world")
	}
	if len(w.Food)-before < 1 {
		t.Fatalf("expected at least one loot item, food count %d -> %d", before, len(w.Food))
	}
	for id, f := range w.Food {
		if len(grid.FoodInRadius(f.Position, 1)) == 0 {
			t.Fatalf("expected loot item %s indexed in the spatial grid", id)
		}
	}
}

func TestRespawnMaintainsTarget(t *testing.T) {
	cfg := config.Defaults()
	cfg.FoodTarget = 50
	cfg.RespawnPerTick = 20
	w := world.New(cfg, 0)
	grid := spatial.New(500)

	Respawn(w, grid)
	if len(w.Food) != 20 {
		t.Fatalf("expected 20 spawned (capped by RespawnPerTick), got %d", len(w.Food))
	}

	Respawn(w, grid)
	Respawn(w, grid)
	if len(w.Food) != 50 {
		t.Fatalf("expected food to converge to target 50, got %d", len(w.Food))
	}

	Respawn(w, grid)
	if len(w.Food) != 50 {
		t.Fatalf("expected respawn to stop once at target, got %d", len(w.Food))
	}
}

func TestMagnetPullsFoodCloser(t *testing.T) {
	cfg := config.Defaults()
	w := world.New(cfg, 0)
	wo := worm.New("w1", "p1", "Alice", "#fff", "default", geom.Point{X: 2500, Y: 2500}, 0, 0, cfg)
	w.AddWorm(wo)

	grid := spatial.New(500)
	f := addFood(w, geom.Point{X: 2530, Y: 2500}, cfg)
	grid.AddFood(f.ID, f.Position)

	before := geom.Dist(f.Position, wo.Head)
	ApplyMagnet(w, grid)
	after := geom.Dist(f.Position, wo.Head)

	if after >= before {
		t.Fatalf("expected food pulled closer: before=%v after=%v", before, after)
	}
}
