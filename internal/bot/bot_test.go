package bot

import (
	"testing"

	"wormarena/internal/config"
	"wormarena/internal/geom"
	"wormarena/internal/spatial"
	"wormarena/internal/world"
)

var testPalette = []string{"#fff", "#000"}

func TestSpawnRegistersWormAndState(t *testing.T) {
	cfg := config.Defaults()
	w := world.New(cfg, 0)
	m := New(cfg)

	m.Spawn(w, 0, testPalette)

	if m.Count() != 1 {
		t.Fatalf("expected 1 bot, got %d", m.Count())
	}
	if len(w.Worms) != 1 {
		t.Fatalf("expected bot worm registered in world, got %d worms", len(w.Worms))
	}
}

func TestUpdateSteersAwayFromBoundary(t *testing.T) {
	cfg := config.Defaults()
	w := world.New(cfg, 0)
	m := New(cfg)
	m.Spawn(w, 0, testPalette)

	cx, cy := cfg.CenterX(), cfg.CenterY()
	var id string
	for wormID, wo := range w.Worms {
		id = wormID
		wo.Head = geom.Point{X: cx + cfg.MapRadius - 10, Y: cy}
	}

	grid := spatial.New(500)
	m.Update(w, grid)

	wo := w.Worms[id]
	wantAngle := 3.141592653589793 // atan2(0, negative): steering due west, toward center
	if diff := geom.WrapAngle(wo.TargetDirection - wantAngle); diff > 0.01 || diff < -0.01 {
		t.Fatalf("expected bot to steer toward center (%.4f), got %.4f", wantAngle, wo.TargetDirection)
	}
}

func TestMaintainCountToppsUpToBotCount(t *testing.T) {
	cfg := config.Defaults()
	cfg.BotCount = 3
	w := world.New(cfg, 0)
	m := New(cfg)

	for i := 0; i < 5; i++ {
		m.MaintainCount(w, 0, testPalette)
	}

	if m.Count() != cfg.BotCount {
		t.Fatalf("expected bot count to converge to %d, got %d", cfg.BotCount, m.Count())
	}
}

func TestHandleDeathsStartsRespawnCountdown(t *testing.T) {
	cfg := config.Defaults()
	cfg.BotRespawnTicks = 5
	w := world.New(cfg, 0)
	m := New(cfg)
	m.Spawn(w, 0, testPalette)

	var deadID string
	for id := range m.bots {
		deadID = id
	}
	w.Worms[deadID].Die()

	m.HandleDeaths(w, []string{deadID}, map[string]string{}, map[string]geom.Point{})

	if m.bots[deadID].respawnIn != cfg.BotRespawnTicks {
		t.Fatalf("expected respawn countdown %d, got %d", cfg.BotRespawnTicks, m.bots[deadID].respawnIn)
	}
}
