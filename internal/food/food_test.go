package food

import (
	"testing"

	"wormarena/internal/config"
	"wormarena/internal/geom"
)

func TestNewFoodValueMatchesLevel(t *testing.T) {
	cfg := config.Defaults()
	f := New("f1", geom.Point{X: 0, Y: 0}, Level3, cfg)
	if f.Value != 3 {
		t.Fatalf("expected value 3, got %d", f.Value)
	}
	if f.IsConsumed {
		t.Fatalf("freshly spawned food should not be consumed")
	}
}

func TestMovingFoodBouncesOffBoundary(t *testing.T) {
	cfg := config.Defaults()
	cfg.MapRadius = 100
	cfg.WorldWidth, cfg.WorldHeight = 200, 200
	f := NewMoving("f1", geom.Point{X: cfg.CenterX() + 99, Y: cfg.CenterY()}, cfg, 20, 60, 120)

	for i := 0; i < 50; i++ {
		f.UpdateMoving(cfg, 60, 120)
		dx := f.Position.X - cfg.CenterX()
		dy := f.Position.Y - cfg.CenterY()
		dist := dx*dx + dy*dy
		if dist > (cfg.MapRadius+1)*(cfg.MapRadius+1) {
			t.Fatalf("moving food escaped boundary at tick %d: dist=%v", i, dist)
		}
	}
}
