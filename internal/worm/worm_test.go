package worm

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"wormarena/internal/config"
	"wormarena/internal/geom"
)

func TestNewSeedsStraightPath(t *testing.T) {
	Convey("Given a freshly spawned worm", t, func() {
		cfg := config.Defaults()
		origin := geom.Point{X: 2500, Y: 2500}
		w := New("w1", "p1", "Alice", "#fff", "default", origin, 0, 0, cfg)

		Convey("Its path is seeded tail-to-head ending at the origin", func() {
			So(w.Path.Len(), ShouldEqual, int(cfg.InitLength))
			So(w.Path.Head().X, ShouldAlmostEqual, origin.X, 1e-9)
			So(w.Path.Head().Y, ShouldAlmostEqual, origin.Y, 1e-9)
		})

		Convey("Its direction is normalized into (-pi, pi]", func() {
			So(w.Direction, ShouldBeLessThanOrEqualTo, math.Pi)
			So(w.Direction, ShouldBeGreaterThan, -math.Pi)
		})

		Convey("It is alive with the configured initial length", func() {
			So(w.Alive, ShouldBeTrue)
			So(w.Length, ShouldEqual, cfg.InitLength)
		})
	})
}

func TestStraightMovementScenario(t *testing.T) {
	Convey("A worm moving east for 60 ticks at 60Hz", t, func() {
		cfg := config.Defaults()
		origin := geom.Point{X: 2500, Y: 2500}
		w := New("w1", "p1", "Alice", "#fff", "default", origin, 0, 0, cfg)

		dt := 1.0 / 60.0
		for i := 0; i < 60; i++ {
			w.Step(dt, cfg)
		}

		Convey("The head has advanced base_speed * 1 second", func() {
			So(w.Head.X, ShouldAlmostEqual, 2500+150, 0.5)
			So(w.Head.Y, ShouldAlmostEqual, 2500, 0.5)
		})

		Convey("Length is unchanged and path stays within bounds", func() {
			So(w.Length, ShouldEqual, cfg.InitLength)
			So(w.Path.Len(), ShouldBeLessThanOrEqualTo, cfg.PathHardCap)
			So(w.Path.ArcLength(), ShouldBeLessThanOrEqualTo, cfg.InitLength*cfg.SegSpacing+cfg.PathRes)
		})
	})
}

func TestDirectionStaysNormalized(t *testing.T) {
	cfg := config.Defaults()
	w := New("w1", "p1", "Alice", "#fff", "default", geom.Point{X: 0, Y: 0}, 3.0, 0, cfg)
	w.SetTargetDirection(-3.0)
	for i := 0; i < 200; i++ {
		w.Step(1.0/60.0, cfg)
		if w.Direction <= -math.Pi || w.Direction > math.Pi {
			t.Fatalf("direction out of (-pi, pi] after step %d: %v", i, w.Direction)
		}
	}
}

func TestSetBoostingIdempotent(t *testing.T) {
	cfg := config.Defaults()
	w := New("w1", "p1", "Alice", "#fff", "default", geom.Point{X: 0, Y: 0}, 0, 0, cfg)
	w.Grow(50, cfg)

	w.SetBoosting(true, cfg)
	first := w.IsBoosting
	w.SetBoosting(true, cfg)
	second := w.IsBoosting
	if first != second || !first {
		t.Fatalf("expected boosting true both times, got %v then %v", first, second)
	}
}

func TestMinBoostLengthCannotBoost(t *testing.T) {
	cfg := config.Defaults()
	w := New("w1", "p1", "Alice", "#fff", "default", geom.Point{X: 0, Y: 0}, 0, 0, cfg)
	w.Length = cfg.MinBoostLength
	w.SetBoosting(true, cfg)
	if w.IsBoosting {
		t.Fatalf("worm at MinBoostLength should not be able to boost")
	}
}

func TestGrowCapsAtMaxLength(t *testing.T) {
	cfg := config.Defaults()
	w := New("w1", "p1", "Alice", "#fff", "default", geom.Point{X: 0, Y: 0}, 0, 0, cfg)
	w.Grow(cfg.MaxLength*2, cfg)
	if w.Length != cfg.MaxLength {
		t.Fatalf("expected length capped at %v, got %v", cfg.MaxLength, w.Length)
	}
}

func TestSegmentsBeginAtHead(t *testing.T) {
	cfg := config.Defaults()
	w := New("w1", "p1", "Alice", "#fff", "default", geom.Point{X: 0, Y: 0}, 0, 0, cfg)
	for i := 0; i < 30; i++ {
		w.Step(1.0/60.0, cfg)
	}
	segs := w.Segments(cfg)
	if len(segs) == 0 {
		t.Fatal("expected at least one segment")
	}
	if segs[0].Point != w.Head {
		t.Fatalf("first segment should be the head, got %v want %v", segs[0].Point, w.Head)
	}
	if len(segs) > int(w.Length) {
		t.Fatalf("segments len %d exceeds worm length %v", len(segs), w.Length)
	}
}

func TestSegmentsShortPathReturnsHeadOnly(t *testing.T) {
	cfg := config.Defaults()
	w := New("w1", "p1", "Alice", "#fff", "default", geom.Point{X: 0, Y: 0}, 0, 0, cfg)
	w.Path = NewPath(cfg.PathHardCap)
	w.Path.PushBack(w.Head)
	segs := w.Segments(cfg)
	if len(segs) != 1 || segs[0].Point != w.Head {
		t.Fatalf("expected single head segment, got %v", segs)
	}
}
