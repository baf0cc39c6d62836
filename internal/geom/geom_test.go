package geom

import (
	"math"
	"testing"
)

func TestWrapAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{math.Pi + 0.1, -math.Pi + 0.1},
		{-math.Pi - 0.1, math.Pi - 0.1},
		{3 * math.Pi, math.Pi},
	}
	for _, c := range cases {
		got := WrapAngle(c.in)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("WrapAngle(%v) = %v, want %v", c.in, got, c.want)
		}
		if got <= -math.Pi || got > math.Pi {
			t.Errorf("WrapAngle(%v) = %v out of (-pi, pi]", c.in, got)
		}
	}
}

func TestClampAngleDelta(t *testing.T) {
	if got := ClampAngleDelta(0.5, 0.15); got != 0.15 {
		t.Errorf("got %v, want 0.15", got)
	}
	if got := ClampAngleDelta(-0.5, 0.15); got != -0.15 {
		t.Errorf("got %v, want -0.15", got)
	}
	if got := ClampAngleDelta(0.05, 0.15); got != 0.05 {
		t.Errorf("got %v, want 0.05", got)
	}
}

func TestCirclesIntersect(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 10, Y: 0}
	if !CirclesIntersect(a, 6, b, 6) {
		t.Error("expected overlap at distance 10 with radii 6+6")
	}
	if CirclesIntersect(a, 4, b, 4) {
		t.Error("expected no overlap at distance 10 with radii 4+4")
	}
}

func TestDistSqToSegment(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 10, Y: 0}
	p := Point{X: 5, Y: 3}
	if got := DistSqToSegment(p, a, b); math.Abs(got-9) > 1e-9 {
		t.Errorf("got %v, want 9", got)
	}
	// Point beyond segment end clamps to endpoint.
	p2 := Point{X: 15, Y: 0}
	if got := DistSqToSegment(p2, a, b); math.Abs(got-25) > 1e-9 {
		t.Errorf("got %v, want 25", got)
	}
}

func TestClampToDisk(t *testing.T) {
	inside := Point{X: 1, Y: 1}
	got := ClampToDisk(inside, 0, 0, 10)
	if got != inside {
		t.Errorf("point inside disk should be unchanged, got %v", got)
	}
	outside := Point{X: 20, Y: 0}
	got = ClampToDisk(outside, 0, 0, 10)
	if got.X >= 20 || math.Abs(got.Y) > 1e-9 {
		t.Errorf("expected point pulled back onto boundary, got %v", got)
	}
}
