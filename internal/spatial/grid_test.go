package spatial

import (
	"testing"

	"wormarena/internal/geom"
)

func TestFoodAddRemoveInvisibleSameTick(t *testing.T) {
	g := New(50)
	g.AddFood("f1", geom.Point{X: 10, Y: 10})

	got := g.FoodInRadius(geom.Point{X: 10, Y: 10}, 5)
	if len(got) != 1 || got[0] != "f1" {
		t.Fatalf("expected [f1], got %v", got)
	}

	g.RemoveFood("f1", geom.Point{X: 10, Y: 10})
	got = g.FoodInRadius(geom.Point{X: 10, Y: 10}, 5)
	if len(got) != 0 {
		t.Fatalf("expected food invisible after removal, got %v", got)
	}
}

func TestWormsInRadiusDedup(t *testing.T) {
	g := New(50)
	segs := []WormSegment{
		{WormID: "w1", Point: geom.Point{X: 0, Y: 0}, Radius: 8},
		{WormID: "w1", Point: geom.Point{X: 10, Y: 0}, Radius: 8},
		{WormID: "w2", Point: geom.Point{X: 1000, Y: 1000}, Radius: 8},
	}
	g.RebuildWorms(segs)

	ids := g.WormsInRadius(geom.Point{X: 0, Y: 0}, 20)
	if len(ids) != 1 || ids[0] != "w1" {
		t.Fatalf("expected deduplicated [w1], got %v", ids)
	}
}

func TestNegativeCoordinates(t *testing.T) {
	g := New(50)
	g.AddFood("f1", geom.Point{X: -123, Y: -45})
	got := g.FoodInRadius(geom.Point{X: -123, Y: -45}, 1)
	if len(got) != 1 {
		t.Fatalf("expected to find food at negative coordinates, got %v", got)
	}
}

func TestNearbyWorms3x3(t *testing.T) {
	g := New(50)
	// Place segments in adjacent cells, should all be visible from center cell.
	g.RebuildWorms([]WormSegment{
		{WormID: "a", Point: geom.Point{X: 25, Y: 25}, Radius: 8},  // cell (0,0)
		{WormID: "b", Point: geom.Point{X: 70, Y: 25}, Radius: 8},  // cell (1,0)
		{WormID: "c", Point: geom.Point{X: 500, Y: 500}, Radius: 8}, // far away
	})
	nearby := g.NearbyWorms(geom.Point{X: 25, Y: 25})
	foundA, foundB, foundC := false, false, false
	for _, s := range nearby {
		switch s.WormID {
		case "a":
			foundA = true
		case "b":
			foundB = true
		case "c":
			foundC = true
		}
	}
	if !foundA || !foundB || foundC {
		t.Fatalf("expected a,b in 3x3 block and not c: a=%v b=%v c=%v", foundA, foundB, foundC)
	}
}
