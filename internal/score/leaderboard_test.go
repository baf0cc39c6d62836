package score

import (
	"testing"

	"wormarena/internal/config"
	"wormarena/internal/world"
)

func TestLeaderboardSortsByScoreDescending(t *testing.T) {
	cfg := config.Defaults()
	w := world.New(cfg, 0)
	w.AddPlayer(&world.Player{ID: "p1", Name: "Alice", Score: 30})
	w.AddPlayer(&world.Player{ID: "p2", Name: "Bob", Score: 90})
	w.AddPlayer(&world.Player{ID: "p3", Name: "Cara", Score: 60})

	lb := Leaderboard(w, 10)

	if len(lb) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(lb))
	}
	want := []string{"p2", "p3", "p1"}
	for i, id := range want {
		if lb[i].ID != id {
			t.Fatalf("entry %d: expected %s, got %s", i, id, lb[i].ID)
		}
		if lb[i].Rank != i+1 {
			t.Fatalf("entry %d: expected rank %d, got %d", i, i+1, lb[i].Rank)
		}
	}
}

func TestLeaderboardBreaksTiesByAscendingID(t *testing.T) {
	cfg := config.Defaults()
	w := world.New(cfg, 0)
	w.AddPlayer(&world.Player{ID: "zeta", Name: "Z", Score: 50})
	w.AddPlayer(&world.Player{ID: "alpha", Name: "A", Score: 50})

	lb := Leaderboard(w, 10)

	if lb[0].ID != "alpha" || lb[1].ID != "zeta" {
		t.Fatalf("expected tie broken by ascending id, got %v then %v", lb[0].ID, lb[1].ID)
	}
}

func TestLeaderboardTruncatesToN(t *testing.T) {
	cfg := config.Defaults()
	w := world.New(cfg, 0)
	for i := 0; i < 20; i++ {
		id := string(rune('a' + i))
		w.AddPlayer(&world.Player{ID: id, Score: i})
	}

	lb := Leaderboard(w, 5)
	if len(lb) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(lb))
	}
	if lb[0].Score != 19 {
		t.Fatalf("expected top score 19, got %d", lb[0].Score)
	}
}

func TestEqualDetectsChange(t *testing.T) {
	a := []Entry{{Rank: 1, ID: "p1", Name: "Alice", Score: 10}}
	b := []Entry{{Rank: 1, ID: "p1", Name: "Alice", Score: 10}}
	if !Equal(a, b) {
		t.Fatal("expected equal leaderboards to compare equal")
	}
	b[0].Score = 20
	if Equal(a, b) {
		t.Fatal("expected changed score to break equality")
	}
}
