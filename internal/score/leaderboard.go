// Package score computes the top-N leaderboard from World's players
// (spec.md §4.6). Grounded on the teacher's World.Leaderboard, extended
// to break ties by ascending player ID for stable ordering, which the
// teacher's sort.Slice does not do.
package score

import (
	"sort"

	"wormarena/internal/world"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank   int
	ID     string
	Name   string
	Score  int
}

// Leaderboard computes the top-N players by score, descending, breaking
// ties by ascending player ID for stable ordering across ticks.
func Leaderboard(w *world.World, n int) []Entry {
	players := make([]*world.Player, 0, len(w.Players))
	for _, p := range w.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return players[i].ID < players[j].ID
	})
	if len(players) > n {
		players = players[:n]
	}
	out := make([]Entry, len(players))
	for i, p := range players {
		out[i] = Entry{Rank: i + 1, ID: p.ID, Name: p.Name, Score: p.Score}
	}
	return out
}

// Equal reports whether two leaderboards are structurally identical,
// used by the broadcaster to decide whether to emit a leaderboard delta
// (spec.md §4.10, "Leaderboard: included if changed (compare by
// structural equality)").
func Equal(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
