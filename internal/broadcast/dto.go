// Package broadcast computes the per-client state payload the Tick
// Loop's lower-rate network schedule sends out (spec.md §4.10, "Delta
// Broadcaster"). Grounded on the teacher's StateMsg/SnakesInViewport/
// FoodInViewport, generalized from the teacher's "always full viewport
// snapshot" behavior to spec.md's interest-window + delta + periodic
// full-resync model.
package broadcast

import (
	"wormarena/internal/score"
)

// WormView is the compact wire shape for one visible worm, covering every
// field spec.md §4.10's SerializedWorm names (id, player_id, head,
// direction, length, color, skin_id, is_boosting, score, name, path). On
// a full snapshot or a worm's first appearance, Segments holds its entire
// sampled body (the spec's "path"); on a delta update for an
// already-visible, non-teleporting worm, Segments holds only the new head
// point and the client is expected to append it locally and trim to
// Length (spec.md §4.10, "emit path only if ... otherwise the client
// reconstructs the trail locally").
type WormView struct {
	ID        string
	PlayerID  string
	Name      string
	SkinID    string
	Head      [2]float64
	Direction float64
	Length    float64
	Segments  [][2]float64
	Color     string
	Score     int // the worm's player's cumulative score, not Length
	Boosting  bool
}

// FoodView is the compact wire shape for one visible food item.
type FoodView struct {
	ID       string
	X, Y     float64
	Value    int
	Color    string
	Level    int
	IsMoving bool
}

// Snapshot is what Broadcaster.BuildFor returns for one player on one
// broadcast tick.
type Snapshot struct {
	Full        bool // true on a resync tick: every field is a complete replacement
	Worms       []WormView
	RemovedWorm []string // worm IDs that left the interest window or died
	Food        []FoodView
	RemovedFood []string // food IDs that left the window or were consumed
	Leaderboard []score.Entry
	HasLeaderboard bool // false when the leaderboard hasn't changed (spec.md §4.10)
}
