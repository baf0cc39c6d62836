// Package transport exposes a Room Manager over WebSocket (spec.md §4.8,
// "Transport"). Grounded on the teacher's connection.go/protocol.go/main.go,
// generalized from the teacher's fixed single-world wiring to multi-room
// dispatch through a room.Manager, and from its single-char flat JSON
// message keys to one envelope per named wire event SPEC_FULL.md's
// DOMAIN STACK section lists (join-room, input, ping/pong, game-state,
// delta-update, player-joined, player-left, player-died, error).
package transport

import (
	"wormarena/internal/broadcast"
	"wormarena/internal/score"
)

// Wire event type identifiers, one per named event in SPEC_FULL.md's
// DOMAIN STACK section, plus EventWelcome, sent right after the upgrade.
const (
	EventWelcome      = "welcome"
	EventJoinRoom     = "join-room"
	EventInput        = "input"
	EventPing         = "ping"
	EventPong         = "pong"
	EventGameState    = "game-state"
	EventDeltaUpdate  = "delta-update"
	EventPlayerJoined = "player-joined"
	EventPlayerLeft   = "player-left"
	EventPlayerDied   = "player-died"
	EventError        = "error"
)

// ClientEnvelope is the shape of every client→server message. Fields are
// only populated as relevant to Type, mirroring the teacher's
// ClientMessage but using full field names since wire size is not a
// stated concern of spec.md (unlike the teacher's compact protocol).
type ClientEnvelope struct {
	Type       string  `json:"type"`
	Name       string  `json:"name,omitempty"`
	Angle      float64 `json:"angle,omitempty"`
	Boost      bool    `json:"boost,omitempty"`
	ClientTime int64   `json:"clientTime,omitempty"`
	SeqNum     int64   `json:"seqNum,omitempty"`
}

// WelcomeEnvelope is sent immediately after a successful upgrade, before
// the client has joined a room (teacher's WelcomeMsg).
type WelcomeEnvelope struct {
	Type        string  `json:"type"`
	PlayerID    string  `json:"playerId"`
	WorldRadius float64 `json:"worldRadius"`
	Color       string  `json:"color"`
}

// GameStateEnvelope carries a full or delta Snapshot (spec.md §4.10).
// Type is EventGameState for a full snapshot, EventDeltaUpdate otherwise.
type GameStateEnvelope struct {
	Type        string                `json:"type"`
	Tick        int64                 `json:"tick"`
	Worms       []broadcast.WormView  `json:"worms,omitempty"`
	RemovedWorm []string              `json:"removedWorm,omitempty"`
	Food        []broadcast.FoodView  `json:"food,omitempty"`
	RemovedFood []string              `json:"removedFood,omitempty"`
	Leaderboard []score.Entry         `json:"leaderboard,omitempty"`
}

// PlayerJoinedEnvelope announces a new worm entering a room.
type PlayerJoinedEnvelope struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// PlayerLeftEnvelope announces a disconnect.
type PlayerLeftEnvelope struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

// PlayerDiedEnvelope notifies the victim (and is broadcast to the room)
// of one worm's death (teacher's DeathMsg).
type PlayerDiedEnvelope struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	KillerName string `json:"killerName,omitempty"`
	Score      int    `json:"score"`
}

// ErrorEnvelope carries a rejection reason for a malformed or
// rate-limited client message.
type ErrorEnvelope struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// PingEnvelope/PongEnvelope implement the liveness check spec.md §4.8
// names (PING_TIMEOUT).
type PingEnvelope struct {
	Type string `json:"type"`
}

type PongEnvelope struct {
	Type string `json:"type"`
}

func gameStateEnvelope(tick int64, snap broadcast.Snapshot) GameStateEnvelope {
	t := EventDeltaUpdate
	if snap.Full {
		t = EventGameState
	}
	return GameStateEnvelope{
		Type:        t,
		Tick:        tick,
		Worms:       snap.Worms,
		RemovedWorm: snap.RemovedWorm,
		Food:        snap.Food,
		RemovedFood: snap.RemovedFood,
		Leaderboard: snap.Leaderboard,
	}
}
