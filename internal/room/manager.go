package room

import (
	"context"
	"fmt"
	"log"
	"sync"

	"wormarena/internal/config"
)

// DefaultRoomID names the room created at startup, which Manager
// refuses to destroy (spec.md §4.9, "the default room always exists").
const DefaultRoomID = "default"

// Manager owns every Room in the process and assigns joining players
// to one (spec.md §4.9, "Room Manager"). Grounded on the teacher's
// single implicit world, generalized to support multiple independently
// ticking rooms.
type Manager struct {
	mu     sync.RWMutex
	cfg    config.Config
	logger *log.Logger
	rooms  map[string]*Room
	cancel map[string]context.CancelFunc
}

// NewManager creates a manager and starts the default room.
func NewManager(cfg config.Config, logger *log.Logger, onBroadcast func(roomID string) BroadcastFunc, epochMs func() int64) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	m := &Manager{
		cfg:    cfg,
		logger: logger,
		rooms:  make(map[string]*Room),
		cancel: make(map[string]context.CancelFunc),
	}
	m.CreateRoom(DefaultRoomID, onBroadcast(DefaultRoomID), epochMs)
	return m
}

// CreateRoom starts a new room under id and runs its Loop in a
// background goroutine. Returns an error if id already exists.
func (m *Manager) CreateRoom(id string, onBroadcast BroadcastFunc, epochMs func() int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rooms[id]; exists {
		return fmt.Errorf("room %q already exists", id)
	}
	now := int64(0)
	if epochMs != nil {
		now = epochMs()
	}
	r := NewRoom(id, m.cfg, m.logger, now)
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoop(r, onBroadcast, epochMs)
	m.rooms[id] = r
	m.cancel[id] = cancel
	go r.Inputs.Pump(ctx.Done())
	go l.Run(ctx)
	m.logger.Printf("room manager: created room %q", id)
	return nil
}

// DestroyRoom stops and removes a room. The default room cannot be
// destroyed (spec.md §4.9).
func (m *Manager) DestroyRoom(id string) error {
	if id == DefaultRoomID {
		return fmt.Errorf("cannot destroy the default room")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cancel, ok := m.cancel[id]
	if !ok {
		return fmt.Errorf("room %q does not exist", id)
	}
	cancel()
	delete(m.rooms, id)
	delete(m.cancel, id)
	m.logger.Printf("room manager: destroyed room %q", id)
	return nil
}

// Room returns a room by ID, or nil if it does not exist.
func (m *Manager) Room(id string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[id]
}

// AssignPlayer picks a room for a newly connecting player. The current
// policy always assigns the default room; spec.md §4.9 leaves the
// balancing policy open, and a single default room satisfies every
// named invariant without inventing an unrequested matchmaking scheme.
func (m *Manager) AssignPlayer() *Room {
	return m.Room(DefaultRoomID)
}

// RoomIDs returns every currently live room ID.
func (m *Manager) RoomIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	return ids
}
