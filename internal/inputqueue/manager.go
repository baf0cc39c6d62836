package inputqueue

import (
	"sync"

	channerics "github.com/niceyeti/channerics/channels"
)

// Delivery pairs a validated input with the player it arrived from. It is
// the element type fanned into the Tick Loop's single ordered input
// stream (spec.md §4.7/§5, "Enqueue is the only cross-context operation
// on Room state").
type Delivery struct {
	PlayerID string
	Input    Input
}

// Manager owns one bounded Queue per connected player plus the
// per-player channel each connection's read loop pushes validated
// inputs into. Grounded on niceyeti-tabular's reinforcement worker
// fan-in (`channerics.Merge` over a shared done channel): each
// connection gets its own channel so a slow or malicious client cannot
// block another player's input from reaching the Tick Loop. Pump
// periodically rebuilds its Merge over the current channel set so
// players who join after Pump starts are still included, since Merge
// itself only fans in the channels it was given at call time.
type Manager struct {
	mu        sync.Mutex
	queues    map[string]*Queue
	channels  map[string]chan Delivery
	rebuildCh chan struct{}
}

// NewManager creates an empty input manager.
func NewManager() *Manager {
	return &Manager{
		queues:    make(map[string]*Queue),
		channels:  make(map[string]chan Delivery),
		rebuildCh: make(chan struct{}),
	}
}

// Register creates the bounded queue and delivery channel for a newly
// joined player. bufSize matches cfg.InputBufferSize. It wakes any
// running Pump so the new channel is folded into the next merge round.
func (m *Manager) Register(playerID string, bufSize int) chan<- Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := New(bufSize)
	ch := make(chan Delivery, bufSize)
	m.queues[playerID] = q
	m.channels[playerID] = ch
	close(m.rebuildCh)
	m.rebuildCh = make(chan struct{})
	return ch
}

// Unregister drops a player's queue and channel, e.g. on disconnect.
func (m *Manager) Unregister(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.channels[playerID]; ok {
		close(ch)
	}
	delete(m.queues, playerID)
	delete(m.channels, playerID)
	close(m.rebuildCh)
	m.rebuildCh = make(chan struct{})
}

// Queue returns the bounded FIFO for a registered player, or nil.
func (m *Manager) Queue(playerID string) *Queue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queues[playerID]
}

// Pump merges every registered player's delivery channel into the room's
// Queue instances until done closes. Because channerics.Merge fans in a
// fixed channel set, Pump rebuilds the merge whenever Register or
// Unregister changes that set, so a player who connects after Pump has
// already started is not silently excluded from the fan-in.
func (m *Manager) Pump(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		m.mu.Lock()
		chans := make([]<-chan Delivery, 0, len(m.channels))
		for _, ch := range m.channels {
			chans = append(chans, ch)
		}
		rebuildCh := m.rebuildCh
		m.mu.Unlock()

		roundDone := firstClosed(done, rebuildCh)
		merged := channerics.Merge(roundDone, chans...)
		guarded := channerics.OrDone(roundDone, merged)
		for d := range guarded {
			m.mu.Lock()
			q := m.queues[d.PlayerID]
			m.mu.Unlock()
			if q != nil {
				q.Push(d.Input)
			}
		}
	}
}

// firstClosed returns a channel that closes as soon as either a or b
// does, so Pump's merge round can be cancelled by either full shutdown
// or a registration change.
func firstClosed(a, b <-chan struct{}) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		defer close(out)
		select {
		case <-a:
		case <-b:
		}
	}()
	return out
}
