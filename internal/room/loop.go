package room

import (
	"context"
	"time"
)

// BroadcastFunc is invoked on the lower-rate broadcast schedule
// (spec.md §4.10, F_net) with the most recent tick's events. The room
// package has no transport dependency; callers (internal/transport)
// supply this to push state to connected clients.
type BroadcastFunc func(nowMs int64, ev TickEvents)

// Loop drives a Room at its fixed simulation rate (F_tick) while
// invoking a broadcast callback at the lower F_net rate (spec.md §9,
// "Design Notes": "the simulation and network loops run at different,
// independently configurable rates"). Grounded on the teacher's
// GameLoop.Run, split into two schedules since the teacher couples tick
// and broadcast into a single ticker.
type Loop struct {
	Room     *Room
	OnBroadcast BroadcastFunc

	epochMs func() int64 // injected for determinism in tests
}

// NewLoop creates a loop bound to room. epochMs is typically
// time.Now().UnixMilli; tests can supply a deterministic clock.
func NewLoop(r *Room, onBroadcast BroadcastFunc, epochMs func() int64) *Loop {
	if epochMs == nil {
		epochMs = func() int64 { return time.Now().UnixMilli() }
	}
	return &Loop{Room: r, OnBroadcast: onBroadcast, epochMs: epochMs}
}

// maxCatchUpTicks bounds how many simulation ticks Run will execute in
// a single wakeup after a scheduling stall, so a long pause (GC, OS
// preemption) cannot cause an unbounded burst of ticks (spec.md §9,
// "catch-up ticks are bounded to 3 per wakeup; additional lag is
// dropped, not queued").
const maxCatchUpTicks = 3

// Run blocks, advancing the room at cfg.TickRate and invoking
// OnBroadcast at cfg.BroadcastRate, until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	cfg := l.Room.Cfg
	tickTicker := time.NewTicker(cfg.TickInterval)
	defer tickTicker.Stop()
	broadcastTicker := time.NewTicker(cfg.BroadcastEvery)
	defer broadcastTicker.Stop()

	lastTick := time.Now()
	var lastEvents TickEvents

	for {
		select {
		case <-ctx.Done():
			return

		case now := <-tickTicker.C:
			elapsed := now.Sub(lastTick)
			catchUp := int(elapsed / cfg.TickInterval)
			if catchUp < 1 {
				catchUp = 1
			}
			if catchUp > maxCatchUpTicks {
				catchUp = maxCatchUpTicks
			}
			lastTick = now

			for i := 0; i < catchUp; i++ {
				start := time.Now()
				ev := l.Room.runOneTick(l.epochMs())
				dur := time.Since(start)
				l.recordTickDuration(dur, &ev)
				lastEvents = ev
			}

		case <-broadcastTicker.C:
			if l.OnBroadcast != nil {
				l.OnBroadcast(l.epochMs(), lastEvents)
			}
		}
	}
}

// recordTickDuration annotates ev with slow/critical-slow markers and
// logs warnings per spec.md §7 ("tick duration exceeding SLOW_TICK_MS
// is logged; MAX_CONSEC_SLOW consecutive slow ticks is logged at a
// higher severity").
func (l *Loop) recordTickDuration(dur time.Duration, ev *TickEvents) {
	r := l.Room
	cfg := r.Cfg
	if dur <= cfg.SlowTickThreshold {
		r.consecutiveSlow = 0
		return
	}
	ev.SlowTick = true
	r.consecutiveSlow++
	r.Logger.Printf("room %s: slow tick %d took %s (threshold %s)", r.ID, ev.Tick, dur, cfg.SlowTickThreshold)
	if r.consecutiveSlow >= cfg.MaxConsecutiveSlow {
		ev.CriticalSlow = true
		r.Logger.Printf("room %s: %d consecutive slow ticks, simulation may be falling behind", r.ID, r.consecutiveSlow)
	}
}

// runOneTick wraps Tick with a panic recovery boundary (spec.md §7,
// "Simulation exception within a tick: the tick loop recovers, logs,
// and continues with the next scheduled tick rather than crashing the
// room"). The teacher has no equivalent since its smaller world cannot
// panic mid-tick; this is new but follows the teacher's general
// log-and-continue posture.
func (r *Room) runOneTick(nowMs int64) (ev TickEvents) {
	defer func() {
		if rec := recover(); rec != nil {
			r.Logger.Printf("room %s: recovered from panic in tick %d: %v", r.ID, r.tick, rec)
			ev = TickEvents{Tick: r.tick}
		}
	}()
	return r.Tick(nowMs)
}
