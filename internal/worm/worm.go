// Package worm implements the path-based trail entity at the center of
// the simulation (spec.md §4.1). It is grounded on the teacher's
// snake.go, generalized from a shift-array body to the ring-buffer path
// spec.md §9 calls for, and from the teacher's single-speed/no-rate-limit
// turning to the length-scaled turn rate and deterministic boost-burn
// accumulator SPEC_FULL.md's Open Question decisions settle on.
package worm

import (
	"math"
	"math/rand"

	"wormarena/internal/config"
	"wormarena/internal/geom"
)

// Segment is one sampled collision circle along a worm's path.
type Segment struct {
	Point  geom.Point
	Radius float64
}

// Worm is a player-controlled lengthening trail (spec.md §3, "Worm").
type Worm struct {
	ID       string
	PlayerID string
	Name     string
	SkinID   string
	Color    string

	Head            geom.Point
	Direction       float64
	TargetDirection float64
	Speed           float64 // base speed, units/s
	IsBoosting      bool
	SpawnTimeMs     int64

	Length float64
	Path   *Path

	Alive bool

	segments []Segment // cached; nil means invalid
	massDebt float64   // boost mass-burn accumulator, spec.md §9
}

// New seeds a straight path of cfg.InitLength points ending at origin,
// heading in direction.
func New(id, playerID, name, color, skinID string, origin geom.Point, direction float64, nowMs int64, cfg config.Config) *Worm {
	direction = geom.WrapAngle(direction)
	path := NewPath(cfg.PathHardCap)

	n := int(cfg.InitLength)
	if n < 1 {
		n = 1
	}
	// Seed tail-to-head: index 0 is farthest behind origin.
	for i := n - 1; i >= 0; i-- {
		d := float64(i) * cfg.SegSpacing
		path.PushBack(geom.Point{
			X: origin.X - d*math.Cos(direction),
			Y: origin.Y - d*math.Sin(direction),
		})
	}

	return &Worm{
		ID:              id,
		PlayerID:        playerID,
		Name:            name,
		SkinID:          skinID,
		Color:           color,
		Head:            origin,
		Direction:       direction,
		TargetDirection: direction,
		Speed:           cfg.BaseSpeed,
		SpawnTimeMs:     nowMs,
		Length:          cfg.InitLength,
		Path:            path,
		Alive:           true,
	}
}

// SetTargetDirection stores a normalized heading the next Step call will
// interpolate toward.
func (w *Worm) SetTargetDirection(theta float64) {
	w.TargetDirection = geom.WrapAngle(theta)
}

// SetBoosting sets the boost flag, clearing it instead if the worm is too
// short to safely burn mass. Calling this twice with the same value in
// one tick is equivalent to calling it once (spec.md P8).
func (w *Worm) SetBoosting(b bool, cfg config.Config) {
	if b && w.Length > cfg.MinBoostLength {
		w.IsBoosting = true
		return
	}
	w.IsBoosting = false
}

// AgeMs returns how long the worm has existed as of nowMs.
func (w *Worm) AgeMs(nowMs int64) int64 {
	return nowMs - w.SpawnTimeMs
}

// InGracePeriod reports whether the worm is still within its post-spawn
// invulnerability window (spec.md invariant I6).
func (w *Worm) InGracePeriod(nowMs int64, cfg config.Config) bool {
	return w.AgeMs(nowMs) < cfg.SpawnGraceMS
}

// Grow increases length, capped at cfg.MaxLength, and invalidates the
// segment cache.
func (w *Worm) Grow(delta float64, cfg config.Config) {
	w.Length += delta
	if w.Length > cfg.MaxLength {
		w.Length = cfg.MaxLength
	}
	w.segments = nil
}

// Die marks the worm dead. It does not touch path or length; the Food
// subsystem reads segments from a dead worm exactly once before the
// World removes it (spec.md §3, "Lifecycle").
func (w *Worm) Die() {
	w.Alive = false
}

// Step advances the worm by one tick. dt is seconds. Step never fails;
// every cleanup step is idempotent (spec.md §4.1, "Failure semantics").
func (w *Worm) Step(dt float64, cfg config.Config) {
	effectiveSpeed := w.Speed
	if w.IsBoosting {
		effectiveSpeed = w.Speed * cfg.BoostMult
		w.massDebt += cfg.BoostBurnPerMs * (dt * 1000)
		for w.massDebt >= 1 && w.Length > cfg.MinBoostLength {
			w.Length -= 1
			w.massDebt -= 1
			w.segments = nil
		}
		if w.Length <= cfg.MinBoostLength {
			w.IsBoosting = false
			w.massDebt = 0
		}
	} else {
		w.massDebt = 0
	}

	maxTurn := cfg.MaxTurnPerTick / (1.0 + math.Max(0, w.Length-cfg.InitLength)*cfg.TurnScaleFactor)
	totalDelta := geom.ClampAngleDelta(geom.WrapAngle(w.TargetDirection-w.Direction), maxTurn)

	d := effectiveSpeed * dt
	substeps := 1
	if cfg.StepMax > 0 && d > cfg.StepMax {
		substeps = int(math.Ceil(d / cfg.StepMax))
	}
	substepDelta := totalDelta / float64(substeps)
	substepDist := d / float64(substeps)

	for i := 0; i < substeps; i++ {
		w.Direction = geom.WrapAngle(w.Direction + substepDelta)
		w.Head = geom.Point{
			X: w.Head.X + substepDist*math.Cos(w.Direction),
			Y: w.Head.Y + substepDist*math.Sin(w.Direction),
		}
		if w.Path.Len() == 0 || geom.Dist(w.Path.Head(), w.Head) > cfg.PathRes {
			w.Path.PushBack(w.Head)
		}
	}

	w.Path.TrimToArcLength(w.Length * cfg.SegSpacing)
	w.segments = nil
}

// Segments returns cached equidistant samples of the path, recomputing
// them if the cache is invalid (spec.md §4.1, "Segment sampling").
func (w *Worm) Segments(cfg config.Config) []Segment {
	if w.segments != nil {
		return w.segments
	}
	w.segments = w.sampleSegments(cfg)
	return w.segments
}

func (w *Worm) sampleSegments(cfg config.Config) []Segment {
	n := w.Path.Len()
	if n <= 1 {
		return []Segment{{Point: w.Head, Radius: cfg.SegRadius + 2}}
	}

	maxSamples := int(w.Length)
	if maxSamples < 1 {
		maxSamples = 1
	}
	out := make([]Segment, 0, maxSamples)
	out = append(out, Segment{Point: w.Path.At(n - 1), Radius: cfg.SegRadius + 2})

	segStart := 0.0       // cumulative distance from head to the near end of the current path segment
	nextTarget := cfg.SegSpacing
	for i := n - 1; i > 0 && len(out) < maxSamples; i-- {
		a := w.Path.At(i)
		b := w.Path.At(i - 1)
		segLen := geom.Dist(a, b)
		segEnd := segStart + segLen
		for nextTarget <= segEnd && len(out) < maxSamples {
			frac := 0.0
			if segLen > 0 {
				frac = (nextTarget - segStart) / segLen
			}
			p := geom.Point{X: a.X + (b.X-a.X)*frac, Y: a.Y + (b.Y-a.Y)*frac}
			out = append(out, Segment{Point: p, Radius: cfg.SegRadius})
			nextTarget += cfg.SegSpacing
		}
		segStart = segEnd
	}
	return out
}

// RandomColor picks a uniformly random color from a palette, mirroring
// the teacher's randomColor helper (connection.go).
func RandomColor(palette []string) string {
	return palette[rand.Intn(len(palette))]
}
