package inputqueue

import (
	"errors"
	"math"
	"time"

	"wormarena/internal/config"
	"wormarena/internal/geom"
)

// Rejection reasons spec.md §4.3 names explicitly.
var (
	ErrMalformed     = errors.New("input rejected: angle is NaN or infinite")
	ErrTimestampSkew = errors.New("input rejected: client timestamp outside allowed skew")
	ErrRateLimited   = errors.New("input rejected: rate limit exceeded")
)

// Validator enforces the three per-player rejection rules spec.md §4.3
// names: malformed payloads, clock skew beyond T_skew, and command rate
// above MAX_INPUT_RATE. Grounded on the teacher's Conn.setInput, which
// performs none of this validation and trusts the client outright.
type Validator struct {
	cfg         config.Config
	windowStart time.Time
	windowCount int
}

// NewValidator creates a validator for one player's input stream.
func NewValidator(cfg config.Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate checks one raw command. nowMs is the server's current time in
// epoch milliseconds (used for the timestamp-skew check); now is the
// server's monotonic clock reading (used for the rate-limit window).
func (v *Validator) Validate(angle float64, boost bool, clientTimeMs, seq, nowMs int64, now time.Time) (Input, error) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return Input{}, ErrMalformed
	}

	skewMs := clientTimeMs - nowMs
	if skewMs < 0 {
		skewMs = -skewMs
	}
	if time.Duration(skewMs)*time.Millisecond > v.cfg.TimestampSkew {
		return Input{}, ErrTimestampSkew
	}

	if v.windowStart.IsZero() || now.Sub(v.windowStart) >= time.Second {
		v.windowStart = now
		v.windowCount = 0
	}
	v.windowCount++
	if v.windowCount > v.cfg.MaxInputRate {
		return Input{}, ErrRateLimited
	}

	return Input{
		Angle:      geom.WrapAngle(angle),
		Boost:      boost,
		ClientTime: clientTimeMs,
		SeqNum:     seq,
	}, nil
}
