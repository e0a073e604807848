package common

import "time"

// FixedTicker signals when a fixed-cadence tick is due while the caller
// advances it with variable frame times.
type FixedTicker struct {
	step    time.Duration
	pending time.Duration
}

// NewFixedTicker returns a ticker firing rate times per second. A rate <= 0
// falls back to 30.
func NewFixedTicker(rate int) *FixedTicker {
	if rate <= 0 {
		rate = 30
	}
	return &FixedTicker{step: time.Second / time.Duration(rate)}
}

// Step returns the tick length.
func (t *FixedTicker) Step() time.Duration {
	return t.step
}

// Advance accumulates dt and reports whether a tick is due. At most one tick
// is consumed per call; the remainder carries over so a slow frame is caught
// up on the following calls.
func (t *FixedTicker) Advance(dt time.Duration) bool {
	if t == nil || t.step <= 0 {
		return false
	}
	t.pending += dt
	if t.pending < t.step {
		return false
	}
	t.pending -= t.step
	return true
}

// Reset drops any accumulated time.
func (t *FixedTicker) Reset() {
	t.pending = 0
}
