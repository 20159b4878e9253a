// Package humanlike implements the daemon's single human-like-mode
// entry point (spec §9): one maybe_delay(lo, hi) call guarded by the
// --humanlike flag, used before/after goto, before click, and between
// characters during type. Do not sprinkle ad-hoc randomness elsewhere.
package humanlike

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// Pacer gates human-like delays behind a token-bucket limiter so bursts
// of interactive actions get a smoothed cadence instead of independent
// flat sleeps; one limiter is shared by every tab of the instance (SPEC_FULL §2's domain-stack wiring for
// golang.org/x/time/rate).
type Pacer struct {
	enabled bool
	limiter *rate.Limiter
}

// NewPacer returns a Pacer; when enabled is false, MaybeDelay is a
// no-op. The limiter allows roughly one paced action every 150ms with a
// burst of 2, loose enough to not throttle machine-speed test runs when
// disabled and to only matter when human-like mode is on.
func NewPacer(enabled bool) *Pacer {
	return &Pacer{
		enabled: enabled,
		limiter: rate.NewLimiter(rate.Every(150*time.Millisecond), 2),
	}
}

// MaybeDelay sleeps a jittered duration in [lo, hi] when human-like mode
// is enabled. The limiter's own wait is bounded by hi so pacing never
// blows past the caller's own timeout budget.
func (p *Pacer) MaybeDelay(ctx context.Context, lo, hi time.Duration) {
	if p == nil || !p.enabled || hi <= 0 {
		return
	}

	waitCtx, cancel := context.WithTimeout(ctx, hi)
	defer cancel()
	_ = p.limiter.Wait(waitCtx)

	jitter := lo
	if hi > lo {
		jitter = lo + time.Duration(rand.Int64N(int64(hi-lo)))
	}
	t := time.NewTimer(jitter)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// PerCharDelay returns a func() suitable for driver.Page.TypeChars'
// perCharDelay parameter: a 30-80ms sleep per character, per spec §4.6's
// /type human-like contract. Returns nil when disabled so the driver
// takes its single-shot typing path.
func (p *Pacer) PerCharDelay(ctx context.Context) func() {
	if p == nil || !p.enabled {
		return nil
	}
	return func() {
		d := 30*time.Millisecond + time.Duration(rand.Int64N(int64(50*time.Millisecond)))
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
		}
	}
}
