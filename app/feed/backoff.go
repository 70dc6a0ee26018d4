package feed

import (
	"math/rand"
	"time"
)

// reconnect policy defaults, applied by the engine when no backoff is configured
const (
	defBackoffBase   = time.Second
	defBackoffMax    = 30 * time.Second
	defBackoffJitter = 500 * time.Millisecond
)

// Backoff computes reconnect delays, doubling from Base up to Max with a random
// jitter added on top to spread simultaneous reconnects.
type Backoff struct {
	Base   time.Duration // first delay, 1s when unset
	Max    time.Duration // cap before jitter, 30s when unset
	Jitter time.Duration // random addition in [0,Jitter)
}

// Delay returns the pause before reconnect attempt n (1-based),
// min(Max, Base*2^(n-1)) plus jitter.
func (b Backoff) Delay(attempt int) time.Duration {
	base, maxDelay, jitter := b.Base, b.Max, b.Jitter
	if base <= 0 {
		base = defBackoffBase
	}
	if maxDelay <= 0 {
		maxDelay = defBackoffMax
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxDelay {
			break
		}
	}
	if delay > maxDelay {
		delay = maxDelay
	}
	if jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(jitter)))
	}
	return delay
}
