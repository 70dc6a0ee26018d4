package feed

import (
	"sync"
	"time"
)

// heartbeat tracks the time of the last sign of life on the push channel. Every frame
// counts, data and ping alike. A channel that never produced a signal is not stale,
// it is merely not confirmed live yet.
type heartbeat struct {
	mu   sync.Mutex
	last time.Time
}

// beat records a sign of life at ts.
func (h *heartbeat) beat(ts time.Time) {
	h.mu.Lock()
	h.last = ts
	h.mu.Unlock()
}

// stale reports if the channel went silent for longer than timeout. Always false
// before the first beat.
func (h *heartbeat) stale(now time.Time, timeout time.Duration) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last.IsZero() {
		return false
	}
	return now.Sub(h.last) > timeout
}
