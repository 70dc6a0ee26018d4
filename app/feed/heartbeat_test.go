package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHeartbeat(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	var h heartbeat
	assert.False(t, h.stale(now, 12*time.Second), "no beats yet, not confirmed live but not stale either")
	assert.False(t, h.stale(now.Add(time.Hour), 12*time.Second), "still quiet, still not stale")

	h.beat(now)
	assert.False(t, h.stale(now.Add(11*time.Second), 12*time.Second))
	assert.False(t, h.stale(now.Add(12*time.Second), 12*time.Second), "exactly at timeout is still fresh")
	assert.True(t, h.stale(now.Add(12*time.Second+time.Millisecond), 12*time.Second))

	h.beat(now.Add(20 * time.Second))
	assert.False(t, h.stale(now.Add(25*time.Second), 12*time.Second), "new beat resets the clock")
	assert.True(t, h.stale(now.Add(40*time.Second), 12*time.Second))
}
