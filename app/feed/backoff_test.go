package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoff_Delay(t *testing.T) {
	b := Backoff{Base: time.Second, Max: 30 * time.Second} // no jitter, deterministic

	tbl := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 16 * time.Second},
		{6, 30 * time.Second},
		{7, 30 * time.Second},
		{100, 30 * time.Second},
	}

	for i, tt := range tbl {
		t.Run(fmt.Sprintf("%d:attempt-%d", i, tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.want, b.Delay(tt.attempt))
		})
	}
}

func TestBackoff_DelayJitterBounds(t *testing.T) {
	b := Backoff{Base: time.Second, Max: 30 * time.Second, Jitter: 500 * time.Millisecond}

	for i := 0; i < 100; i++ {
		d := b.Delay(3)
		require.GreaterOrEqual(t, d, 4*time.Second)
		require.Less(t, d, 4*time.Second+500*time.Millisecond)
	}

	// capped attempts still get jitter on top of the cap
	for i := 0; i < 100; i++ {
		d := b.Delay(10)
		require.GreaterOrEqual(t, d, 30*time.Second)
		require.Less(t, d, 30*time.Second+500*time.Millisecond)
	}
}

func TestBackoff_DelayDefaults(t *testing.T) {
	var b Backoff
	assert.Equal(t, time.Second, b.Delay(1), "zero value falls back to 1s base")
	assert.Equal(t, 30*time.Second, b.Delay(20), "zero value capped at 30s")

	assert.Equal(t, time.Second, b.Delay(0), "attempt below 1 treated as first")
	assert.Equal(t, time.Second, b.Delay(-5))
}

func TestBackoff_DelayBaseAboveMax(t *testing.T) {
	b := Backoff{Base: time.Minute, Max: 30 * time.Second}
	assert.Equal(t, 30*time.Second, b.Delay(1))
	assert.Equal(t, 30*time.Second, b.Delay(2))
}
