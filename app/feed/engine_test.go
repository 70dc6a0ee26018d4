package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_New(t *testing.T) {
	fetcher, subscriber, commander := &fakeFetcher{}, &fakeSubscriber{}, &fakeCommander{}

	tbl := []struct {
		name string
		cfg  Config
		err  string
	}{
		{"no fetcher", Config{Subscriber: subscriber, Commander: commander}, "fetcher is required"},
		{"no subscriber", Config{Fetcher: fetcher, Commander: commander}, "subscriber is required"},
		{"no commander", Config{Fetcher: fetcher, Subscriber: subscriber}, "commander is required"},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.EqualError(t, err, tt.err)
		})
	}

	t.Run("defaults applied", func(t *testing.T) {
		e, err := New(Config{Fetcher: fetcher, Subscriber: subscriber, Commander: commander})
		require.NoError(t, err)
		assert.Equal(t, 12*time.Second, e.sup.hbTimeout)
		assert.Equal(t, 3*time.Second, e.sup.checkEvery)
		assert.Equal(t, 2*time.Second, e.poll.cadence.Active)
		assert.Equal(t, 15*time.Second, e.poll.cadence.Idle)
		assert.Equal(t, Backoff{Base: time.Second, Max: 30 * time.Second, Jitter: 500 * time.Millisecond}, e.sup.backoff)
		assert.Equal(t, StateIdle, e.State())
	})
}

func TestEngine_RunLifecycle(t *testing.T) {
	sub := newFakeSub()
	subscriber := &fakeSubscriber{fn: func(int) (Subscription, error) { return sub, nil }}
	fetcher := &fakeFetcher{jobs: []Job{{ID: "p1", Status: StatusQueued}}}

	e, err := New(Config{
		Fetcher:    fetcher,
		Subscriber: subscriber,
		Commander:  &fakeCommander{},
		Poll:       Cadence{Active: time.Hour, Idle: time.Hour},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Run(ctx)
	}()

	// initial poll populates the view before push settles
	require.Eventually(t, func() bool { return e.store.Len() == 1 }, time.Second, time.Millisecond)
	job, ok := e.Job("p1")
	require.True(t, ok)
	assert.Equal(t, StatusQueued, job.Status)

	require.Eventually(t, func() bool { return e.Live() }, time.Second, time.Millisecond)
	assert.Equal(t, StateOpen, e.State())

	// push snapshot wins over the polled one, last writer takes the view
	sub.send(Event{Jobs: []Job{{ID: "w1", Status: StatusProcessing}, {ID: "w2", Status: StatusCompleted}}})
	require.Eventually(t, func() bool { return e.store.Len() == 2 }, time.Second, time.Millisecond)
	_, ok = e.Job("p1")
	assert.False(t, ok)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "engine did not shut down")
	}
	assert.Equal(t, StateIdle, e.State(), "teardown releases the channel and lands in idle")
}

func TestEngine_SelectionAPI(t *testing.T) {
	e, err := New(Config{Fetcher: &fakeFetcher{}, Subscriber: &fakeSubscriber{}, Commander: &fakeCommander{}})
	require.NoError(t, err)

	e.store.ApplySnapshot([]Job{{ID: "j1"}, {ID: "j2"}, {ID: "j3"}})

	assert.Equal(t, 2, e.Select("j1", "j3"))
	assert.Equal(t, []string{"j1", "j3"}, e.Selected())
	assert.Equal(t, 1, e.Deselect("j1"))
	assert.Equal(t, []string{"j3"}, e.Selected())

	assert.Equal(t, 2, e.SelectAll(), "only j1 and j2 are new")
	assert.Equal(t, []string{"j1", "j2", "j3"}, e.Selected())

	e.ClearSelection()
	assert.Empty(t, e.Selected())
	assert.Len(t, e.Jobs(), 3)
}

func TestEngine_ApplyUsesSelection(t *testing.T) {
	commander := &fakeCommander{}
	fetcher := &fakeFetcher{jobs: []Job{{ID: "j1"}, {ID: "j2"}}}
	e, err := New(Config{Fetcher: fetcher, Subscriber: &fakeSubscriber{}, Commander: commander})
	require.NoError(t, err)

	e.store.ApplySnapshot([]Job{{ID: "j1"}, {ID: "j2"}})
	e.Select("j2")

	res, err := e.Apply(context.Background(), nil, Command{Kind: CommandPause})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, "j2", res.Outcomes[0].JobID, "nil ids means current selection")

	last, ok := e.LastResult()
	require.True(t, ok)
	assert.Equal(t, res.Batch, last.Batch)

	t.Run("explicit ids bypass selection", func(t *testing.T) {
		res, err := e.Apply(context.Background(), []string{"j1"}, Command{Kind: CommandResume})
		require.NoError(t, err)
		require.Len(t, res.Outcomes, 1)
		assert.Equal(t, "j1", res.Outcomes[0].JobID)
	})

	t.Run("empty selection rejected", func(t *testing.T) {
		e.ClearSelection()
		_, err := e.Apply(context.Background(), nil, Command{Kind: CommandDelete})
		assert.ErrorIs(t, err, ErrEmptySelection)
	})
}

func TestEngine_OnSnapshotObserver(t *testing.T) {
	var mu sync.Mutex
	var seen [][]Job

	fetcher := &fakeFetcher{jobs: []Job{{ID: "j1", Status: StatusFailed, Error: "boom"}}}
	e, err := New(Config{
		Fetcher:    fetcher,
		Subscriber: &fakeSubscriber{fn: func(int) (Subscription, error) { return newFakeSub(), nil }},
		Commander:  &fakeCommander{},
		Poll:       Cadence{Active: time.Hour, Idle: time.Hour},
		OnSnapshot: func(jobs []Job) {
			mu.Lock()
			seen = append(seen, jobs)
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 1
	}, time.Second, time.Millisecond)

	mu.Lock()
	require.NotEmpty(t, seen[0])
	assert.Equal(t, "j1", seen[0][0].ID)
	mu.Unlock()

	cancel()
	<-done
}
