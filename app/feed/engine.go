// Package feed implements the live job feed engine. It keeps a local view of the
// server's transcription jobs current through a push channel with heartbeat
// supervision and reconnect backoff, a polling fallback for when push is down,
// and runs bulk commands over the user selection with per-job outcomes.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Event is a single message from the push channel. Heartbeat events carry no data
// and only prove the channel is alive, otherwise Jobs holds a full snapshot.
type Event struct {
	Heartbeat bool
	Jobs      []Job
}

// Fetcher pulls a full job snapshot from the server.
type Fetcher interface {
	FetchJobs(ctx context.Context) ([]Job, error)
}

// Subscription is an established push channel. Events is closed when the stream
// ends, Err reports why. Close is safe to call multiple times.
type Subscription interface {
	Events() <-chan Event
	Err() error
	Close() error
}

// Subscriber establishes the push channel.
type Subscriber interface {
	Subscribe(ctx context.Context) (Subscription, error)
}

// Commander executes a single bulk command against one job.
type Commander interface {
	Invoke(ctx context.Context, id string, cmd Command) error
}

// Cadence holds the polling fallback intervals.
type Cadence struct {
	Active time.Duration // while any job is in flight, default 2s
	Idle   time.Duration // when everything settled, default 15s
}

// Config defines engine collaborators and timing. Zero durations get defaults.
type Config struct {
	Fetcher    Fetcher
	Subscriber Subscriber
	Commander  Commander

	HeartbeatTimeout time.Duration // push considered stale after this silence, default 12s
	CheckInterval    time.Duration // staleness check period, default 3s
	Poll             Cadence
	Backoff          Backoff

	OnSnapshot func(jobs []Job) // optional, called after every applied snapshot
}

// Engine ties the store, the push supervisor, the polling fallback and the bulk
// coordinator together. All reads and selection changes are safe for concurrent
// use while Run is active.
type Engine struct {
	store *Store
	sup   *supervisor
	poll  *poller
	bulk  *Coordinator
}

// New makes an engine from cfg. Fetcher, Subscriber and Commander are required.
func New(cfg Config) (*Engine, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if cfg.Subscriber == nil {
		return nil, fmt.Errorf("subscriber is required")
	}
	if cfg.Commander == nil {
		return nil, fmt.Errorf("commander is required")
	}

	if cfg.HeartbeatTimeout <= 0 {
		cfg.HeartbeatTimeout = 12 * time.Second
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 3 * time.Second
	}
	if cfg.Poll.Active <= 0 {
		cfg.Poll.Active = 2 * time.Second
	}
	if cfg.Poll.Idle <= 0 {
		cfg.Poll.Idle = 15 * time.Second
	}
	if cfg.Backoff == (Backoff{}) {
		cfg.Backoff = Backoff{Base: defBackoffBase, Max: defBackoffMax, Jitter: defBackoffJitter}
	}

	store := NewStore()
	store.onSnapshot = cfg.OnSnapshot

	res := &Engine{
		store: store,
		bulk:  newCoordinator(cfg.Commander, cfg.Fetcher, store),
	}
	res.sup = newSupervisor(cfg.Subscriber, store.ApplySnapshot, cfg.Backoff, cfg.HeartbeatTimeout, cfg.CheckInterval)
	res.poll = newPoller(cfg.Fetcher, store.ApplySnapshot, store.HasActive, res.sup.live, cfg.Poll)
	return res, nil
}

// Run starts the push supervisor and the polling fallback and blocks until ctx is
// canceled and both loops finished. On return the push channel is released and no
// engine goroutine is left running.
func (e *Engine) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		e.sup.run(ctx)
	}()
	go func() {
		defer wg.Done()
		e.poll.run(ctx)
	}()
	wg.Wait()
}

// Jobs returns the current job view in server order.
func (e *Engine) Jobs() []Job { return e.store.Jobs() }

// Job returns a single job by id.
func (e *Engine) Job(id string) (Job, bool) { return e.store.Job(id) }

// Selected returns the selected job ids in server order.
func (e *Engine) Selected() []string { return e.store.Selected() }

// Select adds ids to the selection, returns the number actually added.
func (e *Engine) Select(ids ...string) int { return e.store.Select(ids...) }

// Deselect removes ids from the selection, returns the number removed.
func (e *Engine) Deselect(ids ...string) int { return e.store.Deselect(ids...) }

// SelectAll selects every job currently in the view.
func (e *Engine) SelectAll() int { return e.store.SelectAll() }

// ClearSelection drops the selection.
func (e *Engine) ClearSelection() { e.store.ClearSelection() }

// Live reports if the push channel is confirmed healthy.
func (e *Engine) Live() bool { return e.sup.live() }

// State returns the current push channel state.
func (e *Engine) State() ConnState { return e.sup.connState() }

// Apply runs a bulk command over ids, or over the current selection when ids is nil.
func (e *Engine) Apply(ctx context.Context, ids []string, cmd Command) (Result, error) {
	if ids == nil {
		ids = e.store.Selected()
	}
	return e.bulk.Apply(ctx, ids, cmd)
}

// LastResult returns the most recent bulk pass, false if none ran yet.
func (e *Engine) LastResult() (Result, bool) { return e.bulk.LastResult() }
