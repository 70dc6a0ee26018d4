package feed

import (
	"context"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
)

// ConnState is the lifecycle state of the push channel.
type ConnState string

// push channel states
const (
	StateIdle       ConnState = "idle"       // not started or torn down
	StateConnecting ConnState = "connecting" // subscribe in flight or reconnect pending
	StateOpen       ConnState = "open"       // subscribed and fresh
	StateStale      ConnState = "stale"      // subscribed but silent beyond the heartbeat timeout
	StateClosed     ConnState = "closed"     // lost, reconnect scheduled
)

// supervisor owns the push channel. It dials through the Subscriber, feeds incoming
// snapshots to the store, watches the heartbeat and forces a reconnect cycle with
// backoff whenever the channel errors out or goes silent. A successful open resets
// the attempt counter, so outage length doesn't inflate later delays.
type supervisor struct {
	subscriber Subscriber
	apply      func([]Job)
	backoff    Backoff
	hbTimeout  time.Duration
	checkEvery time.Duration
	now        func() time.Time

	hb heartbeat

	mu      sync.Mutex
	state   ConnState
	attempt int
	sub     Subscription
}

func newSupervisor(subscriber Subscriber, apply func([]Job), backoff Backoff, hbTimeout, checkEvery time.Duration) *supervisor {
	return &supervisor{
		subscriber: subscriber,
		apply:      apply,
		backoff:    backoff,
		hbTimeout:  hbTimeout,
		checkEvery: checkEvery,
		now:        time.Now,
		state:      StateIdle,
	}
}

// run drives the connect-consume-reconnect cycle until ctx is canceled. On return
// the subscription is closed and the state is back to idle, nothing is left behind.
func (s *supervisor) run(ctx context.Context) {
	defer func() {
		s.dropSub()
		s.setState(StateIdle)
	}()

	for {
		s.setState(StateConnecting)
		sub, err := s.subscriber.Subscribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.setState(StateClosed)
			delay := s.backoff.Delay(s.bumpAttempt())
			log.Printf("[WARN] push subscribe failed (attempt %d), retry in %v: %v", s.attempts(), delay.Round(time.Millisecond), err)
			if !sleepCtx(ctx, delay) {
				return
			}
			continue
		}

		s.opened(sub)
		log.Printf("[INFO] push channel connected")
		s.consume(ctx, sub)
		s.dropSub()
		if ctx.Err() != nil {
			return
		}

		s.setState(StateClosed)
		delay := s.backoff.Delay(s.bumpAttempt())
		log.Printf("[WARN] push channel lost (attempt %d), reconnect in %v", s.attempts(), delay.Round(time.Millisecond))
		if !sleepCtx(ctx, delay) {
			return
		}
	}
}

// consume drains subscription events until the stream ends, the heartbeat times out
// or ctx is canceled. Heartbeat-only events refresh the liveness clock and carry no data.
func (s *supervisor) consume(ctx context.Context, sub Subscription) {
	check := time.NewTicker(s.checkEvery)
	defer check.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				if err := sub.Err(); err != nil {
					log.Printf("[WARN] push stream terminated: %v", err)
				}
				return
			}
			s.hb.beat(s.now())
			if !ev.Heartbeat {
				s.apply(ev.Jobs)
			}
		case <-check.C:
			if s.hb.stale(s.now(), s.hbTimeout) {
				log.Printf("[WARN] push channel stale, silent for over %v", s.hbTimeout)
				s.setState(StateStale)
				return
			}
		}
	}
}

func (s *supervisor) opened(sub Subscription) {
	s.mu.Lock()
	s.state = StateOpen
	s.attempt = 0
	s.sub = sub
	s.mu.Unlock()
	s.hb.beat(s.now())
}

func (s *supervisor) dropSub() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()
	if sub == nil {
		return
	}
	if err := sub.Close(); err != nil {
		log.Printf("[DEBUG] subscription close: %v", err)
	}
}

func (s *supervisor) setState(st ConnState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *supervisor) connState() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// live reports if the push channel is confirmed healthy right now.
func (s *supervisor) live() bool {
	return s.connState() == StateOpen
}

func (s *supervisor) bumpAttempt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempt++
	return s.attempt
}

func (s *supervisor) attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt
}

// sleepCtx waits for d, returns false if ctx was canceled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
