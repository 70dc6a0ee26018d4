package feed

import (
	"context"
	"sync"
)

// fakeFetcher implements Fetcher with a scripted response and a call counter.
type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	jobs  []Job
	err   error
	fn    func(ctx context.Context) ([]Job, error)
}

func (f *fakeFetcher) FetchJobs(ctx context.Context) ([]Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fn != nil {
		return f.fn(ctx)
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]Job(nil), f.jobs...), nil
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) set(jobs []Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = jobs
}

// fakeSub implements Subscription driven by the test. end simulates a server-side
// drop, Close mirrors the engine teardown path. Both are safe to mix.
type fakeSub struct {
	ch   chan Event
	once sync.Once
	mu   sync.Mutex
	err  error
}

func newFakeSub() *fakeSub {
	return &fakeSub{ch: make(chan Event, 16)}
}

func (s *fakeSub) Events() <-chan Event { return s.ch }

func (s *fakeSub) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *fakeSub) Close() error {
	s.once.Do(func() { close(s.ch) })
	return nil
}

func (s *fakeSub) send(ev Event) { s.ch <- ev }

func (s *fakeSub) end(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.once.Do(func() { close(s.ch) })
}

// fakeSubscriber implements Subscriber, delegating to fn with a 1-based attempt number.
type fakeSubscriber struct {
	mu    sync.Mutex
	calls int
	fn    func(attempt int) (Subscription, error)
}

func (f *fakeSubscriber) Subscribe(ctx context.Context) (Subscription, error) {
	f.mu.Lock()
	f.calls++
	attempt := f.calls
	fn := f.fn
	f.mu.Unlock()
	return fn(attempt)
}

func (f *fakeSubscriber) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type cmdCall struct {
	id  string
	cmd Command
}

// fakeCommander implements Commander, recording calls and failing ids listed in fail.
type fakeCommander struct {
	mu    sync.Mutex
	calls []cmdCall
	fail  map[string]error
}

func (f *fakeCommander) Invoke(ctx context.Context, id string, cmd Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmdCall{id: id, cmd: cmd})
	if err, ok := f.fail[id]; ok {
		return err
	}
	return nil
}

func (f *fakeCommander) invoked() []cmdCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cmdCall(nil), f.calls...)
}
