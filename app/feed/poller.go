package feed

import (
	"context"

	log "github.com/go-pkgz/lgr"
)

// poller is the fallback refresh loop. It fetches the full job list on a cadence
// picked per-iteration, fast while anything is in flight and slow otherwise, and
// skips the fetch entirely while the push channel is confirmed healthy. The first
// fetch runs immediately so the view is populated without waiting for push.
type poller struct {
	fetcher   Fetcher
	apply     func([]Job)
	active    func() bool // any job still in flight
	suspended func() bool // push channel healthy, polling not needed
	cadence   Cadence
}

func newPoller(fetcher Fetcher, apply func([]Job), active, suspended func() bool, cadence Cadence) *poller {
	return &poller{fetcher: fetcher, apply: apply, active: active, suspended: suspended, cadence: cadence}
}

func (p *poller) run(ctx context.Context) {
	p.fetchOnce(ctx) // initial load, don't wait a full interval for the first view
	for {
		interval := p.cadence.Idle
		if p.active() {
			interval = p.cadence.Active
		}
		if !sleepCtx(ctx, interval) {
			return
		}
		if p.suspended() {
			continue
		}
		p.fetchOnce(ctx)
	}
}

func (p *poller) fetchOnce(ctx context.Context) {
	jobs, err := p.fetcher.FetchJobs(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("[WARN] poll fetch failed: %v", err)
		}
		return
	}
	p.apply(jobs)
}
