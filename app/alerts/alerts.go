// Package alerts watches job snapshots for status transitions and pushes
// notifications to the configured destinations. It plugs into the feed engine
// as a snapshot observer and never blocks it, a full queue drops the alert.
package alerts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/notify"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/go-pkgz/syncs"

	"scribefeed/app/feed"
)

// Config defines destinations and credentials for outgoing notifications.
type Config struct {
	Destinations []string // mailto:, slack:, telegram: and http(s): destinations
	OnFailure    bool
	OnCompletion bool

	SMTPHost     string
	SMTPPort     int
	SMTPTLS      bool
	SMTPStartTLS bool
	SMTPUsername string
	SMTPPassword string

	SlackToken    string
	TelegramToken string

	Hostname string
	Timeout  time.Duration // per-send timeout, default 10s
}

// Alerter delivers job transition notifications. Observe feeds it snapshots,
// Run drains the queue and sends with retries.
type Alerter struct {
	destinations []string
	notifiers    []notify.Notifier
	onFailure    bool
	onCompletion bool
	hostname     string
	timeout      time.Duration
	rptr         *repeater.Repeater

	events chan event

	prevMu sync.Mutex
	prev   map[string]feed.Status
}

type event struct {
	job       feed.Job
	completed bool
}

// New makes an alerter with notifiers matching the configured destinations.
func New(cfg Config) *Alerter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	res := &Alerter{
		destinations: cfg.Destinations,
		onFailure:    cfg.OnFailure,
		onCompletion: cfg.OnCompletion,
		hostname:     cfg.Hostname,
		timeout:      cfg.Timeout,
		rptr:         repeater.New(&strategy.Backoff{Repeats: 3, Duration: time.Second, Factor: 2, Jitter: true}),
		events:       make(chan event, 100),
	}
	res.notifiers = makeNotifiers(cfg)
	return res
}

// makeNotifiers builds the notifier set for the schemas present in destinations.
func makeNotifiers(cfg Config) []notify.Notifier {
	res := []notify.Notifier{notify.NewWebhook(notify.WebhookParams{Timeout: cfg.Timeout})}

	if cfg.SMTPHost != "" {
		res = append(res, notify.NewEmail(notify.SMTPParams{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			TLS:      cfg.SMTPTLS,
			StartTLS: cfg.SMTPStartTLS,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			TimeOut:  cfg.Timeout,
		}))
	}
	if cfg.SlackToken != "" {
		res = append(res, notify.NewSlack(cfg.SlackToken))
	}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(notify.TelegramParams{Token: cfg.TelegramToken, Timeout: cfg.Timeout})
		if err != nil {
			log.Printf("[WARN] telegram notifications disabled: %v", err)
		} else {
			res = append(res, tg)
		}
	}
	return res
}

// Enabled reports if the alerter has anything to do.
func (a *Alerter) Enabled() bool {
	return (a.onFailure || a.onCompletion) && len(a.destinations) > 0
}

// Observe diffs the snapshot against the previous one and queues an alert for
// every job that just entered failed or completed. The first snapshot is the
// baseline, history present at startup never alerts.
func (a *Alerter) Observe(jobs []feed.Job) {
	if !a.Enabled() {
		return
	}

	a.prevMu.Lock()
	defer a.prevMu.Unlock()

	if a.prev == nil {
		a.prev = make(map[string]feed.Status, len(jobs))
		for _, job := range jobs {
			a.prev[job.ID] = job.Status
		}
		return
	}

	next := make(map[string]feed.Status, len(jobs))
	for _, job := range jobs {
		next[job.ID] = job.Status

		old, known := a.prev[job.ID]
		if known && old == job.Status {
			continue
		}
		switch {
		case job.Status == feed.StatusFailed && a.onFailure:
			a.enqueue(event{job: job})
		case job.Status == feed.StatusCompleted && a.onCompletion:
			a.enqueue(event{job: job, completed: true})
		}
	}
	a.prev = next
}

func (a *Alerter) enqueue(ev event) {
	select {
	case a.events <- ev:
	default:
		log.Printf("[WARN] alert queue full, dropping alert for job %s", ev.job.ID)
	}
}

// Run delivers queued alerts until ctx is canceled, fanning out over
// destinations with bounded concurrency.
func (a *Alerter) Run(ctx context.Context) {
	if !a.Enabled() {
		<-ctx.Done()
		return
	}
	log.Printf("[INFO] alerts enabled, %d destinations", len(a.destinations))

	grp := syncs.NewSizedGroup(4)
	defer grp.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-a.events:
			text := a.message(ev)
			for _, dest := range a.destinations {
				grp.Go(func(context.Context) {
					a.send(ctx, dest, text)
				})
			}
		}
	}
}

// send pushes one alert to one destination, retrying transient failures.
func (a *Alerter) send(ctx context.Context, dest, text string) {
	err := a.rptr.Do(ctx, func() error {
		sendCtx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		return notify.Send(sendCtx, a.notifiers, dest, text)
	})
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("[WARN] failed to send alert to %s: %v", dest, err)
		}
		return
	}
	log.Printf("[DEBUG] alert sent to %s", dest)
}

// message renders the alert text. Plain text on purpose, every destination
// type can show it as-is.
func (a *Alerter) message(ev event) string {
	var b strings.Builder
	name := ev.job.Name
	if name == "" {
		name = ev.job.ID
	}

	if ev.completed {
		fmt.Fprintf(&b, "transcription %q completed", name)
	} else {
		fmt.Fprintf(&b, "transcription %q failed", name)
	}
	if ev.job.FileName != "" {
		fmt.Fprintf(&b, " (%s)", ev.job.FileName)
	}
	if a.hostname != "" {
		fmt.Fprintf(&b, " on %s", a.hostname)
	}
	if !ev.completed && ev.job.Error != "" {
		fmt.Fprintf(&b, ": %s", ev.job.Error)
	}
	return b.String()
}
