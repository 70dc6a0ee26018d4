package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/go-pkgz/lgr"
	"github.com/google/uuid"
)

// CommandKind identifies a bulk operation on selected jobs.
type CommandKind string

// supported bulk commands
const (
	CommandDelete CommandKind = "delete"
	CommandPause  CommandKind = "pause"
	CommandResume CommandKind = "resume"
	CommandTag    CommandKind = "tag"
	CommandRename CommandKind = "rename"
)

// Command is a bulk operation request. Tag is required for CommandTag, Name for
// CommandRename. For rename the coordinator derives a unique per-job name from Name
// and passes the derived value to the commander.
type Command struct {
	Kind CommandKind
	Tag  string
	Name string
}

// Outcome is the per-job result of a bulk pass.
type Outcome struct {
	JobID string
	Err   error
}

// OK reports if the command succeeded for this job.
func (o Outcome) OK() bool { return o.Err == nil }

// Result describes a completed bulk pass.
type Result struct {
	Batch    string // unique id of the pass
	Kind     CommandKind
	Outcomes []Outcome
}

// Succeeded returns the number of jobs the command worked for.
func (r Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of jobs the command failed for.
func (r Result) Failed() int { return len(r.Outcomes) - r.Succeeded() }

// ErrEmptySelection is returned by Apply when there is nothing to operate on.
var ErrEmptySelection = errors.New("empty selection")

// Coordinator executes bulk commands one job at a time, in selection order. A failed
// job never stops the pass, every id gets its attempt and its own outcome. After the
// pass it runs exactly one refresh fetch regardless of how many jobs were touched,
// then clears the selection on full success or narrows it to the failed ids.
type Coordinator struct {
	commander Commander
	fetcher   Fetcher
	store     *Store

	mu sync.Mutex // serializes passes, one bulk command at a time

	resMu sync.Mutex
	last  *Result
}

func newCoordinator(commander Commander, fetcher Fetcher, store *Store) *Coordinator {
	return &Coordinator{commander: commander, fetcher: fetcher, store: store}
}

// Apply runs cmd over ids sequentially and returns the pass result. Validation
// failures (empty selection, missing tag or name, unknown kind) abort before any
// job is touched. Per-job failures are collected, not propagated.
func (c *Coordinator) Apply(ctx context.Context, ids []string, cmd Command) (Result, error) {
	if len(ids) == 0 {
		return Result{}, ErrEmptySelection
	}
	switch cmd.Kind {
	case CommandDelete, CommandPause, CommandResume:
	case CommandTag:
		if cmd.Tag == "" {
			return Result{}, fmt.Errorf("tag command requires a tag id")
		}
	case CommandRename:
		if strings.TrimSpace(cmd.Name) == "" {
			return Result{}, fmt.Errorf("rename command requires a base name")
		}
	default:
		return Result{}, fmt.Errorf("unsupported bulk command %q", cmd.Kind)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	res := Result{Batch: uuid.New().String(), Kind: cmd.Kind, Outcomes: make([]Outcome, 0, len(ids))}
	var names map[string]string
	if cmd.Kind == CommandRename {
		names = c.renamePlan(cmd.Name, ids)
	}
	log.Printf("[INFO] bulk %s started, %d jobs, batch %s", cmd.Kind, len(ids), res.Batch)

	var failed []string
	for _, id := range ids {
		jobCmd := cmd
		if cmd.Kind == CommandRename {
			jobCmd.Name = names[id]
		}
		err := c.commander.Invoke(ctx, id, jobCmd)
		if err != nil {
			log.Printf("[WARN] bulk %s failed for job %s: %v", cmd.Kind, id, err)
			failed = append(failed, id)
		}
		res.Outcomes = append(res.Outcomes, Outcome{JobID: id, Err: err})
	}

	c.refresh(ctx)

	if len(failed) == 0 {
		c.store.ClearSelection()
	} else {
		c.store.SetSelection(failed)
	}

	c.resMu.Lock()
	c.last = &res
	c.resMu.Unlock()

	log.Printf("[INFO] bulk %s done, %d of %d succeeded, batch %s", cmd.Kind, res.Succeeded(), len(ids), res.Batch)
	return res, nil
}

// LastResult returns the most recent completed pass, false if none ran yet.
func (c *Coordinator) LastResult() (Result, bool) {
	c.resMu.Lock()
	defer c.resMu.Unlock()
	if c.last == nil {
		return Result{}, false
	}
	return *c.last, true
}

// refresh pulls a fresh snapshot after a pass. A failed refresh is logged and
// absorbed, the regular polling cycle repairs the view shortly anyway.
func (c *Coordinator) refresh(ctx context.Context) {
	jobs, err := c.fetcher.FetchJobs(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("[WARN] refresh after bulk failed: %v", err)
		}
		return
	}
	c.store.ApplySnapshot(jobs)
}

// renamePlan derives target names for a rename pass. A single job gets the base name
// as-is, multiple jobs get base-NN suffixes. Names of jobs being renamed are vacated,
// everything else in the store stays reserved, so generated names never collide.
func (c *Coordinator) renamePlan(base string, ids []string) map[string]string {
	base = strings.TrimSpace(base)
	plan := make(map[string]string, len(ids))
	if len(ids) == 1 {
		plan[ids[0]] = base
		return plan
	}

	renaming := make(map[string]bool, len(ids))
	for _, id := range ids {
		renaming[id] = true
	}
	taken := map[string]bool{}
	for _, job := range c.store.Jobs() {
		if !renaming[job.ID] {
			taken[job.Name] = true
		}
	}

	seq := 1
	for _, id := range ids {
		for {
			cand := fmt.Sprintf("%s-%02d", base, seq)
			seq++
			if !taken[cand] {
				taken[cand] = true
				plan[id] = cand
				break
			}
		}
	}
	return plan
}
