package feed

import "sync"

// Store keeps the current set of jobs and the user selection. All mutations are funneled
// through its methods under a single lock, so concurrent snapshot and selection updates
// can't interleave half-applied. The selection is always a subset of the stored job ids.
type Store struct {
	mu        sync.RWMutex
	jobs      map[string]Job
	order     []string
	selection map[string]struct{}

	onSnapshot func(jobs []Job) // optional, invoked after each applied snapshot, outside the lock
}

// NewStore makes an empty store.
func NewStore() *Store {
	return &Store{jobs: map[string]Job{}, selection: map[string]struct{}{}}
}

// ApplySnapshot replaces the whole job set with the server snapshot, keeping the server
// order. Selected ids that vanished from the snapshot are pruned, survivors keep their
// selected state. Applying the same snapshot twice is a no-op by construction.
func (s *Store) ApplySnapshot(jobs []Job) {
	s.mu.Lock()
	next := make(map[string]Job, len(jobs))
	order := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if _, dup := next[job.ID]; dup {
			continue // server glitch, first occurrence wins
		}
		next[job.ID] = job
		order = append(order, job.ID)
	}
	for id := range s.selection {
		if _, ok := next[id]; !ok {
			delete(s.selection, id)
		}
	}
	s.jobs, s.order = next, order

	var applied []Job
	cb := s.onSnapshot
	if cb != nil {
		applied = make([]Job, 0, len(order))
		for _, id := range order {
			applied = append(applied, next[id])
		}
	}
	s.mu.Unlock()

	if cb != nil {
		cb(applied)
	}
}

// Jobs returns all jobs in server order.
func (s *Store) Jobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Job, 0, len(s.order))
	for _, id := range s.order {
		res = append(res, s.jobs[id])
	}
	return res
}

// Job returns a single job by id.
func (s *Store) Job(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// Len returns the number of stored jobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// HasActive reports if any stored job is still in flight.
func (s *Store) HasActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.jobs {
		if job.Status.Active() {
			return true
		}
	}
	return false
}

// Select marks the given ids as selected, ignoring unknown and already selected ones.
// Returns the number of ids actually added.
func (s *Store) Select(ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, id := range ids {
		if _, ok := s.jobs[id]; !ok {
			continue
		}
		if _, ok := s.selection[id]; ok {
			continue
		}
		s.selection[id] = struct{}{}
		added++
	}
	return added
}

// Deselect removes the given ids from the selection, returns the number removed.
func (s *Store) Deselect(ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, id := range ids {
		if _, ok := s.selection[id]; ok {
			delete(s.selection, id)
			removed++
		}
	}
	return removed
}

// SelectAll selects every stored job, returns the number of newly selected ids.
func (s *Store) SelectAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for id := range s.jobs {
		if _, ok := s.selection[id]; !ok {
			s.selection[id] = struct{}{}
			added++
		}
	}
	return added
}

// ClearSelection drops the selection completely.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = map[string]struct{}{}
}

// SetSelection replaces the selection with the given ids, dropping ids not present
// in the store.
func (s *Store) SetSelection(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.jobs[id]; ok {
			next[id] = struct{}{}
		}
	}
	s.selection = next
}

// Selected returns the selected ids in server order.
func (s *Store) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]string, 0, len(s.selection))
	for _, id := range s.order {
		if _, ok := s.selection[id]; ok {
			res = append(res, id)
		}
	}
	return res
}

// SelectedCount returns the size of the selection.
func (s *Store) SelectedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selection)
}
