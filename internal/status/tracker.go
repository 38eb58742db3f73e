// Package status exposes the observable sync status and progress.
package status

import (
	"sync"
	"time"

	"news_review/internal/domain"
)

// Snapshot is a point-in-time copy of the tracker state.
type Snapshot struct {
	RunID     string            `json:"runId,omitempty"`
	Status    domain.SyncStatus `json:"status"`
	Progress  float64           `json:"progress"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Running reports whether a pass is in progress.
func (s Snapshot) Running() bool {
	return s.Status.Kind == domain.StatusSyncing
}

// Tracker holds status and progress of the current or last pass. Observers
// are called synchronously after each update, outside the lock.
type Tracker struct {
	mu        sync.RWMutex
	current   Snapshot
	nextID    int
	observers map[int]func(Snapshot)
}

func NewTracker() *Tracker {
	return &Tracker{
		current:   Snapshot{Status: domain.Idle, UpdatedAt: time.Now()},
		observers: make(map[int]func(Snapshot)),
	}
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Begin marks a new pass: status syncing, progress reset to zero.
func (t *Tracker) Begin(runID string) {
	t.update(func(s *Snapshot) {
		s.RunID = runID
		s.Status = domain.Syncing
		s.Progress = 0
	})
}

// Advance raises progress to p. Lower values are ignored so progress never
// moves backwards within a pass.
func (t *Tracker) Advance(p float64) {
	p = min(max(p, 0), 1)
	t.update(func(s *Snapshot) {
		if p > s.Progress {
			s.Progress = p
		}
	})
}

func (t *Tracker) Succeed() {
	t.update(func(s *Snapshot) {
		s.Progress = 1
		s.Status = domain.Success
	})
}

// Fail records a terminal failure, leaving progress where it was.
func (t *Tracker) Fail(err error) {
	t.update(func(s *Snapshot) {
		s.Status = domain.Failure(err)
	})
}

// Subscribe registers fn for every subsequent update and returns a function
// removing it.
func (t *Tracker) Subscribe(fn func(Snapshot)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.observers[id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.observers, id)
	}
}

func (t *Tracker) update(mutate func(*Snapshot)) {
	t.mu.Lock()
	mutate(&t.current)
	t.current.UpdatedAt = time.Now()
	snap := t.current
	observers := make([]func(Snapshot), 0, len(t.observers))
	for _, fn := range t.observers {
		observers = append(observers, fn)
	}
	t.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
