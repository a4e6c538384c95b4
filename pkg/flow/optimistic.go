package flow

import (
	"context"
	"sync"
)

// Optimistic holds a value that is changed locally before a remote commit
// confirms it. A failed commit restores the snapshot taken before the change.
//
// Mutations are serialized: a second Mutate waits until the previous one has
// committed or rolled back. Get never waits on a commit in flight and always
// observes the latest optimistic value.
type Optimistic[T any] struct {
	mutateMu sync.Mutex

	mu    sync.RWMutex
	value T
}

// NewOptimistic creates a holder seeded with initial.
func NewOptimistic[T any](initial T) *Optimistic[T] {
	return &Optimistic[T]{value: initial}
}

// Get returns the current value.
func (o *Optimistic[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Set replaces the value outright, for example after a fresh load. It waits
// for any mutation in flight.
func (o *Optimistic[T]) Set(v T) {
	o.mutateMu.Lock()
	defer o.mutateMu.Unlock()
	o.store(v)
}

func (o *Optimistic[T]) store(v T) {
	o.mu.Lock()
	o.value = v
	o.mu.Unlock()
}

// Mutate runs one snapshot/apply/commit/restore cycle. apply derives the next
// value from the current one and reports whether anything changed; when it
// did not, commit is skipped. apply must not modify its argument in place.
//
// On success the committed value is returned. On commit failure the snapshot
// is restored and returned together with the commit error. A context that is
// already done when the mutation gets its turn applies nothing.
func (o *Optimistic[T]) Mutate(ctx context.Context, apply func(T) (T, bool), commit func(context.Context, T) error) (T, error) {
	o.mutateMu.Lock()
	defer o.mutateMu.Unlock()

	snapshot := o.Get()
	// The caller may have given up while a previous mutation held the lock.
	if err := ctx.Err(); err != nil {
		return snapshot, err
	}
	next, changed := apply(snapshot)
	if !changed {
		return snapshot, nil
	}
	o.store(next)

	if err := commit(ctx, next); err != nil {
		o.store(snapshot)
		return snapshot, err
	}
	return next, nil
}
