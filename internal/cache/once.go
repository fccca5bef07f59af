// Package cache memoizes the outcome of one expensive load per process.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces the cached value.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Status is a snapshot of a cache entry.
type Status struct {
	Name     string        `json:"name"`
	Loaded   bool          `json:"loaded"`
	Error    string        `json:"error,omitempty"`
	LoadedAt time.Time     `json:"loaded_at,omitempty"`
	Took     time.Duration `json:"took,omitempty"`
}

// Once runs its loader at most once. The value and the error are both
// memoized: a failed load is never retried.
type Once[T any] struct {
	name  string
	load  LoadFunc[T]
	group singleflight.Group

	mu       sync.RWMutex
	done     bool
	value    T
	err      error
	loadedAt time.Time
	took     time.Duration
}

// New creates a load-once entry. name shows up in Status.
func New[T any](name string, load LoadFunc[T]) *Once[T] {
	return &Once[T]{name: name, load: load}
}

// Get returns the memoized outcome, loading it on the first call.
// Concurrent first callers share a single load.
func (o *Once[T]) Get(ctx context.Context) (T, error) {
	if v, err, ok := o.Peek(); ok {
		return v, err
	}

	// The load outlives the request that triggered it.
	loadCtx := context.WithoutCancel(ctx)
	o.group.Do(o.name, func() (interface{}, error) {
		if _, _, ok := o.Peek(); ok {
			return nil, nil
		}
		start := time.Now()
		v, err := o.load(loadCtx)

		o.mu.Lock()
		o.value, o.err, o.done = v, err, true
		o.loadedAt = time.Now()
		o.took = o.loadedAt.Sub(start)
		o.mu.Unlock()
		return nil, nil
	})

	v, err, _ := o.Peek()
	return v, err
}

// Status reports the entry without triggering a load.
func (o *Once[T]) Status() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s := Status{Name: o.name, Loaded: o.done && o.err == nil}
	if o.done {
		s.LoadedAt = o.loadedAt
		s.Took = o.took
	}
	if o.err != nil {
		s.Error = o.err.Error()
	}
	return s
}

// Peek returns the memoized outcome and whether a load has finished, without loading.
func (o *Once[T]) Peek() (T, error, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value, o.err, o.done
}
