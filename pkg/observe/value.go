// Package observe provides a small typed observable: a current value readable
// synchronously plus a subscription model with unsubscribe-on-teardown. It
// replaces published-property singletons with explicitly constructed,
// injectable instances.
package observe

import (
	"sort"
	"sync"
)

// Value holds one current value of T and notifies subscribers on every Set.
// Reads are safe from any goroutine. Sets are expected to come from a single
// writer; notification order across concurrent Sets is undefined.
type Value[T any] struct {
	mu   sync.RWMutex
	cur  T
	subs map[int]func(T)
	next int
}

// NewValue builds an observable seeded with the initial value.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial, subs: make(map[int]func(T))}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cur
}

// Set replaces the current value atomically and notifies subscribers in
// registration order. Callbacks run on the caller's goroutine, outside the
// lock, so a subscriber may call Get or Unsubscribe without deadlocking.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.cur = val
	ids := make([]int, 0, len(v.subs))
	for id := range v.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, v.subs[id])
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(val)
	}
}

// Subscribe registers fn for future updates and returns its cancel func.
// fn is not called with the current value; use Get for the initial read.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.mu.Lock()
	id := v.next
	v.next++
	v.subs[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// Len reports the number of active subscribers.
func (v *Value[T]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}
