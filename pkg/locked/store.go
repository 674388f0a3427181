// Package locked serializes access to a store shared between goroutines.
//
// Repositories and caches are single-threaded by contract. Wrapping one in a
// locked.Store makes each individual call safe to issue concurrently; it does
// not make sequences of calls atomic.
package locked

import (
	"sync"

	"github.com/aretw0/cellar/pkg/core"
)

// Store guards every call to the wrapped store with a mutex.
type Store[T core.Item] struct {
	mu    sync.Mutex
	inner core.Store[T]
}

// New wraps inner.
func New[T core.Item](inner core.Store[T]) *Store[T] {
	return &Store[T]{inner: inner}
}

func (s *Store[T]) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Reload()
}

func (s *Store[T]) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Flush()
}

func (s *Store[T]) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Destroy()
}

func (s *Store[T]) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ItemCount()
}

func (s *Store[T]) AllItems() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.AllItems()
}

func (s *Store[T]) HasItemWithKey(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.HasItemWithKey(key)
}

// ItemForKey takes the write lock too: caches mutate items on read.
func (s *Store[T]) ItemForKey(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ItemForKey(key)
}

func (s *Store[T]) AddItem(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.AddItem(item)
}

func (s *Store[T]) RemoveItemWithKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.RemoveItemWithKey(key)
}

// Compact compacts the wrapped store when it supports compaction and
// returns 0 otherwise.
func (s *Store[T]) Compact() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.inner.(core.Compactor); ok {
		return c.Compact()
	}
	return 0
}

// Do runs fn with exclusive access to the wrapped store, for sequences of
// calls that must not interleave with other goroutines.
func (s *Store[T]) Do(fn func(core.Store[T]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.inner)
}

var (
	_ core.Store[core.Item] = (*Store[core.Item])(nil)
	_ core.Compactor        = (*Store[core.Item])(nil)
)
