// Package lazy provides the one-shot memoization primitive used for every
// "compute on first read, cache forever" value.
package lazy

import (
	"sync"
	"sync/atomic"
)

// Value computes its content once, on first Get, and publishes it to every
// later caller. Concurrent first callers block until the single computation
// finishes. If the computation panics, that Get and every later one panic
// with the same value. The zero Value is not usable; use New.
type Value[T any] struct {
	once     sync.Once
	done     atomic.Bool
	fn       func() T
	v        T
	panicked any
}

// New returns a Value computed by fn.
func New[T any](fn func() T) *Value[T] {
	return &Value[T]{fn: fn}
}

// Get returns the memoized value, computing it on first use.
func (l *Value[T]) Get() T {
	if l.done.Load() {
		return l.v
	}
	l.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				l.fn = nil
				l.panicked = r
			}
		}()
		l.v = l.fn()
		l.fn = nil
		l.done.Store(true)
	})
	if l.panicked != nil {
		panic(l.panicked)
	}
	return l.v
}

// Computed reports whether the value has been published.
func (l *Value[T]) Computed() bool {
	return l.done.Load()
}
