// Package dispatch maps a call's argument count to the invoker generated
// for that arity.
package dispatch

import "github.com/skdltmxn/typeimage-go/internal/lazy"

// Generator builds the invoker for an exact argument count.
type Generator[I any] func(argCount int) I

// Table holds one lazily generated invoker per supported arity.
// It is safe for concurrent use.
type Table[I any] struct {
	min, max int
	slots    []*lazy.Value[I]
}

// New returns a table accepting between min and max arguments inclusive.
// A table with max < min accepts nothing.
func New[I any](min, max int, gen Generator[I]) *Table[I] {
	t := &Table[I]{min: min, max: max}
	if max < min {
		return t
	}
	t.slots = make([]*lazy.Value[I], max-min+1)
	for i := range t.slots {
		n := min + i
		t.slots[i] = lazy.New(func() I { return gen(n) })
	}
	return t
}

// Get returns the invoker for argCount, generating it on first request.
// ok is false iff argCount is outside [Min, Max].
func (t *Table[I]) Get(argCount int) (inv I, ok bool) {
	if argCount < t.min || argCount > t.max {
		return inv, false
	}
	return t.slots[argCount-t.min].Get(), true
}

// Min returns the smallest accepted argument count.
func (t *Table[I]) Min() int { return t.min }

// Max returns the largest accepted argument count.
func (t *Table[I]) Max() int { return t.max }

// Generated returns how many arities have been generated so far.
func (t *Table[I]) Generated() int {
	n := 0
	for _, s := range t.slots {
		if s.Computed() {
			n++
		}
	}
	return n
}
