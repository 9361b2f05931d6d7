package typeimage

import (
	"reflect"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/dispatch"
	"github.com/skdltmxn/typeimage-go/internal/fault"
	"github.com/skdltmxn/typeimage-go/internal/invoker"
	"github.com/skdltmxn/typeimage-go/internal/sigkey"
)

// IndexerImage is an At/Set method pair, or the built-in index operation of
// a slice, array or map type.
type IndexerImage struct {
	member
	ix  *descriptor.Indexer
	sig sigkey.Key

	get *dispatch.Table[invoker.IndexGet]
	set *dispatch.Table[invoker.IndexSet] // nil if read-only
}

func newIndexerImage(owner *TypeImage, ix *descriptor.Indexer, path invoker.Path) *IndexerImage {
	ii := &IndexerImage{
		member: member{owner: owner, desc: &ix.Member, path: path},
		ix:     ix,
		sig:    sigkey.Of(ix.Index...),
	}
	level := ix.Declaring
	n := len(ix.Index)
	ii.get = dispatch.New(n, n, func(argc int) invoker.IndexGet {
		ii.traceGenerated(invoker.ShapeIndexGet, argc)
		return invoker.IndexerGet(ix, level, path, argc)
	})
	if ix.Settable() {
		ii.set = dispatch.New(n, n, func(argc int) invoker.IndexSet {
			ii.traceGenerated(invoker.ShapeIndexSet, argc)
			return invoker.IndexerSet(ix, level, path, argc)
		})
	}
	return ii
}

// Type returns the element type.
func (ix *IndexerImage) Type() reflect.Type { return ix.ix.Type }

// IndexTypes returns the index parameter types.
func (ix *IndexerImage) IndexTypes() []reflect.Type { return ix.ix.Index }

// CanSet reports whether the indexer has a setter.
func (ix *IndexerImage) CanSet() bool { return ix.set != nil }

// Get returns the element at index. Pass several indices for a
// multi-dimensional indexer.
func (ix *IndexerImage) Get(inst any, index ...any) (v any, err error) {
	defer ix.guard(opGet, &err)
	rv, err := ix.instance(inst, false)
	if err != nil {
		return nil, err
	}
	get, ok := ix.get.Get(len(index))
	if !ok {
		return nil, countError(len(index), ix.get.Min(), ix.get.Max())
	}
	return get(rv, index)
}

// Set stores value at a single index.
func (ix *IndexerImage) Set(inst any, index any, value any) error {
	return ix.SetAt(inst, []any{index}, value)
}

// SetAt stores value at the given indices.
func (ix *IndexerImage) SetAt(inst any, index []any, value any) (err error) {
	defer ix.guard(opSet, &err)
	if ix.set == nil {
		return fault.Newf(fault.KindCannotSet, "indexer has no setter")
	}
	rv, err := ix.instance(inst, true)
	if err != nil {
		return err
	}
	set, ok := ix.set.Get(len(index))
	if !ok {
		return countError(len(index), ix.set.Min(), ix.set.Max())
	}
	return set(rv, index, value)
}
