package invoker

import (
	"fmt"
	"reflect"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/fault"
)

// indexFault reports a bad index or value passed to an indexer.
func indexFault(msg string, err error) error {
	return &fault.Error{Kind: fault.KindInvocation, Message: msg, Err: err}
}

// IndexerGet returns the getter of an indexer for argc indices.
func IndexerGet(ix *descriptor.Indexer, level reflect.Type, path Path, argc int) IndexGet {
	if ix.Native != descriptor.NativeNone {
		return nativeGet(ix, level, path)
	}
	adapt := newAdapter(ix.Getter.Params, argc)
	resolve := bound(&ix.Getter, level, path)
	return func(inst reflect.Value, index []any) (any, error) {
		fn, in, err := resolve(inst, make([]reflect.Value, 0, argc+1))
		if err != nil {
			return nil, err
		}
		in, err = adapt.into(in, index, fault.KindInvocation)
		if err != nil {
			return nil, err
		}
		return collect(&ix.Getter, fn.Call(in))
	}
}

// IndexerSet returns the setter of an indexer for argc indices, or nil if
// the indexer is read-only.
func IndexerSet(ix *descriptor.Indexer, level reflect.Type, path Path, argc int) IndexSet {
	if ix.Native != descriptor.NativeNone {
		return nativeSet(ix, level, path)
	}
	if ix.Setter == nil {
		return nil
	}
	set := ix.Setter
	adapt := newAdapter(set.Params, argc)
	resolve := bound(set, level, path)
	return func(inst reflect.Value, index []any, value any) error {
		nv, err := Cast(value, ix.Type)
		if err != nil {
			return valueError(fault.KindInvocation, err)
		}
		fn, in, err := resolve(inst, make([]reflect.Value, 0, argc+2))
		if err != nil {
			return err
		}
		in, err = adapt.into(in, index, fault.KindInvocation)
		if err != nil {
			return err
		}
		_, err = collect(set, fn.Call(append(in, nv)))
		return err
	}
}

// container returns the slice, array or map the native indexer operates on.
func container(inst reflect.Value, level reflect.Type, path Path) (reflect.Value, error) {
	recv, err := receiver(inst, level, path)
	if err != nil {
		return reflect.Value{}, err
	}
	return recv.Elem(), nil
}

// element returns the addressable element at index of a slice or array, or
// the map key to use for a map.
func element(c reflect.Value, ix *descriptor.Indexer, index any) (reflect.Value, error) {
	k, err := Cast(index, ix.Index[0])
	if err != nil {
		return reflect.Value{}, indexFault("index", err)
	}
	if ix.Native == descriptor.NativeMap {
		return k, nil
	}
	i := int(k.Int())
	if i < 0 || i >= c.Len() {
		return reflect.Value{}, indexFault("index out of range", fmt.Errorf("index %d with length %d", i, c.Len()))
	}
	return c.Index(i), nil
}

func nativeGet(ix *descriptor.Indexer, level reflect.Type, path Path) IndexGet {
	return func(inst reflect.Value, index []any) (any, error) {
		c, err := container(inst, level, path)
		if err != nil {
			return nil, err
		}
		e, err := element(c, ix, index[0])
		if err != nil {
			return nil, err
		}
		if ix.Native == descriptor.NativeMap {
			v := c.MapIndex(e)
			if !v.IsValid() {
				return reflect.Zero(ix.Type).Interface(), nil
			}
			return v.Interface(), nil
		}
		return e.Interface(), nil
	}
}

func nativeSet(ix *descriptor.Indexer, level reflect.Type, path Path) IndexSet {
	return func(inst reflect.Value, index []any, value any) error {
		nv, err := Cast(value, ix.Type)
		if err != nil {
			return valueError(fault.KindInvocation, err)
		}
		c, err := container(inst, level, path)
		if err != nil {
			return err
		}
		e, err := element(c, ix, index[0])
		if err != nil {
			return err
		}
		if ix.Native == descriptor.NativeMap {
			if c.IsNil() {
				return indexFault("assignment to entry in nil map", nil)
			}
			c.SetMapIndex(e, nv)
			return nil
		}
		e.Set(nv)
		return nil
	}
}
