package invoker

import (
	"fmt"
	"reflect"

	"github.com/skdltmxn/typeimage-go/internal/fault"
)

// CastError reports a value that cannot be passed as a given type.
type CastError struct {
	Index int // Position in the argument list, -1 for a set value
	Want  reflect.Type
	Got   reflect.Type // nil for an untyped nil
}

func (e *CastError) Error() string {
	got := "nil"
	if e.Got != nil {
		got = e.Got.String()
	}
	if e.Index < 0 {
		return fmt.Sprintf("cannot use %s as %s", got, e.Want)
	}
	return fmt.Sprintf("argument %d: cannot use %s as %s", e.Index, got, e.Want)
}

// Cast converts v to a value assignable to t. Only exact assignability is
// accepted; there is no numeric widening. nil is accepted for nilable kinds.
func Cast(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if nilable(t.Kind()) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, &CastError{Index: -1, Want: t}
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, &CastError{Index: -1, Want: t, Got: rv.Type()}
	}
	if t.Kind() == reflect.Interface && rv.Type() != t {
		iv := reflect.New(t).Elem()
		iv.Set(rv)
		return iv, nil
	}
	return rv, nil
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

// adapter casts a loosely typed argument list to fixed parameter types.
type adapter struct {
	params []reflect.Type
}

// newAdapter returns the adapter for the first argc parameters.
func newAdapter(params []reflect.Type, argc int) adapter {
	return adapter{params: params[:argc]}
}

// into appends the cast arguments to in. A failed cast is reported with
// kind, which the caller chooses.
func (a adapter) into(in []reflect.Value, args []any, kind fault.Kind) ([]reflect.Value, error) {
	for i, t := range a.params {
		v, err := Cast(args[i], t)
		if err != nil {
			ce := err.(*CastError)
			ce.Index = i
			return nil, &fault.Error{Kind: kind, Err: ce}
		}
		in = append(in, v)
	}
	return in, nil
}

// valueError reports a value that does not fit a set target.
func valueError(kind fault.Kind, err error) error {
	return &fault.Error{Kind: kind, Message: "value", Err: err}
}
