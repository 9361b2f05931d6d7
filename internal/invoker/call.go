package invoker

import (
	"reflect"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/fault"
)

// call is reflect.Value.Call, or CallSlice when a variadic slot receives
// its whole slice.
type call func(fn reflect.Value, in []reflect.Value) []reflect.Value

func callFor(c *descriptor.Callable, argc int) call {
	if c.Variadic && argc == c.MaxArgs() {
		return reflect.Value.CallSlice
	}
	return reflect.Value.Call
}

// collect maps the results of a call to a value and an error.
func collect(c *descriptor.Callable, out []reflect.Value) (any, error) {
	switch c.Results {
	case descriptor.ResultsValue:
		return out[0].Interface(), nil
	case descriptor.ResultsError:
		return nil, asError(out[0])
	case descriptor.ResultsValueError:
		if err := asError(out[1]); err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	}
	return nil, nil
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

// bound resolves the function to call on inst for an instance method
// declared by level. Interface levels dispatch through the method table of
// the stored interface value.
func bound(c *descriptor.Callable, level reflect.Type, path Path) func(inst reflect.Value, in []reflect.Value) (reflect.Value, []reflect.Value, error) {
	if c.Iface >= 0 {
		return func(inst reflect.Value, in []reflect.Value) (reflect.Value, []reflect.Value, error) {
			recv, err := receiver(inst, level, path)
			if err != nil {
				return reflect.Value{}, nil, err
			}
			iv := recv.Elem()
			if iv.IsNil() {
				return reflect.Value{}, nil, &fault.Error{Kind: fault.KindInvocation, Message: "nil interface " + level.String()}
			}
			return iv.Method(c.Iface), in, nil
		}
	}
	return func(inst reflect.Value, in []reflect.Value) (reflect.Value, []reflect.Value, error) {
		recv, err := receiver(inst, level, path)
		if err != nil {
			return reflect.Value{}, nil, err
		}
		return c.Func, append(in, recv), nil
	}
}

// MethodCall returns the invoker of an instance method called with exactly
// argc arguments.
func MethodCall(c *descriptor.Callable, level reflect.Type, path Path, argc int) InstanceCall {
	adapt := newAdapter(c.Params, argc)
	invoke := callFor(c, argc)
	resolve := bound(c, level, path)
	return func(inst reflect.Value, args []any) (any, error) {
		fn, in, err := resolve(inst, make([]reflect.Value, 0, argc+1))
		if err != nil {
			return nil, err
		}
		in, err = adapt.into(in, args, fault.KindArgumentShape)
		if err != nil {
			return nil, err
		}
		return collect(c, invoke(fn, in))
	}
}

// FuncCall returns the invoker of a static function called with exactly argc
// arguments.
func FuncCall(c *descriptor.Callable, argc int) StaticCall {
	adapt := newAdapter(c.Params, argc)
	invoke := callFor(c, argc)
	return func(args []any) (any, error) {
		in, err := adapt.into(make([]reflect.Value, 0, argc), args, fault.KindArgumentShape)
		if err != nil {
			return nil, err
		}
		return collect(c, invoke(c.Func, in))
	}
}

// ConstructorCall returns the invoker of a constructor of owner called with
// exactly argc arguments. Constructors always produce a *owner.
func ConstructorCall(c *descriptor.Constructor, owner reflect.Type, argc int) StaticCall {
	if c.Implicit {
		return func([]any) (any, error) {
			return reflect.New(owner).Interface(), nil
		}
	}
	inner := FuncCall(&c.Callable, argc)
	if c.Out.Kind() == reflect.Pointer {
		return inner
	}
	return func(args []any) (any, error) {
		v, err := inner(args)
		if err != nil || v == nil {
			return nil, err
		}
		p := reflect.New(owner)
		p.Elem().Set(reflect.ValueOf(v))
		return p.Interface(), nil
	}
}

// PropertyGet returns the getter of an instance property. A backing field
// replaces the getter call with a direct read, unless the getter can fail.
func PropertyGet(p *descriptor.Property, backing *descriptor.Field, level reflect.Type, path Path) InstanceGet {
	if backing != nil && p.Getter.Results != descriptor.ResultsValueError {
		return FieldGet(backing, path)
	}
	get := MethodCall(&p.Getter, level, path, 0)
	return func(inst reflect.Value) (any, error) {
		return get(inst, nil)
	}
}

// PropertySet returns the setter of an instance property, or nil if it has
// neither a setter nor a backing field. The setter is preferred.
func PropertySet(p *descriptor.Property, backing *descriptor.Field, level reflect.Type, path Path) InstanceSet {
	if p.Setter == nil {
		if backing != nil {
			return FieldSet(backing, path)
		}
		return nil
	}
	set := p.Setter
	resolve := bound(set, level, path)
	return func(inst reflect.Value, value any) error {
		nv, err := Cast(value, p.Type)
		if err != nil {
			return valueError(fault.KindArgumentShape, err)
		}
		fn, in, err := resolve(inst, make([]reflect.Value, 0, 2))
		if err != nil {
			return err
		}
		_, err = collect(set, fn.Call(append(in, nv)))
		return err
	}
}

// StaticPropertyGet returns the getter of a registered property.
func StaticPropertyGet(p *descriptor.Property) StaticGet {
	get := FuncCall(&p.Getter, 0)
	return func() (any, error) {
		return get(nil)
	}
}

// StaticPropertySet returns the setter of a registered property, or nil if
// it is read-only.
func StaticPropertySet(p *descriptor.Property) StaticSet {
	if p.Setter == nil {
		return nil
	}
	set := p.Setter
	return func(value any) error {
		nv, err := Cast(value, p.Type)
		if err != nil {
			return valueError(fault.KindArgumentShape, err)
		}
		_, err = collect(set, set.Func.Call([]reflect.Value{nv}))
		return err
	}
}
