package invoker

import (
	"reflect"
	"unsafe"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/fault"
)

// slot returns the addressable storage of an instance field. Unexported
// fields are reached through their offset, so the result is settable either
// way.
func slot(inst reflect.Value, f *descriptor.Field, path Path) (reflect.Value, error) {
	ptr, err := path.Locate(inst)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.NewAt(f.Type, unsafe.Add(ptr, f.Offset)).Elem(), nil
}

// FieldGet returns the getter of an instance field.
func FieldGet(f *descriptor.Field, path Path) InstanceGet {
	return func(inst reflect.Value) (any, error) {
		v, err := slot(inst, f, path)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}
}

// FieldSet returns the setter of an instance field. A value of the wrong
// type is an argument-shape error.
func FieldSet(f *descriptor.Field, path Path) InstanceSet {
	return func(inst reflect.Value, value any) error {
		nv, err := Cast(value, f.Type)
		if err != nil {
			return valueError(fault.KindArgumentShape, err)
		}
		v, err := slot(inst, f, path)
		if err != nil {
			return err
		}
		v.Set(nv)
		return nil
	}
}

// StaticFieldGet returns the getter of a registered variable or constant.
func StaticFieldGet(f *descriptor.Field) StaticGet {
	if f.IsConst() {
		c := f.Const.Interface()
		return func() (any, error) { return c, nil }
	}
	v := f.Var.Elem()
	return func() (any, error) { return v.Interface(), nil }
}

// StaticFieldSet returns the setter of a registered variable. Constants have
// no setter.
func StaticFieldSet(f *descriptor.Field) StaticSet {
	if f.IsConst() {
		return nil
	}
	v := f.Var.Elem()
	return func(value any) error {
		nv, err := Cast(value, f.Type)
		if err != nil {
			return valueError(fault.KindArgumentShape, err)
		}
		v.Set(nv)
		return nil
	}
}
