package typeimage

import (
	"reflect"
	"unsafe"

	"github.com/skdltmxn/typeimage-go/internal/fault"
)

// FieldAccessor reads and writes one instance field of T with static
// types. It resolves the field through the same offset path as the
// FieldImage it was made from, without boxing the value.
type FieldAccessor[T, V any] struct {
	field *FieldImage
}

// AccessorOf returns a typed accessor for f. It fails with ErrArgumentShape
// unless f is an instance field of T with type V.
func AccessorOf[T, V any](f *FieldImage) (FieldAccessor[T, V], error) {
	var zero FieldAccessor[T, V]
	switch {
	case f == nil:
		return zero, fault.Shapef("nil field image")
	case f.IsStatic():
		return zero, fault.Shapef("%s is static", f)
	case f.owner.typ != reflect.TypeFor[T]():
		return zero, fault.Shapef("%s is not a field of %s", f, reflect.TypeFor[T]())
	case f.Type() != reflect.TypeFor[V]():
		return zero, fault.Shapef("%s has type %s, not %s", f, f.Type(), reflect.TypeFor[V]())
	}
	return FieldAccessor[T, V]{field: f}, nil
}

// Accessor looks up the field name of T in the default cache and returns a
// typed accessor for it.
func Accessor[T, V any](name string) (FieldAccessor[T, V], error) {
	f, err := For[T]().LookupField(name)
	if err != nil {
		return FieldAccessor[T, V]{}, err
	}
	return AccessorOf[T, V](f)
}

// Field returns the field image behind the accessor.
func (a FieldAccessor[T, V]) Field() *FieldImage { return a.field }

// Ptr returns a pointer to the field inside inst.
func (a FieldAccessor[T, V]) Ptr(inst *T) (*V, error) {
	if inst == nil {
		return nil, fault.Shapef("nil *%s instance", reflect.TypeFor[T]())
	}
	ptr, err := a.field.path.Resolve(unsafe.Pointer(inst))
	if err != nil {
		return nil, err
	}
	return (*V)(unsafe.Add(ptr, a.field.field.Offset)), nil
}

// Get returns the field of inst.
func (a FieldAccessor[T, V]) Get(inst *T) (V, error) {
	p, err := a.Ptr(inst)
	if err != nil {
		var zero V
		return zero, err
	}
	return *p, nil
}

// Set stores v into the field of inst.
func (a FieldAccessor[T, V]) Set(inst *T, v V) error {
	p, err := a.Ptr(inst)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
