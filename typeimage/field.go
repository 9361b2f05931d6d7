package typeimage

import (
	"reflect"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/invoker"
)

// FieldImage is a struct field, a registered variable or a constant.
type FieldImage struct {
	accessor
	field *descriptor.Field
}

func newFieldImage(owner *TypeImage, f *descriptor.Field, path invoker.Path) *FieldImage {
	fi := &FieldImage{field: f}
	fi.accessor.member = member{owner: owner, desc: &f.Member, path: path}
	m := &fi.accessor.member

	if f.Static {
		fi.staticGet = generated(m, invoker.ShapeStaticGet, 0, func() invoker.StaticGet {
			return invoker.StaticFieldGet(f)
		})
		if !f.IsConst() {
			fi.staticSet = generated(m, invoker.ShapeStaticSet, 1, func() invoker.StaticSet {
				return invoker.StaticFieldSet(f)
			})
		}
	} else {
		fi.instGet = generated(m, invoker.ShapeInstanceGet, 0, func() invoker.InstanceGet {
			return invoker.FieldGet(f, path)
		})
		fi.instSet = generated(m, invoker.ShapeInstanceSet, 1, func() invoker.InstanceSet {
			return invoker.FieldSet(f, path)
		})
	}
	fi.canSet = fi.CanSet
	return fi
}

// Type returns the field type.
func (f *FieldImage) Type() reflect.Type { return f.field.Type }

// CanSet reports whether the field can be set. Only constants cannot.
func (f *FieldImage) CanSet() bool { return !f.field.IsConst() }

// IsBacking reports whether the field stores a property.
func (f *FieldImage) IsBacking() bool { return f.field.Backs != "" }

// Offset returns the offset of the field from the start of the owner, and
// false if the field is static or lies behind an embedded pointer.
func (f *FieldImage) Offset() (uintptr, bool) {
	if f.field.Static {
		return 0, false
	}
	switch len(f.path) {
	case 0:
		return f.field.Offset, true
	case 1:
		if !f.path[0].Deref {
			return f.path[0].Offset + f.field.Offset, true
		}
	}
	return 0, false
}
