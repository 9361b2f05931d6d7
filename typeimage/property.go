package typeimage

import (
	"reflect"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/invoker"
	"github.com/skdltmxn/typeimage-go/internal/lazy"
)

// PropertyImage is a getter method with an optional setter. A property
// whose storage is a field tagged `image:"Name"` is read and, without a
// setter, written through that field directly. The tag is a promise that
// the getter returns the field as stored; a getter that transforms the
// value must not tag its field. Getters returning (V, error) are never
// bypassed and have no backing field.
type PropertyImage struct {
	accessor
	prop    *descriptor.Property
	backing *lazy.Value[*FieldImage]
}

// newPropertyImage builds the image of p. fields are the field images of
// the declaring level, searched for the backing field.
func newPropertyImage(owner *TypeImage, p *descriptor.Property, path invoker.Path, fields []*FieldImage) *PropertyImage {
	pi := &PropertyImage{prop: p}
	pi.accessor.member = member{owner: owner, desc: &p.Member, path: path}
	m := &pi.accessor.member
	level := p.Declaring

	pi.backing = lazy.New(func() *FieldImage {
		if p.Static || p.Getter.Results == descriptor.ResultsValueError {
			return nil
		}
		for _, f := range fields {
			if !f.field.Static && f.field.Backs == p.Name && f.field.Type == p.Type {
				return f
			}
		}
		return nil
	})
	backingField := func() *descriptor.Field {
		if f := pi.backing.Get(); f != nil {
			return f.field
		}
		return nil
	}

	if p.Static {
		pi.staticGet = generated(m, invoker.ShapeStaticGet, 0, func() invoker.StaticGet {
			return invoker.StaticPropertyGet(p)
		})
		if p.Setter != nil {
			pi.staticSet = generated(m, invoker.ShapeStaticSet, 1, func() invoker.StaticSet {
				return invoker.StaticPropertySet(p)
			})
		}
	} else {
		pi.instGet = generated(m, invoker.ShapeInstanceGet, 0, func() invoker.InstanceGet {
			return invoker.PropertyGet(p, backingField(), level, path)
		})
		pi.instSet = generated(m, invoker.ShapeInstanceSet, 1, func() invoker.InstanceSet {
			return invoker.PropertySet(p, backingField(), level, path)
		})
	}
	pi.canSet = pi.CanSet
	return pi
}

// Type returns the property type.
func (p *PropertyImage) Type() reflect.Type { return p.prop.Type }

// CanSet reports whether the property has a setter or a backing field.
func (p *PropertyImage) CanSet() bool {
	return p.prop.Setter != nil || p.backing.Get() != nil
}

// ReturnsError reports whether the getter has an error result.
func (p *PropertyImage) ReturnsError() bool {
	return p.prop.Getter.Results == descriptor.ResultsValueError
}

// HasSetter reports whether the property declares a setter.
func (p *PropertyImage) HasSetter() bool { return p.prop.Setter != nil }

// BackingField returns the field storing the property, or nil if the
// property is computed.
func (p *PropertyImage) BackingField() *FieldImage { return p.backing.Get() }
