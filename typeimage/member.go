package typeimage

import (
	"log/slog"
	"reflect"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/fault"
	"github.com/skdltmxn/typeimage-go/internal/invoker"
	"github.com/skdltmxn/typeimage-go/internal/lazy"
)

// MemberKind identifies the category of a member.
type MemberKind = descriptor.Kind

const (
	MemberKindUnknown     = descriptor.KindUnknown
	MemberKindField       = descriptor.KindField
	MemberKindProperty    = descriptor.KindProperty
	MemberKindIndexer     = descriptor.KindIndexer
	MemberKindMethod      = descriptor.KindMethod
	MemberKindConstructor = descriptor.KindConstructor
)

// Member is implemented by every member image.
type Member interface {
	// Name returns the declared name, possibly qualified.
	Name() string

	// ShortName returns the name without any qualifier.
	ShortName() string

	// Kind returns the member kind.
	Kind() MemberKind

	// IsPublic reports whether the member is exported.
	IsPublic() bool

	// IsStatic reports whether the member belongs to the type rather than
	// to an instance.
	IsStatic() bool

	// RequiresInstance reports whether operations need an instance. It is
	// false for statics and constructors.
	RequiresInstance() bool

	// DeclaringType returns the type that declares the member, which is an
	// embedded type for inherited members.
	DeclaringType() reflect.Type

	// Owner returns the image the member was obtained from.
	Owner() *TypeImage
}

// member holds the state shared by all member images.
type member struct {
	owner *TypeImage
	desc  *descriptor.Member
	path  invoker.Path // From the owner to the declaring level
}

func (m *member) Name() string                { return m.desc.Name }
func (m *member) ShortName() string           { return m.desc.ShortName() }
func (m *member) Kind() MemberKind            { return m.desc.Kind }
func (m *member) IsPublic() bool              { return m.desc.Public }
func (m *member) IsStatic() bool              { return m.desc.Static }
func (m *member) DeclaringType() reflect.Type { return m.desc.Declaring }
func (m *member) Owner() *TypeImage           { return m.owner }

func (m *member) RequiresInstance() bool {
	return !m.desc.Static && m.desc.Kind != descriptor.KindConstructor
}

func (m *member) String() string {
	return m.owner.Name() + "." + m.desc.Name
}

// instance validates inst against the member and returns an addressable
// value of the owner type. Writes through a copy would be lost, so a struct
// or array owner must be passed by pointer when write is set.
func (m *member) instance(inst any, write bool) (reflect.Value, error) {
	if !m.RequiresInstance() {
		if inst != nil {
			return reflect.Value{}, fault.Shapef("%s member takes no instance, got %T", m.desc.Kind, inst)
		}
		return reflect.Value{}, nil
	}
	if inst == nil {
		return reflect.Value{}, fault.Shapef("instance required")
	}

	owner := m.owner.typ
	rv := reflect.ValueOf(inst)
	switch rt := rv.Type(); {
	case owner.Kind() == reflect.Interface:
		if !rt.Implements(owner) {
			return reflect.Value{}, fault.Shapef("%s does not implement %s", rt, owner)
		}
		iv := reflect.New(owner).Elem()
		iv.Set(rv)
		return iv, nil

	case rt == reflect.PointerTo(owner):
		if rv.IsNil() {
			return reflect.Value{}, fault.Shapef("nil *%s instance", owner)
		}
		return rv.Elem(), nil

	case rt == owner:
		if write && (owner.Kind() == reflect.Struct || owner.Kind() == reflect.Array) {
			return reflect.Value{}, fault.Shapef("set through a %s value is lost, pass *%s", owner, owner)
		}
		cp := reflect.New(owner).Elem()
		cp.Set(rv)
		return cp, nil
	}
	return reflect.Value{}, fault.Shapef("instance of type %T is not a %s", inst, owner)
}

// guard is deferred by every public operation. It converts a panic raised
// inside the member into an invocation error, wraps foreign errors once and
// records the fault.
func (m *member) guard(op string, err *error) {
	if r := recover(); r != nil {
		*err = fault.Recovered(r)
	}
	if *err == nil {
		return
	}
	*err = fault.Annotate(fault.Invocation(*err), op, m.String())
	kind := fault.KindOf(*err)
	m.owner.cache.metrics.Fault(kind)
	m.owner.cache.logger.Debug("member fault",
		slog.String("member", m.String()),
		slog.String("op", op),
		slog.String("kind", kind.String()),
		slog.Any("error", *err))
}

// generated returns a lazily generated invoker and records its generation.
func generated[I any](m *member, shape invoker.Shape, arity int, gen func() I) *lazy.Value[I] {
	return lazy.New(func() I {
		m.traceGenerated(shape, arity)
		return gen()
	})
}

func (m *member) traceGenerated(shape invoker.Shape, arity int) {
	m.owner.cache.metrics.InvokerGenerated(m.desc.Kind, shape.String(), arity)
	m.owner.cache.logger.Debug("invoker generated",
		slog.String("member", m.String()),
		slog.String("shape", shape.String()),
		slog.Int("arity", arity))
}

// countError reports an argument count outside [min, max].
func countError(n, min, max int) error {
	if min > max {
		return fault.Countf("got %d arguments, member accepts none", n)
	}
	if min == max {
		return fault.Countf("got %d arguments, want %d", n, min)
	}
	return fault.Countf("got %d arguments, want %d to %d", n, min, max)
}
