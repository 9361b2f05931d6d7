package typeimage

import (
	"reflect"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/dispatch"
	"github.com/skdltmxn/typeimage-go/internal/invoker"
	"github.com/skdltmxn/typeimage-go/internal/sigkey"
)

// callable is the parameter bookkeeping shared by methods and constructors.
type callable struct {
	member
	call *descriptor.Callable
	sig  sigkey.Key
}

// ParamTypes returns the parameter types. A variadic final parameter keeps
// its slice type and, when passed, takes the whole slice.
func (c *callable) ParamTypes() []reflect.Type { return c.call.Params }

// IsVariadic reports whether the final parameter is variadic.
func (c *callable) IsVariadic() bool { return c.call.Variadic }

// MinArgs returns the smallest accepted argument count.
func (c *callable) MinArgs() int { return c.call.MinArgs() }

// MaxArgs returns the largest accepted argument count.
func (c *callable) MaxArgs() int { return c.call.MaxArgs() }

// ReturnType returns the value result type, nil for methods returning
// nothing or only an error.
func (c *callable) ReturnType() reflect.Type { return c.call.Out }

// MethodImage is an instance or static method.
type MethodImage struct {
	callable
	static *dispatch.Table[invoker.StaticCall]
	inst   *dispatch.Table[invoker.InstanceCall]
}

func newMethodImage(owner *TypeImage, m *descriptor.Method, path invoker.Path) *MethodImage {
	mi := &MethodImage{callable: callable{
		member: member{owner: owner, desc: &m.Member, path: path},
		call:   &m.Callable,
		sig:    sigkey.Of(m.Params...),
	}}
	c := &m.Callable
	if m.Static {
		mi.static = dispatch.New(c.MinArgs(), c.MaxArgs(), func(argc int) invoker.StaticCall {
			mi.traceGenerated(invoker.ShapeStaticCall, argc)
			return invoker.FuncCall(c, argc)
		})
	} else {
		level := m.Declaring
		mi.inst = dispatch.New(c.MinArgs(), c.MaxArgs(), func(argc int) invoker.InstanceCall {
			mi.traceGenerated(invoker.ShapeInstanceCall, argc)
			return invoker.MethodCall(c, level, path, argc)
		})
	}
	return mi
}

// Call invokes the method. Static methods take a nil instance. The result
// is nil for methods returning nothing or only an error.
func (m *MethodImage) Call(inst any, args ...any) (v any, err error) {
	defer m.guard(opCall, &err)
	rv, err := m.instance(inst, false)
	if err != nil {
		return nil, err
	}
	if m.static != nil {
		fn, ok := m.static.Get(len(args))
		if !ok {
			return nil, countError(len(args), m.MinArgs(), m.MaxArgs())
		}
		return fn(args)
	}
	fn, ok := m.inst.Get(len(args))
	if !ok {
		return nil, countError(len(args), m.MinArgs(), m.MaxArgs())
	}
	return fn(rv, args)
}

// ConstructorImage creates instances of its owner. The result is always a
// pointer to the owner type.
type ConstructorImage struct {
	callable
	implicit bool
	table    *dispatch.Table[invoker.StaticCall]
}

func newConstructorImage(owner *TypeImage, c *descriptor.Constructor) *ConstructorImage {
	ci := &ConstructorImage{
		callable: callable{
			member: member{owner: owner, desc: &c.Member},
			call:   &c.Callable,
			sig:    sigkey.Of(c.Params...),
		},
		implicit: c.Implicit,
	}
	ci.table = dispatch.New(c.MinArgs(), c.MaxArgs(), func(argc int) invoker.StaticCall {
		ci.traceGenerated(invoker.ShapeStaticCall, argc)
		return invoker.ConstructorCall(c, owner.typ, argc)
	})
	return ci
}

// IsImplicit reports whether the constructor is the zero-argument new(T).
func (c *ConstructorImage) IsImplicit() bool { return c.implicit }

// Call creates an instance.
func (c *ConstructorImage) Call(args ...any) (v any, err error) {
	defer c.guard(opCall, &err)
	fn, ok := c.table.Get(len(args))
	if !ok {
		return nil, countError(len(args), c.MinArgs(), c.MaxArgs())
	}
	return fn(args)
}
