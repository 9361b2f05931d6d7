// Package invoker turns member descriptors into pre-bound invokers. An
// invoker is built once per member and argument count and captures
// everything the access needs: the function value, the parameter types and
// the offset path from the owning instance to the declaring level.
package invoker

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/fault"
)

// The eight invoker shapes. inst is always an addressable value of the
// owning type.
type (
	StaticGet    func() (any, error)
	InstanceGet  func(inst reflect.Value) (any, error)
	StaticSet    func(value any) error
	InstanceSet  func(inst reflect.Value, value any) error
	StaticCall   func(args []any) (any, error)
	InstanceCall func(inst reflect.Value, args []any) (any, error)
	IndexGet     func(inst reflect.Value, index []any) (any, error)
	IndexSet     func(inst reflect.Value, index []any, value any) error
)

// Shape names an invoker shape for diagnostics.
type Shape uint8

const (
	ShapeStaticGet Shape = iota
	ShapeInstanceGet
	ShapeStaticSet
	ShapeInstanceSet
	ShapeStaticCall
	ShapeInstanceCall
	ShapeIndexGet
	ShapeIndexSet
)

func (s Shape) String() string {
	switch s {
	case ShapeStaticGet:
		return "static-get"
	case ShapeInstanceGet:
		return "instance-get"
	case ShapeStaticSet:
		return "static-set"
	case ShapeInstanceSet:
		return "instance-set"
	case ShapeStaticCall:
		return "static-call"
	case ShapeInstanceCall:
		return "instance-call"
	case ShapeIndexGet:
		return "index-get"
	case ShapeIndexSet:
		return "index-set"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// Step moves from one level to an embedded level: add Offset, then follow
// the pointer stored there if Deref is set.
type Step struct {
	Offset uintptr
	Deref  bool
}

// Path leads from the owning instance to the level declaring a member. The
// empty path addresses the owner itself.
type Path []Step

// Join returns the path extended by e. Adjacent offsets are folded into a
// single step.
func (p Path) Join(e *descriptor.Embed) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	if n := len(out); n > 0 && !out[n-1].Deref {
		out[n-1].Offset += e.Offset
		out[n-1].Deref = e.Pointer
		return out
	}
	return append(out, Step{Offset: e.Offset, Deref: e.Pointer})
}

// Locate resolves the address of the target level inside inst, which must
// be addressable.
func (p Path) Locate(inst reflect.Value) (unsafe.Pointer, error) {
	return p.Resolve(unsafe.Pointer(inst.UnsafeAddr()))
}

// Resolve follows the path from ptr, the address of an owner instance. A
// nil embedded pointer along the way is an invocation error.
func (p Path) Resolve(ptr unsafe.Pointer) (unsafe.Pointer, error) {
	for _, s := range p {
		ptr = unsafe.Add(ptr, s.Offset)
		if s.Deref {
			ptr = *(*unsafe.Pointer)(ptr)
			if ptr == nil {
				return nil, &fault.Error{Kind: fault.KindInvocation, Message: "nil embedded pointer"}
			}
		}
	}
	return ptr, nil
}

// receiver returns a *level pointing into inst along path.
func receiver(inst reflect.Value, level reflect.Type, path Path) (reflect.Value, error) {
	ptr, err := path.Locate(inst)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.NewAt(level, ptr), nil
}
