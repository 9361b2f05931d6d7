// Package typeimage provides cached, pre-bound access to the members of Go
// types: fields, properties, indexers, methods and constructors.
//
// A TypeImage is built once per type and discovers the members the type
// declares, the members it inherits through embedding and the statics
// registered for it. Each member is exposed as an image with uniform
// Get, Set and Call operations. The invokers behind them are generated on
// first use and reused afterwards.
package typeimage

import (
	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/fault"
)

// Sentinel errors, one per failure kind. Every error returned by a member
// image matches exactly one of them under errors.Is.
var (
	// ErrArgumentShape indicates a nil or non-nil instance where the other
	// is required, or an instance, argument or value of the wrong type.
	ErrArgumentShape = fault.ErrArgumentShape

	// ErrArgumentCount indicates an argument or index count that matches no
	// arity of the member.
	ErrArgumentCount = fault.ErrArgumentCount

	// ErrCannotSet indicates a Set on a member that cannot be set.
	ErrCannotSet = fault.ErrCannotSet

	// ErrMissingMember indicates a required lookup found nothing.
	ErrMissingMember = fault.ErrMissingMember

	// ErrInvocation indicates a fault raised by the member itself.
	ErrInvocation = fault.ErrInvocation
)

// Registration errors.
var (
	// ErrSealed indicates a registration for a type whose image exists.
	ErrSealed = descriptor.ErrSealed

	// ErrInvalidEntry indicates a malformed registration.
	ErrInvalidEntry = descriptor.ErrInvalidEntry
)

// Error is the error type returned by member images. Err holds the
// underlying fault for invocation errors; format it with %+v to include the
// stack of a recovered panic.
type Error = fault.Error

// ErrorKind classifies an Error.
type ErrorKind = fault.Kind

const (
	ErrorKindUnknown       = fault.KindUnknown
	ErrorKindArgumentShape = fault.KindArgumentShape
	ErrorKindArgumentCount = fault.KindArgumentCount
	ErrorKindCannotSet     = fault.KindCannotSet
	ErrorKindMissingMember = fault.KindMissingMember
	ErrorKindInvocation    = fault.KindInvocation
)

// KindOf returns the kind of the first Error in err's chain, or
// ErrorKindUnknown.
func KindOf(err error) ErrorKind { return fault.KindOf(err) }

// Operation names recorded in Error.Op.
const (
	opGet    = "get"
	opSet    = "set"
	opCall   = "call"
	opLookup = "lookup"
)

func missing(owner *TypeImage, format string, a ...any) error {
	err := fault.Newf(fault.KindMissingMember, format, a...)
	err.Op = opLookup
	err.Member = owner.Name()
	return err
}
