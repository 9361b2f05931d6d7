// Package fault defines the error taxonomy shared by the invoker layers and
// the public image API.
package fault

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies a failure reported at the member boundary.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindArgumentShape
	KindArgumentCount
	KindCannotSet
	KindMissingMember
	KindInvocation
)

func (k Kind) String() string {
	switch k {
	case KindArgumentShape:
		return "argument_shape"
	case KindArgumentCount:
		return "argument_count"
	case KindCannotSet:
		return "cannot_set"
	case KindMissingMember:
		return "missing_member"
	case KindInvocation:
		return "invocation"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind. An *Error matches the sentinel of its kind
// under errors.Is.
var (
	ErrArgumentShape = errors.New("typeimage: argument shape mismatch")
	ErrArgumentCount = errors.New("typeimage: argument count mismatch")
	ErrCannotSet     = errors.New("typeimage: member cannot be set")
	ErrMissingMember = errors.New("typeimage: missing member")
	ErrInvocation    = errors.New("typeimage: invocation failed")
)

func (k Kind) sentinel() error {
	switch k {
	case KindArgumentShape:
		return ErrArgumentShape
	case KindArgumentCount:
		return ErrArgumentCount
	case KindCannotSet:
		return ErrCannotSet
	case KindMissingMember:
		return ErrMissingMember
	case KindInvocation:
		return ErrInvocation
	default:
		return nil
	}
}

// Error is the single error type raised by member images.
type Error struct {
	Kind    Kind   // Failure classification
	Op      string // Operation: get, set, call, lookup
	Member  string // Member the operation targeted, "Type.Name"
	Message string // Description of the failure
	Err     error  // Underlying fault, if any
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel()
	prefix := "typeimage"
	if msg != nil {
		prefix = msg.Error()
	}
	if e.Member != "" {
		prefix = fmt.Sprintf("%s: %s %s", prefix, e.Op, e.Member)
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
	return prefix
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}

// Newf returns an error of the given kind without a cause.
func Newf(kind Kind, format string, a ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// Shapef returns an argument-shape error.
func Shapef(format string, a ...any) *Error {
	return Newf(KindArgumentShape, format, a...)
}

// Countf returns an argument-count error.
func Countf(format string, a ...any) *Error {
	return Newf(KindArgumentCount, format, a...)
}

// Invocation wraps a fault raised by the underlying member. Errors that
// already belong to the taxonomy are returned unchanged.
func Invocation(err error) error {
	if err == nil {
		return nil
	}
	if As(err) != nil {
		return err
	}
	return &Error{Kind: KindInvocation, Err: err}
}

// Recovered converts a recovered panic value into an invocation error,
// attaching a stack trace to the cause.
func Recovered(r any) error {
	switch v := r.(type) {
	case *Error:
		return v
	case error:
		return &Error{Kind: KindInvocation, Message: "panic", Err: pkgerrors.WithStack(v)}
	default:
		return &Error{Kind: KindInvocation, Message: "panic", Err: pkgerrors.Errorf("%v", v)}
	}
}

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

// KindOf returns the kind of err, or KindUnknown if err does not belong to
// the taxonomy.
func KindOf(err error) Kind {
	if fe := As(err); fe != nil {
		return fe.Kind
	}
	return KindUnknown
}

// Annotate fills the operation and member of a taxonomy error that does not
// carry them yet. Other errors are returned unchanged.
func Annotate(err error, op, member string) error {
	fe, ok := err.(*Error)
	if !ok || fe.Member != "" {
		return err
	}
	fe.Op = op
	fe.Member = member
	return fe
}
