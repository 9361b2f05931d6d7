package typeimage

import (
	"reflect"
	"time"
)

// Metrics receives cache events. Implementations must be safe for
// concurrent use.
type Metrics interface {
	// ImageBuilt is called once per type after its member maps are built.
	ImageBuilt(t reflect.Type, members int, took time.Duration)

	// InvokerGenerated is called once per generated invoker.
	InvokerGenerated(kind MemberKind, shape string, arity int)

	// Fault is called for every error returned by a member image.
	Fault(kind ErrorKind)
}

// NopMetrics discards every event.
type NopMetrics struct{}

func (NopMetrics) ImageBuilt(reflect.Type, int, time.Duration) {}
func (NopMetrics) InvokerGenerated(MemberKind, string, int)    {}
func (NopMetrics) Fault(ErrorKind)                             {}
