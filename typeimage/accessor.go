package typeimage

import (
	"github.com/skdltmxn/typeimage-go/internal/fault"
	"github.com/skdltmxn/typeimage-go/internal/invoker"
	"github.com/skdltmxn/typeimage-go/internal/lazy"
)

// accessor is the get/set machinery shared by fields and properties.
// Exactly one of the static and instance pairs is populated.
type accessor struct {
	member
	canSet func() bool

	staticGet *lazy.Value[invoker.StaticGet]
	staticSet *lazy.Value[invoker.StaticSet]
	instGet   *lazy.Value[invoker.InstanceGet]
	instSet   *lazy.Value[invoker.InstanceSet]
}

// Get returns the value of the member. Static members take a nil instance;
// instance members take a T or *T.
func (a *accessor) Get(inst any) (v any, err error) {
	defer a.guard(opGet, &err)
	rv, err := a.instance(inst, false)
	if err != nil {
		return nil, err
	}
	if a.staticGet != nil {
		return a.staticGet.Get()()
	}
	return a.instGet.Get()(rv)
}

// Set stores value into the member. It fails with ErrCannotSet before any
// other check when the member cannot be set.
func (a *accessor) Set(inst any, value any) (err error) {
	defer a.guard(opSet, &err)
	if !a.canSet() {
		return fault.Newf(fault.KindCannotSet, "%s is read-only", a.desc.Kind)
	}
	rv, err := a.instance(inst, true)
	if err != nil {
		return err
	}
	if a.staticSet != nil {
		return a.staticSet.Get()(value)
	}
	return a.instSet.Get()(rv, value)
}
