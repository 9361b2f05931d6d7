package typeimage

import "github.com/skdltmxn/typeimage-go/internal/descriptor"

// Entry is a static member or constructor to register for a type.
type Entry = descriptor.Entry

// Var registers a static field backed by the variable ptr points to.
func Var(name string, ptr any) Entry { return descriptor.Var(name, ptr) }

// Const registers a static field holding value. Constants cannot be set.
func Const(name string, value any) Entry { return descriptor.Const(name, value) }

// Func registers fn as a static method. The name may be qualified, as in
// "time.Now"; lookups match its short form. An empty name is taken from the
// function's symbol.
func Func(name string, fn any) Entry { return descriptor.Func(name, fn) }

// Prop registers a static property. get has the form func() V or
// func() (V, error); set, if not nil, func(V) or func(V) error.
func Prop(name string, get, set any) Entry { return descriptor.Prop(name, get, set) }

// Ctor registers a constructor. fn must return T or *T, optionally followed
// by an error. A constructor without parameters replaces the implicit one.
func Ctor(fn any) Entry { return descriptor.Ctor(fn) }
