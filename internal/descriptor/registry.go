package descriptor

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/skdltmxn/typeimage-go/internal/symname"
)

// Errors returned by Registry.
var (
	ErrSealed       = errors.New("descriptor: type already described")
	ErrInvalidEntry = errors.New("descriptor: invalid registration")
)

// Entry is one registration: a static member or a constructor.
type Entry struct {
	kind  Kind
	name  string
	value reflect.Value
	set   reflect.Value
	konst bool
}

// Var registers a settable static field; ptr must be a non-nil pointer.
func Var(name string, ptr any) Entry {
	return Entry{kind: KindField, name: name, value: reflect.ValueOf(ptr)}
}

// Const registers a static constant, which can never be set.
func Const(name string, value any) Entry {
	return Entry{kind: KindField, name: name, value: reflect.ValueOf(value), konst: true}
}

// Func registers a static method. An empty name is derived from the
// function's symbol.
func Func(name string, fn any) Entry {
	return Entry{kind: KindMethod, name: name, value: reflect.ValueOf(fn)}
}

// Prop registers a static property from a getter and an optional setter.
func Prop(name string, get, set any) Entry {
	e := Entry{kind: KindProperty, name: name, value: reflect.ValueOf(get)}
	if set != nil {
		e.set = reflect.ValueOf(set)
	}
	return e
}

// Ctor registers a constructor function returning T or *T, optionally with
// an error.
func Ctor(fn any) Entry {
	return Entry{kind: KindConstructor, value: reflect.ValueOf(fn)}
}

// statics holds the registered members of one type.
type statics struct {
	fields       []*Field
	properties   []*Property
	methods      []*Method
	constructors []*Constructor
}

// Registry records statics and constructors per type. A type is sealed
// once it has been described; later registrations are refused so that
// published images stay immutable.
type Registry struct {
	mu      sync.Mutex
	entries map[reflect.Type]*statics
	sealed  map[reflect.Type]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[reflect.Type]*statics),
		sealed:  make(map[reflect.Type]bool),
	}
}

// Add registers entries on t. Either every entry is added or none is.
func (r *Registry) Add(t reflect.Type, entries ...Entry) error {
	if t == nil {
		return fmt.Errorf("%w: nil type", ErrInvalidEntry)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var built statics
	for _, e := range entries {
		if err := built.add(t, e); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed[t] {
		return fmt.Errorf("%w: %s", ErrSealed, t)
	}
	s := r.entries[t]
	if s == nil {
		s = &statics{}
		r.entries[t] = s
	}
	s.fields = append(s.fields, built.fields...)
	s.properties = append(s.properties, built.properties...)
	s.methods = append(s.methods, built.methods...)
	s.constructors = append(s.constructors, built.constructors...)
	return nil
}

// seal marks t as described and returns a snapshot of its registrations.
func (r *Registry) seal(t reflect.Type) statics {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed[t] = true
	if s := r.entries[t]; s != nil {
		return *s
	}
	return statics{}
}

func (s *statics) add(t reflect.Type, e Entry) error {
	invalid := func(format string, a ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidEntry, t, fmt.Sprintf(format, a...))
	}
	if !e.value.IsValid() {
		return invalid("%s %q: nil value", e.kind, e.name)
	}

	switch e.kind {
	case KindField:
		if e.name == "" {
			return invalid("field without a name")
		}
		f := &Field{Member: staticMember(KindField, e.name, t)}
		if e.konst {
			f.Type = e.value.Type()
			f.Const = e.value
		} else {
			if e.value.Kind() != reflect.Pointer || e.value.IsNil() {
				return invalid("variable %q: want a non-nil pointer, got %s", e.name, e.value.Type())
			}
			f.Type = e.value.Type().Elem()
			f.Var = e.value
		}
		s.fields = append(s.fields, f)

	case KindMethod:
		c, err := funcCallable(e.value)
		if err != nil {
			return invalid("method %q: %v", e.name, err)
		}
		name := e.name
		if name == "" {
			name = symbolName(e.value)
		}
		s.methods = append(s.methods, &Method{Member: staticMember(KindMethod, name, t), Callable: c})

	case KindProperty:
		get, err := funcCallable(e.value)
		if err != nil {
			return invalid("property %q getter: %v", e.name, err)
		}
		if len(get.Params) != 0 || !get.Results.HasValue() {
			return invalid("property %q getter must be func() V or func() (V, error)", e.name)
		}
		p := &Property{Member: staticMember(KindProperty, e.name, t), Type: get.Out, Getter: get}
		if e.set.IsValid() {
			set, err := funcCallable(e.set)
			if err != nil {
				return invalid("property %q setter: %v", e.name, err)
			}
			if len(set.Params) != 1 || set.Variadic || set.Params[0] != get.Out || !set.Results.Settable() {
				return invalid("property %q setter must be func(%s) or func(%s) error", e.name, get.Out, get.Out)
			}
			p.Setter = &set
		}
		s.properties = append(s.properties, p)

	case KindConstructor:
		c, err := funcCallable(e.value)
		if err != nil {
			return invalid("constructor: %v", err)
		}
		if !c.Results.HasValue() || (c.Out != t && c.Out != reflect.PointerTo(t)) {
			return invalid("constructor %s must return %s or *%s", symbolName(e.value), t, t)
		}
		m := staticMember(KindConstructor, symbolName(e.value), t)
		m.Static = false
		s.constructors = append(s.constructors, &Constructor{Member: m, Callable: c})

	default:
		return invalid("unknown entry kind %s", e.kind)
	}
	return nil
}

func staticMember(kind Kind, name string, t reflect.Type) Member {
	return Member{
		Kind:      kind,
		Name:      name,
		Declaring: t,
		Static:    true,
		Public:    symname.IsExported(name),
	}
}

func funcCallable(fn reflect.Value) (Callable, error) {
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return Callable{}, fmt.Errorf("want a non-nil function, got %s", fn.Type())
	}
	ft := fn.Type()
	results, out := ClassifyResults(ft)
	if results == ResultsUnsupported {
		return Callable{}, fmt.Errorf("unsupported results in %s", ft)
	}
	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}
	return Callable{
		Func:     fn,
		Iface:    -1,
		Params:   params,
		Variadic: ft.IsVariadic(),
		Results:  results,
		Out:      out,
	}, nil
}

func symbolName(fn reflect.Value) string {
	sym, err := symname.Func(fn)
	if err != nil {
		return "func"
	}
	return sym.Name
}
