package descriptor

import (
	"reflect"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/skdltmxn/typeimage-go/internal/symname"
)

// Naming conventions recognized by the source.
const (
	// BackingTag is the struct tag naming the property a field stores. The
	// tag asserts that the getter returns the field unchanged, so reads
	// skip the getter. Getters returning (V, error) are always called.
	BackingTag = "image"

	// IndexGetter and IndexSetter are the method names forming an indexer.
	IndexGetter = "At"
	IndexSetter = "Set"

	// NativeIndexer names the built-in index operation of slices, arrays
	// and maps.
	NativeIndexer = "Index"

	// ImplicitConstructor names the zero-argument constructor backed by
	// new(T).
	ImplicitConstructor = "new"

	setterPrefix = "Set"
)

// Source supplies the members a type declares directly.
type Source interface {
	// Describe returns the declared members of t. Pointer types describe
	// their innermost element type.
	Describe(t reflect.Type) *Level
}

// Reflect is the Source backed by package reflect and a Registry of
// statics.
type Reflect struct {
	registry *Registry
}

// NewReflect returns a Source consulting reg for statics and constructors.
// A nil reg is treated as an empty registry.
func NewReflect(reg *Registry) *Reflect {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Reflect{registry: reg}
}

// Registry returns the registry backing the source.
func (s *Reflect) Registry() *Registry { return s.registry }

// Describe implements Source. Describing a type seals it in the registry.
func (s *Reflect) Describe(t reflect.Type) *Level {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	lv := &Level{Type: t}
	d := describer{lv: lv}

	if t.Kind() == reflect.Struct {
		d.fields()
	}
	d.methods()
	d.native()

	st := s.registry.seal(t)
	lv.Fields = append(lv.Fields, st.fields...)
	lv.Properties = append(lv.Properties, st.properties...)
	lv.Methods = append(lv.Methods, st.methods...)
	lv.Constructors = append(lv.Constructors, st.constructors...)
	d.implicitConstructor()

	return lv
}

// rawMethod is an instance method before property and indexer derivation.
type rawMethod struct {
	name string
	call Callable
}

type describer struct {
	lv     *Level
	embeds []reflect.Type // Every anonymous field type, pointer unwrapped
}

func (d *describer) reject(err error) {
	d.lv.Rejected = multierr.Append(d.lv.Rejected, err)
}

func (d *describer) fields() {
	t := d.lv.Type
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Name == "_" {
			continue
		}
		d.lv.Fields = append(d.lv.Fields, &Field{
			Member: Member{
				Kind:      KindField,
				Name:      sf.Name,
				Declaring: t,
				Public:    sf.IsExported(),
			},
			Type:   sf.Type,
			Offset: sf.Offset,
			Index:  i,
			Backs:  sf.Tag.Get(BackingTag),
		})

		if !sf.Anonymous {
			continue
		}
		et, ptr := sf.Type, false
		if et.Kind() == reflect.Pointer {
			et, ptr = et.Elem(), true
		}
		d.embeds = append(d.embeds, et)

		e := &Embed{Name: sf.Name, Type: et, Offset: sf.Offset, Pointer: ptr}
		switch {
		case et.Kind() == reflect.Struct && d.lv.Base == nil:
			d.lv.Base = e
		default:
			d.lv.Mixins = append(d.lv.Mixins, e)
		}
	}
}

func (d *describer) methods() {
	t := d.lv.Type
	var raw []rawMethod

	if t.Kind() == reflect.Interface {
		for i := range t.NumMethod() {
			m := t.Method(i)
			call, ok := d.callable(m.Name, m.Type, 0, reflect.Value{}, i)
			if ok {
				raw = append(raw, rawMethod{name: m.Name, call: call})
			}
		}
	} else {
		pt := reflect.PointerTo(t)
		for i := range pt.NumMethod() {
			m := pt.Method(i)
			if d.promoted(m) {
				continue
			}
			call, ok := d.callable(m.Name, m.Type, 1, m.Func, -1)
			if ok {
				raw = append(raw, rawMethod{name: m.Name, call: call})
			}
		}
	}

	byName := make(map[string]*rawMethod, len(raw))
	for i := range raw {
		byName[raw[i].name] = &raw[i]
	}
	for _, m := range raw {
		d.lv.Methods = append(d.lv.Methods, &Method{
			Member:   d.member(KindMethod, m.name),
			Callable: m.call,
		})
		d.property(m, byName)
	}
	if at, ok := byName[IndexGetter]; ok {
		d.indexer(at, byName[IndexSetter])
	}
}

// promoted reports whether m was promoted from an embedded field rather than
// declared by the level's type.
func (d *describer) promoted(m reflect.Method) bool {
	embedded := false
	for _, et := range d.embeds {
		if hasMethod(et, m.Name) {
			embedded = true
			break
		}
	}
	if !embedded {
		return false
	}
	// A value method's entry in the pointer method set is always a wrapper,
	// so look at the value method set first.
	if vm, ok := d.lv.Type.MethodByName(m.Name); ok {
		return symname.IsWrapper(vm.Func)
	}
	return symname.IsWrapper(m.Func)
}

func hasMethod(t reflect.Type, name string) bool {
	if t.Kind() == reflect.Interface {
		_, ok := t.MethodByName(name)
		return ok
	}
	_, ok := reflect.PointerTo(t).MethodByName(name)
	return ok
}

// callable builds the Callable of a method whose function type ft carries
// skip leading receiver parameters.
func (d *describer) callable(name string, ft reflect.Type, skip int, fn reflect.Value, iface int) (Callable, bool) {
	results, out := ClassifyResults(ft)
	if results == ResultsUnsupported {
		d.reject(pkgerrors.Errorf("%s.%s: unsupported results %s", d.lv.Type, name, ft))
		return Callable{}, false
	}
	params := make([]reflect.Type, 0, ft.NumIn()-skip)
	for i := skip; i < ft.NumIn(); i++ {
		params = append(params, ft.In(i))
	}
	return Callable{
		Func:     fn,
		Iface:    iface,
		Params:   params,
		Variadic: ft.IsVariadic(),
		Results:  results,
		Out:      out,
	}, true
}

func (d *describer) member(kind Kind, name string) Member {
	return Member{
		Kind:      kind,
		Name:      name,
		Declaring: d.lv.Type,
		Public:    symname.IsExported(name),
	}
}

// property derives a property from a zero-argument getter and its optional
// SetX counterpart.
func (d *describer) property(m rawMethod, byName map[string]*rawMethod) {
	if len(m.call.Params) != 0 || !m.call.Results.HasValue() {
		return
	}
	p := &Property{
		Member: d.member(KindProperty, m.name),
		Type:   m.call.Out,
		Getter: m.call,
	}
	if set, ok := byName[setterPrefix+m.name]; ok {
		c := set.call
		if len(c.Params) == 1 && !c.Variadic && c.Params[0] == p.Type && c.Results.Settable() {
			p.Setter = &c
		} else {
			d.reject(pkgerrors.Errorf("%s.%s%s: setter does not match property type %s",
				d.lv.Type, setterPrefix, m.name, p.Type))
		}
	}
	d.lv.Properties = append(d.lv.Properties, p)
}

func (d *describer) indexer(at, set *rawMethod) {
	c := at.call
	if len(c.Params) == 0 || c.Variadic || !c.Results.HasValue() {
		return
	}
	ix := &Indexer{
		Member: d.member(KindIndexer, at.name),
		Type:   c.Out,
		Index:  c.Params,
		Getter: c,
	}
	if set != nil && setterMatches(set.call, ix) {
		sc := set.call
		ix.Setter = &sc
	}
	d.lv.Indexers = append(d.lv.Indexers, ix)
}

func setterMatches(c Callable, ix *Indexer) bool {
	if c.Variadic || !c.Results.Settable() || len(c.Params) != len(ix.Index)+1 {
		return false
	}
	for i, it := range ix.Index {
		if c.Params[i] != it {
			return false
		}
	}
	return c.Params[len(ix.Index)] == ix.Type
}

// native adds the built-in indexer of slice, array and map types.
func (d *describer) native() {
	t := d.lv.Type
	ix := &Indexer{Member: d.member(KindIndexer, NativeIndexer)}
	switch t.Kind() {
	case reflect.Slice:
		ix.Native = NativeSlice
		ix.Index = []reflect.Type{reflect.TypeFor[int]()}
	case reflect.Array:
		ix.Native = NativeArray
		ix.Index = []reflect.Type{reflect.TypeFor[int]()}
	case reflect.Map:
		ix.Native = NativeMap
		ix.Index = []reflect.Type{t.Key()}
	default:
		return
	}
	ix.Type = t.Elem()
	d.lv.Indexers = append(d.lv.Indexers, ix)
}

// implicitConstructor adds new(T) unless a registered constructor already
// takes no arguments. Interfaces cannot be instantiated.
func (d *describer) implicitConstructor() {
	t := d.lv.Type
	if t.Kind() == reflect.Interface {
		return
	}
	for _, c := range d.lv.Constructors {
		if c.MaxArgs() == 0 {
			return
		}
	}
	m := d.member(KindConstructor, ImplicitConstructor)
	m.Public = true
	d.lv.Constructors = append(d.lv.Constructors, &Constructor{
		Member: m,
		Callable: Callable{
			Iface:   -1,
			Results: ResultsValue,
			Out:     reflect.PointerTo(t),
		},
		Implicit: true,
	})
}
