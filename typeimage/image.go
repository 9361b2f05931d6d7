package typeimage

import (
	"fmt"
	"iter"
	"log/slog"
	"reflect"
	"slices"
	"time"

	"go.uber.org/multierr"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/invoker"
	"github.com/skdltmxn/typeimage-go/internal/lazy"
	"github.com/skdltmxn/typeimage-go/internal/sigkey"
)

// Query selects which members a bulk query returns.
type Query uint8

const (
	// QueryLocal returns the members declared directly on the type,
	// instance members first, then statics.
	QueryLocal Query = iota

	// QuerySurface returns one member per short name, the first one met in
	// QueryAll order. Derived declarations shadow embedded ones. Indexers
	// are deduplicated by index signature instead.
	QuerySurface

	// QueryAll returns every member across the embedding chain. Each level
	// contributes its instance members, then the instance members of its
	// mixins, then its statics, before the walk moves on to its base.
	QueryAll
)

func (q Query) String() string {
	switch q {
	case QueryLocal:
		return "local"
	case QuerySurface:
		return "surface"
	case QueryAll:
		return "all"
	default:
		return fmt.Sprintf("Query(%d)", uint8(q))
	}
}

// ParseQuery parses the name of a query mode.
func ParseQuery(s string) (Query, error) {
	for q := QueryLocal; q <= QueryAll; q++ {
		if q.String() == s {
			return q, nil
		}
	}
	return 0, fmt.Errorf("typeimage: unknown query %q", s)
}

// TypeImage is the member index of one type. Obtain it from a Cache; it is
// safe for concurrent use.
type TypeImage struct {
	cache *Cache
	typ   reflect.Type
	level *descriptor.Level

	base       *lazy.Value[*TypeImage]
	interfaces *lazy.Value[[]*TypeImage]
	members    *lazy.Value[*memberSet]
}

func newTypeImage(c *Cache, t reflect.Type) *TypeImage {
	lv := c.source.Describe(t)
	ti := &TypeImage{cache: c, typ: t, level: lv}
	ti.base = lazy.New(func() *TypeImage {
		if lv.Base == nil {
			return nil
		}
		return c.Of(lv.Base.Type)
	})
	ti.interfaces = lazy.New(func() []*TypeImage {
		out := make([]*TypeImage, 0, len(lv.Mixins))
		for _, mx := range lv.Mixins {
			out = append(out, c.Of(mx.Type))
		}
		return out
	})
	ti.members = lazy.New(ti.build)

	for _, err := range multierr.Errors(lv.Rejected) {
		c.logger.Debug("member rejected",
			slog.String("type", t.String()),
			slog.String("reason", err.Error()))
	}
	return ti
}

// Type returns the type the image describes, never a pointer type.
func (ti *TypeImage) Type() reflect.Type { return ti.typ }

// Name returns the type name.
func (ti *TypeImage) Name() string { return ti.typ.String() }

func (ti *TypeImage) String() string { return "TypeImage(" + ti.typ.String() + ")" }

// Base returns the image of the first embedded struct, or nil at the root
// of the embedding chain.
func (ti *TypeImage) Base() *TypeImage { return ti.base.Get() }

// Interfaces returns the images of the other embedded types: interfaces,
// named non-struct types and structs after the first.
func (ti *TypeImage) Interfaces() []*TypeImage { return slices.Clone(ti.interfaces.Get()) }

// Rejected returns the reasons members of the type were left out, or nil.
// Use multierr.Errors to split it.
func (ti *TypeImage) Rejected() error { return ti.level.Rejected }

// kindSet holds the three query views of one member kind.
type kindSet[M Member] struct {
	local, surface, all []M
}

func (k *kindSet[M]) view(q Query) []M {
	switch q {
	case QueryLocal:
		return k.local
	case QuerySurface:
		return k.surface
	default:
		return k.all
	}
}

type memberSet struct {
	fields     kindSet[*FieldImage]
	properties kindSet[*PropertyImage]
	indexers   kindSet[*IndexerImage]
	methods    kindSet[*MethodImage]

	constructors []*ConstructorImage

	fieldByName    map[string]*FieldImage
	propertyByName map[string]*PropertyImage
	methodBySig    map[sigkey.Named]*MethodImage
	indexerBySig   map[sigkey.Key]*IndexerImage
	ctorBySig      map[sigkey.Key]*ConstructorImage
}

// levelSet collects member images in discovery order.
type levelSet struct {
	fields     []*FieldImage
	properties []*PropertyImage
	indexers   []*IndexerImage
	methods    []*MethodImage
}

func (s *levelSet) append(o levelSet) {
	s.fields = append(s.fields, o.fields...)
	s.properties = append(s.properties, o.properties...)
	s.indexers = append(s.indexers, o.indexers...)
	s.methods = append(s.methods, o.methods...)
}

// images creates the images of either the instance members or the statics
// of lv, owned by ti and reached through path.
func (ti *TypeImage) images(lv *descriptor.Level, path invoker.Path, static bool) levelSet {
	var s levelSet
	for _, f := range lv.Fields {
		if f.Static == static {
			s.fields = append(s.fields, newFieldImage(ti, f, path))
		}
	}
	for _, p := range lv.Properties {
		if p.Static == static {
			s.properties = append(s.properties, newPropertyImage(ti, p, path, s.fields))
		}
	}
	if !static {
		for _, ix := range lv.Indexers {
			s.indexers = append(s.indexers, newIndexerImage(ti, ix, path))
		}
	}
	for _, m := range lv.Methods {
		if m.Static == static {
			s.methods = append(s.methods, newMethodImage(ti, m, path))
		}
	}
	return s
}

// walk appends the members reached through the embedded field e.
func (ti *TypeImage) walk(into *levelSet, e *descriptor.Embed, path invoker.Path, visited map[reflect.Type]bool, statics bool) {
	if visited[e.Type] {
		return
	}
	visited[e.Type] = true

	lv := ti.cache.Of(e.Type).level
	path = path.Join(e)
	into.append(ti.images(lv, path, false))
	for _, mx := range lv.Mixins {
		ti.walk(into, mx, path, visited, false)
	}
	if statics {
		into.append(ti.images(lv, nil, true))
	}
	if lv.Base != nil {
		ti.walk(into, lv.Base, path, visited, statics)
	}
}

func (ti *TypeImage) build() *memberSet {
	start := time.Now()
	lv := ti.level

	own := ti.images(lv, nil, false)
	statics := ti.images(lv, nil, true)

	var local, all levelSet
	local.append(own)
	local.append(statics)

	all.append(own)
	visited := map[reflect.Type]bool{ti.typ: true}
	for _, mx := range lv.Mixins {
		ti.walk(&all, mx, nil, visited, false)
	}
	all.append(statics)
	if lv.Base != nil {
		ti.walk(&all, lv.Base, nil, visited, true)
	}

	ms := &memberSet{
		fields:         kindSet[*FieldImage]{local: local.fields, all: all.fields},
		properties:     kindSet[*PropertyImage]{local: local.properties, all: all.properties},
		indexers:       kindSet[*IndexerImage]{local: local.indexers, all: all.indexers},
		methods:        kindSet[*MethodImage]{local: local.methods, all: all.methods},
		fieldByName:    make(map[string]*FieldImage),
		propertyByName: make(map[string]*PropertyImage),
		methodBySig:    make(map[sigkey.Named]*MethodImage),
		indexerBySig:   make(map[sigkey.Key]*IndexerImage),
		ctorBySig:      make(map[sigkey.Key]*ConstructorImage),
	}
	ms.fields.surface = surface(all.fields, func(f *FieldImage) string { return f.ShortName() })
	ms.properties.surface = surface(all.properties, func(p *PropertyImage) string { return p.ShortName() })
	ms.methods.surface = surface(all.methods, func(m *MethodImage) string { return m.ShortName() })
	ms.indexers.surface = surface(all.indexers, func(ix *IndexerImage) string { return string(ix.sig) })

	for _, f := range all.fields {
		putFirst(ms.fieldByName, f.ShortName(), f)
		putFirst(ms.fieldByName, f.Name(), f)
	}
	for _, p := range all.properties {
		putFirst(ms.propertyByName, p.ShortName(), p)
		putFirst(ms.propertyByName, p.Name(), p)
	}
	for _, m := range all.methods {
		putFirst(ms.methodBySig, sigkey.Named{Name: m.ShortName(), Sig: m.sig}, m)
		putFirst(ms.methodBySig, sigkey.Named{Name: m.Name(), Sig: m.sig}, m)
	}
	for _, ix := range all.indexers {
		putFirst(ms.indexerBySig, ix.sig, ix)
	}
	for _, c := range lv.Constructors {
		ci := newConstructorImage(ti, c)
		ms.constructors = append(ms.constructors, ci)
		putFirst(ms.ctorBySig, ci.sig, ci)
	}

	n := len(all.fields) + len(all.properties) + len(all.indexers) + len(all.methods) + len(ms.constructors)
	took := time.Since(start)
	ti.cache.metrics.ImageBuilt(ti.typ, n, took)
	ti.cache.logger.Debug("image built",
		slog.String("type", ti.typ.String()),
		slog.Int("fields", len(all.fields)),
		slog.Int("properties", len(all.properties)),
		slog.Int("indexers", len(all.indexers)),
		slog.Int("methods", len(all.methods)),
		slog.Int("constructors", len(ms.constructors)),
		slog.Duration("took", took))
	return ms
}

// putFirst stores v under k unless k is taken; the first occurrence wins.
func putFirst[K comparable, V any](m map[K]V, k K, v V) {
	if _, ok := m[k]; !ok {
		m[k] = v
	}
}

func surface[M Member](all []M, key func(M) string) []M {
	seen := make(map[string]bool, len(all))
	out := make([]M, 0, len(all))
	for _, m := range all {
		k := key(m)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, m)
	}
	return out
}

// Field returns the field named name, or nil. Embedded fields are found
// unless a derived member shadows them.
func (ti *TypeImage) Field(name string) *FieldImage {
	return ti.members.Get().fieldByName[name]
}

// Property returns the property named name, or nil.
func (ti *TypeImage) Property(name string) *PropertyImage {
	return ti.members.Get().propertyByName[name]
}

// Method returns the method named name whose parameter types are exactly
// params, or nil. A variadic parameter is matched by its slice type.
func (ti *TypeImage) Method(name string, params ...reflect.Type) *MethodImage {
	return ti.members.Get().methodBySig[sigkey.Named{Name: name, Sig: sigkey.Of(params...)}]
}

// Constructor returns the constructor whose parameter types are exactly
// params, or nil.
func (ti *TypeImage) Constructor(params ...reflect.Type) *ConstructorImage {
	return ti.members.Get().ctorBySig[sigkey.Of(params...)]
}

// Indexer returns the indexer whose index types are exactly index, or nil.
func (ti *TypeImage) Indexer(index ...reflect.Type) *IndexerImage {
	return ti.members.Get().indexerBySig[sigkey.Of(index...)]
}

// LookupField is like Field but reports a missing field as an error
// matching ErrMissingMember.
func (ti *TypeImage) LookupField(name string) (*FieldImage, error) {
	if f := ti.Field(name); f != nil {
		return f, nil
	}
	return nil, missing(ti, "no field %q", name)
}

// LookupProperty is like Property but reports a missing property as an
// error matching ErrMissingMember.
func (ti *TypeImage) LookupProperty(name string) (*PropertyImage, error) {
	if p := ti.Property(name); p != nil {
		return p, nil
	}
	return nil, missing(ti, "no property %q", name)
}

// LookupMethod is like Method but reports a missing method as an error
// matching ErrMissingMember.
func (ti *TypeImage) LookupMethod(name string, params ...reflect.Type) (*MethodImage, error) {
	if m := ti.Method(name, params...); m != nil {
		return m, nil
	}
	return nil, missing(ti, "no method %s%s", name, sigkey.String(params))
}

// LookupConstructor is like Constructor but reports a missing constructor
// as an error matching ErrMissingMember.
func (ti *TypeImage) LookupConstructor(params ...reflect.Type) (*ConstructorImage, error) {
	if c := ti.Constructor(params...); c != nil {
		return c, nil
	}
	return nil, missing(ti, "no constructor %s", sigkey.String(params))
}

// LookupIndexer is like Indexer but reports a missing indexer as an error
// matching ErrMissingMember.
func (ti *TypeImage) LookupIndexer(index ...reflect.Type) (*IndexerImage, error) {
	if ix := ti.Indexer(index...); ix != nil {
		return ix, nil
	}
	return nil, missing(ti, "no indexer %s", sigkey.String(index))
}

// Fields returns the fields selected by q.
func (ti *TypeImage) Fields(q Query) []*FieldImage {
	return slices.Clone(ti.members.Get().fields.view(q))
}

// Properties returns the properties selected by q.
func (ti *TypeImage) Properties(q Query) []*PropertyImage {
	return slices.Clone(ti.members.Get().properties.view(q))
}

// Indexers returns the indexers selected by q.
func (ti *TypeImage) Indexers(q Query) []*IndexerImage {
	return slices.Clone(ti.members.Get().indexers.view(q))
}

// Methods returns the methods selected by q. Properties are backed by
// methods and appear here too.
func (ti *TypeImage) Methods(q Query) []*MethodImage {
	return slices.Clone(ti.members.Get().methods.view(q))
}

// Constructors returns the constructors of the type. Constructors are not
// inherited.
func (ti *TypeImage) Constructors() []*ConstructorImage {
	return slices.Clone(ti.members.Get().constructors)
}

// Members returns an iterator over the fields, properties, indexers and
// methods selected by q, kind by kind. Constructors are included for every
// mode, since they are always local.
func (ti *TypeImage) Members(q Query) iter.Seq[Member] {
	return func(yield func(Member) bool) {
		ms := ti.members.Get()
		for _, f := range ms.fields.view(q) {
			if !yield(f) {
				return
			}
		}
		for _, p := range ms.properties.view(q) {
			if !yield(p) {
				return
			}
		}
		for _, ix := range ms.indexers.view(q) {
			if !yield(ix) {
				return
			}
		}
		for _, m := range ms.methods.view(q) {
			if !yield(m) {
				return
			}
		}
		for _, c := range ms.constructors {
			if !yield(c) {
				return
			}
		}
	}
}
