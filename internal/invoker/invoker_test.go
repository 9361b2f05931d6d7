package invoker

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/fault"
)

type counter struct {
	n     int
	Label string
}

func (c *counter) Add(delta int, extra ...int) int {
	c.n += delta
	for _, e := range extra {
		c.n += e
	}
	return c.n
}

func (c *counter) Count() int { return c.n }

func (c *counter) SetCount(n int) error {
	if n < 0 {
		return errors.New("negative count")
	}
	c.n = n
	return nil
}

type namer interface {
	Name() string
}

type fixed string

func (f fixed) Name() string { return string(f) }

type holder struct {
	pad  [3]byte
	base *counter
	namer
	inline counter
}

func level(t reflect.Type) *descriptor.Level {
	return descriptor.NewReflect(nil).Describe(t)
}

func method(t *testing.T, lv *descriptor.Level, name string) *descriptor.Method {
	for _, m := range lv.Methods {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("method %s not found on %s", name, lv.Type)
	return nil
}

func field(t *testing.T, lv *descriptor.Level, name string) *descriptor.Field {
	for _, f := range lv.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %s not found on %s", name, lv.Type)
	return nil
}

func addressable[T any](v T) reflect.Value {
	p := reflect.New(reflect.TypeFor[T]())
	p.Elem().Set(reflect.ValueOf(v))
	return p.Elem()
}

func TestPathJoin(t *testing.T) {
	var p Path
	p = p.Join(&descriptor.Embed{Offset: 8})
	p = p.Join(&descriptor.Embed{Offset: 16, Pointer: true})
	p = p.Join(&descriptor.Embed{Offset: 4})
	require.Equal(t, Path{{Offset: 24, Deref: true}, {Offset: 4}}, p)
}

func TestFieldAccess(t *testing.T) {
	lv := level(reflect.TypeFor[counter]())
	inst := addressable(counter{n: 1, Label: "a"})

	n := field(t, lv, "n")
	v, err := FieldGet(n, nil)(inst)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	require.NoError(t, FieldSet(n, nil)(inst, 7))
	v, _ = FieldGet(n, nil)(inst)
	require.Equal(t, 7, v)

	err = FieldSet(n, nil)(inst, "seven")
	require.ErrorIs(t, err, fault.ErrArgumentShape)
	err = FieldSet(n, nil)(inst, nil)
	require.ErrorIs(t, err, fault.ErrArgumentShape)
}

func TestFieldThroughPath(t *testing.T) {
	hl := level(reflect.TypeFor[holder]())
	cl := level(reflect.TypeFor[counter]())
	n := field(t, cl, "n")

	inline := Path(nil).Join(&descriptor.Embed{Offset: field(t, hl, "inline").Offset})
	viaPtr := Path(nil).Join(&descriptor.Embed{Offset: field(t, hl, "base").Offset, Pointer: true})

	h := &holder{inline: counter{n: 3}, base: &counter{n: 9}}
	inst := reflect.ValueOf(h).Elem()

	v, err := FieldGet(n, inline)(inst)
	require.NoError(t, err)
	require.Equal(t, 3, v)

	v, err = FieldGet(n, viaPtr)(inst)
	require.NoError(t, err)
	require.Equal(t, 9, v)

	require.NoError(t, FieldSet(n, viaPtr)(inst, 10))
	require.Equal(t, 10, h.base.n)

	h.base = nil
	_, err = FieldGet(n, viaPtr)(inst)
	require.ErrorIs(t, err, fault.ErrInvocation)
}

func TestMethodCallArity(t *testing.T) {
	lv := level(reflect.TypeFor[counter]())
	add := method(t, lv, "Add")
	inst := addressable(counter{})

	v, err := MethodCall(&add.Callable, lv.Type, nil, 1)(inst, []any{2})
	require.NoError(t, err)
	require.Equal(t, 2, v)

	v, err = MethodCall(&add.Callable, lv.Type, nil, 2)(inst, []any{1, []int{3, 4}})
	require.NoError(t, err)
	require.Equal(t, 10, v)

	_, err = MethodCall(&add.Callable, lv.Type, nil, 2)(inst, []any{1, 3})
	require.ErrorIs(t, err, fault.ErrArgumentShape)
	var ce *CastError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 1, ce.Index)
}

func TestPropertyAccessors(t *testing.T) {
	lv := level(reflect.TypeFor[counter]())
	var count *descriptor.Property
	for _, p := range lv.Properties {
		if p.Name == "Count" {
			count = p
		}
	}
	require.NotNil(t, count)

	inst := addressable(counter{})
	set := PropertySet(count, nil, lv.Type, nil)
	require.NoError(t, set(inst, 4))
	v, err := PropertyGet(count, nil, lv.Type, nil)(inst)
	require.NoError(t, err)
	require.Equal(t, 4, v)

	err = set(inst, -1)
	require.EqualError(t, err, "negative count")
	require.ErrorIs(t, set(inst, "x"), fault.ErrArgumentShape)
}

func TestInterfaceLevel(t *testing.T) {
	hl := level(reflect.TypeFor[holder]())
	nl := level(reflect.TypeFor[namer]())
	name := method(t, nl, "Name")
	path := Path(nil).Join(hl.Mixins[0])

	inst := addressable(holder{namer: fixed("bob")})
	v, err := MethodCall(&name.Callable, nl.Type, path, 0)(inst, nil)
	require.NoError(t, err)
	require.Equal(t, "bob", v)

	empty := addressable(holder{})
	_, err = MethodCall(&name.Callable, nl.Type, path, 0)(empty, nil)
	require.ErrorIs(t, err, fault.ErrInvocation)
}

func newCounter(label string, start ...int) (counter, error) {
	if label == "" {
		return counter{}, fmt.Errorf("empty label")
	}
	c := counter{Label: label}
	for _, s := range start {
		c.n += s
	}
	return c, nil
}

func TestConstructorCall(t *testing.T) {
	reg := descriptor.NewRegistry()
	require.NoError(t, reg.Add(reflect.TypeFor[counter](), descriptor.Ctor(newCounter)))
	lv := descriptor.NewReflect(reg).Describe(reflect.TypeFor[counter]())
	require.Len(t, lv.Constructors, 2)

	ctor := ConstructorCall(lv.Constructors[0], lv.Type, 2)
	v, err := ctor([]any{"a", []int{1, 2}})
	require.NoError(t, err)
	require.Equal(t, &counter{n: 3, Label: "a"}, v)

	_, err = ConstructorCall(lv.Constructors[0], lv.Type, 1)([]any{""})
	require.EqualError(t, err, "empty label")

	v, err = ConstructorCall(lv.Constructors[1], lv.Type, 0)(nil)
	require.NoError(t, err)
	require.Equal(t, &counter{}, v)
}

type row [3]int

type matrix struct {
	cells [][]int
}

func (m *matrix) At(r, c int) int     { return m.cells[r][c] }
func (m *matrix) Set(r, c int, v int) { m.cells[r][c] = v }

func TestNativeIndexer(t *testing.T) {
	lv := level(reflect.TypeFor[row]())
	ix := lv.Indexers[0]
	inst := addressable(row{0, 1, 2})

	get := IndexerGet(ix, lv.Type, nil, 1)
	set := IndexerSet(ix, lv.Type, nil, 1)

	v, err := get(inst, []any{1})
	require.NoError(t, err)
	require.Equal(t, 1, v)

	require.NoError(t, set(inst, []any{1}, 9))
	v, _ = get(inst, []any{1})
	require.Equal(t, 9, v)

	_, err = get(inst, []any{-1})
	require.ErrorIs(t, err, fault.ErrInvocation)
	_, err = get(inst, []any{"1"})
	require.ErrorIs(t, err, fault.ErrInvocation)
	require.ErrorIs(t, set(inst, []any{0}, "x"), fault.ErrInvocation)
}

func TestNativeMapIndexer(t *testing.T) {
	type scores map[string]int
	lv := level(reflect.TypeFor[scores]())
	ix := lv.Indexers[0]

	inst := addressable(scores{"a": 1})
	v, err := IndexerGet(ix, lv.Type, nil, 1)(inst, []any{"missing"})
	require.NoError(t, err)
	require.Equal(t, 0, v)

	require.NoError(t, IndexerSet(ix, lv.Type, nil, 1)(inst, []any{"b"}, 2))
	require.Equal(t, scores{"a": 1, "b": 2}, inst.Interface())

	var empty scores
	err = IndexerSet(ix, lv.Type, nil, 1)(addressable(empty), []any{"b"}, 2)
	require.ErrorIs(t, err, fault.ErrInvocation)
}

func TestMethodIndexer(t *testing.T) {
	lv := level(reflect.TypeFor[matrix]())
	ix := lv.Indexers[0]
	inst := addressable(matrix{cells: [][]int{{1, 2}, {3, 4}}})

	v, err := IndexerGet(ix, lv.Type, nil, 2)(inst, []any{1, 0})
	require.NoError(t, err)
	require.Equal(t, 3, v)

	require.NoError(t, IndexerSet(ix, lv.Type, nil, 2)(inst, []any{1, 0}, 8))
	v, _ = IndexerGet(ix, lv.Type, nil, 2)(inst, []any{1, 0})
	require.Equal(t, 8, v)
}

var limit = 5

func TestStaticAccessors(t *testing.T) {
	reg := descriptor.NewRegistry()
	require.NoError(t, reg.Add(reflect.TypeFor[matrix](),
		descriptor.Var("Limit", &limit),
		descriptor.Const("Rank", 2),
		descriptor.Prop("Double", func() int { return limit * 2 }, nil),
	))
	lv := descriptor.NewReflect(reg).Describe(reflect.TypeFor[matrix]())

	var lim, rank *descriptor.Field
	for _, f := range lv.Fields {
		switch f.Name {
		case "Limit":
			lim = f
		case "Rank":
			rank = f
		}
	}
	require.NoError(t, StaticFieldSet(lim)(6))
	v, err := StaticFieldGet(lim)()
	require.NoError(t, err)
	require.Equal(t, 6, v)

	v, _ = StaticFieldGet(rank)()
	require.Equal(t, 2, v)
	require.Nil(t, StaticFieldSet(rank))

	double := lv.Properties[len(lv.Properties)-1]
	v, err = StaticPropertyGet(double)()
	require.NoError(t, err)
	require.Equal(t, 12, v)
	require.Nil(t, StaticPropertySet(double))
}

func TestCast(t *testing.T) {
	var s fmt.Stringer
	v, err := Cast(nil, reflect.TypeOf(&s).Elem())
	require.NoError(t, err)
	require.True(t, v.IsNil())

	_, err = Cast(nil, reflect.TypeFor[int]())
	require.Error(t, err)

	_, err = Cast(int64(1), reflect.TypeFor[int]())
	require.EqualError(t, err, "cannot use int64 as int")

	v, err = Cast(fixed("x"), reflect.TypeFor[namer]())
	require.NoError(t, err)
	require.Equal(t, reflect.TypeFor[namer](), v.Type())
}

func TestShapeString(t *testing.T) {
	require.Equal(t, "index-set", ShapeIndexSet.String())
	require.Equal(t, "Shape(42)", Shape(42).String())
}
