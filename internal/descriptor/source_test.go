package descriptor

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type animal struct {
	Name string
	legs int
}

func (a *animal) Legs() int         { return a.legs }
func (a *animal) SetLegs(n int)     { a.legs = n }
func (a animal) Speak() string      { return "..." }
func (a *animal) Split() (int, int) { return 0, 0 }

type walker interface {
	Walk(steps int) error
}

type dog struct {
	animal
	walker
	Breed string `image:"Kind"`
}

func (d dog) Speak() string   { return "woof" }
func (d *dog) Kind() string   { return d.Breed }
func (d *dog) Fetch(n ...int) {}

type grid struct {
	cells [2][2]int
}

func (g *grid) At(r, c int) int     { return g.cells[r][c] }
func (g *grid) Set(r, c int, v int) { g.cells[r][c] = v }
func (g *grid) Name() string        { return "grid" }
func (g *grid) SetName(v int) error { return nil }

type scores []int

type lookup map[string]float64

func names[T interface{ ShortName() string }](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ShortName()
	}
	return out
}

func describe(t reflect.Type) *Level {
	return NewReflect(nil).Describe(t)
}

func TestDescribeStruct(t *testing.T) {
	lv := describe(reflect.TypeFor[*dog]())
	require.Equal(t, reflect.TypeFor[dog](), lv.Type)
	require.Equal(t, reflect.TypeFor[dog](), describe(reflect.TypeFor[**dog]()).Type)

	if diff := cmp.Diff([]string{"animal", "walker", "Breed"}, names(lv.Fields)); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "Kind", lv.Fields[2].Backs)

	require.NotNil(t, lv.Base)
	require.Equal(t, reflect.TypeFor[animal](), lv.Base.Type)
	require.False(t, lv.Base.Pointer)
	require.Len(t, lv.Mixins, 1)
	require.Equal(t, reflect.TypeFor[walker](), lv.Mixins[0].Type)

	// Legs, SetLegs, Split and Walk are promoted and belong to their levels.
	if diff := cmp.Diff([]string{"Fetch", "Kind", "Speak"}, names(lv.Methods)); diff != "" {
		t.Errorf("methods mismatch (-want +got):\n%s", diff)
	}
	fetch := lv.Methods[0]
	require.True(t, fetch.Variadic)
	require.Equal(t, 0, fetch.MinArgs())
	require.Equal(t, 1, fetch.MaxArgs())

	if diff := cmp.Diff([]string{"Kind", "Speak"}, names(lv.Properties)); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, lv.Constructors, 1)
	require.True(t, lv.Constructors[0].Implicit)
	require.Equal(t, reflect.TypeFor[*dog](), lv.Constructors[0].Out)
}

func TestDescribeRejectsUnsupportedResults(t *testing.T) {
	lv := describe(reflect.TypeFor[animal]())
	if diff := cmp.Diff([]string{"Legs", "SetLegs", "Speak"}, names(lv.Methods)); diff != "" {
		t.Errorf("methods mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, multierr.Errors(lv.Rejected), 1)
	require.Contains(t, lv.Rejected.Error(), "Split")

	legs := lv.Properties[0]
	require.Equal(t, "Legs", legs.Name)
	require.NotNil(t, legs.Setter)
}

func TestDescribeIndexer(t *testing.T) {
	lv := describe(reflect.TypeFor[grid]())
	require.Len(t, lv.Indexers, 1)
	ix := lv.Indexers[0]
	require.Equal(t, []reflect.Type{reflect.TypeFor[int](), reflect.TypeFor[int]()}, ix.Index)
	require.Equal(t, reflect.TypeFor[int](), ix.Type)
	require.True(t, ix.Settable())

	// SetName takes the wrong type, so Name stays read-only.
	var name *Property
	for _, p := range lv.Properties {
		if p.Name == "Name" {
			name = p
		}
	}
	require.NotNil(t, name)
	require.Nil(t, name.Setter)
	require.Contains(t, lv.Rejected.Error(), "SetName")
}

func TestDescribeNative(t *testing.T) {
	lv := describe(reflect.TypeFor[scores]())
	require.Len(t, lv.Indexers, 1)
	require.Equal(t, NativeSlice, lv.Indexers[0].Native)
	require.Equal(t, reflect.TypeFor[int](), lv.Indexers[0].Type)

	lv = describe(reflect.TypeFor[lookup]())
	require.Equal(t, NativeMap, lv.Indexers[0].Native)
	require.Equal(t, []reflect.Type{reflect.TypeFor[string]()}, lv.Indexers[0].Index)
	require.Equal(t, reflect.TypeFor[float64](), lv.Indexers[0].Type)
}

func TestDescribeInterface(t *testing.T) {
	lv := describe(reflect.TypeFor[walker]())
	require.Len(t, lv.Methods, 1)
	require.Equal(t, 0, lv.Methods[0].Iface)
	require.False(t, lv.Methods[0].Func.IsValid())
	require.Empty(t, lv.Constructors)
}

var counter = 3

func newGrid(size int) (*grid, error) {
	if size < 0 {
		return nil, errors.New("negative size")
	}
	return &grid{}, nil
}

func defaultGrid() grid { return grid{} }

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Add(reflect.TypeFor[*grid](),
		Var("Counter", &counter),
		Const("Size", 2),
		Func("grid.Make", newGrid),
		Func("", defaultGrid),
		Prop("Count", func() int { return counter }, func(v int) { counter = v }),
		Ctor(newGrid),
	))

	lv := NewReflect(reg).Describe(reflect.TypeFor[grid]())

	var statics []string
	for _, f := range lv.Fields {
		if f.Static {
			statics = append(statics, f.Name)
		}
	}
	require.Equal(t, []string{"Counter", "Size"}, statics)
	require.True(t, lv.Fields[len(lv.Fields)-1].IsConst())

	var mk, def *Method
	for _, m := range lv.Methods {
		switch m.Name {
		case "grid.Make":
			mk = m
		case "defaultGrid":
			def = m
		}
	}
	require.NotNil(t, mk)
	require.True(t, mk.Static)
	require.Equal(t, "Make", mk.ShortName())
	require.NotNil(t, def)
	require.False(t, def.Public)

	// The registered constructor takes an argument, so new(T) is kept.
	require.Len(t, lv.Constructors, 2)
	require.Equal(t, "newGrid", lv.Constructors[0].Name)
	require.False(t, lv.Constructors[0].Static)
	require.True(t, lv.Constructors[1].Implicit)

	err := reg.Add(reflect.TypeFor[grid](), Const("Late", 1))
	require.ErrorIs(t, err, ErrSealed)
}

func TestRegistryInvalid(t *testing.T) {
	reg := NewRegistry()
	tests := []struct {
		name  string
		entry Entry
	}{
		{"var not pointer", Var("X", 1)},
		{"nil func", Func("F", nil)},
		{"not a func", Func("F", 3)},
		{"unsupported results", Func("F", func() (int, int, error) { return 0, 0, nil })},
		{"getter with args", Prop("P", func(int) int { return 0 }, nil)},
		{"setter type", Prop("P", func() int { return 0 }, func(string) {})},
		{"ctor wrong type", Ctor(func() int { return 0 })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Add(reflect.TypeFor[scores](), tt.entry)
			require.ErrorIs(t, err, ErrInvalidEntry)
		})
	}

	// Nothing was recorded by the failed calls.
	lv := NewReflect(reg).Describe(reflect.TypeFor[scores]())
	require.Empty(t, lv.Methods)
	require.Empty(t, lv.Fields)
}
