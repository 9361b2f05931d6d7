package symname

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type inner struct{}

func (inner) Hello() string { return "hello" }

type outer struct {
	inner
}

func (*outer) Own() {}

func newOuter() *outer { return &outer{} }

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Symbol
	}{
		{"net/url.Parse", Symbol{Package: "net/url", Name: "Parse"}},
		{"net/url.(*URL).String", Symbol{Package: "net/url", Receiver: "URL", PointerReceiver: true, Name: "String"}},
		{"time.Time.Unix", Symbol{Package: "time", Receiver: "Time", Name: "Unix"}},
		{"gopkg.in/yaml%2ev3.Marshal", Symbol{Package: "gopkg.in/yaml.v3", Name: "Marshal"}},
		{"example.com/p.(*Box[...]).Get", Symbol{Package: "example.com/p", Receiver: "Box", PointerReceiver: true, Name: "Get"}},
		{"example.com/p.Run.func1", Symbol{Package: "example.com/p", Name: "Run.func1"}},
		{"main.main", Symbol{Package: "main", Name: "main"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := Parse("")
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestQualified(t *testing.T) {
	require.Equal(t, "url.Parse", Symbol{Package: "net/url", Name: "Parse"}.Qualified())
	require.Equal(t, "url.URL.String", Symbol{Package: "net/url", Receiver: "URL", Name: "String"}.Qualified())
}

func TestFunc(t *testing.T) {
	sym, err := Func(reflect.ValueOf(newOuter))
	require.NoError(t, err)
	require.Equal(t, "newOuter", sym.Name)
	require.True(t, strings.HasSuffix(sym.Package, "internal/symname"))

	_, err = Func(reflect.ValueOf(42))
	require.ErrorIs(t, err, ErrNotFunc)
}

func TestIsWrapper(t *testing.T) {
	pt := reflect.TypeFor[*outer]()

	own, ok := pt.MethodByName("Own")
	require.True(t, ok)
	require.False(t, IsWrapper(own.Func))

	promoted, ok := pt.MethodByName("Hello")
	require.True(t, ok)
	require.True(t, IsWrapper(promoted.Func))

	declared, ok := reflect.TypeFor[inner]().MethodByName("Hello")
	require.True(t, ok)
	require.False(t, IsWrapper(declared.Func))
}

func TestShort(t *testing.T) {
	require.Equal(t, "Now", Short("time.Now"))
	require.Equal(t, "Now", Short("Now"))
	require.True(t, IsExported("pkg.Value"))
	require.False(t, IsExported("Pkg.value"))
}
