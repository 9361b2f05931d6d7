package sigkey

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type local struct{}

func TestKeyEquality(t *testing.T) {
	intT := reflect.TypeFor[int]()
	strT := reflect.TypeFor[string]()

	a := Of(intT, strT)
	b := Of(reflect.TypeOf(0), reflect.TypeOf(""))
	require.Equal(t, a, b)
	require.Equal(t, 2, a.Len())

	require.NotEqual(t, a, Of(strT, intT), "order matters")
	require.NotEqual(t, a, Of(intT), "length matters")
	require.NotEqual(t, Of(reflect.TypeFor[local]()), Of(reflect.TypeFor[*local]()))
	require.Equal(t, Empty, Of())

	m := map[Named]int{{Name: "M", Sig: a}: 1}
	require.Equal(t, 1, m[Named{Name: "M", Sig: Of(intT, strT)}])
}

func TestString(t *testing.T) {
	got := String([]reflect.Type{reflect.TypeFor[int](), reflect.TypeFor[[]string]()})
	require.Equal(t, "(int, []string)", got)
}
