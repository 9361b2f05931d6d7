package typeimage

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldAccessor(t *testing.T) {
	acc, err := Accessor[class, int]("PublicField")
	require.NoError(t, err)
	require.Same(t, For[class]().Field("PublicField"), acc.Field())

	obj := &class{PublicField: 5}
	v, err := acc.Get(obj)
	require.NoError(t, err)
	require.Equal(t, 5, v)

	require.NoError(t, acc.Set(obj, 6))
	require.Equal(t, 6, obj.PublicField)

	p, err := acc.Ptr(obj)
	require.NoError(t, err)
	*p = 7
	require.Equal(t, 7, obj.PublicField)

	_, err = acc.Get(nil)
	require.ErrorIs(t, err, ErrArgumentShape)
}

func TestFieldAccessorThroughEmbedding(t *testing.T) {
	acc, err := Accessor[outer, int]("calls")
	require.NoError(t, err)

	o := &outer{derived: &derived{}}
	require.NoError(t, acc.Set(o, 3))
	require.Equal(t, 3, o.calls)

	_, err = acc.Get(&outer{})
	require.ErrorIs(t, err, ErrInvocation)
}

func TestFieldAccessorMismatch(t *testing.T) {
	_, err := Accessor[class, string]("PublicField")
	require.ErrorIs(t, err, ErrArgumentShape)

	_, err = Accessor[class, int]("Missing")
	require.ErrorIs(t, err, ErrMissingMember)

	_, err = AccessorOf[derived, int](For[class]().Field("PublicField"))
	require.ErrorIs(t, err, ErrArgumentShape)

	_, err = AccessorOf[class, int](nil)
	require.ErrorIs(t, err, ErrArgumentShape)

	c := NewCache()
	require.NoError(t, registerSettings(c))
	_, err = AccessorOf[settings, int](c.Of(reflect.TypeFor[settings]()).Field("Limit"))
	require.ErrorIs(t, err, ErrArgumentShape)
}
