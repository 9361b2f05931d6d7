// Package sigkey builds value-equal keys from ordered parameter type lists.
package sigkey

import (
	"encoding/binary"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
)

// Key identifies an ordered sequence of types. Two keys are equal iff the
// sequences have the same length and the same types in the same order, so a
// Key can be used directly as a map key.
type Key string

// Empty is the key of the empty sequence.
const Empty Key = ""

var (
	ids    sync.Map // map[reflect.Type]uint32
	nextID atomic.Uint32
)

// typeID returns the process-unique id interned for t.
func typeID(t reflect.Type) uint32 {
	if id, ok := ids.Load(t); ok {
		return id.(uint32)
	}
	id, _ := ids.LoadOrStore(t, nextID.Add(1))
	return id.(uint32)
}

// Of returns the key of types. A nil entry is not a valid parameter type and
// gets the reserved id 0.
func Of(types ...reflect.Type) Key {
	if len(types) == 0 {
		return Empty
	}
	buf := make([]byte, 4*len(types))
	for i, t := range types {
		var id uint32
		if t != nil {
			id = typeID(t)
		}
		binary.LittleEndian.PutUint32(buf[4*i:], id)
	}
	return Key(buf)
}

// Len returns the number of types in the key.
func (k Key) Len() int {
	return len(k) / 4
}

// Named pairs a member name with a signature key.
type Named struct {
	Name string
	Sig  Key
}

// String renders types the way a Go signature lists them.
func String(types []reflect.Type) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			sb.WriteString(", ")
		}
		if t == nil {
			sb.WriteString("<nil>")
			continue
		}
		sb.WriteString(t.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
