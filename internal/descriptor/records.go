// Package descriptor describes the members a Go type declares. It is the
// only place that talks to package reflect about member shapes; every other
// layer consumes the records defined here.
package descriptor

import (
	"reflect"

	"github.com/skdltmxn/typeimage-go/internal/symname"
)

// Kind identifies the category of a member.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindField
	KindProperty
	KindIndexer
	KindMethod
	KindConstructor
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindProperty:
		return "property"
	case KindIndexer:
		return "indexer"
	case KindMethod:
		return "method"
	case KindConstructor:
		return "constructor"
	default:
		return "unknown"
	}
}

// Results classifies the result list of a callable.
type Results uint8

const (
	// ResultsNone is func(...).
	ResultsNone Results = iota
	// ResultsValue is func(...) V.
	ResultsValue
	// ResultsError is func(...) error.
	ResultsError
	// ResultsValueError is func(...) (V, error).
	ResultsValueError
	// ResultsUnsupported is anything else. Extra results play the role of
	// out parameters, which the invoker model cannot express.
	ResultsUnsupported
)

// HasValue reports whether the callable produces a value.
func (r Results) HasValue() bool {
	return r == ResultsValue || r == ResultsValueError
}

// Settable reports whether the results fit a setter.
func (r Results) Settable() bool {
	return r == ResultsNone || r == ResultsError
}

var errorType = reflect.TypeFor[error]()

// ClassifyResults inspects the results of a function type.
func ClassifyResults(ft reflect.Type) (Results, reflect.Type) {
	switch ft.NumOut() {
	case 0:
		return ResultsNone, nil
	case 1:
		if ft.Out(0) == errorType {
			return ResultsError, nil
		}
		return ResultsValue, ft.Out(0)
	case 2:
		if ft.Out(1) == errorType && ft.Out(0) != errorType {
			return ResultsValueError, ft.Out(0)
		}
	}
	return ResultsUnsupported, nil
}

// Member is the identity shared by every record.
type Member struct {
	Kind      Kind
	Name      string       // Declared name, possibly qualified ("time.Now")
	Declaring reflect.Type // Type that declares the member
	Static    bool
	Public    bool
}

// ShortName returns Name without any qualifier.
func (m *Member) ShortName() string { return symname.Short(m.Name) }

// Callable is executable code with its signature.
type Callable struct {
	// Func is the function. For instance methods the receiver, a pointer to
	// the declaring type, is its first parameter. Invalid for interface
	// methods and implicit constructors.
	Func reflect.Value

	// Iface is the method index when the declaring type is an interface,
	// -1 otherwise.
	Iface int

	// Params excludes the receiver. A variadic final parameter keeps its
	// slice type.
	Params   []reflect.Type
	Variadic bool
	Results  Results

	// Out is the value result type, nil when Results has no value.
	Out reflect.Type
}

// MinArgs returns the number of required parameters. The variadic slot is
// optional and takes the whole slice when supplied.
func (c *Callable) MinArgs() int {
	if c.Variadic {
		return len(c.Params) - 1
	}
	return len(c.Params)
}

// MaxArgs returns the total parameter count.
func (c *Callable) MaxArgs() int { return len(c.Params) }

// Field is a struct field, a registered variable or a constant.
type Field struct {
	Member
	Type   reflect.Type
	Offset uintptr // Instance fields only
	Index  int     // Position in the declaring struct

	Var   reflect.Value // Static variable, a pointer to the storage
	Const reflect.Value // Static constant value

	// Backs names the property this field stores, from the `image` tag.
	Backs string
}

// IsConst reports whether the field is a constant.
func (f *Field) IsConst() bool { return f.Const.IsValid() }

// Property is a getter method with an optional setter.
type Property struct {
	Member
	Type   reflect.Type
	Getter Callable
	Setter *Callable
}

// NativeIndex identifies the built-in indexing of slice, array and map
// types.
type NativeIndex uint8

const (
	NativeNone NativeIndex = iota
	NativeSlice
	NativeArray
	NativeMap
)

// Indexer is an At/Set method pair or the built-in index operation.
type Indexer struct {
	Member
	Type   reflect.Type   // Element type
	Index  []reflect.Type // Index parameter types, at least one
	Native NativeIndex
	Getter Callable  // Unused for native indexers
	Setter *Callable // Nil if the indexer is read-only
}

// Settable reports whether the indexer accepts writes.
func (ix *Indexer) Settable() bool {
	return ix.Native != NativeNone || ix.Setter != nil
}

// Method is an instance or static method.
type Method struct {
	Member
	Callable
}

// Constructor creates instances of its declaring type.
type Constructor struct {
	Member
	Callable

	// Implicit marks the zero-argument constructor backed by new(T).
	Implicit bool
}

// Embed is an embedded field linking a type to an ancestor level.
type Embed struct {
	Name    string
	Type    reflect.Type // Embedded type, pointer unwrapped
	Offset  uintptr
	Pointer bool // Embedded as *Type
}

// Level holds the members one type declares directly.
type Level struct {
	Type reflect.Type

	Fields       []*Field
	Properties   []*Property
	Indexers     []*Indexer
	Methods      []*Method
	Constructors []*Constructor

	// Base is the first embedded struct, nil at the root.
	Base *Embed

	// Mixins are the remaining embedded fields: interfaces, named non-struct
	// types and structs after the first.
	Mixins []*Embed

	// Rejected accumulates the reasons members were filtered out.
	Rejected error
}
