// Package symname parses Go symbol names as reported by the runtime and
// derives the short names exposed by member images.
package symname

import (
	"errors"
	"go/token"
	"reflect"
	"runtime"
	"strings"
)

// Errors
var (
	ErrEmptyInput = errors.New("symname: empty input")
	ErrNotFunc    = errors.New("symname: value is not a function")
	ErrNoSymbol   = errors.New("symname: no runtime symbol for function")
)

// autogenerated is the file name the toolchain assigns to compiler
// synthesized wrappers, such as promoted methods.
const autogenerated = "<autogenerated>"

// Symbol is a parsed Go function symbol.
type Symbol struct {
	// Package is the import path, e.g. "net/url".
	Package string

	// Receiver is the receiver type name for methods, without "*" or type
	// arguments. Empty for plain functions.
	Receiver string

	// PointerReceiver is true for methods declared on *Receiver.
	PointerReceiver bool

	// Name is the function or method name.
	Name string
}

// Qualified returns the package-qualified form, "url.Parse" or
// "url.URL.String".
func (s Symbol) Qualified() string {
	pkg := s.Package
	if i := strings.LastIndexByte(pkg, '/'); i >= 0 {
		pkg = pkg[i+1:]
	}
	if s.Receiver != "" {
		return pkg + "." + s.Receiver + "." + s.Name
	}
	if pkg == "" {
		return s.Name
	}
	return pkg + "." + s.Name
}

// Parse splits a runtime function name such as
// "github.com/a/b.(*T[...]).M" into its parts.
func Parse(name string) (Symbol, error) {
	if name == "" {
		return Symbol{}, ErrEmptyInput
	}
	name = stripTypeArgs(name)

	var sym Symbol
	rest := name
	if i := strings.LastIndexByte(rest, '/'); i >= 0 {
		sym.Package = rest[:i+1]
		rest = rest[i+1:]
	}
	// The runtime escapes dots in the last path element, so the first dot
	// ends the package name.
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		sym.Package += strings.ReplaceAll(rest[:i], "%2e", ".")
		rest = rest[i+1:]
	} else {
		sym.Package = strings.TrimSuffix(sym.Package, "/")
	}

	switch {
	case strings.HasPrefix(rest, "(*"):
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			sym.Name = rest
			return sym, nil
		}
		sym.Receiver = rest[2:end]
		sym.PointerReceiver = true
		sym.Name = strings.TrimPrefix(rest[end+1:], ".")
	default:
		parts := strings.Split(rest, ".")
		if len(parts) == 2 && token.IsIdentifier(parts[1]) && !isClosure(parts[1]) {
			sym.Receiver = parts[0]
			sym.Name = parts[1]
		} else {
			sym.Name = rest
		}
	}
	return sym, nil
}

// Func parses the runtime symbol of a function value.
func Func(fn reflect.Value) (Symbol, error) {
	rf, err := runtimeFunc(fn)
	if err != nil {
		return Symbol{}, err
	}
	return Parse(rf.Name())
}

// IsWrapper reports whether fn is a compiler synthesized wrapper, which is
// the case for methods promoted from an embedded field.
func IsWrapper(fn reflect.Value) bool {
	rf, err := runtimeFunc(fn)
	if err != nil {
		return false
	}
	file, _ := rf.FileLine(rf.Entry())
	return file == autogenerated
}

func runtimeFunc(fn reflect.Value) (*runtime.Func, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, ErrNotFunc
	}
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return nil, ErrNoSymbol
	}
	return rf, nil
}

// Short strips any qualifier from name: "time.Time.Now" becomes "Now".
func Short(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// IsExported reports whether the short form of name is exported.
func IsExported(name string) bool {
	return token.IsExported(Short(name))
}

// isClosure matches the "funcN" suffix of anonymous functions.
func isClosure(s string) bool {
	digits := strings.TrimPrefix(s, "func")
	if digits == s || digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stripTypeArgs removes instantiation brackets, "F[...]" becomes "F".
func stripTypeArgs(name string) string {
	if !strings.Contains(name, "[") {
		return name
	}
	var sb strings.Builder
	depth := 0
	for _, r := range name {
		switch {
		case r == '[':
			depth++
		case r == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
