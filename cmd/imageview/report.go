package main

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/skdltmxn/typeimage-go/typeimage"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

// memberReport is the printable form of a member image.
type memberReport struct {
	Kind      string   `yaml:"kind"`
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type,omitempty"`
	Params    []string `yaml:"params,omitempty"`
	Variadic  bool     `yaml:"variadic,omitempty"`
	Declaring string   `yaml:"declaring"`
	Static    bool     `yaml:"static,omitempty"`
	Public    bool     `yaml:"public"`
	Settable  bool     `yaml:"settable,omitempty"`
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "-"
	}
	return t.String()
}

func typeNames(ts []reflect.Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = typeName(t)
	}
	return out
}

func describeMember(m typeimage.Member) memberReport {
	r := memberReport{
		Kind:      m.Kind().String(),
		Name:      m.Name(),
		Declaring: typeName(m.DeclaringType()),
		Static:    m.IsStatic(),
		Public:    m.IsPublic(),
	}
	switch m := m.(type) {
	case *typeimage.FieldImage:
		r.Type = typeName(m.Type())
		r.Settable = m.CanSet()
	case *typeimage.PropertyImage:
		r.Type = typeName(m.Type())
		r.Settable = m.CanSet()
	case *typeimage.IndexerImage:
		r.Type = typeName(m.Type())
		r.Params = typeNames(m.IndexTypes())
		r.Settable = m.CanSet()
	case *typeimage.MethodImage:
		r.Type = typeName(m.ReturnType())
		r.Params = typeNames(m.ParamTypes())
		r.Variadic = m.IsVariadic()
	case *typeimage.ConstructorImage:
		r.Type = typeName(m.ReturnType())
		r.Params = typeNames(m.ParamTypes())
		r.Variadic = m.IsVariadic()
	}
	return r
}

// signature renders the member name with its parameter list, if any.
func (r memberReport) signature() string {
	if r.Params == nil && r.Kind != "method" && r.Kind != "constructor" {
		return r.Name
	}
	params := slices.Clone(r.Params)
	if r.Variadic && len(params) > 0 {
		last := len(params) - 1
		params[last] = "..." + strings.TrimPrefix(params[last], "[]")
	}
	return fmt.Sprintf("%s(%s)", r.Name, strings.Join(params, ", "))
}

func (r memberReport) flags() string {
	var fl []string
	if r.Static {
		fl = append(fl, "static")
	}
	if !r.Public {
		fl = append(fl, "unexported")
	}
	if r.Settable {
		fl = append(fl, "settable")
	}
	return strings.Join(fl, ",")
}

// isTerminal reports whether output goes to a terminal.
func isTerminal() bool {
	f, ok := output.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// header prints a table header, in bold on a terminal.
func header(format string, a ...any) {
	line := fmt.Sprintf(format, a...)
	if isTerminal() {
		fmt.Fprintf(output, "\x1b[1m%s\x1b[0m\n", line)
		return
	}
	fmt.Fprintln(output, line)
	fmt.Fprintf(output, "%s\n", strings.Repeat("-", 80))
}

func printMembers(reports []memberReport) {
	header("%-12s %-36s %-20s %-20s %s", "KIND", "NAME", "TYPE", "DECLARING", "FLAGS")
	for _, r := range reports {
		fmt.Fprintf(output, "%-12s %-36s %-20s %-20s %s\n",
			r.Kind, r.signature(), r.Type, r.Declaring, r.flags())
	}
}

// emit writes v as YAML when requested, or calls text otherwise.
func emit(v any, text func()) error {
	if outputFormat != formatYAML {
		text()
		return nil
	}
	enc := yaml.NewEncoder(output)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
