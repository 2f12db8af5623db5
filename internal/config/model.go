package config

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Pos locates a parsed element for error reporting.
type Pos struct {
	File string
	Line int
}

// String renders the position as "file:line".
func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	// KindLiteral is a scalar: string, number, bool, or None (a null).
	KindLiteral ValueKind = iota
	// KindList is a bracketed sequence.
	KindList
	// KindTuple is a parenthesized sequence.
	KindTuple
	// KindDict is a braced mapping with string keys.
	KindDict
	// KindReference is an @module.Symbol or @module.Symbol() reference.
	KindReference
	// KindMacro is a %CONSTANT reference.
	KindMacro
)

// Value is a parsed right-hand side of a binding. Scalars are carried as
// cty values; composites keep their element Values so that references and
// macros nested inside them survive until resolution.
type Value struct {
	Kind    ValueKind
	Literal cty.Value
	Elems   []Value
	Entries []DictEntry
	Ref     *Reference
	Macro   string
	Pos     Pos
}

// DictEntry is a single key/value pair of a dict literal.
type DictEntry struct {
	Key   string
	Value Value
}

// Reference selects a registered configurable or function. Evaluated
// references ("@x.Y()") build and inject an instance; unevaluated ones
// ("@x.Y") inject the registered function handle itself.
type Reference struct {
	Selector  string
	Evaluated bool
}

// Binding assigns a value to one parameter of one configurable.
type Binding struct {
	Configurable string
	Param        string
	Value        Value
	Pos          Pos
}

// Selector returns the binding's left-hand side in its textual form.
func (b Binding) Selector() string {
	return b.Configurable + "." + b.Param
}

// Macro is a dot-free top-level assignment, referenced elsewhere as %NAME.
type Macro struct {
	Name  string
	Value Value
	Pos   Pos
}

// File is the parse result of a single configuration file.
type File struct {
	Path     string
	Imports  []string
	Bindings []Binding
	Macros   []Macro
}

// Model is the merged configuration across all files and overrides. Merge
// order is significant: a later assignment to the same parameter or macro
// replaces the earlier one, but Bindings preserves first-assignment order
// for stable serialization.
type Model struct {
	Bindings []Binding
	Macros   []Macro
	Imports  []string
}

// Merge applies the bindings and macros of a parsed file on top of the
// model, with later assignments winning.
func (m *Model) Merge(f *File) {
	m.Imports = append(m.Imports, f.Imports...)
	for _, b := range f.Bindings {
		m.SetBinding(b)
	}
	for _, mc := range f.Macros {
		m.SetMacro(mc)
	}
}

// SetBinding adds or replaces the binding for its selector.
func (m *Model) SetBinding(b Binding) {
	for i, existing := range m.Bindings {
		if existing.Configurable == b.Configurable && existing.Param == b.Param {
			m.Bindings[i] = b
			return
		}
	}
	m.Bindings = append(m.Bindings, b)
}

// SetMacro adds or replaces the macro definition for its name.
func (m *Model) SetMacro(mc Macro) {
	for i, existing := range m.Macros {
		if existing.Name == mc.Name {
			m.Macros[i] = mc
			return
		}
	}
	m.Macros = append(m.Macros, mc)
}

// MacroValue looks up a macro definition by name.
func (m *Model) MacroValue(name string) (Value, bool) {
	for _, mc := range m.Macros {
		if mc.Name == name {
			return mc.Value, true
		}
	}
	return Value{}, false
}

// BindingsFor returns all bindings whose configurable selector addresses
// the given fully qualified name according to the match function.
func (m *Model) BindingsFor(qualified string, matches func(selector, qualified string) bool) []Binding {
	var out []Binding
	for _, b := range m.Bindings {
		if matches(b.Configurable, qualified) {
			out = append(out, b)
		}
	}
	return out
}
