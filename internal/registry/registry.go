package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/samuel-clarke/ddsp/internal/keypath"
)

// Module is the interface a component family implements to register its
// configurables and functions.
type Module interface {
	Register(r *Registry)
}

// Configurable describes one registered, configurable constructor.
type Configurable struct {
	// Name is the fully qualified, module-prefixed name, e.g. "synths.Additive".
	Name string
	// NewConfig returns a pointer to a default-initialized config struct.
	// Fields are matched to gin parameters via the `gin:"..."` struct tag.
	NewConfig func() any
	// Build turns a populated config struct into the live component.
	Build func(ctx context.Context, cfg any) (any, error)
}

// Registry holds all registered configurables and function handles for a
// single application instance.
type Registry struct {
	configurables map[string]*Configurable
	functions     map[string]any
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		configurables: make(map[string]*Configurable),
		functions:     make(map[string]any),
	}
}

// RegisterConfigurable adds a configurable under its qualified name.
func (r *Registry) RegisterConfigurable(c *Configurable) {
	if c.Name == "" || c.NewConfig == nil || c.Build == nil {
		panic(fmt.Sprintf("configurable %q is incomplete", c.Name))
	}
	if _, exists := r.configurables[c.Name]; exists {
		panic(fmt.Sprintf("configurable with name '%s' already registered", c.Name))
	}
	slog.Debug("Registering configurable.", "name", c.Name)
	r.configurables[c.Name] = c
}

// RegisterFunction adds a named function handle, the target of unevaluated
// "@module.symbol" references.
func (r *Registry) RegisterFunction(name string, fn any) {
	if _, exists := r.functions[name]; exists {
		panic(fmt.Sprintf("function with name '%s' already registered", name))
	}
	slog.Debug("Registering function handle.", "name", name)
	r.functions[name] = fn
}

// Names returns the sorted qualified names of all configurables.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.configurables))
	for name := range r.configurables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupConfigurable resolves a (possibly partial) selector to exactly one
// registered configurable using gin's suffix rule. Zero matches and more
// than one match are both errors.
func (r *Registry) LookupConfigurable(selector string) (*Configurable, error) {
	var matches []*Configurable
	for name, c := range r.configurables {
		if keypath.MatchesSuffix(selector, name) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no configurable matches selector %q", selector)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		sort.Strings(names)
		return nil, fmt.Errorf("selector %q is ambiguous, matches: %v", selector, names)
	}
}

// LookupFunction resolves a selector to a registered function handle,
// using the same suffix rule as configurables.
func (r *Registry) LookupFunction(selector string) (any, error) {
	var matchedNames []string
	var matched any
	for name, fn := range r.functions {
		if keypath.MatchesSuffix(selector, name) {
			matchedNames = append(matchedNames, name)
			matched = fn
		}
	}
	switch len(matchedNames) {
	case 0:
		return nil, fmt.Errorf("no function matches selector %q", selector)
	case 1:
		return matched, nil
	default:
		sort.Strings(matchedNames)
		return nil, fmt.Errorf("function selector %q is ambiguous, matches: %v", selector, matchedNames)
	}
}
