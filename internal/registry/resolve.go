package registry

import (
	"context"
	"fmt"

	"github.com/samuel-clarke/ddsp/internal/config"
	"github.com/samuel-clarke/ddsp/internal/ctxlog"
	"github.com/samuel-clarke/ddsp/internal/keypath"
)

// Resolver instantiates configurables against a merged configuration
// model. Each evaluated reference produces a fresh instance; recursive
// reference chains are tracked to reject cycles.
type Resolver struct {
	reg      *Registry
	model    *config.Model
	building map[string]bool
	macros   map[string]bool
}

// NewResolver creates a resolver bound to one registry and model.
func (r *Registry) NewResolver(model *config.Model) *Resolver {
	return &Resolver{
		reg:      r,
		model:    model,
		building: make(map[string]bool),
		macros:   make(map[string]bool),
	}
}

// Instantiate builds the configurable addressed by the selector: defaults
// from its config struct, then every matching binding applied, then the
// registered build function.
func (res *Resolver) Instantiate(ctx context.Context, selector string) (any, error) {
	logger := ctxlog.FromContext(ctx)

	configurable, err := res.reg.LookupConfigurable(selector)
	if err != nil {
		return nil, err
	}
	if res.building[configurable.Name] {
		return nil, fmt.Errorf("reference cycle detected while building '%s'", configurable.Name)
	}
	res.building[configurable.Name] = true
	defer delete(res.building, configurable.Name)

	logger.Debug("Instantiating configurable.", "name", configurable.Name)

	cfg := configurable.NewConfig()
	bindings := res.model.BindingsFor(configurable.Name, keypath.MatchesSuffix)
	for _, b := range bindings {
		resolved, err := res.resolveValue(ctx, b.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: binding %s: %w", b.Pos, b.Selector(), err)
		}
		if err := setParam(cfg, b.Param, resolved); err != nil {
			return nil, fmt.Errorf("%s: binding %s: %w", b.Pos, b.Selector(), err)
		}
	}

	instance, err := configurable.Build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build '%s': %w", configurable.Name, err)
	}
	return instance, nil
}

// resolveValue reduces a parsed value to its resolved form: a cty.Value
// for pure literals, a built component or function handle for references,
// and []any / map[string]any for composites that contain references.
func (res *Resolver) resolveValue(ctx context.Context, v config.Value) (any, error) {
	if cv, ok := v.LiteralCty(); ok {
		return cv, nil
	}

	switch v.Kind {
	case config.KindMacro:
		if res.macros[v.Macro] {
			return nil, fmt.Errorf("macro cycle detected at %%%s", v.Macro)
		}
		def, ok := res.model.MacroValue(v.Macro)
		if !ok {
			return nil, fmt.Errorf("undefined macro %%%s", v.Macro)
		}
		res.macros[v.Macro] = true
		defer delete(res.macros, v.Macro)
		return res.resolveValue(ctx, def)

	case config.KindReference:
		if v.Ref.Evaluated {
			return res.Instantiate(ctx, v.Ref.Selector)
		}
		fn, err := res.reg.LookupFunction(v.Ref.Selector)
		if err != nil {
			return nil, err
		}
		return fn, nil

	case config.KindList, config.KindTuple:
		out := make([]any, 0, len(v.Elems))
		for _, elem := range v.Elems {
			rv, err := res.resolveValue(ctx, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, rv)
		}
		return out, nil

	case config.KindDict:
		out := make(map[string]any, len(v.Entries))
		for _, entry := range v.Entries {
			rv, err := res.resolveValue(ctx, entry.Value)
			if err != nil {
				return nil, fmt.Errorf("in dict key %q: %w", entry.Key, err)
			}
			out[entry.Key] = rv
		}
		return out, nil
	}
	return nil, fmt.Errorf("unresolvable value at %s", v.Pos)
}
