package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/samuel-clarke/ddsp/internal/config"
	"github.com/samuel-clarke/ddsp/internal/ctxlog"
)

// ValidateModel performs a strict parity check between the merged
// configuration and the registered Go code before anything is built:
// every binding must address exactly one configurable, every bound
// parameter must exist on its config struct, and every referenced macro,
// configurable, or function must be defined.
func (r *Registry) ValidateModel(ctx context.Context, model *config.Model) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, b := range model.Bindings {
		configurable, err := r.LookupConfigurable(b.Configurable)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", b.Pos, err))
			continue
		}
		cfgType := reflect.TypeOf(configurable.NewConfig())
		if !hasParam(cfgType, b.Param) {
			errs = append(errs, fmt.Sprintf("%s: configurable '%s' has no parameter %q",
				b.Pos, configurable.Name, b.Param))
		}
		errs = append(errs, r.validateValue(model, b.Value)...)
	}
	for _, m := range model.Macros {
		errs = append(errs, r.validateValue(model, m.Value)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Configuration validation passed.", "bindings", len(model.Bindings))
	return nil
}

// validateValue checks references and macro uses inside a value without
// building anything.
func (r *Registry) validateValue(model *config.Model, v config.Value) []string {
	var errs []string
	switch v.Kind {
	case config.KindMacro:
		if _, ok := model.MacroValue(v.Macro); !ok {
			errs = append(errs, fmt.Sprintf("%s: undefined macro %%%s", v.Pos, v.Macro))
		}
	case config.KindReference:
		if v.Ref.Evaluated {
			if _, err := r.LookupConfigurable(v.Ref.Selector); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", v.Pos, err))
			}
		} else {
			if _, err := r.LookupFunction(v.Ref.Selector); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", v.Pos, err))
			}
		}
	case config.KindList, config.KindTuple:
		for _, elem := range v.Elems {
			errs = append(errs, r.validateValue(model, elem)...)
		}
	case config.KindDict:
		for _, entry := range v.Entries {
			errs = append(errs, r.validateValue(model, entry.Value)...)
		}
	}
	return errs
}
