package registry

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/samuel-clarke/ddsp/internal/config"
)

// setParam assigns a resolved value to the config struct field whose gin
// tag (or field name) matches the parameter.
func setParam(cfg any, param string, resolved any) error {
	structVal := reflect.ValueOf(cfg)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() {
		return fmt.Errorf("config must be a non-nil struct pointer, got %T", cfg)
	}
	structVal = structVal.Elem()
	if structVal.Kind() != reflect.Struct {
		return fmt.Errorf("config must point to a struct, got %T", cfg)
	}

	field, ok := fieldForParam(structVal, param)
	if !ok {
		return fmt.Errorf("unknown parameter %q", param)
	}
	if err := assign(field, resolved); err != nil {
		return fmt.Errorf("parameter %q: %w", param, err)
	}
	return nil
}

// fieldForParam finds the settable struct field for a gin parameter name.
func fieldForParam(structVal reflect.Value, param string) (reflect.Value, bool) {
	structType := structVal.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		lookupName := field.Name
		if tag := field.Tag.Get("gin"); tag != "" {
			lookupName = strings.Split(tag, ",")[0]
		}
		if lookupName == param {
			return structVal.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// hasParam reports whether the config struct type exposes the parameter.
func hasParam(cfgType reflect.Type, param string) bool {
	if cfgType.Kind() == reflect.Ptr {
		cfgType = cfgType.Elem()
	}
	for i := 0; i < cfgType.NumField(); i++ {
		field := cfgType.Field(i)
		if !field.IsExported() {
			continue
		}
		lookupName := field.Name
		if tag := field.Tag.Get("gin"); tag != "" {
			lookupName = strings.Split(tag, ",")[0]
		}
		if lookupName == param {
			return true
		}
	}
	return false
}

// assign writes a resolved value into a struct field. Field types may take
// over decoding by implementing config.Unmarshaler; otherwise literals are
// decoded through cty conversion, references are assigned directly, and
// composite values recurse element-wise.
func assign(field reflect.Value, resolved any) error {
	if !field.CanSet() {
		return fmt.Errorf("field is not settable")
	}

	if field.CanAddr() {
		if u, ok := field.Addr().Interface().(config.Unmarshaler); ok {
			return u.UnmarshalGin(resolved)
		}
	}

	if cv, ok := resolved.(cty.Value); ok {
		return assignCty(field, cv)
	}

	// A built component or function handle assigns directly when the
	// types line up.
	rv := reflect.ValueOf(resolved)
	if resolved != nil && rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return nil
	}

	if list, ok := resolved.([]any); ok {
		if field.Kind() != reflect.Slice {
			return fmt.Errorf("cannot assign a sequence to %s", field.Type())
		}
		out := reflect.MakeSlice(field.Type(), len(list), len(list))
		for i, elem := range list {
			if err := assign(out.Index(i), elem); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		field.Set(out)
		return nil
	}

	if resolved == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", resolved, field.Type())
}

// assignCty decodes a literal cty value into a Go field, converting to the
// field's implied cty type first so tuples become lists and numbers adapt
// to the target width.
func assignCty(field reflect.Value, val cty.Value) error {
	if val.IsNull() {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	targetPtr := field.Addr().Interface()
	impliedType, err := gocty.ImpliedType(field.Interface())
	if err != nil {
		return fmt.Errorf("field type %s cannot hold a literal %s value: %w",
			field.Type(), val.Type().FriendlyName(), err)
	}

	convertedVal, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w",
			val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	return gocty.FromCtyValue(convertedVal, targetPtr)
}
