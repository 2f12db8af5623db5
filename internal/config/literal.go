package config

import "github.com/zclconf/go-cty/cty"

// LiteralCty converts a value containing no references or macros into its
// cty representation. Sequences become tuples so heterogeneous element
// types survive; dicts become objects. The second return is false when the
// value (or any nested element) is not a pure literal.
func (v Value) LiteralCty() (cty.Value, bool) {
	switch v.Kind {
	case KindLiteral:
		return v.Literal, true

	case KindList, KindTuple:
		if len(v.Elems) == 0 {
			return cty.EmptyTupleVal, true
		}
		elems := make([]cty.Value, 0, len(v.Elems))
		for _, e := range v.Elems {
			ev, ok := e.LiteralCty()
			if !ok {
				return cty.NilVal, false
			}
			elems = append(elems, ev)
		}
		return cty.TupleVal(elems), true

	case KindDict:
		if len(v.Entries) == 0 {
			return cty.EmptyObjectVal, true
		}
		attrs := make(map[string]cty.Value, len(v.Entries))
		for _, entry := range v.Entries {
			ev, ok := entry.Value.LiteralCty()
			if !ok {
				return cty.NilVal, false
			}
			attrs[entry.Key] = ev
		}
		return cty.ObjectVal(attrs), true

	default:
		return cty.NilVal, false
	}
}

// IsLiteral reports whether the value contains no references or macros.
func (v Value) IsLiteral() bool {
	_, ok := v.LiteralCty()
	return ok
}
