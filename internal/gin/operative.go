package gin

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/samuel-clarke/ddsp/internal/config"
)

// FormatModel serializes a merged model back to canonical gin text. The
// output is the operative configuration of a run: imports first, then
// macros, then bindings grouped by configurable, all sorted so the result
// is stable across runs. Parsing the output yields an equivalent model.
func FormatModel(model *config.Model) string {
	var sb strings.Builder

	imports := dedupe(model.Imports)
	for _, imp := range imports {
		fmt.Fprintf(&sb, "import %s\n", imp)
	}
	if len(imports) > 0 {
		sb.WriteString("\n")
	}

	macros := append([]config.Macro(nil), model.Macros...)
	sort.Slice(macros, func(i, j int) bool { return macros[i].Name < macros[j].Name })
	for _, m := range macros {
		fmt.Fprintf(&sb, "%s = %s\n", m.Name, FormatValue(m.Value))
	}
	if len(macros) > 0 {
		sb.WriteString("\n")
	}

	bindings := append([]config.Binding(nil), model.Bindings...)
	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].Configurable != bindings[j].Configurable {
			return bindings[i].Configurable < bindings[j].Configurable
		}
		return bindings[i].Param < bindings[j].Param
	})

	prev := ""
	for _, b := range bindings {
		if b.Configurable != prev && prev != "" {
			sb.WriteString("\n")
		}
		prev = b.Configurable
		fmt.Fprintf(&sb, "%s = %s\n", b.Selector(), FormatValue(b.Value))
	}
	return sb.String()
}

// FormatValue renders a single value in gin syntax.
func FormatValue(v config.Value) string {
	switch v.Kind {
	case config.KindLiteral:
		return formatLiteral(v.Literal)
	case config.KindList:
		return "[" + formatElems(v.Elems) + "]"
	case config.KindTuple:
		if len(v.Elems) == 1 {
			return "(" + FormatValue(v.Elems[0]) + ",)"
		}
		return "(" + formatElems(v.Elems) + ")"
	case config.KindDict:
		parts := make([]string, 0, len(v.Entries))
		for _, e := range v.Entries {
			parts = append(parts, fmt.Sprintf("%s: %s", formatString(e.Key), FormatValue(e.Value)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case config.KindReference:
		if v.Ref.Evaluated {
			return "@" + v.Ref.Selector + "()"
		}
		return "@" + v.Ref.Selector
	case config.KindMacro:
		return "%" + v.Macro
	}
	return ""
}

func formatElems(elems []config.Value) string {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		parts = append(parts, FormatValue(e))
	}
	return strings.Join(parts, ", ")
}

func formatLiteral(v cty.Value) string {
	if v.IsNull() {
		return "None"
	}
	switch v.Type() {
	case cty.String:
		return formatString(v.AsString())
	case cty.Bool:
		if v.True() {
			return "True"
		}
		return "False"
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int(nil)
			return i.String()
		}
		return formatFloat(bf)
	}
	return ""
}

func formatString(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`).Replace(s)
	return "'" + escaped + "'"
}

func formatFloat(bf *big.Float) string {
	f, _ := bf.Float64()
	text := fmt.Sprintf("%g", f)
	// A float must keep a textual marker so it round-trips as a float.
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	return text
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
