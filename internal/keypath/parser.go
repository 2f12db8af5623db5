package keypath

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex validates a single dotted or slashed path component.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ParseSelector parses the left-hand side of a gin binding. A dot-free
// input is treated as a macro name and returns a Selector with an empty
// Configurable.
func ParseSelector(raw string) (Selector, error) {
	if raw == "" {
		return Selector{}, fmt.Errorf("selector cannot be empty")
	}

	parts := strings.Split(raw, ".")
	for _, part := range parts {
		if part == "" {
			return Selector{}, fmt.Errorf("selector %q contains empty segment", raw)
		}
		if !segmentRegex.MatchString(part) {
			return Selector{}, fmt.Errorf("invalid selector segment %q in %q", part, raw)
		}
	}

	if len(parts) == 1 {
		return Selector{Param: parts[0]}, nil
	}
	return Selector{
		Configurable: strings.Join(parts[:len(parts)-1], "."),
		Param:        parts[len(parts)-1],
	}, nil
}

// ParseRoute parses a DAG input key. "amps" reads the conditioning key
// "amps"; "additive/signal" reads the signal "signal" of the node named
// "additive". At most one slash is allowed.
func ParseRoute(raw string) (Route, error) {
	if raw == "" {
		return Route{}, fmt.Errorf("route cannot be empty")
	}

	parts := strings.Split(raw, "/")
	switch len(parts) {
	case 1:
		if !segmentRegex.MatchString(parts[0]) {
			return Route{}, fmt.Errorf("invalid route key %q", raw)
		}
		return Route{Key: parts[0]}, nil
	case 2:
		for _, part := range parts {
			if !segmentRegex.MatchString(part) {
				return Route{}, fmt.Errorf("invalid route segment %q in %q", part, raw)
			}
		}
		return Route{Node: parts[0], Signal: parts[1], Key: raw}, nil
	default:
		return Route{}, fmt.Errorf("route %q has too many segments", raw)
	}
}

// MatchesSuffix reports whether a binding selector addresses the given
// fully qualified configurable name, following gin's suffix rule:
// "Additive" matches "synths.Additive", and a fully qualified selector
// matches only itself.
func MatchesSuffix(selector, qualified string) bool {
	if selector == qualified {
		return true
	}
	return strings.HasSuffix(qualified, "."+selector)
}
