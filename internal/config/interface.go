package config

import "context"

// Loader parses configuration sources into the format-agnostic model.
// Implementations own the concrete syntax; the rest of the system only
// sees the Model.
type Loader interface {
	// Load parses the given file paths in order and merges them into a
	// single model, later files winning on conflicts.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// LoadOverrides applies "selector=value" override strings (the
	// --gin_param surface) on top of an already loaded model.
	LoadOverrides(ctx context.Context, model *Model, overrides ...string) error
}

// Unmarshaler lets a config-struct field type take over decoding of its
// resolved value. The resolver passes the resolved form: cty.Value for
// pure literals, []any for composites that contained references, with
// built components appearing as themselves.
type Unmarshaler interface {
	UnmarshalGin(v any) error
}
