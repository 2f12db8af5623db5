// Package registry provides the central "glue" between configuration and
// code: the mapping from the module-qualified names used in gin files
// (e.g. "synths.Additive", "core.exp_sigmoid") to the Go config structs
// and build functions that implement them.
//
// During startup the registry is populated with every known configurable,
// the merged configuration is validated against it (unknown configurables,
// unknown parameters, undefined macros, and ambiguous selectors are all
// startup errors), and requested components are then instantiated by
// resolving their bindings: macros are substituted, evaluated references
// recursively build their targets, and literal values are decoded into
// the config struct through go-cty.
package registry
