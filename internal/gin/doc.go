// Package gin implements the gin configuration syntax: line-oriented
// parameter bindings of the form "Configurable.param = value", macro
// definitions ("NAME = value", referenced as %NAME), configurable and
// function references ("@module.Symbol()" and "@module.Symbol"), Python
// style literals (strings, numbers, True/False/None, lists, tuples,
// dicts), comments, and import statements.
//
// The package parses files into the format-agnostic config model, merges
// multiple files and command-line overrides with last-one-wins semantics,
// and serializes a resolved model back to canonical gin text (the
// operative config written into a run's save directory).
package gin
