// Package config defines the format-agnostic configuration model. The gin
// frontend parses configuration files into this model; the registry resolves
// it into live components. Keeping the model independent of the concrete
// syntax lets alternative frontends (or programmatic construction in tests)
// feed the same resolution pipeline.
package config
