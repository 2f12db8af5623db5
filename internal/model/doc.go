// Package model defines the configurable components a DDSP training setup
// wires together: dataset providers, encoders, decoders, synthesizer
// processors, losses, the autoencoder that composes them, and the
// train/sample settings. Each component is a config struct with gin-tagged
// parameters plus a build function, registered under its module-qualified
// gin name. The components carry structure and parameters only; signal
// computation happens in the external engine.
package model
