// Package app wires the application together: it configures logging,
// loads and validates the gin configuration, populates the component
// registry, and dispatches the requested run mode through the launcher.
package app
