// Package cli parses the ddsp-run command line into an app.Config.
package cli
