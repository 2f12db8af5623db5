package gin

import (
	"context"
	"fmt"
	"os"

	"github.com/samuel-clarke/ddsp/internal/config"
	"github.com/samuel-clarke/ddsp/internal/ctxlog"
	"github.com/samuel-clarke/ddsp/internal/fsutil"
)

// Loader is the gin-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new gin configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses each file in order and merges them into one model, later
// files winning on conflicting parameters. A directory entry expands to
// the .gin files it contains, discovered recursively in lexical order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := &config.Model{}

	files, err := expandPaths(paths)
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read gin file: %w", err)
		}
		file, err := ParseFile(path, string(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse gin file: %w", err)
		}
		logger.Debug("Parsed gin file.",
			"path", path,
			"bindings", len(file.Bindings),
			"macros", len(file.Macros),
		)
		model.Merge(file)
	}

	logger.Debug("Gin configuration merged.", "files", len(files), "bindings", len(model.Bindings))
	return model, nil
}

// expandPaths replaces directory entries with the .gin files found
// inside them, keeping plain file paths as-is.
func expandPaths(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read gin file: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".gin")
		if err != nil {
			return nil, fmt.Errorf("failed to scan gin directory: %w", err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("directory %q contains no .gin files", path)
		}
		files = append(files, found...)
	}
	return files, nil
}

// LoadOverrides applies "selector=value" strings on top of the model.
// Each override is parsed as a single gin statement, so the full value
// syntax (references, macros, lists) is available on the command line.
func (l *Loader) LoadOverrides(ctx context.Context, model *config.Model, overrides ...string) error {
	logger := ctxlog.FromContext(ctx)

	for _, raw := range overrides {
		file, err := ParseFile("", raw)
		if err != nil {
			return fmt.Errorf("failed to parse override %q: %w", raw, err)
		}
		if len(file.Bindings)+len(file.Macros) != 1 || len(file.Imports) != 0 {
			return fmt.Errorf("override %q must contain exactly one binding", raw)
		}
		logger.Debug("Applying configuration override.", "override", raw)
		model.Merge(file)
	}
	return nil
}
