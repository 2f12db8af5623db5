// Package runs loads HCL run manifests: named, reusable invocations of
// the runner (mode, save directory, gin files, and parameter overrides)
// that replace ad-hoc shell command lists.
package runs

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/samuel-clarke/ddsp/internal/ctxlog"
)

// Run is one named invocation declared in a manifest.
type Run struct {
	Name       string            `hcl:"name,label"`
	Mode       string            `hcl:"mode"`
	SaveDir    string            `hcl:"save_dir"`
	RestoreDir string            `hcl:"restore_dir,optional"`
	GinFiles   []string          `hcl:"gin_files"`
	Params     map[string]string `hcl:"params,optional"`
	EngineBin  string            `hcl:"engine_bin,optional"`
}

// ParamOverrides flattens the params map into "selector=value" strings,
// the same surface the --gin_param flag uses. Keys are sorted so the
// resulting engine arguments are stable across invocations.
func (r *Run) ParamOverrides() []string {
	keys := make([]string, 0, len(r.Params))
	for key := range r.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	overrides := make([]string, 0, len(keys))
	for _, key := range keys {
		overrides = append(overrides, fmt.Sprintf("%s=%s", key, r.Params[key]))
	}
	return overrides
}

// Manifest is the decoded content of one runs file.
type Manifest struct {
	Runs []*Run `hcl:"run,block"`
}

// Run looks up a declared run by name.
func (m *Manifest) Run(name string) (*Run, bool) {
	for _, r := range m.Runs {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Names returns the declared run names in file order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Runs))
	for i, r := range m.Runs {
		names[i] = r.Name
	}
	return names
}

// Load parses and validates a runs manifest file.
func Load(ctx context.Context, path string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse runs manifest: %w", diags)
	}

	var manifest Manifest
	if diags := gohcl.DecodeBody(file.Body, &hcl.EvalContext{}, &manifest); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode runs manifest: %w", diags)
	}
	if err := validate(&manifest); err != nil {
		return nil, err
	}

	logger.Debug("Runs manifest loaded.", "path", path, "runs", len(manifest.Runs))
	return &manifest, nil
}

func validate(m *Manifest) error {
	seen := make(map[string]bool, len(m.Runs))
	for _, r := range m.Runs {
		if seen[r.Name] {
			return fmt.Errorf("duplicate run name %q in manifest", r.Name)
		}
		seen[r.Name] = true

		if r.Mode != "train" && r.Mode != "sample" {
			return fmt.Errorf("run %q: mode must be 'train' or 'sample', got %q", r.Name, r.Mode)
		}
		if r.SaveDir == "" {
			return fmt.Errorf("run %q: save_dir is required", r.Name)
		}
		if len(r.GinFiles) == 0 {
			return fmt.Errorf("run %q: gin_files must not be empty", r.Name)
		}
	}
	return nil
}
