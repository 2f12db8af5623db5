package gin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/samuel-clarke/ddsp/internal/config"
)

func writeGin(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func bindingValue(t *testing.T, model *config.Model, selector string) config.Value {
	t.Helper()
	for _, b := range model.Bindings {
		if b.Selector() == selector {
			return b.Value
		}
	}
	t.Fatalf("binding %s not found", selector)
	return config.Value{}
}

func TestLoader_MergeOrder(t *testing.T) {
	dir := t.TempDir()
	base := writeGin(t, dir, "base.gin", "Additive.n_samples = 64000\nAdditive.sample_rate = 16000\n")
	override := writeGin(t, dir, "override.gin", "Additive.n_samples = 32000\n")

	model, err := NewLoader().Load(context.Background(), base, override)
	require.NoError(t, err)

	// Later files win on conflicting parameters; untouched ones survive.
	assert.True(t, cty.NumberIntVal(32000).RawEquals(bindingValue(t, model, "Additive.n_samples").Literal))
	assert.True(t, cty.NumberIntVal(16000).RawEquals(bindingValue(t, model, "Additive.sample_rate").Literal))
	assert.Len(t, model.Bindings, 2)
}

func TestLoader_DirectoryExpandsToGinFiles(t *testing.T) {
	dir := t.TempDir()
	writeGin(t, dir, "01_base.gin", "Additive.n_samples = 64000\n")
	writeGin(t, dir, "02_override.gin", "Additive.n_samples = 32000\n")
	writeGin(t, dir, "notes.txt", "ignored\n")

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	// Files merge in lexical order, so the later one wins.
	assert.True(t, cty.NumberIntVal(32000).RawEquals(bindingValue(t, model, "Additive.n_samples").Literal))
	assert.Len(t, model.Bindings, 1)
}

func TestLoader_EmptyDirectory(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contains no .gin files")
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.gin"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read gin file")
}

func TestLoader_ParseError(t *testing.T) {
	dir := t.TempDir()
	bad := writeGin(t, dir, "bad.gin", "Additive.n_samples =\n")

	_, err := NewLoader().Load(context.Background(), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse gin file")
}

func TestLoader_LoadOverrides(t *testing.T) {
	dir := t.TempDir()
	base := writeGin(t, dir, "base.gin", "train.num_steps = 1000000\n")

	loader := NewLoader()
	model, err := loader.Load(context.Background(), base)
	require.NoError(t, err)

	err = loader.LoadOverrides(context.Background(), model,
		"train.num_steps = 30000",
		"Additive.scale_fn = @core.exp_sigmoid",
	)
	require.NoError(t, err)

	assert.True(t, cty.NumberIntVal(30000).RawEquals(bindingValue(t, model, "train.num_steps").Literal))
	assert.Equal(t, config.KindReference, bindingValue(t, model, "Additive.scale_fn").Kind)
}

func TestLoader_LoadOverrides_Invalid(t *testing.T) {
	loader := NewLoader()
	model := &config.Model{}

	testCases := []struct {
		name     string
		override string
	}{
		{"empty", ""},
		{"no value", "train.num_steps"},
		{"two bindings", "a.b = 1\nc.d = 2"},
		{"import", "import ddsp"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := loader.LoadOverrides(context.Background(), model, tc.override)
			require.Error(t, err)
		})
	}
}
