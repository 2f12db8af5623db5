package gin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/samuel-clarke/ddsp/internal/config"
)

func TestFormatValue(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{"integer", "a.b = 64000", "64000"},
		{"float keeps marker", "a.b = 0.001", "0.001"},
		{"string", "a.b = 'additive'", "'additive'"},
		{"boolean", "a.b = True", "True"},
		{"none", "a.b = None", "None"},
		{"list", "a.b = [2048, 1024]", "[2048, 1024]"},
		{"tuple", "a.b = ('amps', 1)", "('amps', 1)"},
		{"single element tuple", "a.b = (1,)", "(1,)"},
		{"dict", "a.b = {'spectral': 0.5}", "{'spectral': 0.5}"},
		{"evaluated reference", "a.b = @synths.Additive()", "@synths.Additive()"},
		{"unevaluated reference", "a.b = @core.exp_sigmoid", "@core.exp_sigmoid"},
		{"macro", "a.b = %sample_rate", "%sample_rate"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			binding := parseOne(t, tc.src)
			assert.Equal(t, tc.expected, FormatValue(binding.Value))
		})
	}
}

func TestFormatModel_RoundTrip(t *testing.T) {
	src := `
import ddsp.training

sample_rate = 16000

FilteredNoise.window_size = 257
Additive.sample_rate = %sample_rate
Additive.scale_fn = @core.exp_sigmoid
Autoencoder.losses = [@losses.SpectralLoss()]
`
	file, err := ParseFile("ae.gin", src)
	require.NoError(t, err)
	model := &config.Model{}
	model.Merge(file)

	text := FormatModel(model)

	reparsed, err := ParseFile("operative.gin", text)
	require.NoError(t, err)
	remodel := &config.Model{}
	remodel.Merge(reparsed)

	assert.Equal(t, []string{"ddsp.training"}, remodel.Imports)

	macro, ok := remodel.MacroValue("sample_rate")
	require.True(t, ok)
	assert.True(t, cty.NumberIntVal(16000).RawEquals(macro.Literal))

	require.Len(t, remodel.Bindings, len(model.Bindings))
	reparsedBySelector := make(map[string]config.Value, len(remodel.Bindings))
	for _, b := range remodel.Bindings {
		reparsedBySelector[b.Selector()] = b.Value
	}
	for _, b := range model.Bindings {
		got, ok := reparsedBySelector[b.Selector()]
		require.True(t, ok, "binding %s missing after round trip", b.Selector())
		assert.Equal(t, FormatValue(b.Value), FormatValue(got))
	}
}

func TestFormatModel_SortsAndGroups(t *testing.T) {
	src := `
Trainer.learning_rate = 0.001
Additive.sample_rate = 16000
Additive.n_samples = 64000
`
	file, err := ParseFile("ae.gin", src)
	require.NoError(t, err)
	model := &config.Model{}
	model.Merge(file)

	text := FormatModel(model)
	expected := "Additive.n_samples = 64000\n" +
		"Additive.sample_rate = 16000\n" +
		"\n" +
		"Trainer.learning_rate = 0.001\n"
	assert.Equal(t, expected, text)
}
