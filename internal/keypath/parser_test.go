package keypath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  Selector
	}{
		{
			name:     "qualified configurable with param",
			raw:      "synths.Additive.n_samples",
			expected: Selector{Configurable: "synths.Additive", Param: "n_samples"},
		},
		{
			name:     "short configurable with param",
			raw:      "Additive.n_samples",
			expected: Selector{Configurable: "Additive", Param: "n_samples"},
		},
		{
			name:     "deeply qualified configurable",
			raw:      "train_util.train.num_steps",
			expected: Selector{Configurable: "train_util.train", Param: "num_steps"},
		},
		{
			name:     "dot-free input is a macro name",
			raw:      "sample_rate",
			expected: Selector{Param: "sample_rate"},
		},
		{
			name:      "error - empty string",
			raw:       "",
			expectErr: true,
		},
		{
			name:      "error - empty segment",
			raw:       "Additive..n_samples",
			expectErr: true,
		},
		{
			name:      "error - trailing dot",
			raw:       "Additive.",
			expectErr: true,
		},
		{
			name:      "error - segment starts with digit",
			raw:       "Additive.1st",
			expectErr: true,
		},
		{
			name:      "error - hyphen in segment",
			raw:       "filtered-noise.n_samples",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := ParseSelector(tc.raw)

			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sel)
			assert.Equal(t, tc.raw, sel.String())
		})
	}
}

func TestParseRoute(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  Route
	}{
		{
			name:     "conditioning key",
			raw:      "amps",
			expected: Route{Key: "amps"},
		},
		{
			name:     "node signal",
			raw:      "additive/signal",
			expected: Route{Node: "additive", Signal: "signal", Key: "additive/signal"},
		},
		{
			name:      "error - empty string",
			raw:       "",
			expectErr: true,
		},
		{
			name:      "error - too many segments",
			raw:       "a/b/c",
			expectErr: true,
		},
		{
			name:      "error - empty node",
			raw:       "/signal",
			expectErr: true,
		},
		{
			name:      "error - empty signal",
			raw:       "additive/",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			route, err := ParseRoute(tc.raw)

			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, route)
			assert.Equal(t, tc.raw, route.String())
			assert.Equal(t, tc.expected.Node == "", route.IsConditioning())
		})
	}
}

func TestMatchesSuffix(t *testing.T) {
	testCases := []struct {
		name      string
		selector  string
		qualified string
		expected  bool
	}{
		{"exact match", "synths.Additive", "synths.Additive", true},
		{"short name matches qualified", "Additive", "synths.Additive", true},
		{"partial segment does not match", "ditive", "synths.Additive", false},
		{"different configurable", "FilteredNoise", "synths.Additive", false},
		{"qualified selector against short name", "synths.Additive", "Additive", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MatchesSuffix(tc.selector, tc.qualified))
		})
	}
}
