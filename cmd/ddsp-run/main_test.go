package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// A gin file with a syntax error panics during app.NewApp(); run()
	// must recover it into a normal error.
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "broken.gin")
	require.NoError(t, os.WriteFile(filePath, []byte("Additive.n_samples =\n"), 0600))

	args := []string{
		"--mode=train",
		"--save_dir=" + filepath.Join(tempDir, "save"),
		"--gin_file=" + filePath,
	}
	out := &bytes.Buffer{}

	err := run(out, args)
	require.Error(t, err)
	require.Contains(t, err.Error(), "application startup panicked")
	require.Contains(t, err.Error(), "failed to")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"--this-is-not-a-valid-flag"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
