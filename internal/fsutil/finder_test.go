package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	for _, name := range []string{"a.gin", "nested/b.gin", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	files, err := FindFilesByExtension(dir, ".gin")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.gin"),
		filepath.Join(dir, "nested", "b.gin"),
	}, files)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() {
		FindFilesByExtension(t.TempDir(), "")
	})
}

func TestExpandPattern(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"train.tfrecord-00000", "train.tfrecord-00001", "eval.tfrecord-00000"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	matches, err := ExpandPattern(filepath.Join(dir, "train.tfrecord-*"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	none, err := ExpandPattern(filepath.Join(dir, "missing-*"))
	require.NoError(t, err)
	assert.Empty(t, none)
}
