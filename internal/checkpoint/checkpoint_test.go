package checkpoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCheckpoint(t *testing.T, dir string, step string) {
	t.Helper()
	for _, suffix := range []string{".index", ".data-00000-of-00001"} {
		path := filepath.Join(dir, "ckpt-"+step+suffix)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeCheckpoint(t, dir, "4000")
	writeCheckpoint(t, dir, "300")
	writeCheckpoint(t, dir, "8000")
	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "operative_config-300.gin"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.out"), []byte("x"), 0644))

	checkpoints, err := List(dir)
	require.NoError(t, err)
	require.Len(t, checkpoints, 3)

	// Numeric ordering, not lexicographic.
	assert.Equal(t, 300, checkpoints[0].Step)
	assert.Equal(t, 4000, checkpoints[1].Step)
	assert.Equal(t, 8000, checkpoints[2].Step)
	assert.Len(t, checkpoints[0].Files, 2)
	assert.Equal(t, filepath.Join(dir, "ckpt-300"), checkpoints[0].Prefix(dir))
}

func TestList_EmptyDir(t *testing.T) {
	checkpoints, err := List(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, checkpoints)
}

func TestList_MissingDir(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()

	_, ok, err := Latest(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	writeCheckpoint(t, dir, "300")
	writeCheckpoint(t, dir, "600")

	latest, ok, err := Latest(dir)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 600, latest.Step)
}

func TestJanitor_Sweep(t *testing.T) {
	dir := t.TempDir()
	for _, step := range []string{"300", "600", "900", "1200"} {
		writeCheckpoint(t, dir, step)
	}

	janitor, err := NewJanitor(dir, 2)
	require.NoError(t, err)
	defer janitor.Stop()

	require.NoError(t, janitor.Sweep(context.Background()))

	checkpoints, err := List(dir)
	require.NoError(t, err)
	require.Len(t, checkpoints, 2)
	assert.Equal(t, 900, checkpoints[0].Step)
	assert.Equal(t, 1200, checkpoints[1].Step)

	// Sweeping an already pruned directory is a no-op.
	require.NoError(t, janitor.Sweep(context.Background()))
}

func TestJanitor_SweepUnderKeep(t *testing.T) {
	dir := t.TempDir()
	writeCheckpoint(t, dir, "300")

	janitor, err := NewJanitor(dir, 10)
	require.NoError(t, err)
	defer janitor.Stop()

	require.NoError(t, janitor.Sweep(context.Background()))

	checkpoints, err := List(dir)
	require.NoError(t, err)
	assert.Len(t, checkpoints, 1)
}

func TestJanitor_StartSweepsExisting(t *testing.T) {
	dir := t.TempDir()
	for _, step := range []string{"300", "600", "900"} {
		writeCheckpoint(t, dir, step)
	}

	janitor, err := NewJanitor(dir, 1)
	require.NoError(t, err)

	require.NoError(t, janitor.Start(context.Background()))
	defer janitor.Stop()

	checkpoints, err := List(dir)
	require.NoError(t, err)
	require.Len(t, checkpoints, 1)
	assert.Equal(t, 900, checkpoints[0].Step)
}

func TestNewJanitor_RejectsNonPositiveKeep(t *testing.T) {
	_, err := NewJanitor(t.TempDir(), 0)
	require.Error(t, err)
}
