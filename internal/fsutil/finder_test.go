package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.hcl"))
	touch(t, filepath.Join(root, "a.hcl"))
	touch(t, filepath.Join(root, "nested", "c.hcl"))
	touch(t, filepath.Join(root, "notes.txt"))

	t.Run("walks directories and sorts", func(t *testing.T) {
		files, err := FindFilesByExtension(".hcl", root)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "a.hcl"),
			filepath.Join(root, "b.hcl"),
			filepath.Join(root, "nested", "c.hcl"),
		}, files)
	})

	t.Run("single file and duplicates", func(t *testing.T) {
		single := filepath.Join(root, "a.hcl")
		files, err := FindFilesByExtension(".hcl", single, single)
		require.NoError(t, err)
		assert.Equal(t, []string{single}, files)
	})

	t.Run("file with another extension is ignored", func(t *testing.T) {
		files, err := FindFilesByExtension(".hcl", filepath.Join(root, "notes.txt"))
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := FindFilesByExtension(".hcl", filepath.Join(root, "missing"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty extension panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = FindFilesByExtension("", root) })
	})
}
