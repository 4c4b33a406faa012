package workflowstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/wasmer-pipeline/application/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".github", "workflows", "deploy.yml")
	store := NewFileStore(WithPath(path))

	assert.False(t, store.Exists())
	w, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, w)

	require.NoError(t, store.Save(workflow.Generate()))
	assert.True(t, store.Exists())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	w, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Deploy", w.Name)
	assert.Equal(t, "ubuntu-latest", w.Jobs["deploy"].RunsOn)
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, workflow.DefaultFileName, NewFileStore().Path())
	assert.Equal(t, workflow.DefaultFileName, NewFileStore(WithPath("")).Path())
}

func TestFileStore_LoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.yml")
	require.NoError(t, os.WriteFile(path, []byte("jobs: ["), 0o600))

	_, err := NewFileStore(WithPath(path)).Load()
	assert.Error(t, err)
}
