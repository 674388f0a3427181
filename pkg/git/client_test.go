package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	client := NewClient(t.TempDir(), nil)
	require.NoError(t, client.Init())
	return client
}

func TestClient_Init(t *testing.T) {
	client := newTestClient(t)

	assert.True(t, client.IsRepo())
	_, err := os.Stat(filepath.Join(client.WorkDir, ".git"))
	assert.NoError(t, err)
}

func TestClient_CommitLifecycle(t *testing.T) {
	client := newTestClient(t)
	file := "Users-Default-Index"
	path := filepath.Join(client.WorkDir, file)

	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))
	assert.False(t, client.IsTracked(file))

	changed, err := client.HasChanges(file)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, client.Add(file))
	require.NoError(t, client.Commit("flush Users-Default"))
	assert.True(t, client.IsTracked(file))

	changed, err = client.HasChanges(file)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, client.Rm(file))
	require.NoError(t, client.Commit("destroy Users-Default"))
	assert.False(t, client.IsTracked(file))

	history, err := client.Log()
	require.NoError(t, err)
	assert.Equal(t, []string{"destroy Users-Default", "flush Users-Default"}, history)
}

func TestWithIdentity_RespectsEnvironment(t *testing.T) {
	env := withIdentity([]string{"GIT_AUTHOR_NAME=someone"})

	assert.Contains(t, env, "GIT_AUTHOR_NAME=someone")
	assert.NotContains(t, env, "GIT_AUTHOR_NAME="+DefaultAuthorName)
	assert.Contains(t, env, "GIT_COMMITTER_EMAIL="+DefaultAuthorEmail)
}
