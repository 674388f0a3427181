package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cellar/pkg/core"
)

func TestWatch_ReportsIndexChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Users-Default-Index")
	idx := NewIndex(path, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := Watch(ctx, path, nil)
	require.NoError(t, err)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "companion.bin"), []byte("x"), 0644))
	require.NoError(t, idx.Save([]core.Record{{"key": "u1"}}))

	select {
	case e := <-events:
		assert.Equal(t, EventWrite, e.Type)
		assert.Equal(t, path, e.Path)
	case <-ctx.Done():
		t.Fatal("timed out waiting for write event")
	}

	require.NoError(t, idx.Remove())
	for {
		select {
		case e := <-events:
			if e.Type == EventRemove {
				return
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for remove event")
		}
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	events, err := Watch(ctx, filepath.Join(dir, "Users-Default-Index"), nil)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "Index"), nil)
	assert.Error(t, err)
}
