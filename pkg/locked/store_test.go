package locked_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cellar/pkg/cache"
	"github.com/aretw0/cellar/pkg/core"
	"github.com/aretw0/cellar/pkg/document"
	"github.com/aretw0/cellar/pkg/locked"
	"github.com/aretw0/cellar/pkg/repository"
)

func TestStore_ConcurrentAdds(t *testing.T) {
	repo, err := repository.New[*document.Document](document.Converter{}, repository.WithBaseDir(t.TempDir()))
	require.NoError(t, err)
	store := locked.New[*document.Document](repo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				key := fmt.Sprintf("k-%d-%d", i, j)
				assert.NoError(t, store.AddItem(document.New(key, nil)))
				_, _ = store.ItemForKey(key)
				_ = store.AllItems()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1000, store.ItemCount())
	require.NoError(t, store.Flush())
	require.NoError(t, store.Reload())
	assert.Equal(t, 1000, store.ItemCount())
}

func TestStore_CompactDelegates(t *testing.T) {
	now := time.Unix(0, 0)
	c, err := cache.New[*document.Document](document.Converter{}, time.Minute,
		repository.WithBaseDir(t.TempDir()),
		repository.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)
	store := locked.New[*document.Document](c)

	require.NoError(t, store.AddItem(document.New("a", nil)))
	now = now.Add(time.Minute)
	assert.Equal(t, 1, store.Compact())
	assert.False(t, store.HasItemWithKey("a"))
}

func TestStore_CompactWithoutSupport(t *testing.T) {
	repo, err := repository.New[*document.Document](document.Converter{}, repository.WithBaseDir(t.TempDir()))
	require.NoError(t, err)
	store := locked.New[*document.Document](repo)

	require.NoError(t, store.AddItem(document.New("a", nil)))
	assert.Equal(t, 0, store.Compact())
	assert.Equal(t, 1, store.ItemCount())
}

func TestStore_Do(t *testing.T) {
	repo, err := repository.New[*document.Document](document.Converter{}, repository.WithBaseDir(t.TempDir()))
	require.NoError(t, err)
	store := locked.New[*document.Document](repo)

	err = store.Do(func(s core.Store[*document.Document]) error {
		if s.HasItemWithKey("a") {
			return nil
		}
		return s.AddItem(document.New("a", nil))
	})
	require.NoError(t, err)
	assert.True(t, store.HasItemWithKey("a"))

	store.RemoveItemWithKey("a")
	require.NoError(t, store.Destroy())
	assert.Equal(t, 0, store.ItemCount())
}
