package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cellar/pkg/cache"
	"github.com/aretw0/cellar/pkg/core"
	"github.com/aretw0/cellar/pkg/document"
	"github.com/aretw0/cellar/pkg/repository"
)

// fakeClock is a settable clock in whole seconds since the epoch.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Set(sec int64) { c.now = at(sec) }

func at(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func newUsersCache(t *testing.T, dir string, clock *fakeClock, opts ...repository.Option) *cache.Cache[*document.Document] {
	t.Helper()
	opts = append([]repository.Option{
		repository.WithBaseDir(dir),
		repository.WithIdentifier("users"),
		repository.WithClock(clock.Now),
	}, opts...)
	c, err := cache.New[*document.Document](document.Converter{}, 3600*time.Second, opts...)
	require.NoError(t, err)
	return c
}

func TestCache_TouchDefersEviction(t *testing.T) {
	clock := &fakeClock{}
	clock.Set(0)
	c := newUsersCache(t, t.TempDir(), clock)

	require.NoError(t, c.AddItem(document.New("u1", nil)))
	u1, _ := c.Repository.ItemForKey("u1")
	assert.Equal(t, at(3600), u1.ExpiresAt())

	clock.Set(1000)
	assert.Equal(t, 0, c.Compact())

	got, ok := c.ItemForKey("u1")
	require.True(t, ok)
	assert.Equal(t, at(4600), got.ExpiresAt())

	clock.Set(4599)
	assert.Equal(t, 0, c.Compact())

	clock.Set(4600)
	assert.Equal(t, 1, c.Compact())
	assert.Equal(t, 0, c.ItemCount())
}

func TestCache_CompactJustBeforeExpiry(t *testing.T) {
	clock := &fakeClock{}
	clock.Set(0)
	c := newUsersCache(t, t.TempDir(), clock)
	require.NoError(t, c.AddItem(document.New("u1", nil)))

	clock.now = at(3600).Add(-time.Millisecond)
	assert.Equal(t, 0, c.Compact())
	assert.True(t, c.HasItemWithKey("u1"))
}

func TestCache_ExplicitExpirationIsKept(t *testing.T) {
	clock := &fakeClock{}
	clock.Set(0)
	c := newUsersCache(t, t.TempDir(), clock)

	d := document.New("u1", nil)
	d.SetExpiresAt(at(10))
	require.NoError(t, c.AddItem(d))
	assert.Equal(t, at(10), d.ExpiresAt())

	clock.Set(10)
	assert.Equal(t, 1, c.Compact())
}

func TestCache_MissingKeyDoesNotTouch(t *testing.T) {
	clock := &fakeClock{}
	clock.Set(0)
	c := newUsersCache(t, t.TempDir(), clock)

	_, ok := c.ItemForKey("ghost")
	assert.False(t, ok)
}

func TestCache_InvalidItems(t *testing.T) {
	clock := &fakeClock{}
	clock.Set(0)
	c := newUsersCache(t, t.TempDir(), clock)

	assert.ErrorIs(t, c.AddItem(nil), core.ErrNilItem)
	empty := document.New("", nil)
	assert.ErrorIs(t, c.AddItem(empty), core.ErrEmptyKey)
	assert.True(t, empty.ExpiresAt().IsZero(), "rejected items are not stamped")
}

func TestCache_PersistsExpiration(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{}
	clock.Set(0)

	c := newUsersCache(t, dir, clock)
	require.NoError(t, c.AddItem(document.New("u1", core.Record{"name": "Alice"})))
	require.NoError(t, c.Flush())

	fresh := newUsersCache(t, dir, clock)
	require.NoError(t, fresh.Reload())

	u1, ok := fresh.Repository.ItemForKey("u1")
	require.True(t, ok)
	assert.True(t, u1.ExpiresAt().Equal(at(3600)))
	assert.Equal(t, "Alice", u1.Fields["name"])
}

func TestCache_ReloadStampsMissingExpiration(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{}
	clock.Set(0)

	// A plain repository writes records without any expiration field.
	repo, err := repository.New[*document.Document](document.Converter{},
		repository.WithBaseDir(dir),
		repository.WithIdentifier("users"),
	)
	require.NoError(t, err)
	require.NoError(t, repo.AddItem(document.New("u1", nil)))
	require.NoError(t, repo.Flush())

	clock.Set(500)
	c := newUsersCache(t, dir, clock)
	require.NoError(t, c.Reload())

	u1, ok := c.Repository.ItemForKey("u1")
	require.True(t, ok)
	assert.Equal(t, at(4100), u1.ExpiresAt())
}

func TestCache_ReloadCompleteSeesStampedExpiration(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{}

	repo, err := repository.New[*document.Document](document.Converter{},
		repository.WithBaseDir(dir),
		repository.WithIdentifier("users"),
	)
	require.NoError(t, err)
	require.NoError(t, repo.AddItem(document.New("u1", nil)))
	require.NoError(t, repo.Flush())

	clock.Set(500)
	hooks := &reloadRecorder{}
	c := newUsersCache(t, dir, clock, repository.WithHooks[*document.Document](hooks))
	require.NoError(t, c.Reload())

	assert.Equal(t, []time.Time{at(4100)}, hooks.expirations)
}

func TestCache_VetoedAddKeepsExpirationUnset(t *testing.T) {
	clock := &fakeClock{}
	clock.Set(0)
	c := newUsersCache(t, t.TempDir(), clock, repository.WithHooks[*document.Document](vetoAll{}))

	d := document.New("u1", nil)
	assert.ErrorIs(t, c.AddItem(d), core.ErrVetoed)
	assert.True(t, d.ExpiresAt().IsZero())

	explicit := document.New("u2", nil)
	explicit.SetExpiresAt(at(10))
	assert.ErrorIs(t, c.AddItem(explicit), core.ErrVetoed)
	assert.Equal(t, at(10), explicit.ExpiresAt())
}

func TestCache_CompactFiresRemoveHooks(t *testing.T) {
	clock := &fakeClock{}
	clock.Set(0)
	hooks := &removeCounter{}
	c := newUsersCache(t, t.TempDir(), clock, repository.WithHooks[*document.Document](hooks))

	require.NoError(t, c.AddItem(document.New("a", nil)))
	require.NoError(t, c.AddItem(document.New("b", nil)))
	fresh := document.New("c", nil)
	fresh.SetExpiresAt(at(99999))
	require.NoError(t, c.AddItem(fresh))

	clock.Set(3600)
	assert.Equal(t, 2, c.Compact())
	assert.Equal(t, []string{"a", "b"}, hooks.removed)
	assert.True(t, c.HasItemWithKey("c"))
}

func TestCache_CompactDoesNotPersist(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{}
	clock.Set(0)

	c := newUsersCache(t, dir, clock)
	require.NoError(t, c.AddItem(document.New("u1", nil)))
	require.NoError(t, c.Flush())

	clock.Set(3600)
	require.Equal(t, 1, c.Compact())

	fresh := newUsersCache(t, dir, clock)
	require.NoError(t, fresh.Reload())
	assert.Equal(t, 1, fresh.ItemCount())
}

func TestNew_Durations(t *testing.T) {
	c, err := cache.New[*document.Document](document.Converter{}, 0, repository.WithBaseDir(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, cache.DefaultItemDuration, c.ItemDuration())

	_, err = cache.New[*document.Document](document.Converter{}, -time.Second)
	assert.Error(t, err)
}

func TestCache_State(t *testing.T) {
	clock := &fakeClock{}
	clock.Set(0)
	c := newUsersCache(t, t.TempDir(), clock)
	require.NoError(t, c.AddItem(document.New("u1", nil)))

	state, ok := c.State().(cache.CacheState)
	require.True(t, ok)
	assert.Equal(t, "cache", c.ComponentType())
	assert.Equal(t, "1h0m0s", state.ItemDuration)
	assert.Equal(t, 1, state.ItemCount)
	assert.Equal(t, "users", state.Identifier)
}

type removeCounter struct {
	core.NopHooks[*document.Document]
	removed []string
}

func (h *removeCounter) DidRemoveItem(d *document.Document) {
	h.removed = append(h.removed, d.Key())
}

type reloadRecorder struct {
	core.NopHooks[*document.Document]
	expirations []time.Time
}

func (h *reloadRecorder) ReloadComplete(items []*document.Document) {
	for _, d := range items {
		h.expirations = append(h.expirations, d.ExpiresAt())
	}
}

type vetoAll struct {
	core.NopHooks[*document.Document]
}

func (vetoAll) WillAddNewItem(*document.Document) bool { return false }
