// Package cache specializes a repository for expiring items.
//
// Every item carries an expiration instant. Adding an item without one sets
// it to now + item duration, and every successful ItemForKey "touches" the
// item, pushing its expiration another item duration into the future, so
// frequently read items survive.
//
// Expired items are NOT removed automatically: call Compact when it suits
// the application (e.g. on shutdown or when leaving a screen). Like the
// repository, a Cache is not safe for concurrent use.
package cache

import (
	"errors"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/cellar/pkg/core"
	"github.com/aretw0/cellar/pkg/repository"
)

// DefaultItemDuration is used when no item duration is given: one week.
const DefaultItemDuration = 7 * 24 * time.Hour

// Cache is a Repository of expiring items.
type Cache[T core.CacheItem] struct {
	*repository.Repository[T]
	itemDuration time.Duration
}

// New creates an empty cache. A zero itemDuration selects
// DefaultItemDuration. Caches default to the user cache directory;
// repository.WithBaseDir overrides it.
//
// Items loaded by Reload without an expiration get now + item duration
// before ReloadComplete runs.
func New[T core.CacheItem](converter core.Converter[T], itemDuration time.Duration, opts ...repository.Option) (*Cache[T], error) {
	if converter == nil {
		return nil, errors.New("cache requires a converter")
	}
	if itemDuration < 0 {
		return nil, errors.New("cache item duration cannot be negative")
	}
	if itemDuration == 0 {
		itemDuration = DefaultItemDuration
	}

	c := &Cache[T]{itemDuration: itemDuration}

	opts = append([]repository.Option{repository.WithCacheStorage(true)}, opts...)
	repo, err := repository.New[T](&stampingConverter[T]{inner: converter, cache: c}, opts...)
	if err != nil {
		return nil, err
	}
	c.Repository = repo

	return c, nil
}

// stampingConverter gives items decoded without an expiration
// now + item duration, so reload hooks already see the final value.
type stampingConverter[T core.CacheItem] struct {
	inner core.Converter[T]
	cache *Cache[T]
}

func (s *stampingConverter[T]) FromRecord(rec core.Record) (T, error) {
	item, err := s.inner.FromRecord(rec)
	if err != nil || core.IsNil(item) {
		return item, err
	}
	if item.ExpiresAt().IsZero() {
		item.SetExpiresAt(s.cache.deadline())
	}
	return item, nil
}

func (s *stampingConverter[T]) ToRecord(item T) (core.Record, error) {
	return s.inner.ToRecord(item)
}

// ItemDuration returns the lifetime granted on insert and on every touch.
func (c *Cache[T]) ItemDuration() time.Duration {
	return c.itemDuration
}

// AddItem sets the expiration of item to now + item duration when unset,
// then adds it like Repository.AddItem. A vetoed item is left as it was.
func (c *Cache[T]) AddItem(item T) error {
	if err := c.validate(item); err != nil {
		return err
	}
	stamped := item.ExpiresAt().IsZero()
	if stamped {
		item.SetExpiresAt(c.deadline())
	}
	err := c.Repository.AddItem(item)
	if stamped && errors.Is(err, core.ErrVetoed) {
		item.SetExpiresAt(time.Time{})
	}
	return err
}

// ItemForKey returns the item stored under key and touches it.
func (c *Cache[T]) ItemForKey(key string) (T, bool) {
	item, ok := c.Repository.ItemForKey(key)
	if ok {
		item.SetExpiresAt(c.deadline())
	}
	return item, ok
}

// Compact removes every item whose expiration is at or before the moment
// Compact is called and returns how many were removed. Removal goes through
// RemoveItemWithKey, so remove hooks fire. Nothing is persisted: call Flush.
func (c *Cache[T]) Compact() int {
	now := c.Now()

	var expired []string
	for _, item := range c.AllItems() {
		if !item.ExpiresAt().After(now) {
			expired = append(expired, item.Key())
		}
	}

	for _, key := range expired {
		c.RemoveItemWithKey(key)
	}
	c.Logger().Debug("compacted", "evicted", len(expired), "remaining", c.ItemCount())
	return len(expired)
}

func (c *Cache[T]) deadline() time.Time {
	return c.Now().Add(c.itemDuration)
}

// validate rejects items the repository would reject before the cache
// touches their expiration.
func (c *Cache[T]) validate(item T) error {
	if core.IsNil(item) {
		return core.ErrNilItem
	}
	if item.Key() == "" {
		return core.ErrEmptyKey
	}
	return nil
}

// CacheState exposes internal state for observability.
type CacheState struct {
	repository.RepositoryState
	ItemDuration string `json:"item_duration"`
}

// State implements introspection.Introspectable.
func (c *Cache[T]) State() any {
	return CacheState{
		RepositoryState: c.Snapshot(),
		ItemDuration:    c.itemDuration.String(),
	}
}

// ComponentType implements introspection.Component.
func (c *Cache[T]) ComponentType() string {
	return "cache"
}

var (
	_ core.Store[core.CacheItem]   = (*Cache[core.CacheItem])(nil)
	_ core.Compactor               = (*Cache[core.CacheItem])(nil)
	_ introspection.Introspectable = (*Cache[core.CacheItem])(nil)
	_ introspection.Component      = (*Cache[core.CacheItem])(nil)
)
