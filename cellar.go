package cellar

import (
	"log/slog"
	"time"

	"github.com/aretw0/cellar/internal/platform"
	"github.com/aretw0/cellar/pkg/adapters/fs"
	"github.com/aretw0/cellar/pkg/cache"
	"github.com/aretw0/cellar/pkg/core"
	"github.com/aretw0/cellar/pkg/document"
	"github.com/aretw0/cellar/pkg/locked"
	"github.com/aretw0/cellar/pkg/repository"
	"github.com/aretw0/cellar/pkg/typed"
)

// --- Types ---

// Item is anything stored in a repository.
type Item = core.Item

// CacheItem is an item with an expiration instant.
type CacheItem = core.CacheItem

// Record is the serialized form of an item.
type Record = core.Record

// Hooks observe and veto repository mutations.
type Hooks[T Item] = core.Hooks[T]

// NopHooks is embeddable in partial Hooks implementations.
type NopHooks[T Item] = core.NopHooks[T]

// Converter maps items to records and back.
type Converter[T Item] = core.Converter[T]

// Repository is a public alias for the keyed, file-backed repository.
type Repository[T Item] = repository.Repository[T]

// Cache is a public alias for the expiring repository.
type Cache[T CacheItem] = cache.Cache[T]

// Document is a public alias for the schemaless item.
type Document = document.Document

// --- Errors ---

var (
	ErrEmptyKey        = core.ErrEmptyKey
	ErrNilItem         = core.ErrNilItem
	ErrVetoed          = core.ErrVetoed
	ErrNotSerializable = core.ErrNotSerializable
	ErrCorruptIndex    = core.ErrCorruptIndex
)

// --- Configuration ---

// Option defines a functional option for configuring repositories and caches.
type Option = repository.Option

// DefaultIdentifier is used when no identifier is configured.
const DefaultIdentifier = repository.DefaultIdentifier

// DefaultItemDuration is the item lifetime of caches created with a zero duration.
const DefaultItemDuration = cache.DefaultItemDuration

// WithIdentifier selects the index file of the repository.
func WithIdentifier(id string) Option {
	return repository.WithIdentifier(id)
}

// WithName overrides the repository name (defaults to the item type name).
func WithName(name string) Option {
	return repository.WithName(name)
}

// WithBaseDir sets the base storage directory.
func WithBaseDir(dir string) Option {
	return repository.WithBaseDir(dir)
}

// WithYAML stores the index as YAML instead of JSON. Numbers are loaded
// as json.Number, like the default JSON format.
func WithYAML() Option {
	return repository.WithSerializer(fs.NewYAMLSerializer(true))
}

// WithSerializer selects a custom index format.
func WithSerializer(s fs.Serializer) Option {
	return repository.WithSerializer(s)
}

// WithHooks registers mutation hooks.
func WithHooks[T Item](h Hooks[T]) Option {
	return repository.WithHooks[T](h)
}

// WithPermissive makes Flush skip unserializable items instead of failing.
func WithPermissive(permissive bool) Option {
	return repository.WithPermissive(permissive)
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return repository.WithLogger(logger)
}

// WithVersioning enables or disables Git versioning of the index file.
func WithVersioning(enabled bool) Option {
	return repository.WithVersioning(enabled)
}

// WithDevSafety controls sandboxing of default directories under go run / go test.
func WithDevSafety(enabled bool) Option {
	return repository.WithDevSafety(enabled)
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return repository.WithClock(now)
}

// --- Converters ---

// TypedConverter converts JSON-encodable items.
func TypedConverter[T Item]() Converter[T] {
	return typed.NewConverter[T]()
}

// DocumentConverter converts documents using the given record field names.
// Empty names select "key" and "expiresAt".
func DocumentConverter(keyField, expiresField string) Converter[*Document] {
	return document.Converter{KeyField: keyField, ExpiresField: expiresField}
}

// NewDocument creates a schemaless item.
func NewDocument(key string, fields Record) *Document {
	return document.New(key, fields)
}

// --- Factories ---

// NewRepository creates an empty repository without touching the disk.
func NewRepository[T Item](converter Converter[T], opts ...Option) (*Repository[T], error) {
	return repository.New(converter, opts...)
}

// OpenRepository creates a repository and loads its index file.
func OpenRepository[T Item](converter Converter[T], opts ...Option) (*Repository[T], error) {
	repo, err := repository.New(converter, opts...)
	if err != nil {
		return nil, err
	}
	if err := repo.Reload(); err != nil {
		return nil, err
	}
	return repo, nil
}

// NewCache creates an empty cache without touching the disk.
func NewCache[T CacheItem](converter Converter[T], itemDuration time.Duration, opts ...Option) (*Cache[T], error) {
	return cache.New(converter, itemDuration, opts...)
}

// OpenCache creates a cache and loads its index file.
func OpenCache[T CacheItem](converter Converter[T], itemDuration time.Duration, opts ...Option) (*Cache[T], error) {
	c, err := cache.New(converter, itemDuration, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Locked wraps a repository or cache for use from several goroutines.
func Locked[T Item](store core.Store[T]) *locked.Store[T] {
	return locked.New(store)
}

// --- Safety & Utils ---

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// DefaultDataDir is the base directory of repositories created without WithBaseDir.
func DefaultDataDir() string {
	return platform.DefaultDataDir(true)
}

// DefaultCacheDir is the base directory of caches created without WithBaseDir.
func DefaultCacheDir() string {
	return platform.DefaultCacheDir(true)
}
