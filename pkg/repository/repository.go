// Package repository implements a keyed in-memory store persisted as a single
// index file.
//
// The in-memory mapping is the source of truth while the process runs. It is
// loaded explicitly with Reload and persisted explicitly with Flush; nothing
// is read or written behind the caller's back.
//
// A Repository is NOT safe for concurrent use. There is no locking, no
// transaction and no atomicity across calls: callers sharing a repository
// between goroutines must serialize every call (see package locked).
package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/cellar/internal/platform"
	"github.com/aretw0/cellar/pkg/adapters/fs"
	"github.com/aretw0/cellar/pkg/core"
	"github.com/aretw0/cellar/pkg/git"
)

// Repository stores items of type T keyed by Item.Key.
type Repository[T core.Item] struct {
	identifier string
	name       string
	baseDir    string
	permissive bool

	converter core.Converter[T]
	hooks     core.Hooks[T]
	index     *fs.Index
	git       *git.Client
	logger    *slog.Logger
	clock     func() time.Time

	entries map[string]T

	lastReload *time.Time
	lastFlush  *time.Time
}

// New creates an empty repository. Call Reload to load the index file.
//
// The converter is mandatory: it is the only way items enter and leave the
// index file.
func New[T core.Item](converter core.Converter[T], opts ...Option) (*Repository[T], error) {
	if converter == nil {
		return nil, errors.New("repository requires a converter")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	name := o.name
	if name == "" {
		name = typeName[T]()
	}
	if err := validateSegment("name", name); err != nil {
		return nil, err
	}
	if err := validateSegment("identifier", o.identifier); err != nil {
		return nil, err
	}

	var hooks core.Hooks[T] = core.NopHooks[T]{}
	if o.hooks != nil {
		h, ok := o.hooks.(core.Hooks[T])
		if !ok {
			return nil, fmt.Errorf("hooks of type %T do not match items of type %s", o.hooks, typeName[T]())
		}
		hooks = h
	}

	baseDir := o.baseDir
	if baseDir == "" {
		if o.cacheStorage {
			baseDir = platform.DefaultCacheDir(o.devSafety)
		} else {
			baseDir = platform.DefaultDataDir(o.devSafety)
		}
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Repository[T]{
		identifier: o.identifier,
		name:       name,
		baseDir:    baseDir,
		permissive: o.permissive,
		converter:  converter,
		hooks:      hooks,
		logger:     logger.With("repository", name, "identifier", o.identifier),
		clock:      o.clock,
		entries:    make(map[string]T),
	}
	r.index = fs.NewIndex(r.IndexPath(), o.serializer)

	if o.versioning {
		if !git.IsInstalled() {
			return nil, errors.New("versioning requires git to be installed")
		}
		r.git = git.NewClient(r.Directory(), logger)
	}

	return r, nil
}

// --- Layout ---

// Identifier returns the identifier given at construction.
func (r *Repository[T]) Identifier() string { return r.identifier }

// Name returns the repository name.
func (r *Repository[T]) Name() string { return r.name }

// BaseDir returns the base storage directory.
func (r *Repository[T]) BaseDir() string { return r.baseDir }

// Directory returns <base>/<name>. Companion files managed by hooks
// belong here too.
func (r *Repository[T]) Directory() string {
	return filepath.Join(r.baseDir, r.name)
}

// IndexPath returns <base>/<name>/<name>-<identifier>-Index.
func (r *Repository[T]) IndexPath() string {
	return filepath.Join(r.Directory(), r.indexFileName())
}

func (r *Repository[T]) indexFileName() string {
	return r.name + "-" + r.identifier + "-Index"
}

// Logger returns the repository logger.
func (r *Repository[T]) Logger() *slog.Logger {
	return r.logger
}

// Now returns the current time according to the configured clock.
func (r *Repository[T]) Now() time.Time {
	return r.clock()
}

// --- Lifecycle ---

// Reload replaces the entries with the content of the index file.
//
// A missing file yields an empty repository. If the file cannot be read or
// any record cannot be converted, the entries are left untouched and the
// error is returned. On success ReloadComplete is invoked with the loaded items.
func (r *Repository[T]) Reload() error {
	records, found, err := r.index.Load()
	if err != nil {
		r.logger.Error("reload failed", "path", r.index.Path, "error", err)
		return err
	}

	entries := make(map[string]T, len(records))
	for i, rec := range records {
		item, err := r.converter.FromRecord(rec)
		if err != nil {
			return fmt.Errorf("%w: record %d: %w", core.ErrCorruptIndex, i, err)
		}
		if core.IsNil(item) {
			return fmt.Errorf("%w: record %d: converter returned nil", core.ErrCorruptIndex, i)
		}
		key := item.Key()
		if key == "" {
			return fmt.Errorf("%w: record %d: %w", core.ErrCorruptIndex, i, core.ErrEmptyKey)
		}
		entries[key] = item
	}

	r.entries = entries
	now := r.clock()
	r.lastReload = &now
	r.logger.Debug("reloaded", "path", r.index.Path, "found", found, "count", len(entries))

	r.hooks.ReloadComplete(r.AllItems())
	return nil
}

// Flush writes all entries to the index file in one atomic write, ordered
// by key. The parent directory is created when missing.
//
// Items whose conversion fails abort the flush and nothing is written,
// unless the repository is permissive and the failure is
// core.ErrNotSerializable, in which case the item is skipped.
func (r *Repository[T]) Flush() error {
	records := make([]core.Record, 0, len(r.entries))
	skipped := 0

	for _, key := range r.sortedKeys() {
		item := r.entries[key]

		rec, err := r.converter.ToRecord(item)
		if err == nil && rec == nil {
			err = fmt.Errorf("%w: converter returned no record", core.ErrNotSerializable)
		}
		if err != nil {
			if r.permissive && errors.Is(err, core.ErrNotSerializable) {
				r.logger.Warn("item not persisted", "key", key, "error", err)
				skipped++
				continue
			}
			return fmt.Errorf("failed to convert item %q: %w", key, err)
		}
		records = append(records, rec)
	}

	if err := r.index.Save(records); err != nil {
		r.logger.Error("flush failed", "path", r.index.Path, "error", err)
		return err
	}

	now := r.clock()
	r.lastFlush = &now
	r.logger.Debug("flushed", "path", r.index.Path, "count", len(records), "skipped", skipped)

	if r.git != nil {
		if err := r.commitIndex("flush " + r.name + "-" + r.identifier); err != nil {
			return fmt.Errorf("index written but versioning failed: %w", err)
		}
	}
	return nil
}

// Destroy removes the index file and clears the entries.
// Destroying an already destroyed repository succeeds.
func (r *Repository[T]) Destroy() error {
	if err := r.index.Remove(); err != nil {
		r.logger.Error("destroy failed", "path", r.index.Path, "error", err)
		return err
	}
	r.entries = make(map[string]T)
	r.logger.Debug("destroyed", "path", r.index.Path)

	if r.git != nil && r.git.IsRepo() && r.git.IsTracked(r.indexFileName()) {
		if err := r.git.Rm(r.indexFileName()); err != nil {
			return fmt.Errorf("index removed but versioning failed: %w", err)
		}
		if err := r.git.Commit("destroy " + r.name + "-" + r.identifier); err != nil {
			return fmt.Errorf("index removed but versioning failed: %w", err)
		}
	}
	return nil
}

// Watch reports changes to the index file until ctx is done. It never
// reloads by itself.
func (r *Repository[T]) Watch(ctx context.Context) (<-chan fs.Event, error) {
	if err := os.MkdirAll(r.Directory(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create repository directory: %w", err)
	}
	return fs.Watch(ctx, r.IndexPath(), r.logger)
}

func (r *Repository[T]) commitIndex(msg string) error {
	if !r.git.IsRepo() {
		if err := r.git.Init(); err != nil {
			return err
		}
	}
	file := r.indexFileName()
	changed, err := r.git.HasChanges(file)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := r.git.Add(file); err != nil {
		return err
	}
	return r.git.Commit(msg)
}

// --- Querying ---

// ItemCount returns the number of entries in memory.
func (r *Repository[T]) ItemCount() int {
	return len(r.entries)
}

// AllItems returns a snapshot of the entries, ordered by key.
func (r *Repository[T]) AllItems() []T {
	items := make([]T, 0, len(r.entries))
	for _, key := range r.sortedKeys() {
		items = append(items, r.entries[key])
	}
	return items
}

// HasItemWithKey reports whether an item is stored under key.
func (r *Repository[T]) HasItemWithKey(key string) bool {
	_, ok := r.entries[key]
	return ok
}

// ItemForKey returns the item stored under key.
func (r *Repository[T]) ItemForKey(key string) (T, bool) {
	item, ok := r.entries[key]
	return item, ok
}

// --- Modifications ---

// AddItem inserts item, replacing any item with the same key.
//
// It returns core.ErrNilItem or core.ErrEmptyKey for invalid items and
// core.ErrVetoed when WillAddNewItem or WillReplaceItem declined. Adding
// does not persist anything: call Flush.
func (r *Repository[T]) AddItem(item T) error {
	if core.IsNil(item) {
		return core.ErrNilItem
	}
	key := item.Key()
	if key == "" {
		return core.ErrEmptyKey
	}

	if old, ok := r.entries[key]; ok {
		if !r.hooks.WillReplaceItem(old, item) {
			return fmt.Errorf("replace %q: %w", key, core.ErrVetoed)
		}
		r.entries[key] = item
		r.hooks.DidReplaceItem(old, item)
		return nil
	}

	if !r.hooks.WillAddNewItem(item) {
		return fmt.Errorf("add %q: %w", key, core.ErrVetoed)
	}
	r.entries[key] = item
	r.hooks.DidAddNewItem(item)
	return nil
}

// RemoveItemWithKey removes the item stored under key, if any.
// Removal cannot be vetoed.
func (r *Repository[T]) RemoveItemWithKey(key string) {
	item, ok := r.entries[key]
	if !ok {
		return
	}
	r.hooks.WillRemoveItem(item)
	delete(r.entries, key)
	r.hooks.DidRemoveItem(item)
}

// --- Helpers ---

func (r *Repository[T]) sortedKeys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "Repository"
	}
	// Generic instantiations carry their type arguments, e.g. "Box[int]".
	name, _, _ := strings.Cut(t.Name(), "[")
	return name
}

func validateSegment(field, value string) error {
	if value == "" {
		return fmt.Errorf("repository %s cannot be empty", field)
	}
	if strings.ContainsAny(value, `/\`) || value == "." || value == ".." {
		return fmt.Errorf("repository %s %q is not a valid path segment", field, value)
	}
	return nil
}

var _ core.Store[core.Item] = (*Repository[core.Item])(nil)
