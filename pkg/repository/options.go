package repository

import (
	"log/slog"
	"time"

	"github.com/aretw0/cellar/pkg/adapters/fs"
	"github.com/aretw0/cellar/pkg/core"
)

// DefaultIdentifier is used when no identifier is configured.
const DefaultIdentifier = "Default"

// options holds the configuration of a repository.
type options struct {
	identifier   string
	name         string
	baseDir      string
	serializer   fs.Serializer
	hooks        any
	permissive   bool
	logger       *slog.Logger
	versioning   bool
	devSafety    bool
	cacheStorage bool
	clock        func() time.Time
}

// Option defines a functional option for configuring a repository.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		identifier: DefaultIdentifier,
		devSafety:  true,
		clock:      time.Now,
	}
}

// WithIdentifier distinguishes repositories of the same kind. Each identifier
// gets its own index file.
func WithIdentifier(id string) Option {
	return func(o *options) {
		o.identifier = id
	}
}

// WithName overrides the repository name used for the storage directory and
// index filename. Defaults to the item type name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithBaseDir sets the directory under which the repository directory is created.
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
	}
}

// WithSerializer selects the index file format. Defaults to strict JSON:
// numbers are loaded as json.Number.
func WithSerializer(s fs.Serializer) Option {
	return func(o *options) {
		o.serializer = s
	}
}

// WithHooks registers mutation hooks. The hooks must be typed for the
// repository's item type; a mismatch is reported by New.
func WithHooks[T core.Item](h core.Hooks[T]) Option {
	return func(o *options) {
		o.hooks = h
	}
}

// WithPermissive makes Flush skip items whose conversion reports
// core.ErrNotSerializable instead of failing. Skipped items stay in memory
// but are not persisted; each one is logged at WARN level.
func WithPermissive(permissive bool) Option {
	return func(o *options) {
		o.permissive = permissive
	}
}

// WithLogger sets the logger. Nil discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithVersioning commits the index file to a git repository in the
// repository directory after every successful Flush and Destroy.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.versioning = enabled
	}
}

// WithDevSafety controls the sandboxing of the default base directory when
// running via `go run` or `go test`. Enabled by default. It has no effect
// when WithBaseDir is used.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithCacheStorage selects the user cache directory instead of the config
// directory as default base directory.
func WithCacheStorage(enabled bool) Option {
	return func(o *options) {
		o.cacheStorage = enabled
	}
}

// WithClock replaces time.Now. Useful for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}
