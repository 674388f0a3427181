package repository

import (
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/cellar/pkg/core"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Name       string     `json:"name"`
	Identifier string     `json:"identifier"`
	IndexPath  string     `json:"index_path"`
	Format     string     `json:"format"`
	ItemCount  int        `json:"item_count"`
	Permissive bool       `json:"permissive"`
	Versioned  bool       `json:"versioned"`
	LastReload *time.Time `json:"last_reload,omitempty"`
	LastFlush  *time.Time `json:"last_flush,omitempty"`
}

// Snapshot returns the current state as a typed value.
func (r *Repository[T]) Snapshot() RepositoryState {
	return RepositoryState{
		Name:       r.name,
		Identifier: r.identifier,
		IndexPath:  r.IndexPath(),
		Format:     r.index.Serializer.Name(),
		ItemCount:  len(r.entries),
		Permissive: r.permissive,
		Versioned:  r.git != nil,
		LastReload: r.lastReload,
		LastFlush:  r.lastFlush,
	}
}

// State implements introspection.Introspectable.
func (r *Repository[T]) State() any {
	return r.Snapshot()
}

// ComponentType implements introspection.Component.
func (r *Repository[T]) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository[core.Item])(nil)
var _ introspection.Component = (*Repository[core.Item])(nil)
