// Package core holds the domain contracts shared by repositories and caches.
//
// It performs no I/O: persistence lives in the adapters, the in-memory
// mapping lives in the repository package.
package core

import (
	"reflect"
	"time"
)

// Record is the serialization-neutral representation of an item.
//
// Values are restricted to strings, numbers, booleans, ordered sequences
// ([]any) and nested records (Record or map[string]any). Cycles are not
// supported.
type Record map[string]any

// Item is a uniquely keyed value managed by a repository.
type Item interface {
	// Key is the primary key. It must be non-empty and must not change
	// while the item is stored.
	Key() string
}

// CacheItem is an Item that carries an expiration instant.
// A zero time means the expiration is unset.
type CacheItem interface {
	Item
	ExpiresAt() time.Time
	SetExpiresAt(t time.Time)
}

// RecordMarshaler is implemented by items that know how to convert
// themselves to a Record.
type RecordMarshaler interface {
	ToRecord() (Record, error)
}

// AsRecord reports whether v is a nested record and returns it as a Record.
// Decoders produce map[string]any for nested values, so converters should
// use this rather than a plain type assertion.
func AsRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	default:
		return nil, false
	}
}

// IsNil reports whether v is nil or a nil pointer, map, slice, channel,
// function or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
