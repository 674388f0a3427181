// Package document provides a schemaless item: a key, free-form fields and
// an optional expiration instant.
package document

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"time"

	"github.com/aretw0/cellar/pkg/core"
)

// Default record field names.
const (
	DefaultKeyField     = "key"
	DefaultExpiresField = "expiresAt"
)

// Document is a generic item usable with both repositories and caches.
type Document struct {
	ID      string
	Fields  core.Record
	Expires time.Time
}

// New creates a document. Fields may be nil.
func New(id string, fields core.Record) *Document {
	if fields == nil {
		fields = make(core.Record)
	}
	return &Document{ID: id, Fields: fields}
}

func (d *Document) Key() string { return d.ID }

func (d *Document) ExpiresAt() time.Time { return d.Expires }

func (d *Document) SetExpiresAt(t time.Time) { d.Expires = t }

// ToRecord uses the default field names.
func (d *Document) ToRecord() (core.Record, error) {
	return Converter{}.ToRecord(d)
}

// Converter maps documents to records. Zero values select the default
// field names.
type Converter struct {
	KeyField     string
	ExpiresField string
}

func (c Converter) keyField() string {
	if c.KeyField == "" {
		return DefaultKeyField
	}
	return c.KeyField
}

func (c Converter) expiresField() string {
	if c.ExpiresField == "" {
		return DefaultExpiresField
	}
	return c.ExpiresField
}

// ToRecord copies the fields and adds the key and, when set, the
// expiration as an RFC 3339 string.
//
// The key and expiration field names are reserved: a document whose Fields
// use them is reported as core.ErrNotSerializable instead of losing data.
func (c Converter) ToRecord(d *Document) (core.Record, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil document", core.ErrNotSerializable)
	}
	for _, reserved := range []string{c.keyField(), c.expiresField()} {
		if _, ok := d.Fields[reserved]; ok {
			return nil, fmt.Errorf("%w: document %q: field %q is reserved", core.ErrNotSerializable, d.ID, reserved)
		}
	}

	rec := make(core.Record, len(d.Fields)+2)
	maps.Copy(rec, d.Fields)
	rec[c.keyField()] = d.ID
	if !d.Expires.IsZero() {
		rec[c.expiresField()] = d.Expires.UTC().Format(time.RFC3339Nano)
	}
	return rec, nil
}

// FromRecord extracts the key and expiration; every other field is kept
// as is.
func (c Converter) FromRecord(rec core.Record) (*Document, error) {
	key, err := keyString(rec[c.keyField()])
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", c.keyField(), err)
	}

	d := New(key, nil)
	for k, v := range rec {
		switch k {
		case c.keyField():
		case c.expiresField():
			t, err := parseTime(v)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			d.Expires = t
		default:
			d.Fields[k] = v
		}
	}
	return d, nil
}

// parseTime accepts RFC 3339 strings and, for hand-edited YAML where
// timestamps are left unquoted, time.Time values.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case time.Time:
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("expected timestamp, got %T", v)
	}
}

// keyString accepts string keys and integral numeric keys, which is what
// CSV-born or hand-edited index files tend to contain.
func keyString(v any) (string, error) {
	switch k := v.(type) {
	case string:
		return k, nil
	case json.Number:
		return k.String(), nil
	case int:
		return strconv.Itoa(k), nil
	case float64:
		if k == float64(int64(k)) {
			return strconv.FormatInt(int64(k), 10), nil
		}
		return "", fmt.Errorf("non-integral numeric key %v", k)
	case nil:
		return "", core.ErrEmptyKey
	default:
		return "", fmt.Errorf("unsupported key type %T", v)
	}
}

var (
	_ core.CacheItem            = (*Document)(nil)
	_ core.RecordMarshaler      = (*Document)(nil)
	_ core.Converter[*Document] = Converter{}
)
