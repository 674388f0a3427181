// Package typed converts struct items to and from records through their
// JSON representation, so item types only need `json` tags.
package typed

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/cellar/pkg/core"
)

// Converter implements core.Converter[T] for JSON-encodable items.
type Converter[T core.Item] struct{}

// NewConverter returns a converter for T. T is usually a pointer to a struct.
func NewConverter[T core.Item]() Converter[T] {
	return Converter[T]{}
}

// ToRecord marshals item to JSON and back into a Record. Items whose JSON
// form is not an object are reported as core.ErrNotSerializable.
func (Converter[T]) ToRecord(item T) (core.Record, error) {
	dataBytes, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed item: %w", err)
	}

	var rec core.Record
	if err := json.Unmarshal(dataBytes, &rec); err != nil || rec == nil {
		return nil, fmt.Errorf("%w: %T does not encode to a JSON object", core.ErrNotSerializable, item)
	}
	return rec, nil
}

// FromRecord decodes rec into a new T.
func (Converter[T]) FromRecord(rec core.Record) (T, error) {
	var item T

	dataBytes, err := json.Marshal(rec)
	if err != nil {
		return item, fmt.Errorf("record marshal failed: %w", err)
	}

	if err := json.Unmarshal(dataBytes, &item); err != nil {
		return item, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return item, nil
}
