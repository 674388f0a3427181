package core

import "errors"

// Common errors.
var (
	// ErrEmptyKey is returned when an item without a key is added.
	ErrEmptyKey = errors.New("item has no key")

	// ErrNilItem is returned when a nil item is added.
	ErrNilItem = errors.New("item is nil")

	// ErrVetoed is returned by AddItem when a Will* hook declined the mutation.
	ErrVetoed = errors.New("mutation vetoed by hook")

	// ErrNotSerializable marks an item that cannot be converted to a Record.
	ErrNotSerializable = errors.New("item does not support record conversion")

	// ErrCorruptIndex is returned when the index file cannot be decoded.
	ErrCorruptIndex = errors.New("index file is corrupt")
)
