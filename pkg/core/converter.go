package core

import "fmt"

// Converter maps items to and from Records.
//
// FromRecord is used while reloading the index, ToRecord while flushing it.
// ToRecord may return ErrNotSerializable (possibly wrapped) to mark an item
// as unsupported; how that is handled is up to the repository.
type Converter[T Item] interface {
	FromRecord(rec Record) (T, error)
	ToRecord(item T) (Record, error)
}

// ConverterFunc builds a Converter from a decode function. Encoding
// delegates to the item's RecordMarshaler implementation and reports
// ErrNotSerializable for items that lack one.
func ConverterFunc[T Item](fromRecord func(Record) (T, error)) Converter[T] {
	return funcConverter[T]{from: fromRecord}
}

type funcConverter[T Item] struct {
	from func(Record) (T, error)
}

func (c funcConverter[T]) FromRecord(rec Record) (T, error) {
	if c.from == nil {
		var zero T
		return zero, fmt.Errorf("no record decoder configured")
	}
	return c.from(rec)
}

func (c funcConverter[T]) ToRecord(item T) (Record, error) {
	m, ok := any(item).(RecordMarshaler)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotSerializable, item)
	}
	return m.ToRecord()
}
