package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/cellar/pkg/core"
)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// Index is a single index file holding an ordered sequence of records.
type Index struct {
	Path       string
	Serializer Serializer
}

// NewIndex returns an Index at path. A nil serializer selects strict JSON,
// so numbers survive a save/load cycle unchanged (as json.Number).
func NewIndex(path string, s Serializer) *Index {
	if s == nil {
		s = NewJSONSerializer(true)
	}
	return &Index{Path: path, Serializer: s}
}

// Load reads and decodes the whole file.
// A missing file is not an error: found is false and records is nil.
// Decoding failures wrap core.ErrCorruptIndex.
func (i *Index) Load() (records []core.Record, found bool, err error) {
	data, err := os.ReadFile(i.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read index: %w", err)
	}

	records, err = i.Serializer.Decode(data)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %w", core.ErrCorruptIndex, i.Path, err)
	}
	return records, true, nil
}

// Save encodes records and replaces the file in one atomic write,
// creating the parent directory when needed.
func (i *Index) Save(records []core.Record) error {
	data, err := i.Serializer.Encode(records)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(i.Path), dirPerm); err != nil {
		return fmt.Errorf("failed to create repository directory: %w", err)
	}

	if err := replaceIndex(i.Path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// Remove deletes the file. Removing a missing file succeeds.
func (i *Index) Remove() error {
	if err := os.Remove(i.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove index: %w", err)
	}
	return nil
}

// Exists reports whether the file is present on disk.
func (i *Index) Exists() bool {
	_, err := os.Stat(i.Path)
	return err == nil
}
