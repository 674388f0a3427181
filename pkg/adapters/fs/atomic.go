package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// partialSuffix marks the scratch copy of an index while it is being
// replaced. Scratch files are named ".<index>.partial-<random>".
const partialSuffix = ".partial-"

// partialPattern returns the os.CreateTemp pattern for the index at path.
func partialPattern(path string) string {
	return "." + filepath.Base(path) + partialSuffix + "*"
}

// replaceIndex swaps the index at path for data. The new content is fully
// written and synced to a scratch file next to the index before being
// renamed over it, so a reader (or a crash) sees either the old index or
// the new one. The parent directory must exist.
func replaceIndex(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	name := filepath.Base(path)

	scratch, err := os.CreateTemp(dir, partialPattern(path))
	if err != nil {
		return fmt.Errorf("index %s: cannot stage new content: %w", name, err)
	}
	committed := false
	defer func() {
		if !committed {
			err = errors.Join(err, os.Remove(scratch.Name()))
		}
	}()

	if _, err := scratch.Write(data); err != nil {
		scratch.Close()
		return fmt.Errorf("index %s: staging %d bytes: %w", name, len(data), err)
	}
	if err := scratch.Sync(); err != nil {
		scratch.Close()
		return fmt.Errorf("index %s: flushing staged content to disk: %w", name, err)
	}
	if err := scratch.Close(); err != nil {
		return fmt.Errorf("index %s: closing staged content: %w", name, err)
	}
	if err := os.Chmod(scratch.Name(), perm); err != nil {
		return fmt.Errorf("index %s: setting permissions: %w", name, err)
	}
	if err := os.Rename(scratch.Name(), path); err != nil {
		return fmt.Errorf("index %s: replacing previous content: %w", name, err)
	}
	committed = true

	syncDir(dir)
	return nil
}

// syncDir persists the rename itself. Some platforms cannot sync a
// directory handle; the index is already in place then, so errors are dropped.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
