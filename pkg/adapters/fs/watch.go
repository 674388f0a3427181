package fs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// EventType represents the kind of change observed on an index file.
type EventType string

const (
	EventWrite  EventType = "WRITE"
	EventRemove EventType = "REMOVE"
)

// Event reports a change of an index file made by any writer, including the
// repository itself. Watching never reloads anything: the receiver decides.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Path)
}

// Watch observes the index file at path until ctx is cancelled.
// The parent directory must exist. The returned channel is closed when
// watching stops.
func Watch(ctx context.Context, path string, logger *slog.Logger) (<-chan Event, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	target := filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Atomic writes replace the file, so the directory is watched instead.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	events := make(chan Event)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != target {
					continue
				}

				eType := mapEventType(event)
				if eType == "" {
					continue
				}
				logger.Debug("index changed", "path", target, "op", event.Op.String())

				select {
				case events <- Event{Type: eType, Path: target, Timestamp: time.Now().Unix()}:
				case <-ctx.Done():
					return nil
				}

			case wErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Error("fsnotify error", "error", wErr)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		logger.Error("index watcher panic", "error", err)
	}))

	return events, nil
}

func mapEventType(event fsnotify.Event) EventType {
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return EventRemove
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return EventWrite
	default:
		return ""
	}
}
