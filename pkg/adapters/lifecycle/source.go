// Package lifecycle exposes index file changes as a lifecycle event source.
package lifecycle

import (
	"context"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/cellar/pkg/adapters/fs"
)

// Option configures an index source.
type Option func(*indexSource)

// WithQuietPeriod coalesces bursts of changes: an event is emitted once no
// further event arrived for d, and only the last event of the burst is kept.
// A flush usually produces several file system notifications.
func WithQuietPeriod(d time.Duration) Option {
	return func(s *indexSource) {
		s.quiet = d
	}
}

type indexSource struct {
	in    <-chan fs.Event
	out   chan lifecycle.Event
	quiet time.Duration
}

// NewSource creates a lifecycle.Source over the events returned by
// Repository.Watch. The source ends when the watch channel closes or the
// context given to Start is done.
func NewSource(events <-chan fs.Event, opts ...Option) lifecycle.Source {
	s := &indexSource{
		in:  events,
		out: make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *indexSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *indexSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, s.forward)
	return nil
}

func (s *indexSource) forward(ctx context.Context) error {
	defer close(s.out)

	var (
		pending *fs.Event
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-s.in:
			if !ok {
				// Watching stopped: deliver what the burst left behind.
				if pending != nil {
					s.emit(ctx, *pending)
				}
				return nil
			}
			if s.quiet <= 0 {
				if !s.emit(ctx, e) {
					return nil
				}
				continue
			}
			pending = &e
			if timer == nil {
				timer = time.NewTimer(s.quiet)
			} else {
				timer.Reset(s.quiet)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			e := *pending
			pending = nil
			if !s.emit(ctx, e) {
				return nil
			}
		}
	}
}

func (s *indexSource) emit(ctx context.Context, e fs.Event) bool {
	select {
	case s.out <- e:
		return true
	case <-ctx.Done():
		return false
	}
}
