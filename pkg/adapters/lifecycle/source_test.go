package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cellar/pkg/adapters/fs"
)

func TestSource_ForwardsAndCloses(t *testing.T) {
	in := make(chan fs.Event, 1)
	src := NewSource(in)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, src.Start(ctx))

	in <- fs.Event{Type: fs.EventWrite, Path: "/tmp/Users-Default-Index"}

	select {
	case e := <-src.Events():
		assert.Equal(t, "WRITE /tmp/Users-Default-Index", e.String())
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}

	close(in)
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "output must close with the input")
	case <-ctx.Done():
		t.Fatal("timed out waiting for close")
	}
}

func TestSource_StopsOnCancel(t *testing.T) {
	src := NewSource(make(chan fs.Event))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("source did not stop")
	}
}

func TestSource_QuietPeriodCoalescesBursts(t *testing.T) {
	in := make(chan fs.Event, 3)
	src := NewSource(in, WithQuietPeriod(50*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, src.Start(ctx))

	in <- fs.Event{Type: fs.EventWrite, Path: "/tmp/Users-Default-Index"}
	in <- fs.Event{Type: fs.EventWrite, Path: "/tmp/Users-Default-Index"}
	in <- fs.Event{Type: fs.EventRemove, Path: "/tmp/Users-Default-Index"}

	select {
	case e := <-src.Events():
		assert.Equal(t, "REMOVE /tmp/Users-Default-Index", e.String())
	case <-ctx.Done():
		t.Fatal("timed out waiting for coalesced event")
	}

	select {
	case e := <-src.Events():
		t.Fatalf("burst must produce a single event, got another: %v", e)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSource_DeliversPendingOnClose(t *testing.T) {
	in := make(chan fs.Event, 1)
	src := NewSource(in, WithQuietPeriod(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, src.Start(ctx))

	in <- fs.Event{Type: fs.EventWrite, Path: "/tmp/Users-Default-Index"}
	close(in)

	var got []string
	for e := range src.Events() {
		got = append(got, e.String())
	}
	assert.Equal(t, []string{"WRITE /tmp/Users-Default-Index"}, got)
}
