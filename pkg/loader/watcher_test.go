package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextEvent(t *testing.T, events <-chan WatchEvent) WatchEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return WatchEvent{}
	}
}

func TestWatcher_ReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	w := NewWatcher(path, 10*time.Millisecond)
	events := w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("a: 1\nb: 2\n"), 0o600))
	ev := nextEvent(t, events)
	assert.Equal(t, EventModified, ev.Type)
	assert.Equal(t, path, ev.Path)
	assert.NoError(t, ev.Error)

	require.NoError(t, os.Remove(path))
	assert.Equal(t, EventDeleted, nextEvent(t, events).Type)

	require.NoError(t, os.WriteFile(path, []byte("c: 3\n"), 0o600))
	assert.Equal(t, EventCreated, nextEvent(t, events).Type)
}

func TestWatcher_StopClosesChannelAndRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	w := NewWatcher(path, 0)
	assert.Equal(t, DefaultWatchInterval, w.interval)

	events := w.Start()
	assert.Equal(t, events, w.Start(), "second start returns the same channel")
	w.Stop()
	_, open := <-events
	assert.False(t, open)
	w.Stop()

	events = w.Start()
	assert.NotNil(t, events)
	w.Stop()
}
