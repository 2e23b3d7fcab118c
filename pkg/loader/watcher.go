package loader

import (
	"os"
	"sync"
	"time"
)

// DefaultWatchInterval is the default polling interval.
const DefaultWatchInterval = 2 * time.Second

// Event types.
const (
	EventModified = "modified"
	EventDeleted  = "deleted"
	EventCreated  = "created"
)

// WatchEvent reports a change to the watched document.
type WatchEvent struct {
	Path  string
	Type  string // "modified", "created", "deleted"
	Error error
}

type fileState struct {
	exists  bool
	modTime time.Time
	size    int64
}

func stat(path string) (fileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileState{}, nil
		}
		return fileState{}, err
	}
	return fileState{exists: true, modTime: info.ModTime(), size: info.Size()}, nil
}

// Watcher polls one file for changes to its modification time or size.
type Watcher struct {
	path     string
	interval time.Duration
	last     fileState
	stopCh   chan struct{}
	doneCh   chan struct{} // signals goroutine exit
	eventCh  chan WatchEvent
	mu       sync.Mutex
	running  bool
}

// NewWatcher creates a watcher for path. A non-positive interval selects
// DefaultWatchInterval.
func NewWatcher(path string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{path: path, interval: interval}
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Start records the current state of the file and begins polling.
// The returned channel is closed by Stop.
func (w *Watcher) Start() <-chan WatchEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return w.eventCh
	}

	w.last, _ = stat(w.path)
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.eventCh = make(chan WatchEvent, 10)
	w.running = true

	go w.watchLoop(w.stopCh, w.doneCh, w.eventCh)

	return w.eventCh
}

// Stop stops polling and closes the event channel.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}

	close(w.stopCh)
	w.running = false
	doneCh, eventCh := w.doneCh, w.eventCh
	w.mu.Unlock()

	<-doneCh
	close(eventCh)
}

func (w *Watcher) watchLoop(stopCh <-chan struct{}, doneCh chan<- struct{}, eventCh chan<- WatchEvent) {
	defer close(doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			ev, changed := w.poll()
			if !changed {
				continue
			}
			select {
			case eventCh <- ev:
			case <-stopCh:
				return
			}
		}
	}
}

func (w *Watcher) poll() (WatchEvent, bool) {
	cur, err := stat(w.path)
	if err != nil {
		return WatchEvent{Path: w.path, Error: err}, true
	}
	prev := w.last
	w.last = cur

	switch {
	case prev.exists && !cur.exists:
		return WatchEvent{Path: w.path, Type: EventDeleted}, true
	case !prev.exists && cur.exists:
		return WatchEvent{Path: w.path, Type: EventCreated}, true
	case cur.exists && (!cur.modTime.Equal(prev.modTime) || cur.size != prev.size):
		return WatchEvent{Path: w.path, Type: EventModified}, true
	}
	return WatchEvent{}, false
}
