package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a settings change notification.
type EventType int

const (
	// EventEndpointChanged indicates the cached gateway URL was rewritten,
	// possibly by another frota process.
	EventEndpointChanged EventType = iota

	// EventSettingsInvalidated signals a change that could not be classified;
	// callers should re-read everything they cache.
	EventSettingsInvalidated
)

// Event is emitted by Settings.Watch when underlying storage changes.
type Event struct {
	Type EventType
	Key  string
}

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel to avoid blocking the watcher. The channel is closed once
// ctx is done or the watcher encounters an unrecoverable error.
func (s *settings) Watch(ctx context.Context) (<-chan Event, error) {
	if s.basePath == "" {
		return nil, errors.New("store: settings base path unknown")
	}
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
			}
		})
	}

	if err := watcher.Add(s.basePath); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", s.basePath, err)
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer closeWatcher()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// Consumer busy; the next event triggers the same re-read.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.Enqueue(Event{Type: EventSettingsInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				key := s.keyForPath(evt.Name)
				switch key {
				case endpointKey:
					throttle.Enqueue(Event{Type: EventEndpointChanged, Key: key}, send)
				case "":
					throttle.Enqueue(Event{Type: EventSettingsInvalidated}, send)
				default:
					// diskv writes through temp files; ignore them.
				}
			}
		}
	}()

	return events, nil
}

// keyForPath derives the diskv key from a file path under the base path.
func (s *settings) keyForPath(path string) string {
	rel, err := filepath.Rel(s.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.Base(rel)
}

// eventThrottle coalesces rapid change notifications so listeners refresh
// once per burst of filesystem activity instead of on every single write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]map[string]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	if t.pending[ev.Type] == nil {
		t.pending[ev.Type] = make(map[string]struct{})
	}
	t.pending[ev.Type][ev.Key] = struct{}{}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[EventType]map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	for eventType, keys := range pending {
		for key := range keys {
			send(Event{Type: eventType, Key: key})
		}
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
