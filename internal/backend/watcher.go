// Package backend follows the directory the picker is currently listing and
// reports when its entries change, so the candidate list can be regenerated
// without a keystroke.
package backend

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicstack/tmux-popup-path/internal/logging/events"
)

const (
	// DefaultDebounce is how long a burst of changes may settle before it is
	// reported.
	DefaultDebounce = 150 * time.Millisecond
	// DefaultMinInterval bounds how often refreshes are reported.
	DefaultMinInterval = 300 * time.Millisecond
)

// Event reports changed entries in the followed directory, or a watcher
// failure.
type Event struct {
	Dir   string
	Paths []string
	Err   error
}

// Watcher wraps an fsnotify watcher that follows one directory at a time.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	throttle *throttle
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	dir     string
	stale   bool // dir itself was removed or renamed; its watch is gone
	pending map[string]struct{}

	events   chan Event
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewWatcher starts a watcher that reports settled changes after debounce
// and no more than once per minInterval.
func NewWatcher(debounce, minInterval time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		throttle: newThrottle(minInterval),
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]struct{}),
		events:   make(chan Event, 16),
	}
	w.wg.Add(1)
	go w.loop()
	go func() {
		w.wg.Wait()
		close(w.events)
	}()
	return w, nil
}

// Events returns the channel changes are published on. It is closed after
// Stop once the loop has exited.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Dir returns the directory currently followed.
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Follow switches the watch to dir. An empty dir stops following anything.
// Changes pending for the previous directory are discarded. Following a
// directory again after it was removed and recreated watches the new one.
func (w *Watcher) Follow(dir string) error {
	if dir != "" {
		dir = filepath.Clean(dir)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if dir == w.dir && !w.stale {
		return nil
	}
	if w.dir != "" && !w.stale {
		_ = w.fsw.Remove(w.dir)
	}
	w.dir = ""
	w.stale = false
	clear(w.pending)
	if dir == "" {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		events.Watch.Error(err)
		return err
	}
	w.dir = dir
	events.Watch.Follow(dir)
	return nil
}

// Stop shuts the watcher down. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.cancel()
		w.wg.Wait()
		_ = w.fsw.Close()
	})
}

// Wait blocks until the loop has exited and Events is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.record(evt)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			events.Watch.Error(err)
			if !w.emit(Event{Dir: w.Dir(), Err: err}) {
				return
			}
		case <-ticker.C:
			if evt, ok := w.flush(); ok {
				if !w.emit(evt) {
					return
				}
			}
		}
	}
}

func (w *Watcher) record(evt fsnotify.Event) {
	if evt.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dir == "" || w.stale {
		return
	}
	if evt.Name != w.dir && filepath.Dir(evt.Name) != w.dir {
		return
	}
	if evt.Name == w.dir && evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		_ = w.fsw.Remove(w.dir)
		w.stale = true
	}
	w.pending[evt.Name] = struct{}{}
}

func (w *Watcher) flush() (Event, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 || !w.throttle.allow(w.now()) {
		return Event{}, false
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	clear(w.pending)
	events.Watch.Change(w.dir, paths)
	return Event{Dir: w.dir, Paths: paths}, true
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
