package picker

import (
	"sync"
	"sync/atomic"
)

type handlerEntry struct {
	fn     func()
	closed atomic.Bool
}

type subscription struct {
	once    sync.Once
	release func()
}

func (s *subscription) Close() {
	s.once.Do(s.release)
}

// Dispatcher is the subscriber table behind a Surface's events. Events
// raised while a handler runs are queued and delivered in order once that
// handler returns, so handlers never interleave.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[EventKind][]*handlerEntry
	queue    []EventKind
	draining bool
}

// Subscribe registers handler for kind.
func (d *Dispatcher) Subscribe(kind EventKind, handler func()) Subscription {
	entry := &handlerEntry{fn: handler}
	d.mu.Lock()
	if d.handlers == nil {
		d.handlers = make(map[EventKind][]*handlerEntry)
	}
	d.handlers[kind] = append(d.handlers[kind], entry)
	d.mu.Unlock()
	return &subscription{release: func() { d.remove(kind, entry) }}
}

func (d *Dispatcher) remove(kind EventKind, entry *handlerEntry) {
	entry.closed.Store(true)
	d.mu.Lock()
	defer d.mu.Unlock()
	list := d.handlers[kind]
	for i, e := range list {
		if e == entry {
			d.handlers[kind] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
}

// Count reports how many live handlers are registered for kind.
func (d *Dispatcher) Count(kind EventKind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers[kind])
}

// Emit delivers kind to its handlers. When called from inside a handler, or
// while another goroutine is delivering, the event is queued behind the one
// in flight and Emit returns immediately.
func (d *Dispatcher) Emit(kind EventKind) {
	d.mu.Lock()
	d.queue = append(d.queue, kind)
	if d.draining {
		d.mu.Unlock()
		return
	}
	d.draining = true
	d.mu.Unlock()

	finished := false
	defer func() {
		if finished {
			return
		}
		// a handler panicked: drop whatever was queued behind it
		d.mu.Lock()
		d.queue = nil
		d.draining = false
		d.mu.Unlock()
	}()

	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.draining = false
			d.mu.Unlock()
			finished = true
			return
		}
		next := d.queue[0]
		d.queue = d.queue[1:]
		snapshot := append([]*handlerEntry(nil), d.handlers[next]...)
		d.mu.Unlock()

		for _, entry := range snapshot {
			if entry.closed.Load() {
				continue
			}
			entry.fn()
		}
	}
}

// Reset drops every handler and any queued event.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, list := range d.handlers {
		for _, entry := range list {
			entry.closed.Store(true)
		}
	}
	d.handlers = nil
	d.queue = nil
}
