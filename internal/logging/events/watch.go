package events

import "github.com/atomicstack/tmux-popup-path/internal/logging"

type WatchTracer struct{}

var Watch = WatchTracer{}

func (WatchTracer) Follow(dir string) {
	logging.Trace("watch.follow", map[string]interface{}{"dir": dir})
}

func (WatchTracer) Change(dir string, paths []string) {
	logging.Trace("watch.change", map[string]interface{}{"dir": dir, "paths": paths})
}

func (WatchTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("watch.error", map[string]interface{}{"error": err.Error()})
}
