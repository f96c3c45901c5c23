package events

import "github.com/atomicstack/tmux-popup-path/internal/logging"

type CompletionTracer struct{}

var Completion = CompletionTracer{}

func (CompletionTracer) Classify(raw, resolved, class string) {
	logging.Trace("completion.classify", map[string]interface{}{
		"raw":      raw,
		"resolved": resolved,
		"class":    class,
	})
}

func (CompletionTracer) Regenerate(value string, count int) {
	logging.Trace("completion.regenerate", map[string]interface{}{"value": value, "count": count})
}
