package events

import "github.com/atomicstack/tmux-popup-path/internal/logging"

type DeliverTracer struct{}

var Deliver = DeliverTracer{}

func (DeliverTracer) Send(mode, target, value string) {
	logging.Trace("deliver.send", map[string]interface{}{"mode": mode, "target": target, "value": value})
}

func (DeliverTracer) Error(mode string, err error) {
	if err == nil {
		return
	}
	logging.Trace("deliver.error", map[string]interface{}{"mode": mode, "error": err.Error()})
}
