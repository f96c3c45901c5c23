package events

import "github.com/atomicstack/tmux-popup-path/internal/logging"

type SessionTracer struct{}

type sessionReason string

const (
	SessionReasonAccepted  sessionReason = "accepted"
	SessionReasonCancelled sessionReason = "cancelled"
)

var Session = SessionTracer{}

func (SessionTracer) Show(value string) {
	logging.Trace("session.show", map[string]interface{}{"value": value})
}

func (SessionTracer) Transition(from, to string) {
	logging.Trace("session.state", map[string]interface{}{"from": from, "to": to})
}

func (SessionTracer) Refine(from, to string) {
	logging.Trace("session.refine", map[string]interface{}{"from": from, "to": to})
}

func (SessionTracer) Accept(value string) {
	logging.Trace("session.accept", map[string]interface{}{"value": value})
}

func (SessionTracer) Hide(accepted bool) {
	logging.Trace("session.hide", map[string]interface{}{"accepted": accepted})
}

func (SessionTracer) Outcome(value string, reason sessionReason) {
	logging.Trace("session.outcome", map[string]interface{}{"value": value, "reason": string(reason)})
}
