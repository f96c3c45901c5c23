package events

import "github.com/atomicstack/tmux-popup-path/internal/logging"

type InputTracer struct{}

type ListTracer struct{}

var (
	Input = InputTracer{}
	List  = ListTracer{}
)

func (InputTracer) Cleared() {
	logging.Trace("input.clear", nil)
}

func (InputTracer) WordBackspace(value string) {
	logging.Trace("input.word-backspace", map[string]interface{}{"value": value})
}

func (InputTracer) Cursor(pos int) {
	logging.Trace("input.cursor", map[string]interface{}{"cursor": pos})
}

func (InputTracer) CursorWord(pos int) {
	logging.Trace("input.cursor-word", map[string]interface{}{"cursor": pos})
}

func (InputTracer) Append(value string) {
	logging.Trace("input.append", map[string]interface{}{"value": value})
}

func (InputTracer) Backspace(value string) {
	logging.Trace("input.backspace", map[string]interface{}{"value": value})
}

func (InputTracer) Complete(value string) {
	logging.Trace("input.complete", map[string]interface{}{"value": value})
}

func (ListTracer) Cursor(cursor int, label string) {
	logging.Trace("list.cursor", map[string]interface{}{"cursor": cursor, "label": label})
}

func (ListTracer) Items(total, visible int) {
	logging.Trace("list.items", map[string]interface{}{"total": total, "visible": visible})
}
