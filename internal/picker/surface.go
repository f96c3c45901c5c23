package picker

import (
	"fmt"

	"github.com/atomicstack/tmux-popup-path/internal/completion"
)

// EventKind names the events a Surface raises.
type EventKind int

const (
	// EventValueChanged fires after the typed value changes.
	EventValueChanged EventKind = iota
	// EventAccept fires when the user confirms the current selection.
	EventAccept
	// EventHidden fires once, after the surface stops being visible for any
	// reason.
	EventHidden
)

func (k EventKind) String() string {
	switch k {
	case EventValueChanged:
		return "value-changed"
	case EventAccept:
		return "accept"
	case EventHidden:
		return "hidden"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Subscription is a registered event handler. Close may be called any
// number of times.
type Subscription interface {
	Close()
}

// Surface is an interactive list with a free-text value. Implementations
// embed a Dispatcher to satisfy Subscribe and raise their events through it.
type Surface interface {
	Value() string
	// SetValue replaces the typed value and raises EventValueChanged when it
	// differs from the previous one.
	SetValue(value string)
	SetItems(items []completion.Candidate)
	Items() []completion.Candidate
	// SelectedItems returns the highlighted candidates, top first.
	SelectedItems() []completion.Candidate
	SetMultiSelect(enabled bool)
	SetTitle(title string)
	SetPlaceholder(placeholder string)
	Subscribe(kind EventKind, handler func()) Subscription
	Show()
	Hide()
	Dispose()
}

// SurfaceFactory creates a fresh surface for one session.
type SurfaceFactory func() Surface
