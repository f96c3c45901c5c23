package ui

import (
	"fmt"

	"github.com/atomicstack/tmux-popup-path/internal/backend"
	"github.com/atomicstack/tmux-popup-path/internal/picker"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.watcher != nil {
		return waitForBackendEvent(m.watcher)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.watcher = nil
	return nil
}

func (m *Model) applyBackendEvent(evt backend.Event) {
	if evt.Err != nil {
		m.errMsg = "watch: " + evt.Err.Error()
		return
	}
	if m.watcher == nil || evt.Dir == "" || evt.Dir != m.watcher.Dir() {
		return
	}
	// the value is unchanged, but the listing behind it is not
	m.setInfo(fmt.Sprintf("%d change(s) in %s", len(evt.Paths), evt.Dir))
	m.Emit(picker.EventValueChanged)
}

// followListingDir points the watcher at the directory the current value
// lists.
func (m *Model) followListingDir() {
	if m.watcher == nil || m.listingDir == nil {
		return
	}
	dir, ok := m.listingDir(m.list.Value)
	if !ok {
		dir = ""
	}
	if err := m.watcher.Follow(dir); err != nil {
		m.errMsg = "watch: " + err.Error()
	}
}
