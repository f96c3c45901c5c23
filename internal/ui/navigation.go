package ui

import (
	"github.com/atomicstack/tmux-popup-path/internal/logging/events"
	"github.com/atomicstack/tmux-popup-path/internal/picker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	up       key.Binding
	down     key.Binding
	pageUp   key.Binding
	pageDown key.Binding
	home     key.Binding
	end      key.Binding
	complete key.Binding
	accept   key.Binding
	cancel   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑/↓", "move")),
		down:     key.NewBinding(key.WithKeys("down", "ctrl+n")),
		pageUp:   key.NewBinding(key.WithKeys("pgup")),
		pageDown: key.NewBinding(key.WithKeys("pgdown")),
		home:     key.NewBinding(key.WithKeys("home")),
		end:      key.NewBinding(key.WithKeys("end")),
		complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		accept:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/accept")),
		cancel:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// footerBindings lists the bindings shown in the hint row, in order.
func (k keyMap) footerBindings() []key.Binding {
	return []key.Binding{k.up, k.complete, k.accept, k.cancel}
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.cancel):
		m.Hide()
		return nil
	case key.Matches(keyMsg, m.keys.accept):
		m.Emit(picker.EventAccept)
		return nil
	case key.Matches(keyMsg, m.keys.complete):
		m.completeSelection()
		return nil
	case key.Matches(keyMsg, m.keys.up):
		m.moveCursor(m.list.Move(-1))
		return nil
	case key.Matches(keyMsg, m.keys.down):
		m.moveCursor(m.list.Move(1))
		return nil
	case key.Matches(keyMsg, m.keys.pageUp):
		m.moveCursor(m.list.Page(-1, m.maxVisibleItems()))
		return nil
	case key.Matches(keyMsg, m.keys.pageDown):
		m.moveCursor(m.list.Page(1, m.maxVisibleItems()))
		return nil
	case key.Matches(keyMsg, m.keys.home):
		m.moveCursor(m.list.First())
		return nil
	case key.Matches(keyMsg, m.keys.end):
		m.moveCursor(m.list.Last())
		return nil
	}
	m.handleTextInput(keyMsg)
	return nil
}

func (m *Model) moveCursor(moved bool) {
	if !moved {
		return
	}
	m.syncViewport()
	if item, ok := m.list.Selected(); ok {
		events.List.Cursor(m.list.Highlight, item.Label)
	}
}
