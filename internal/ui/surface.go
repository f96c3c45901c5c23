package ui

import (
	"errors"

	"github.com/atomicstack/tmux-popup-path/internal/completion"
	"github.com/atomicstack/tmux-popup-path/internal/logging"
	"github.com/atomicstack/tmux-popup-path/internal/logging/events"
	"github.com/atomicstack/tmux-popup-path/internal/picker"
	uistate "github.com/atomicstack/tmux-popup-path/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

var _ picker.Surface = (*Model)(nil)

// runProgram drives the model until it quits. A kill is a normal exit; a
// recovered panic is not. Tests swap it for a headless driver.
var runProgram = func(m *Model, opts []tea.ProgramOption) error {
	p := tea.NewProgram(m, opts...)
	m.mu.Lock()
	m.program = p
	m.mu.Unlock()
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, tea.ErrProgramPanic) {
		return nil
	}
	return err
}

// Value returns the typed value.
func (m *Model) Value() string {
	return m.list.Value
}

// SetValue replaces the typed value, moves the input cursor to its end and
// raises value-changed when it differs.
func (m *Model) SetValue(value string) {
	before := m.list.ValueCursorPos()
	if !m.list.SetValue(value, len([]rune(value))) {
		m.noteValueCursorChange(before)
		return
	}
	m.noteValueCursorChange(before)
	m.syncViewport()
	m.Emit(picker.EventValueChanged)
}

// SetItems replaces the candidates.
func (m *Model) SetItems(items []completion.Candidate) {
	m.list.SetItems(items)
	m.syncViewport()
	events.List.Items(len(m.list.Full), len(m.list.Items))
	m.followListingDir()
}

// Items returns every candidate last set, unfiltered.
func (m *Model) Items() []completion.Candidate {
	return uistate.CloneItems(m.list.Full)
}

// SelectedItems returns the highlighted candidate, if any.
func (m *Model) SelectedItems() []completion.Candidate {
	return m.list.SelectedItems()
}

// SetMultiSelect records the requested mode. Only single selection is
// rendered.
func (m *Model) SetMultiSelect(enabled bool) {
	m.list.MultiSelect = enabled
}

func (m *Model) SetTitle(title string) {
	m.list.Title = title
}

func (m *Model) SetPlaceholder(placeholder string) {
	m.list.Placeholder = placeholder
}

// Show starts the program on its own goroutine. The hidden event is raised
// once the program exits, whatever the reason.
func (m *Model) Show() {
	m.mu.Lock()
	if m.shown || m.disposed {
		m.mu.Unlock()
		return
	}
	m.shown = true
	if m.quitting.Load() {
		m.mu.Unlock()
		m.Emit(picker.EventHidden)
		return
	}
	m.running = true
	opts := m.programOptions
	m.mu.Unlock()

	go func() {
		err := runProgram(m, opts)
		if err != nil {
			logging.Error(err)
		}
		m.mu.Lock()
		m.running = false
		m.program = nil
		m.err = err
		m.mu.Unlock()
		m.Emit(picker.EventHidden)
	}()
}

// Hide asks the program to exit. From inside Update the quit is returned
// as the update's command; from elsewhere it is sent to the program.
func (m *Model) Hide() {
	m.quitting.Store(true)
	if m.inUpdate.Load() {
		return
	}
	m.mu.Lock()
	p := m.program
	m.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

// Dispose releases the surface. The model cannot be shown again.
func (m *Model) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	m.mu.Unlock()
	if m.watcher != nil {
		_ = m.watcher.Follow("")
	}
}

// Err reports why the program stopped, if it failed.
func (m *Model) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Disposed reports whether Dispose has run.
func (m *Model) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}
