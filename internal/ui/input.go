package ui

import (
	"unicode"

	"github.com/atomicstack/tmux-popup-path/internal/logging/events"
	"github.com/atomicstack/tmux-popup-path/internal/picker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateValueCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.valueCursor, cmd = m.valueCursor.Update(msg)
	return cmd
}

func (m *Model) noteValueCursorChange(before int) {
	if before != m.list.ValueCursorPos() {
		m.valueCursorDirty = true
	}
}

// valueEdited finishes any edit that changed the typed value.
func (m *Model) valueEdited(before int) {
	m.noteValueCursorChange(before)
	m.forceClearInfo()
	m.errMsg = ""
	m.syncViewport()
	m.Emit(picker.EventValueChanged)
}

func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	l := m.list
	switch msg.String() {
	case "ctrl+u":
		before := l.ValueCursorPos()
		if !l.Clear() {
			return false
		}
		events.Input.Cleared()
		m.valueEdited(before)
		return true
	case "ctrl+w", "alt+backspace":
		before := l.ValueCursorPos()
		if !l.DeleteWordBackward() {
			return false
		}
		events.Input.WordBackspace(l.Value)
		m.valueEdited(before)
		return true
	case "ctrl+a":
		before := l.ValueCursorPos()
		if !l.MoveValueCursorStart() {
			return false
		}
		m.noteValueCursorChange(before)
		events.Input.Cursor(l.ValueCursor)
		return true
	case "ctrl+e":
		before := l.ValueCursorPos()
		if !l.MoveValueCursorEnd() {
			return false
		}
		m.noteValueCursorChange(before)
		events.Input.Cursor(l.ValueCursor)
		return true
	case "alt+b":
		before := l.ValueCursorPos()
		if !l.MoveValueCursorWordBackward() {
			return false
		}
		m.noteValueCursorChange(before)
		events.Input.CursorWord(l.ValueCursor)
		return true
	case "alt+f":
		before := l.ValueCursorPos()
		if !l.MoveValueCursorWordForward() {
			return false
		}
		m.noteValueCursorChange(before)
		events.Input.CursorWord(l.ValueCursor)
		return true
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		before := l.ValueCursorPos()
		if !l.DeleteRuneBackward() {
			return false
		}
		events.Input.Backspace(l.Value)
		m.valueEdited(before)
		return true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		return m.appendToValue(string(msg.Runes))
	case tea.KeySpace:
		return m.appendToValue(" ")
	case tea.KeyLeft:
		before := l.ValueCursorPos()
		if !l.MoveValueCursorRuneBackward() {
			return false
		}
		m.noteValueCursorChange(before)
		events.Input.Cursor(l.ValueCursor)
		return true
	case tea.KeyRight:
		before := l.ValueCursorPos()
		if !l.MoveValueCursorRuneForward() {
			return false
		}
		m.noteValueCursorChange(before)
		events.Input.Cursor(l.ValueCursor)
		return true
	}
	return false
}

func (m *Model) appendToValue(text string) bool {
	before := m.list.ValueCursorPos()
	if !m.list.InsertText(text) {
		return false
	}
	events.Input.Append(m.list.Value)
	m.valueEdited(before)
	return true
}

// completeSelection copies the highlighted label into the value without
// accepting it.
func (m *Model) completeSelection() bool {
	item, ok := m.list.Selected()
	if !ok || item.Label == m.list.Value {
		return false
	}
	before := m.list.ValueCursorPos()
	m.list.SetValue(item.Label, len([]rune(item.Label)))
	events.Input.Complete(item.Label)
	m.valueEdited(before)
	return true
}

func (m *Model) inputPrompt() string {
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.valueCursor.Style = styles.Cursor.Copy()
	}
	if styles.Input != nil {
		m.valueCursor.TextStyle = styles.Input.Copy()
	} else {
		m.valueCursor.TextStyle = lipgloss.Style{}
	}
	prompt := "» "
	if styles.InputPrompt != nil {
		prompt = styles.InputPrompt.Render(prompt)
	}
	text := m.list.Value
	if text == "" {
		placeholder := m.list.Placeholder
		if placeholder == "" {
			placeholder = "(type a path)"
		}
		runes := []rune(placeholder)
		caretRune := string(runes[0])
		rest := string(runes[1:])
		if styles.InputPlaceholder != nil {
			m.valueCursor.TextStyle = styles.InputPlaceholder.Copy()
		}
		return prompt + m.renderValueCursor(caretRune) + render(styles.InputPlaceholder, rest)
	}
	runes := []rune(text)
	pos := m.list.ValueCursorPos()
	before := render(styles.Input, string(runes[:pos]))
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Input, string(runes[pos+1:]))
	}
	return prompt + before + m.renderValueCursor(caretRune) + after
}

func (m *Model) renderValueCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.valueCursor.SetChar(char)

	base := m.valueCursor.TextStyle.Copy().Inline(true)
	if m.valueCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		return base.Inherit(cursorStyle).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
