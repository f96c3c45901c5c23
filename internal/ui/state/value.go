package state

import (
	"os"
	"unicode"
)

// SetValue replaces the typed value, places the input cursor and refilters.
// It reports whether the value changed.
func (l *List) SetValue(value string, cursor int) bool {
	changed := value != l.Value
	l.Value = value
	runes := []rune(value)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	l.ValueCursor = cursor
	if changed {
		l.applyFilter()
		// an empty query has no best match; the restored highlight stands
		if matchQuery(value) != "" {
			if idx := BestMatchIndex(l.Items, l.Value); idx >= 0 {
				l.Select(idx)
			}
		}
	}
	return changed
}

// ValueCursorPos returns the rune offset of the input cursor.
func (l *List) ValueCursorPos() int {
	runes := []rune(l.Value)
	if l.ValueCursor < 0 {
		return 0
	}
	if l.ValueCursor > len(runes) {
		return len(runes)
	}
	return l.ValueCursor
}

// InsertText inserts text at the input cursor.
func (l *List) InsertText(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(l.Value)
	pos := l.ValueCursorPos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	return l.SetValue(string(updated), pos+len(insert))
}

// DeleteRuneBackward deletes the rune before the input cursor.
func (l *List) DeleteRuneBackward() bool {
	runes := []rune(l.Value)
	pos := l.ValueCursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	updated := append(runes[:pos-1:pos-1], runes[pos:]...)
	return l.SetValue(string(updated), pos-1)
}

// DeleteWordBackward deletes the path segment preceding the cursor,
// keeping the separator in front of it.
func (l *List) DeleteWordBackward() bool {
	runes := []rune(l.Value)
	pos := l.ValueCursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	i := wordStart(runes, pos)
	updated := append(runes[:i:i], runes[pos:]...)
	return l.SetValue(string(updated), i)
}

// Clear deletes everything before the input cursor.
func (l *List) Clear() bool {
	runes := []rune(l.Value)
	pos := l.ValueCursorPos()
	if pos == 0 {
		return false
	}
	return l.SetValue(string(runes[pos:]), 0)
}

// MoveValueCursorStart moves the input cursor to the start.
func (l *List) MoveValueCursorStart() bool {
	if l.ValueCursorPos() == 0 {
		return false
	}
	l.ValueCursor = 0
	return true
}

// MoveValueCursorEnd moves the input cursor to the end.
func (l *List) MoveValueCursorEnd() bool {
	end := len([]rune(l.Value))
	if l.ValueCursorPos() == end {
		return false
	}
	l.ValueCursor = end
	return true
}

// MoveValueCursorWordBackward moves the input cursor to the start of the
// previous path segment.
func (l *List) MoveValueCursorWordBackward() bool {
	runes := []rune(l.Value)
	pos := l.ValueCursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	i := wordStart(runes, pos)
	if i == pos {
		return false
	}
	l.ValueCursor = i
	return true
}

// MoveValueCursorWordForward moves the input cursor past the next path
// segment.
func (l *List) MoveValueCursorWordForward() bool {
	runes := []rune(l.Value)
	pos := l.ValueCursorPos()
	if pos >= len(runes) {
		return false
	}
	i := pos
	for i < len(runes) && isWordBreak(runes[i]) {
		i++
	}
	for i < len(runes) && !isWordBreak(runes[i]) {
		i++
	}
	if i == pos {
		return false
	}
	l.ValueCursor = i
	return true
}

// MoveValueCursorRuneBackward moves the input cursor one rune backward.
func (l *List) MoveValueCursorRuneBackward() bool {
	if l.ValueCursorPos() == 0 {
		return false
	}
	l.ValueCursor = l.ValueCursorPos() - 1
	return true
}

// MoveValueCursorRuneForward moves the input cursor one rune forward.
func (l *List) MoveValueCursorRuneForward() bool {
	pos := l.ValueCursorPos()
	if pos >= len([]rune(l.Value)) {
		return false
	}
	l.ValueCursor = pos + 1
	return true
}

func wordStart(runes []rune, pos int) int {
	i := pos
	for i > 0 && isWordBreak(runes[i-1]) {
		i--
	}
	for i > 0 && !isWordBreak(runes[i-1]) {
		i--
	}
	return i
}

func isWordBreak(r rune) bool {
	return unicode.IsSpace(r) || r == '/' || r == os.PathSeparator
}
