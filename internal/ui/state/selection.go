package state

// The highlight remembers the label it last rested on, so narrowing or
// widening the filter keeps the same candidate highlighted while it is
// still listed.

// Select highlights the item at index, clamped to the list, and reports
// whether the highlight moved.
func (l *List) Select(index int) bool {
	if len(l.Items) == 0 {
		l.Highlight = 0
		return false
	}
	old := l.Highlight
	l.Highlight = clamp(index, 0, len(l.Items)-1)
	l.selected = l.Items[l.Highlight].Label
	return l.Highlight != old
}

// Move shifts the highlight by delta rows.
func (l *List) Move(delta int) bool {
	return l.Select(max(l.Highlight, 0) + delta)
}

// Page shifts the highlight by whole screens of rows visible rows each.
// Negative pages move up.
func (l *List) Page(pages, rows int) bool {
	if rows <= 0 || rows > len(l.Items) {
		rows = len(l.Items)
	}
	return l.Move(pages * rows)
}

// First highlights the top item.
func (l *List) First() bool { return l.Select(0) }

// Last highlights the bottom item.
func (l *List) Last() bool { return l.Select(len(l.Items) - 1) }

// ScrollTo moves the window of rows visible items so the highlight is
// inside it.
func (l *List) ScrollTo(rows int) {
	l.Highlight = clamp(l.Highlight, 0, max(len(l.Items)-1, 0))
	if rows <= 0 || len(l.Items) <= rows {
		l.Top = 0
		return
	}
	top := clamp(l.Top, 0, len(l.Items)-rows)
	switch {
	case l.Highlight < top:
		top = l.Highlight
	case l.Highlight >= top+rows:
		top = l.Highlight - rows + 1
	}
	l.Top = top
}

// restoreSelection puts the highlight back on the remembered label after
// Items changed, or keeps it in range when that label is gone. The memory
// survives so the label is found again once it reappears.
func (l *List) restoreSelection() {
	if l.selected != "" {
		for i, item := range l.Items {
			if item.Label == l.selected {
				l.Highlight = i
				return
			}
		}
	}
	l.Highlight = clamp(l.Highlight, 0, max(len(l.Items)-1, 0))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
