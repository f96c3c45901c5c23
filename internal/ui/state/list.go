package state

import "github.com/atomicstack/tmux-popup-path/internal/completion"

// List holds everything the surface renders: the candidates it was given,
// the subset the typed value narrows them to, the value itself with its
// input cursor, and the highlighted row with the first visible row.
type List struct {
	Title       string
	Placeholder string
	Full        []completion.Candidate
	Items       []completion.Candidate
	Value       string
	ValueCursor int
	Highlight   int
	Top         int
	MultiSelect bool

	selected string
}

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

// CloneItems produces a shallow copy of the provided candidates.
func CloneItems(items []completion.Candidate) []completion.Candidate {
	dup := make([]completion.Candidate, len(items))
	copy(dup, items)
	return dup
}

// SetItems replaces the candidates wholesale and highlights the best match
// for the current value.
func (l *List) SetItems(items []completion.Candidate) {
	l.Full = CloneItems(items)
	l.Items = FilterItems(l.Full, l.Value)
	l.Top = 0
	l.Select(max(BestMatchIndex(l.Items, l.Value), 0))
}

// Selected returns the highlighted candidate.
func (l *List) Selected() (completion.Candidate, bool) {
	if l.Highlight < 0 || l.Highlight >= len(l.Items) {
		return completion.Candidate{}, false
	}
	return l.Items[l.Highlight], true
}

// SelectedItems returns the highlighted candidates, top first. Only single
// selection is supported, so there is at most one.
func (l *List) SelectedItems() []completion.Candidate {
	item, ok := l.Selected()
	if !ok {
		return nil
	}
	return []completion.Candidate{item}
}

func (l *List) applyFilter() {
	l.Items = FilterItems(l.Full, l.Value)
	l.restoreSelection()
	if l.Top >= len(l.Items) {
		l.Top = 0
	}
}
