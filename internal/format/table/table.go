// Package table lays out rows of cells in aligned columns, measuring cells
// in terminal columns rather than bytes or runes.
package table

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const (
	gap      = "  "
	ellipsis = "…"
)

// Format returns the rows padded according to the widest entry in each column.
func Format(rows [][]string, alignments []Alignment) []string {
	return FormatLimited(rows, alignments, nil)
}

// FormatLimited behaves like Format but caps each column at the matching
// entry of limits; a zero or missing limit leaves the column unbounded.
// Cells wider than their cap are truncated with an ellipsis.
func FormatLimited(rows [][]string, alignments []Alignment, limits []int) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	cells := make([][]string, len(rows))
	widths := make([]int, colCount)
	for r, row := range rows {
		cells[r] = make([]string, colCount)
		for c := 0; c < colCount; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			if c < len(limits) && limits[c] > 0 && runewidth.StringWidth(cell) > limits[c] {
				cell = runewidth.Truncate(cell, limits[c], ellipsis)
			}
			cells[r][c] = cell
			if w := runewidth.StringWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	out := make([]string, len(rows))
	for i, row := range cells {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString(gap)
			}
			pad := widths[c] - runewidth.StringWidth(cell)
			// trailing padding on the last left-aligned column is noise
			last := c == len(row)-1
			if c < len(alignments) && alignments[c] == AlignRight {
				writeSpaces(&b, pad)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				if !last {
					writeSpaces(&b, pad)
				}
			}
		}
		out[i] = b.String()
	}
	return out
}

// Width returns the display width of text in terminal columns.
func Width(text string) int {
	return runewidth.StringWidth(text)
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	b.WriteString(strings.Repeat(" ", count))
}
