package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/tmux-popup-path/internal/completion"
	"github.com/atomicstack/tmux-popup-path/internal/format/table"
	"github.com/atomicstack/tmux-popup-path/internal/theme"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// labelShare is the fraction of the row width the label column may take
// before it is truncated.
const labelShare = 0.65

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]styledLine, 0, 16)
	if title := strings.TrimSpace(m.list.Title); title != "" {
		lines = append(lines, styledLine{text: title, style: styles.Header})
	}
	m.syncViewport()
	if len(m.list.Items) == 0 {
		msg := "(no candidates)"
		if m.list.Value != "" {
			msg = fmt.Sprintf("No candidates for %q", m.list.Value)
		}
		lines = append(lines, styledLine{text: msg, style: styles.Info})
	} else {
		lines = append(lines, m.itemLines()...)
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: m.footerText(), style: styles.Footer})
	}
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)

	var statusLine styledLine
	if m.errMsg != "" {
		statusLine = styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	}
	bottomLines := applyWidth([]styledLine{statusLine}, m.width)
	bottomLines = append(bottomLines, m.promptLine())
	lines = append(lines, bottomLines...)
	return renderLines(lines)
}

// itemLines renders the visible window of candidates as aligned
// label/detail rows.
func (m *Model) itemLines() []styledLine {
	start := 0
	display := m.list.Items
	if maxItems := m.maxVisibleItems(); maxItems > 0 && len(display) > maxItems {
		start = m.list.Top
		if start < 0 {
			start = 0
		}
		if start+maxItems > len(display) {
			start = len(display) - maxItems
			if start < 0 {
				start = 0
			}
			m.list.Top = start
		}
		display = display[start : start+maxItems]
	}
	rows := make([][]string, len(display))
	for i, item := range display {
		rows[i] = []string{item.Label, item.Detail}
	}
	var limits []int
	if m.width > 0 {
		// indicator, space, glyph, space
		if avail := m.width - 4; avail > 0 {
			limits = []int{int(float64(avail) * labelShare)}
		}
	}
	cells := table.FormatLimited(rows, nil, limits)
	out := make([]styledLine, len(display))
	for i, item := range display {
		out[i] = m.buildItemLine(item, cells[i], start+i)
	}
	return out
}

func (m *Model) buildItemLine(item completion.Candidate, cell string, idx int) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if idx == m.list.Highlight {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := indicator + " " + theme.Glyph(item.Kind) + " " + cell
	if m.width > 0 {
		if pad := m.width - table.Width(fullText); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1, // just the ▌ character
	}
}

func (m *Model) promptLine() styledLine {
	prompt := m.inputPrompt()
	if m.width > 0 && lipgloss.Width(prompt) > m.width {
		prompt = truncate.StringWithTail(prompt, uint(m.width-1), "…")
	}
	return styledLine{text: prompt, raw: true}
}

func (m *Model) footerText() string {
	parts := make([]string, 0, 4)
	for _, b := range m.keys.footerBindings() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.syncViewport()
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := 2 // bottom bar: error/status + input prompt
	if strings.TrimSpace(m.list.Title) != "" {
		used++
	}
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		line.text = text
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

// truncateText trims text to width terminal columns.
func truncateText(text string, width int) string {
	if width <= 0 || table.Width(text) <= width {
		return text
	}
	if width == 1 {
		return string([]rune(text)[:1])
	}
	return truncate.StringWithTail(text, uint(width-1), "") + "…"
}
