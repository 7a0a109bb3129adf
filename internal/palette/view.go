package palette

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivedit/riv/internal/styles"
)

// keyChipWidth is the fixed width of the key-binding chip column, wide
// enough for "shift+tab" plus the KeyHint style's own padding.
const keyChipWidth = 12

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.Primary).
			Background(styles.BgSecondary).
			Padding(1, 2)

	queryStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary).
			Background(styles.BgTertiary).
			Padding(0, 1).
			MarginBottom(1)

	sectionKeymap = lipgloss.NewStyle().
			Foreground(styles.Primary).
			Bold(true).
			PaddingLeft(1).
			MarginTop(1)

	sectionServer = lipgloss.NewStyle().
			Foreground(styles.Secondary).
			Bold(true).
			PaddingLeft(1).
			MarginTop(1)

	sectionGlobal = lipgloss.NewStyle().
			Foreground(styles.TextSubtle).
			PaddingLeft(1).
			MarginTop(1)

	rowStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	rowSelectedStyle = lipgloss.NewStyle().
				Foreground(styles.TextPrimary).
				Background(styles.BgTertiary)

	nameStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary).
			Width(20)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	matchStyle = lipgloss.NewStyle().
			Foreground(styles.Primary).
			Bold(true)
)

// sectionGlyph prefixes each layer's rows so the source of a command is
// legible even once the key-binding chip is empty (most language-server
// commands have no bound key).
func sectionGlyph(l Layer) string {
	switch l {
	case LayerCurrentMode:
		return "⌨"
	case LayerLanguageServer:
		return "λ"
	default:
		return "·"
	}
}

// row is one rendered line: either a section header or a command entry.
type row struct {
	header     bool
	layer      Layer
	entry      *PaletteEntry
	entryIndex int
}

// View renders the command palette: a search input, a context-toggle
// line, then the filtered entries grouped by source layer.
func (m Model) View() string {
	m.mouseHandler.Clear()

	width := min(80, m.width-4)
	if width < 40 {
		width = 40
	}
	innerWidth := width - 4

	var b strings.Builder
	b.WriteString(m.renderSearchLine(innerWidth))
	b.WriteString("\n")
	b.WriteString(m.renderContextLine(innerWidth))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", innerWidth))
	b.WriteString("\n")

	rows := m.buildRows()
	visFrom, visTo := m.visibleEntryRange()

	lineY := 3
	if m.offset > 0 {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("  ↑ %d more above", m.offset)))
		b.WriteString("\n")
		lineY++
	}

	for _, r := range rows {
		if r.header {
			if m.sectionVisible(r.layer, visFrom, visTo) {
				b.WriteString(m.renderSectionHeader(r.layer))
				b.WriteString("\n")
				lineY++
			}
			continue
		}
		if r.entryIndex < visFrom || r.entryIndex >= visTo {
			continue
		}
		b.WriteString(m.renderEntryRow(*r.entry, r.entryIndex == m.cursor, width-4))
		b.WriteString("\n")
		m.mouseHandler.HitMap.AddRect(regionPaletteEntry, 0, lineY, width, 1, r.entryIndex)
		lineY++
	}

	if rem := len(m.filtered) - visTo; rem > 0 {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("  ↓ %d more below", rem)))
		b.WriteString("\n")
	}

	if len(m.filtered) == 0 {
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render("No matching commands"))
		b.WriteString("\n")
	}

	content := strings.TrimRight(b.String(), "\n")
	return frameStyle.Width(width).Render(content)
}

func (m Model) renderSearchLine(innerWidth int) string {
	prompt := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render(">")
	escChip := styles.KeyHint.Render("esc")
	fieldWidth := innerWidth - lipgloss.Width(prompt) - lipgloss.Width(escChip) - 3
	field := lipgloss.NewStyle().Width(fieldWidth).Render(m.textInput.View())
	return fmt.Sprintf("%s %s %s", prompt, field, escChip)
}

func (m Model) renderContextLine(innerWidth int) string {
	var context string
	if m.showAllContexts {
		context = styles.BarChip.Render("All Contexts")
	} else {
		context = styles.BarChip.Render(m.activeContext)
	}
	count := styles.Muted.Render(fmt.Sprintf("%d shown", len(m.filtered)))
	toggle := styles.Muted.Render("tab to toggle")
	left := fmt.Sprintf("%s  %s", context, toggle)
	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(count)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + count
}

// buildRows flattens the filtered entries into section-header and
// entry rows in display order.
func (m Model) buildRows() []row {
	groups := GroupEntriesByLayer(m.filtered)
	order := []Layer{LayerCurrentMode, LayerLanguageServer, LayerGlobal}

	var rows []row
	idx := 0
	for _, l := range order {
		entries := groups[l]
		if len(entries) == 0 {
			continue
		}
		rows = append(rows, row{header: true, layer: l})
		for i := range entries {
			rows = append(rows, row{entry: &entries[i], entryIndex: idx})
			idx++
		}
	}
	return rows
}

func (m Model) visibleEntryRange() (from, to int) {
	from = m.offset
	to = m.offset + m.maxVisible
	if to > len(m.filtered) {
		to = len(m.filtered)
	}
	return from, to
}

func (m Model) sectionVisible(l Layer, visFrom, visTo int) bool {
	groups := GroupEntriesByLayer(m.filtered)
	order := []Layer{LayerCurrentMode, LayerLanguageServer, LayerGlobal}
	idx := 0
	for _, cur := range order {
		n := len(groups[cur])
		if cur == l {
			return idx < visTo && idx+n > visFrom
		}
		idx += n
	}
	return false
}

func (m Model) renderSectionHeader(l Layer) string {
	groups := GroupEntriesByLayer(m.filtered)
	count := len(groups[l])
	switch l {
	case LayerCurrentMode:
		return sectionKeymap.Render(fmt.Sprintf("%s %s (%d)", sectionGlyph(l), strings.ToUpper(m.activeContext), count))
	case LayerLanguageServer:
		return sectionServer.Render(fmt.Sprintf("%s %s (%d)", sectionGlyph(l), strings.ToUpper(m.serverContext), count))
	default:
		return sectionGlobal.Render(fmt.Sprintf("%s GLOBAL (%d)", sectionGlyph(l), count))
	}
}

func (m Model) renderEntryRow(entry PaletteEntry, selected bool, maxWidth int) string {
	key := styles.KeyHint.Render(entry.Key)
	if w := lipgloss.Width(key); w < keyChipWidth {
		key += strings.Repeat(" ", keyChipWidth-w)
	}

	name := nameStyle.Render(highlightMatches(entry.Name, entry.MatchRanges))

	desc := entry.Description
	if entry.ContextCount > 1 {
		desc = fmt.Sprintf("%s (%d contexts)", desc, entry.ContextCount)
	}
	descWidth := maxWidth - keyChipWidth - 20 - 4
	if descWidth > 3 && len(desc) > descWidth {
		desc = desc[:descWidth-3] + "..."
	}

	line := fmt.Sprintf("  %s %s %s", key, name, descStyle.Render(desc))
	padded := lipgloss.NewStyle().Width(maxWidth).Render(line)
	if selected {
		return rowSelectedStyle.Width(maxWidth).Render(padded)
	}
	return rowStyle.Render(padded)
}

// highlightMatches re-renders text with matchStyle applied over each
// fuzzy-matched span.
func highlightMatches(text string, ranges []MatchRange) string {
	if len(ranges) == 0 {
		return text
	}
	var out strings.Builder
	last := 0
	for _, r := range ranges {
		if r.Start > last {
			out.WriteString(text[last:r.Start])
		}
		if r.End <= len(text) {
			out.WriteString(matchStyle.Render(text[r.Start:r.End]))
		}
		last = r.End
	}
	if last < len(text) {
		out.WriteString(text[last:])
	}
	return out.String()
}
